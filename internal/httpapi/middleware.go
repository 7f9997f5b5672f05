package httpapi

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/orderhub/order-service/internal/auth"
	apierrors "github.com/orderhub/order-service/internal/shared/errors"
)

const principalContextKey = "httpapi.principal"

// Guard enforces authentication and role policy on API routes.
type Guard struct {
	verifier *auth.TokenVerifier
	policy   auth.Policy
}

// NewGuard builds a guard from a verifier and a role policy.
func NewGuard(verifier *auth.TokenVerifier, policy auth.Policy) *Guard {
	return &Guard{verifier: verifier, policy: policy}
}

// Authenticate extracts and verifies the bearer token, storing the principal
// in the request context. Requests without a valid token are rejected with
// 401 before reaching any handler.
func (g *Guard) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortProblem(c, apierrors.ErrUnauthorized.WithDetail("missing bearer token"))
			return
		}
		principal, err := g.verifier.Verify(token)
		if err != nil {
			detail := "invalid token"
			if errors.Is(err, auth.ErrTokenExpired) {
				detail = "token expired"
			}
			abortProblem(c, apierrors.ErrUnauthorized.WithDetail(detail))
			return
		}
		c.Set(principalContextKey, principal)
		c.Next()
	}
}

// Authorize rejects principals whose roles do not permit the operation.
func (g *Guard) Authorize(op auth.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			abortProblem(c, apierrors.ErrUnauthorized.WithDetail("missing bearer token"))
			return
		}
		if !g.policy.Allows(principal, op) {
			abortProblem(c, apierrors.ErrForbidden.WithDetail("insufficient role"))
			return
		}
		c.Next()
	}
}

// PrincipalFromContext returns the verified principal stored by Authenticate.
func PrincipalFromContext(c *gin.Context) (*auth.Principal, bool) {
	value, exists := c.Get(principalContextKey)
	if !exists {
		return nil, false
	}
	principal, ok := value.(*auth.Principal)
	return principal, ok && principal != nil
}

// bearerToken extracts the credential from an Authorization header. The
// scheme comparison is case-insensitive.
func bearerToken(header string) (string, bool) {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", false
	}
	return token, true
}

func abortProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	responder.Respond(c, problem)
	c.Abort()
}
