// Package auth verifies bearer credentials and exposes the verified identity
// as an explicit Principal. Nothing here is ambient: the gateway extracts the
// principal once per request and passes it onward as a parameter.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenInvalid covers malformed, badly signed, and claim-deficient tokens.
	ErrTokenInvalid = errors.New("token is invalid")
	// ErrTokenExpired signals the token's lifetime has passed.
	ErrTokenExpired = errors.New("token has expired")
)

// Principal is the verified identity extracted from a bearer token.
type Principal struct {
	Subject  string
	Username string
	Roles    []string
}

// HasAnyRole reports whether the principal carries at least one of the given
// roles, compared case-insensitively.
func (p *Principal) HasAnyRole(roles ...string) bool {
	if p == nil {
		return false
	}
	for _, required := range roles {
		for _, held := range p.Roles {
			if strings.EqualFold(required, held) {
				return true
			}
		}
	}
	return false
}

// TokenVerifier validates HS256-signed tokens against a shared secret.
type TokenVerifier struct {
	secret   []byte
	issuer   string
	audience string
}

type VerifierOption func(*TokenVerifier)

// WithIssuer enables issuer validation.
func WithIssuer(issuer string) VerifierOption {
	return func(v *TokenVerifier) {
		v.issuer = strings.TrimSpace(issuer)
	}
}

// WithAudience enables audience validation.
func WithAudience(audience string) VerifierOption {
	return func(v *TokenVerifier) {
		v.audience = strings.TrimSpace(audience)
	}
}

// NewTokenVerifier builds a verifier. The secret is required; issuer and
// audience checks apply only when configured.
func NewTokenVerifier(secret string, opts ...VerifierOption) (*TokenVerifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("token secret is required")
	}
	v := &TokenVerifier{secret: []byte(secret)}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	return v, nil
}

// tokenClaims mirrors the claim set issued by the identity service: subject
// (with an "id" fallback), a username, and a role claim that may be a single
// string or an array.
type tokenClaims struct {
	jwt.RegisteredClaims
	UserID   string   `json:"id"`
	Username string   `json:"username"`
	Roles    roleList `json:"role"`
}

type roleList []string

func (r *roleList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*r = nil
			return nil
		}
		*r = roleList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*r = roleList(many)
	return nil
}

// Verify checks the token's signature and lifetime and extracts the
// principal. Expiry is reported distinctly from all other failures; there is
// no clock-skew leeway.
func (v *TokenVerifier) Verify(token string) (*Principal, error) {
	claims := &tokenClaims{}
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(v.audience))
	}
	_, err := jwt.ParseWithClaims(token, claims, v.keyFunc, parserOpts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		subject = strings.TrimSpace(claims.UserID)
	}
	if subject == "" {
		return nil, fmt.Errorf("%w: missing subject claim", ErrTokenInvalid)
	}
	return &Principal{
		Subject:  subject,
		Username: strings.TrimSpace(claims.Username),
		Roles:    append([]string(nil), claims.Roles...),
	}, nil
}

func (v *TokenVerifier) keyFunc(_ *jwt.Token) (any, error) {
	return v.secret, nil
}
