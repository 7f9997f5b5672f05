package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func signToken(t *testing.T, secret string, method jwt.SigningMethod, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(method, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":      "user-42",
		"username": "ada",
		"role":     "user",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
}

func TestVerify_ValidToken(t *testing.T) {
	verifier, err := NewTokenVerifier(testSecret)
	require.NoError(t, err)

	principal, err := verifier.Verify(signToken(t, testSecret, jwt.SigningMethodHS256, validClaims()))
	require.NoError(t, err)
	assert.Equal(t, "user-42", principal.Subject)
	assert.Equal(t, "ada", principal.Username)
	assert.Equal(t, []string{"user"}, principal.Roles)
}

func TestVerify_RoleArrayClaim(t *testing.T) {
	verifier, err := NewTokenVerifier(testSecret)
	require.NoError(t, err)

	claims := validClaims()
	claims["role"] = []string{"admin", "service"}
	principal, err := verifier.Verify(signToken(t, testSecret, jwt.SigningMethodHS256, claims))
	require.NoError(t, err)
	assert.Equal(t, []string{"admin", "service"}, principal.Roles)
}

func TestVerify_SubjectFallsBackToIDClaim(t *testing.T) {
	verifier, err := NewTokenVerifier(testSecret)
	require.NoError(t, err)

	claims := validClaims()
	delete(claims, "sub")
	claims["id"] = "legacy-7"
	principal, err := verifier.Verify(signToken(t, testSecret, jwt.SigningMethodHS256, claims))
	require.NoError(t, err)
	assert.Equal(t, "legacy-7", principal.Subject)
}

func TestVerify_MissingSubject(t *testing.T) {
	verifier, err := NewTokenVerifier(testSecret)
	require.NoError(t, err)

	claims := validClaims()
	delete(claims, "sub")
	_, err = verifier.Verify(signToken(t, testSecret, jwt.SigningMethodHS256, claims))
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_Expired(t *testing.T) {
	verifier, err := NewTokenVerifier(testSecret)
	require.NoError(t, err)

	claims := validClaims()
	claims["exp"] = time.Now().Add(-time.Minute).Unix()
	_, err = verifier.Verify(signToken(t, testSecret, jwt.SigningMethodHS256, claims))
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.NotErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_MissingExpiry(t *testing.T) {
	verifier, err := NewTokenVerifier(testSecret)
	require.NoError(t, err)

	claims := validClaims()
	delete(claims, "exp")
	_, err = verifier.Verify(signToken(t, testSecret, jwt.SigningMethodHS256, claims))
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_WrongSecret(t *testing.T) {
	verifier, err := NewTokenVerifier(testSecret)
	require.NoError(t, err)

	_, err = verifier.Verify(signToken(t, "other-secret", jwt.SigningMethodHS256, validClaims()))
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_RejectsNonHS256(t *testing.T) {
	verifier, err := NewTokenVerifier(testSecret)
	require.NoError(t, err)

	_, err = verifier.Verify(signToken(t, testSecret, jwt.SigningMethodHS384, validClaims()))
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_IssuerAndAudience(t *testing.T) {
	verifier, err := NewTokenVerifier(testSecret, WithIssuer("idp"), WithAudience("orders"))
	require.NoError(t, err)

	claims := validClaims()
	claims["iss"] = "idp"
	claims["aud"] = "orders"
	_, err = verifier.Verify(signToken(t, testSecret, jwt.SigningMethodHS256, claims))
	require.NoError(t, err)

	claims["iss"] = "someone-else"
	_, err = verifier.Verify(signToken(t, testSecret, jwt.SigningMethodHS256, claims))
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestNewTokenVerifier_RequiresSecret(t *testing.T) {
	_, err := NewTokenVerifier("  ")
	assert.Error(t, err)
}

func TestHasAnyRole_CaseInsensitive(t *testing.T) {
	p := &Principal{Roles: []string{"Admin"}}
	assert.True(t, p.HasAnyRole("admin"))
	assert.False(t, p.HasAnyRole("user"))

	var nilPrincipal *Principal
	assert.False(t, nilPrincipal.HasAnyRole("admin"))
}

func TestDefaultPolicy(t *testing.T) {
	policy := DefaultPolicy()
	user := &Principal{Subject: "u", Roles: []string{"user"}}
	admin := &Principal{Subject: "a", Roles: []string{"admin"}}

	assert.True(t, policy.Allows(user, OpCreateOrder))
	assert.False(t, policy.Allows(user, OpDeleteOrder))
	assert.True(t, policy.Allows(admin, OpDeleteOrder))
	assert.False(t, policy.Allows(user, Operation("orders:unknown")))
}
