package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/orderportal/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-at-least-32-chars"

func newTestVerifier() *JWTVerifier {
	return NewJWTVerifier(config.JWTConfig{Secret: testSecret, Issuer: "test-issuer"})
}

func TestJWTVerifier_RoundTrip(t *testing.T) {
	v := newTestVerifier()
	tenantID := uuid.New().String()

	token, err := v.Sign(NewAccessClaims(tenantID, "user-1", "alice", time.Minute))
	require.NoError(t, err)

	claims, err := v.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, tenantID, claims.TenantID)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "test-issuer", claims.Issuer)
	assert.NotEmpty(t, claims.ID)

	parsed, err := claims.GetTenantUUID()
	require.NoError(t, err)
	assert.Equal(t, tenantID, parsed.String())
}

func TestJWTVerifier_Rejects(t *testing.T) {
	v := newTestVerifier()

	sign := func(t *testing.T, secret string, claims *Claims, method jwt.SigningMethod) string {
		t.Helper()
		tok, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return tok
	}
	withIssuer := func(c *Claims) *Claims {
		c.Issuer = "test-issuer"
		return c
	}

	expired := withIssuer(NewAccessClaims("t", "u", "n", time.Minute))
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	future := withIssuer(NewAccessClaims("t", "u", "n", time.Hour))
	future.NotBefore = jwt.NewNumericDate(time.Now().Add(30 * time.Minute))

	refresh := withIssuer(NewAccessClaims("t", "u", "n", time.Minute))
	refresh.TokenType = TokenTypeRefresh

	otherIssuer := NewAccessClaims("t", "u", "n", time.Minute)
	otherIssuer.Issuer = "someone-else"

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"garbage", "not-a-token", ErrInvalidToken},
		{"wrong secret", sign(t, "another-secret-key-with-32-chars!!", withIssuer(NewAccessClaims("t", "u", "n", time.Minute)), jwt.SigningMethodHS256), ErrInvalidToken},
		{"wrong algorithm", sign(t, testSecret, withIssuer(NewAccessClaims("t", "u", "n", time.Minute)), jwt.SigningMethodHS512), ErrInvalidToken},
		{"expired", sign(t, testSecret, expired, jwt.SigningMethodHS256), ErrExpiredToken},
		{"not yet valid", sign(t, testSecret, future, jwt.SigningMethodHS256), ErrTokenNotYetValid},
		{"refresh token", sign(t, testSecret, refresh, jwt.SigningMethodHS256), ErrInvalidTokenType},
		{"wrong issuer", sign(t, testSecret, otherIssuer, jwt.SigningMethodHS256), ErrInvalidToken},
		{"missing tenant", sign(t, testSecret, withIssuer(NewAccessClaims("", "u", "n", time.Minute)), jwt.SigningMethodHS256), ErrMissingTenantID},
		{"missing user", sign(t, testSecret, withIssuer(NewAccessClaims("t", "", "n", time.Minute)), jwt.SigningMethodHS256), ErrMissingUserID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.ValidateAccessToken(tt.token)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestJWTVerifier_Leeway(t *testing.T) {
	v := NewJWTVerifier(config.JWTConfig{Secret: testSecret, Leeway: time.Minute})

	claims := NewAccessClaims("t", "u", "n", time.Minute)
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-10 * time.Second))
	token, err := v.Sign(claims)
	require.NoError(t, err)

	_, err = v.ValidateAccessToken(token)
	assert.NoError(t, err)
}

func TestJWTVerifier_MissingSecret(t *testing.T) {
	v := NewJWTVerifier(config.JWTConfig{})

	_, err := v.Sign(NewAccessClaims("t", "u", "n", time.Minute))
	assert.ErrorIs(t, err, ErrMissingSecret)

	_, err = v.ValidateAccessToken("anything")
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestClaims_HasPermission(t *testing.T) {
	c := &Claims{Permissions: []string{"sli:read"}}
	assert.True(t, c.HasPermission("sli:read"))
	assert.False(t, c.HasPermission("sli:write"))
}
