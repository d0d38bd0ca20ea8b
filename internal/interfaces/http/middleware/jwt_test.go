package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/orderportal/backend/internal/infrastructure/auth"
	"github.com/orderportal/backend/internal/infrastructure/config"
	"github.com/orderportal/backend/internal/infrastructure/logger"
	"github.com/orderportal/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testTenant = "6f1c2f3e-8d9a-4b7c-9e2f-1a2b3c4d5e6f"

func newTestVerifier() *auth.JWTVerifier {
	return auth.NewJWTVerifier(config.JWTConfig{Secret: "test-secret-key-at-least-32-chars", Issuer: "order-portal"})
}

func newJWTRouter(v *auth.JWTVerifier) *gin.Engine {
	r := gin.New()
	r.Use(RequestID())
	r.Use(JWTAuthMiddleware(DefaultJWTConfig(v)))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/v1/sli/orders/x/pdf", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"tenant":     GetJWTTenantID(c),
			"user":       GetJWTUserID(c),
			"ctx_tenant": logger.GetTenantID(c.Request.Context()),
			"has_claims": GetJWTClaims(c) != nil,
		})
	})
	return r
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	v := newTestVerifier()
	token, err := v.Sign(auth.NewAccessClaims(testTenant, "user-1", "alice", time.Minute))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sli/orders/x/pdf", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	w := httptest.NewRecorder()
	newJWTRouter(v).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, testTenant, body["tenant"])
	assert.Equal(t, "user-1", body["user"])
	assert.Equal(t, testTenant, body["ctx_tenant"])
	assert.Equal(t, true, body["has_claims"])
}

func TestJWTAuthMiddleware_Rejects(t *testing.T) {
	v := newTestVerifier()
	expired := auth.NewAccessClaims(testTenant, "user-1", "alice", -time.Minute)
	expiredToken, err := v.Sign(expired)
	require.NoError(t, err)

	tests := []struct {
		name     string
		header   string
		wantCode string
	}{
		{"missing header", "", dto.ErrCodeUnauthorized},
		{"not bearer", "Basic abc", dto.ErrCodeUnauthorized},
		{"empty token", "Bearer ", dto.ErrCodeUnauthorized},
		{"garbage token", "Bearer abc.def.ghi", dto.ErrCodeTokenInvalid},
		{"expired token", "Bearer " + expiredToken, dto.ErrCodeTokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/sli/orders/x/pdf", nil)
			if tt.header != "" {
				req.Header.Set(AuthHeaderKey, tt.header)
			}
			w := httptest.NewRecorder()
			newJWTRouter(v).ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			var resp dto.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.RequestID)
		})
	}
}

func TestJWTAuthMiddleware_SkipPaths(t *testing.T) {
	w := httptest.NewRecorder()
	newJWTRouter(newTestVerifier()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
