package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/orderportal/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func() error

func (f pingFunc) Ping() error { return f() }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]Pinger
		wantStatus int
		wantBody   string
		wantChecks map[string]string
	}{
		{"no checks", nil, http.StatusOK, "ok", nil},
		{
			"database up",
			map[string]Pinger{"database": pingFunc(func() error { return nil })},
			http.StatusOK, "ok",
			map[string]string{"database": "up"},
		},
		{
			"database down",
			map[string]Pinger{"database": pingFunc(func() error { return errors.New("refused") })},
			http.StatusServiceUnavailable, "degraded",
			map[string]string{"database": "down"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := gin.New()
			engine.GET("/health", NewHealthHandler("sli-service", tt.checks).Health)

			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp dto.HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantBody, resp.Status)
			assert.Equal(t, "sli-service", resp.Service)
			assert.Equal(t, tt.wantChecks, resp.Checks)
		})
	}
}
