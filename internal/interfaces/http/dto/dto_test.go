package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeLayoutOverflow, http.StatusUnprocessableEntity},
		{ErrCodeRenderTimeout, http.StatusGatewayTimeout},
		{ErrCodeRenderUnavailable, http.StatusServiceUnavailable},
		{ErrCodeCaptureFailed, http.StatusInternalServerError},
		{ErrCodeStorageFailed, http.StatusInternalServerError},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"NOT_FOUND", ErrCodeNotFound},
		{"INVALID_INPUT", ErrCodeInvalidInput},
		{"LAYOUT_OVERFLOW", ErrCodeLayoutOverflow},
		{"INVALID_HTML", ErrCodeTemplateMismatch},
		{"RENDER_TIMEOUT", ErrCodeRenderTimeout},
		{ErrCodeNotFound, ErrCodeNotFound},
		{"UNMAPPED", "UNMAPPED"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

func TestEveryDomainCodeHasStatus(t *testing.T) {
	for domainCode, code := range DomainErrorCodeMapping {
		_, ok := ErrorCodeHTTPStatus[code]
		assert.True(t, ok, "%s maps to %s which has no status", domainCode, code)
	}
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "SLI source record not found", "req-1")

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "req-1", resp.Error.RequestID)
	assert.False(t, resp.Error.Timestamp.IsZero())
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{{Field: "items[0].quantity", Message: "is required"}}
	resp := NewValidationErrorResponse("Request validation failed", "req-2", details)

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	errObj := decoded["error"].(map[string]any)
	assert.Equal(t, ErrCodeValidation, errObj["code"])
	assert.Len(t, errObj["details"], 1)
	assert.NotContains(t, decoded, "data")
}

func TestNewSuccessResponse(t *testing.T) {
	resp := NewSuccessResponse(HealthResponse{Status: "ok"})
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
}
