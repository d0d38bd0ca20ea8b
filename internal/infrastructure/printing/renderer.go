package printing

import (
	"context"
	"image"
	"time"
)

// Content types of generated artifacts
const (
	ContentTypePDF  = "application/pdf"
	ContentTypeHTML = "text/html; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// RenderResult contains the output of one generation request
type RenderResult struct {
	// Data is the raw document content
	Data []byte
	// ContentType of Data
	ContentType string
	// Filename is the suggested download name
	Filename string
	// PageCount is the number of physical pages, zero for markup
	PageCount int
	// RenderDuration is how long the rendering took
	RenderDuration time.Duration
}

// SurfaceCapturer renders markup on a layout surface and reads it back as one bitmap
type SurfaceCapturer interface {
	// Capture loads html, waits for layout and returns the painted surface
	Capture(ctx context.Context, html string) (image.Image, error)
	// Close releases any resources held by the capturer
	Close() error
}

// RenderError represents an error during document rendering
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Error codes for rendering failures
const (
	ErrCodeRenderTimeout    = "RENDER_TIMEOUT"
	ErrCodeRenderFailed     = "RENDER_FAILED"
	ErrCodeInvalidHTML      = "INVALID_HTML"
	ErrCodeTemplateMismatch = "TEMPLATE_MISMATCH"
	ErrCodeLayoutOverflow   = "LAYOUT_OVERFLOW"
	ErrCodeCaptureFailed    = "CAPTURE_FAILED"
	ErrCodeStorageFailed    = "STORAGE_FAILED"
)

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
