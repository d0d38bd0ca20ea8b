package printing

import "strings"

// SourceType identifies the upstream record an SLI is assembled from
type SourceType string

const (
	SourceTypeOrder      SourceType = "ORDER"      // portal order with catalog line items
	SourceTypeStandalone SourceType = "STANDALONE" // free-standing SLI with typed-in line items
)

// IsValid checks if the SourceType is a valid value
func (s SourceType) IsValid() bool {
	switch s {
	case SourceTypeOrder, SourceTypeStandalone:
		return true
	}
	return false
}

// String returns the string representation of SourceType
func (s SourceType) String() string {
	return string(s)
}

// ParseSourceType maps a URL segment ("orders", "documents") or an
// upper-case constant onto a SourceType.
func ParseSourceType(s string) (SourceType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "order", "orders":
		return SourceTypeOrder, true
	case "standalone", "document", "documents":
		return SourceTypeStandalone, true
	}
	return "", false
}

// RenderMode selects the output pipeline for a binary document
type RenderMode string

const (
	RenderModeVector RenderMode = "vector" // positioned vector composer
	RenderModeRaster RenderMode = "raster" // browser capture sliced into pages
)

// IsValid checks if the RenderMode is a valid value
func (m RenderMode) IsValid() bool {
	return m == RenderModeVector || m == RenderModeRaster
}

// ParseRenderMode returns the mode for s, defaulting to vector when s is empty
func ParseRenderMode(s string) (RenderMode, bool) {
	if strings.TrimSpace(s) == "" {
		return RenderModeVector, true
	}
	m := RenderMode(strings.ToLower(strings.TrimSpace(s)))
	return m, m.IsValid()
}

// OriginFlag is the single-letter domestic/foreign marker on a product row
type OriginFlag string

const (
	OriginDomestic OriginFlag = "D"
	OriginForeign  OriginFlag = "F"
)

// String returns the string representation of OriginFlag
func (f OriginFlag) String() string {
	return string(f)
}

// Align is the horizontal alignment of a cell's content
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)
