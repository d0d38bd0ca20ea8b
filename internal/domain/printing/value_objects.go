package printing

import "github.com/orderportal/backend/internal/domain/shared"

// Letter paper in PostScript points
const (
	LetterWidth  = 612.0
	LetterHeight = 792.0

	DefaultMargin = 36.0
	maxMargin     = 144.0
)

// Margins represents the page margins in points
type Margins struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// NewMargins creates a new Margins value object
func NewMargins(top, right, bottom, left float64) (Margins, error) {
	if top < 0 || right < 0 || bottom < 0 || left < 0 {
		return Margins{}, shared.NewDomainError("INVALID_MARGINS", "Margins cannot be negative")
	}
	if top > maxMargin || right > maxMargin || bottom > maxMargin || left > maxMargin {
		return Margins{}, shared.NewDomainError("INVALID_MARGINS", "Margins cannot exceed two inches")
	}
	return Margins{
		Top:    top,
		Right:  right,
		Bottom: bottom,
		Left:   left,
	}, nil
}

// UniformMargins returns margins of m points on every edge
func UniformMargins(m float64) Margins {
	return Margins{Top: m, Right: m, Bottom: m, Left: m}
}

// DefaultMargins returns the half-inch live-area margin used by the form
func DefaultMargins() Margins {
	return UniformMargins(DefaultMargin)
}

// Rect is an axis-aligned rectangle in points with a top-left origin
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Right returns the x coordinate of the right edge
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge
func (r Rect) Bottom() float64 { return r.Y + r.H }

// PageGeometry is a physical page and its printable live area
type PageGeometry struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Margins Margins `json:"margins"`
}

// LetterPage returns US Letter geometry with the given margins
func LetterPage(m Margins) PageGeometry {
	return PageGeometry{Width: LetterWidth, Height: LetterHeight, Margins: m}
}

// DefaultPage returns US Letter with the default margin
func DefaultPage() PageGeometry {
	return LetterPage(DefaultMargins())
}

// LiveArea returns the printable region of the page
func (g PageGeometry) LiveArea() Rect {
	return Rect{
		X: g.Margins.Left,
		Y: g.Margins.Top,
		W: g.Width - g.Margins.Left - g.Margins.Right,
		H: g.Height - g.Margins.Top - g.Margins.Bottom,
	}
}
