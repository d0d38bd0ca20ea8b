package printing

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"math"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/orderportal/backend/internal/domain/printing"
	"golang.org/x/image/draw"
)

// bandEpsilon absorbs float error when a page holds a whole number of
// source rows, so such a page is not cut one row short.
const bandEpsilon = 1e-9

// Band is a horizontal slice of the source bitmap in pixel rows [Y0, Y1)
type Band struct {
	Y0 int
	Y1 int
}

// Height is the number of source rows in the band
func (b Band) Height() int {
	return b.Y1 - b.Y0
}

// PlanBands slices a srcW x srcH bitmap that is scaled to fill a page width.
// Slicing is done in source pixels: the bands are contiguous, do not overlap
// and cover [0, srcH) exactly once. Every band holds at most the whole number
// of source rows whose scaled height fits on a page, so no band is clipped,
// and all bands but the last are full.
func PlanBands(srcW, srcH int, pageW, pageH float64) []Band {
	if srcW <= 0 || srcH <= 0 || pageW <= 0 || pageH <= 0 {
		return nil
	}

	scale := pageW / float64(srcW)
	rowsPerPage := int(math.Floor(pageH/scale + bandEpsilon))
	if rowsPerPage < 1 {
		// A single source row is taller than the page.
		rowsPerPage = 1
	}

	bands := make([]Band, 0, (srcH+rowsPerPage-1)/rowsPerPage)
	for y0 := 0; y0 < srcH; y0 += rowsPerPage {
		bands = append(bands, Band{Y0: y0, Y1: min(y0+rowsPerPage, srcH)})
	}
	return bands
}

// Paginate emits one PDF page per band of img. Each band is copied onto its
// own canvas and placed at the top of a page, scaled to the page width.
func Paginate(img image.Image, g printing.PageGeometry) ([]byte, int, error) {
	if img == nil {
		return nil, 0, NewRenderError(ErrCodeRenderFailed, "nothing was captured", nil)
	}
	bounds := img.Bounds()
	bands := PlanBands(bounds.Dx(), bounds.Dy(), g.Width, g.Height)
	if len(bands) == 0 {
		return nil, 0, NewRenderError(ErrCodeRenderFailed, "captured surface is empty", nil)
	}

	pdf := newPDF(g)
	scale := g.Width / float64(bounds.Dx())

	for i, band := range bands {
		canvas := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), band.Height()))
		draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
		draw.Draw(canvas, canvas.Bounds(), img, image.Point{X: bounds.Min.X, Y: bounds.Min.Y + band.Y0}, draw.Over)

		var buf bytes.Buffer
		if err := png.Encode(&buf, canvas); err != nil {
			return nil, 0, NewRenderError(ErrCodeRenderFailed, "failed to encode page band", err)
		}

		name := fmt.Sprintf("band-%d", i)
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(name, opts, &buf)
		pdf.AddPage()
		pdf.ImageOptions(name, 0, 0, g.Width, float64(band.Height())*scale, false, opts, 0, "")
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, 0, NewRenderError(ErrCodeRenderFailed, "failed to write PDF", err)
	}
	return out.Bytes(), len(bands), nil
}

// newPDF starts an empty document sized to the page with no automatic breaks
func newPDF(g printing.PageGeometry) *fpdf.Fpdf {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: g.Width, Ht: g.Height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("orderportal", true)
	return pdf
}

// RasterRenderer produces a PDF by capturing the markup rendition and
// paginating the bitmap. It handles product tables of any length.
type RasterRenderer struct {
	engine   *TemplateEngine
	capturer SurfaceCapturer
	geometry printing.PageGeometry
}

// NewRasterRenderer creates a raster renderer
func NewRasterRenderer(engine *TemplateEngine, capturer SurfaceCapturer, geometry printing.PageGeometry) *RasterRenderer {
	return &RasterRenderer{
		engine:   engine,
		capturer: capturer,
		geometry: geometry,
	}
}

// Render captures the populated sheet and paginates it
func (r *RasterRenderer) Render(ctx context.Context, sheet *printing.Sheet) (*RenderResult, error) {
	start := time.Now()

	markup, err := r.engine.Populate(sheet)
	if err != nil {
		return nil, err
	}

	img, err := r.capturer.Capture(ctx, markup)
	if err != nil {
		return nil, err
	}

	data, pages, err := Paginate(img, r.geometry)
	if err != nil {
		return nil, err
	}

	return &RenderResult{
		Data:           data,
		ContentType:    ContentTypePDF,
		Filename:       sheet.Doc.Filename(),
		PageCount:      pages,
		RenderDuration: time.Since(start),
	}, nil
}
