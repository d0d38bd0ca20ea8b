package printing

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"math"
	"math/rand"
	"testing"

	"github.com/orderportal/backend/internal/domain/printing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertCoversOnce(t *testing.T, bands []Band, srcH int) {
	t.Helper()
	require.NotEmpty(t, bands)
	assert.Equal(t, 0, bands[0].Y0)
	assert.Equal(t, srcH, bands[len(bands)-1].Y1)
	total := 0
	for i, b := range bands {
		assert.Positive(t, b.Height(), "band %d is empty", i)
		if i > 0 {
			assert.Equal(t, bands[i-1].Y1, b.Y0, "band %d is not contiguous", i)
		}
		total += b.Height()
	}
	assert.Equal(t, srcH, total)
}

func TestPlanBands(t *testing.T) {
	tests := []struct {
		name      string
		srcW      int
		srcH      int
		wantBands []Band
	}{
		{"fits on one page", 612, 700, []Band{{0, 700}}},
		{"exactly one page", 612, 792, []Band{{0, 792}}},
		{"scaled height 900", 612, 900, []Band{{0, 792}, {792, 900}}},
		{"oversampled height 900", 1632, 2400, []Band{{0, 2112}, {2112, 2400}}},
		{"exactly two pages", 612, 1584, []Band{{0, 792}, {792, 1584}}},
		{"three pages", 1224, 3200, []Band{{0, 1584}, {1584, 3168}, {3168, 3200}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bands := PlanBands(tt.srcW, tt.srcH, 612, 792)
			assert.Equal(t, tt.wantBands, bands)
			assertCoversOnce(t, bands, tt.srcH)
		})
	}
}

func assertNoBandClipped(t *testing.T, bands []Band, srcW int, pageW, pageH float64) {
	t.Helper()
	scale := pageW / float64(srcW)
	for i, b := range bands {
		assert.LessOrEqual(t, float64(b.Height())*scale, pageH+1e-6,
			"band %d of %d rows overflows the page (srcW=%d)", i, b.Height(), srcW)
	}
}

func TestPlanBands_PageCountIsMinimal(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		srcW := 100 + rng.Intn(2000)
		srcH := 1 + rng.Intn(20000)

		bands := PlanBands(srcW, srcH, 612, 792)
		assertCoversOnce(t, bands, srcH)
		assertNoBandClipped(t, bands, srcW, 612, 792)

		// Whole source rows per page bound the page count from below.
		rowsPerPage := int(math.Floor(792*float64(srcW)/612 + bandEpsilon))
		want := (srcH + rowsPerPage - 1) / rowsPerPage
		assert.Len(t, bands, want, "srcW=%d srcH=%d", srcW, srcH)

		scaledH := float64(srcH) * 612 / float64(srcW)
		assert.GreaterOrEqual(t, len(bands), int(math.Ceil(scaledH/792-bandEpsilon)))
	}
}

func TestPlanBands_FractionalRowsPerPage(t *testing.T) {
	// 1000px wide on 612pt gives 1294.1 source rows per page.
	for srcH := 1300; srcH <= 40000; srcH += 7 {
		bands := PlanBands(1000, srcH, 612, 792)
		assertCoversOnce(t, bands, srcH)
		assertNoBandClipped(t, bands, 1000, 612, 792)
		for i, b := range bands[:len(bands)-1] {
			assert.Equal(t, 1294, b.Height(), "band %d is not full (srcH=%d)", i, srcH)
		}
	}
}

func TestPlanBands_Degenerate(t *testing.T) {
	assert.Nil(t, PlanBands(0, 100, 612, 792))
	assert.Nil(t, PlanBands(100, 0, 612, 792))
	assert.Nil(t, PlanBands(100, 100, 0, 792))
}

func stripedImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		c := color.RGBA{R: uint8(y % 256), A: 255}
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name  string
		h     int
		pages int
	}{
		{"single page", 1000, 1},
		{"two pages", 2400, 2},
		{"four pages", 7000, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, pages, err := Paginate(stripedImage(1632, tt.h), printing.DefaultPage())
			require.NoError(t, err)

			assert.Equal(t, tt.pages, pages)
			assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
		})
	}
}

func TestPaginate_Empty(t *testing.T) {
	_, _, err := Paginate(nil, printing.DefaultPage())
	assert.Error(t, err)

	_, _, err = Paginate(image.NewRGBA(image.Rect(0, 0, 0, 0)), printing.DefaultPage())
	assert.Error(t, err)
}

type fakeCapturer struct {
	img    image.Image
	err    error
	markup string
}

func (f *fakeCapturer) Capture(ctx context.Context, markup string) (image.Image, error) {
	f.markup = markup
	return f.img, f.err
}

func (f *fakeCapturer) Close() error { return nil }

func TestRasterRenderer_Render(t *testing.T) {
	capturer := &fakeCapturer{img: stripedImage(1632, 2400)}
	r := NewRasterRenderer(newTestEngine(t), capturer, printing.DefaultPage())

	result, err := r.Render(context.Background(), printing.NewSheet(testDocument(3)))
	require.NoError(t, err)

	assert.Equal(t, ContentTypePDF, result.ContentType)
	assert.Equal(t, "SLI-INV-1001.pdf", result.Filename)
	assert.Equal(t, 2, result.PageCount)
	assert.Contains(t, capturer.markup, `id="sli-products"`)
}

func TestRasterRenderer_CaptureError(t *testing.T) {
	captureErr := NewRenderError(ErrCodeCaptureFailed, "boom", nil)
	r := NewRasterRenderer(newTestEngine(t), &fakeCapturer{err: captureErr}, printing.DefaultPage())

	_, err := r.Render(context.Background(), printing.NewSheet(testDocument(1)))
	assert.True(t, errors.Is(err, captureErr))
}
