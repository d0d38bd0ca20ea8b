package printing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const (
	defaultOversampling = 2.0
	maxOversampling     = 4.0
	cssPixelsPerPoint   = 96.0 / 72.0
)

// Scripts that toggle preview-only elements around a capture. The previous
// inline display value is kept on the element so restore is exact.
const (
	hideNoPrintScript = `(() => {
  let n = 0;
  document.querySelectorAll('.` + noPrintClassName + `').forEach(el => {
    el.dataset.printDisplay = el.style.display;
    el.style.display = 'none';
    n++;
  });
  return n;
})()`
	restoreNoPrintScript = `(() => {
  let n = 0;
  document.querySelectorAll('.` + noPrintClassName + `').forEach(el => {
    el.style.display = el.dataset.printDisplay || '';
    delete el.dataset.printDisplay;
    n++;
  });
  return n;
})()`
	fontsReadyScript = `document.fonts.ready.then(() => true)`
)

// ChromedpConfig contains configuration for the chromedp capturer
type ChromedpConfig struct {
	// RemoteURL is the URL of a remote Chrome/Chromium instance (optional)
	// If empty, chromedp will launch a new browser instance
	RemoteURL string
	// Headless mode (default: true)
	Headless bool
	// DisableGPU disables GPU hardware acceleration (default: true for server environments)
	DisableGPU bool
	// NoSandbox runs Chrome without sandbox (required for Docker/root)
	NoSandbox bool
	// Oversampling is the device scale factor used for capture (default: 2)
	Oversampling float64
	// PageWidth is the sheet width in points; the viewport is sized to it
	PageWidth float64
	// PageHeight is the initial viewport height in points
	PageHeight float64
	// Logger for debug output
	Logger *zap.Logger
}

// ChromedpCapturer captures populated markup as a bitmap using the Chrome
// DevTools Protocol.
type ChromedpCapturer struct {
	config      *ChromedpConfig
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromedpCapturer creates a new chromedp-based capturer
func NewChromedpCapturer(config *ChromedpConfig) (*ChromedpCapturer, error) {
	if config == nil {
		config = &ChromedpConfig{}
	}

	if config.Oversampling <= 0 {
		config.Oversampling = defaultOversampling
	}
	if config.Oversampling > maxOversampling {
		return nil, fmt.Errorf("oversampling %v exceeds maximum %v", config.Oversampling, maxOversampling)
	}
	if config.PageWidth <= 0 {
		config.PageWidth = 612
	}
	if config.PageHeight <= 0 {
		config.PageHeight = 792
	}
	// Default to headless and disable GPU for server environments
	if !config.Headless {
		config.Headless = true
	}
	if !config.DisableGPU {
		config.DisableGPU = true
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &ChromedpCapturer{
		config: config,
		logger: logger,
	}
	c.initAllocator()

	return c, nil
}

// initAllocator initializes the Chrome allocator
func (c *ChromedpCapturer) initAllocator() {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", c.config.Headless),
		chromedp.Flag("disable-gpu", c.config.DisableGPU),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true), // Important for Docker
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		// Font rendering
		chromedp.Flag("font-render-hinting", "none"),
		chromedp.Flag("hide-scrollbars", true),
	)

	if c.config.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}

	if c.config.RemoteURL != "" {
		c.allocCtx, c.allocCancel = chromedp.NewRemoteAllocator(context.Background(), c.config.RemoteURL)
	} else {
		c.allocCtx, c.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	}
}

// Capture loads markup into a fresh tab and returns the whole sheet as one
// bitmap. There is no internal timeout: the caller's context bounds the wait
// for layout to settle.
func (c *ChromedpCapturer) Capture(ctx context.Context, markup string) (image.Image, error) {
	browserCtx, browserCancel := chromedp.NewContext(c.allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			c.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer browserCancel()

	// Tie the tab to the caller's deadline without losing the chromedp executor
	stop := context.AfterFunc(ctx, browserCancel)
	defer stop()

	s := &chromeSurface{
		width:  int64(math.Round(c.config.PageWidth * cssPixelsPerPoint)),
		height: int64(math.Round(c.config.PageHeight * cssPixelsPerPoint)),
		scale:  c.config.Oversampling,
	}

	img, err := capture(browserCtx, s, markup, c.logger)
	if err != nil {
		if ctx.Err() != nil {
			return nil, NewRenderError(ErrCodeRenderTimeout, "capture was cancelled", errors.Join(err, ctx.Err()))
		}
		return nil, err
	}
	return img, nil
}

// Close releases resources held by the capturer
func (c *ChromedpCapturer) Close() error {
	if c.allocCancel != nil {
		c.allocCancel()
	}
	return nil
}

// surface is the browser tab as seen by capture
type surface interface {
	Load(ctx context.Context, markup string) error
	HideNoPrint(ctx context.Context) (int, error)
	RestoreNoPrint(ctx context.Context) (int, error)
	Screenshot(ctx context.Context) ([]byte, error)
}

// capture runs the load, hide, shoot sequence. Hidden elements are restored
// on every path out once they have been hidden, including a failed shot.
func capture(ctx context.Context, s surface, markup string, logger *zap.Logger) (image.Image, error) {
	if err := s.Load(ctx, markup); err != nil {
		return nil, NewRenderError(ErrCodeCaptureFailed, "failed to load markup", err)
	}

	hidden, err := s.HideNoPrint(ctx)
	if err != nil {
		// A partial hide still needs undoing
		restoreNoPrint(ctx, s, logger)
		return nil, NewRenderError(ErrCodeCaptureFailed, "failed to hide preview elements", err)
	}
	defer restoreNoPrint(ctx, s, logger)

	data, err := s.Screenshot(ctx)
	if err != nil {
		return nil, NewRenderError(ErrCodeCaptureFailed, "failed to capture screenshot", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, NewRenderError(ErrCodeCaptureFailed, "screenshot is not a valid PNG", err)
	}

	logger.Debug("surface captured",
		zap.Int("hidden", hidden),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()))
	return img, nil
}

func restoreNoPrint(ctx context.Context, s surface, logger *zap.Logger) {
	if _, err := s.RestoreNoPrint(context.WithoutCancel(ctx)); err != nil {
		logger.Warn("failed to restore preview elements", zap.Error(err))
	}
}

// chromeSurface drives one chromedp tab
type chromeSurface struct {
	width  int64
	height int64
	scale  float64
}

func (s *chromeSurface) Load(ctx context.Context, markup string) error {
	var ready bool
	return chromedp.Run(ctx,
		chromedp.EmulateViewport(s.width, s.height, chromedp.EmulateScale(s.scale)),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, markup).Do(ctx)
		}),
		chromedp.WaitReady("#"+sheetElementID, chromedp.ByQuery),
		chromedp.Evaluate(fontsReadyScript, &ready, awaitPromise),
	)
}

func (s *chromeSurface) HideNoPrint(ctx context.Context) (int, error) {
	var n int
	err := chromedp.Run(ctx, chromedp.Evaluate(hideNoPrintScript, &n))
	return n, err
}

func (s *chromeSurface) RestoreNoPrint(ctx context.Context) (int, error) {
	var n int
	err := chromedp.Run(ctx, chromedp.Evaluate(restoreNoPrintScript, &n))
	return n, err
}

// Screenshot captures the full scrollable page; quality 100 selects PNG
func (s *chromeSurface) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	if err := chromedp.Run(ctx, chromedp.FullScreenshot(&buf, 100)); err != nil {
		return nil, err
	}
	return buf, nil
}

func awaitPromise(p *runtime.EvaluateParams) *runtime.EvaluateParams {
	return p.WithAwaitPromise(true)
}

var _ SurfaceCapturer = (*ChromedpCapturer)(nil)
