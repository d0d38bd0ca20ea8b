// Package printing orchestrates one SLI generation request: load the source
// record, aggregate its product lines, render, and optionally archive.
package printing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	domain "github.com/orderportal/backend/internal/domain/printing"
	"github.com/orderportal/backend/internal/domain/shared"
	infra "github.com/orderportal/backend/internal/infrastructure/printing"
	"github.com/orderportal/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

const spanService = "sli"

// DocumentLoader resolves a source record into a normalized document
type DocumentLoader interface {
	LoadData(ctx context.Context, tenantID uuid.UUID, source domain.SourceType, id uuid.UUID) (*domain.Document, error)
}

// EngineSource hands out the current parsed template
type EngineSource interface {
	Engine() *infra.TemplateEngine
}

// DocumentArchive stores generated PDFs
type DocumentArchive interface {
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
}

// ServiceConfig holds the tunables of SLIService
type ServiceConfig struct {
	DefaultMode   domain.RenderMode
	RenderTimeout time.Duration
	Geometry      domain.PageGeometry
	ArchivePrefix string
	ArchiveExpiry time.Duration
	// Metrics may be nil; generations are then not measured.
	Metrics *telemetry.GenerationMetrics
	// Clock stamps archive keys; defaults to time.Now.
	Clock func() time.Time
}

// maxArchiveAttempts bounds the suffixes tried when an archive key is taken
const maxArchiveAttempts = 5

// SLIService generates Shipper's Letters of Instruction
type SLIService struct {
	loader    DocumentLoader
	templates EngineSource
	vector    *infra.VectorRenderer
	capturer  infra.SurfaceCapturer
	workbook  *infra.SummaryWorkbook
	archive   DocumentArchive
	config    ServiceConfig
	logger    *zap.Logger
}

// NewSLIService creates a new SLIService. A nil capturer disables raster
// output and a nil archive disables archiving.
func NewSLIService(
	loader DocumentLoader,
	templates EngineSource,
	vector *infra.VectorRenderer,
	capturer infra.SurfaceCapturer,
	workbook *infra.SummaryWorkbook,
	archive DocumentArchive,
	config ServiceConfig,
	logger *zap.Logger,
) *SLIService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !config.DefaultMode.IsValid() {
		config.DefaultMode = domain.RenderModeVector
	}
	if config.Geometry.Width == 0 {
		config.Geometry = domain.DefaultPage()
	}
	if config.ArchiveExpiry <= 0 {
		config.ArchiveExpiry = 15 * time.Minute
	}
	if config.Clock == nil {
		config.Clock = time.Now
	}
	return &SLIService{
		loader:    loader,
		templates: templates,
		vector:    vector,
		capturer:  capturer,
		workbook:  workbook,
		archive:   archive,
		config:    config,
		logger:    logger,
	}
}

// =============================================================================
// Stored records
// =============================================================================

// Preview returns the populated markup for a stored record
func (s *SLIService) Preview(ctx context.Context, tenantID uuid.UUID, source string, id uuid.UUID) (*infra.RenderResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "preview",
		telemetry.WithAttribute(telemetry.SpanAttrSource, source),
		telemetry.WithAttribute(telemetry.SpanAttrRecordID, id.String()))
	defer span.End()

	sheet, err := s.load(ctx, tenantID, source, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	result, err := s.templates.Engine().Render(sheet)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, s.renderFailure(ctx, err, "preview")
	}
	return result, nil
}

// GeneratePDF renders a stored record in the requested mode. An empty mode
// uses the configured default.
func (s *SLIService) GeneratePDF(ctx context.Context, tenantID uuid.UUID, source string, id uuid.UUID, mode string) (*GenerateResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "generate_pdf",
		telemetry.WithAttribute(telemetry.SpanAttrSource, source),
		telemetry.WithAttribute(telemetry.SpanAttrRecordID, id.String()))
	defer span.End()

	m, err := s.mode(mode)
	if err != nil {
		return nil, err
	}

	sheet, err := s.load(ctx, tenantID, source, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	result, err := s.generate(ctx, tenantID, sheet, m)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return result, nil
}

// Summary returns the aggregated product table as a workbook
func (s *SLIService) Summary(ctx context.Context, tenantID uuid.UUID, source string, id uuid.UUID) (*infra.RenderResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "summary")
	defer span.End()

	sheet, err := s.load(ctx, tenantID, source, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	result, err := s.workbook.Render(sheet)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, s.renderFailure(ctx, err, "summary")
	}
	return result, nil
}

// =============================================================================
// Posted records
// =============================================================================

// RenderDocument renders a PDF from a posted, fully resolved record
func (s *SLIService) RenderDocument(ctx context.Context, tenantID uuid.UUID, req *RenderDocumentRequest, mode string) (*GenerateResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "render_document")
	defer span.End()

	if req == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Request body is required")
	}
	m, err := s.mode(mode)
	if err != nil {
		return nil, err
	}

	result, err := s.generate(ctx, tenantID, s.sheet(ctx, req.ToDocument()), m)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return result, nil
}

// =============================================================================
// Pipeline
// =============================================================================

func (s *SLIService) mode(mode string) (domain.RenderMode, error) {
	if strings.TrimSpace(mode) == "" {
		return s.config.DefaultMode, nil
	}
	m, ok := domain.ParseRenderMode(mode)
	if !ok {
		return "", shared.NewDomainError("INVALID_INPUT", "Render mode must be vector or raster")
	}
	if m == domain.RenderModeRaster && s.capturer == nil {
		return "", shared.NewDomainError("RENDER_UNAVAILABLE", "Raster rendering is not configured")
	}
	return m, nil
}

func (s *SLIService) load(ctx context.Context, tenantID uuid.UUID, source string, id uuid.UUID) (*domain.Sheet, error) {
	st, ok := domain.ParseSourceType(source)
	if !ok {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown SLI source")
	}

	doc, err := s.loader.LoadData(ctx, tenantID, st, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "SLI source record not found")
		}
		return nil, fmt.Errorf("failed to load SLI data: %w", err)
	}
	return s.sheet(ctx, doc), nil
}

// sheet aggregates the document; contradictory checkbox pairs print as given
func (s *SLIService) sheet(ctx context.Context, doc *domain.Document) *domain.Sheet {
	_, span := telemetry.StartServiceSpan(ctx, spanService, "aggregate")
	defer span.End()

	sheet := domain.NewSheet(doc)
	telemetry.SetAttributes(span,
		telemetry.SpanAttrLineItems, len(doc.Items),
		telemetry.SpanAttrProductRows, sheet.Products.Len(),
	)

	if conflicts := doc.Checkboxes.Conflicts(); len(conflicts) > 0 {
		keys := make([]string, 0, len(conflicts)*2)
		for _, p := range conflicts {
			keys = append(keys, string(p.First), string(p.Second))
		}
		s.logger.Warn("contradictory checkbox pairs",
			zap.String("reference", doc.Reference),
			zap.Strings("checkboxes", keys))
	}
	return sheet
}

func (s *SLIService) generate(ctx context.Context, tenantID uuid.UUID, sheet *domain.Sheet, mode domain.RenderMode) (result *GenerateResult, err error) {
	start := time.Now()
	defer func() {
		pages := 0
		if result != nil {
			pages = result.PageCount
		}
		s.config.Metrics.Record(context.WithoutCancel(ctx), string(mode), outcome(err), time.Since(start), pages)
	}()

	if s.config.RenderTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.RenderTimeout)
		defer cancel()
	}

	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "render",
		telemetry.WithAttribute(telemetry.SpanAttrMode, string(mode)))
	defer span.End()

	var rendered *infra.RenderResult
	switch mode {
	case domain.RenderModeRaster:
		raster := infra.NewRasterRenderer(s.templates.Engine(), s.capturer, s.config.Geometry)
		rendered, err = raster.Render(ctx, sheet)
	default:
		rendered, err = s.vector.Render(ctx, sheet)
	}
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, s.renderFailure(ctx, err, string(mode))
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrPages, rendered.PageCount)

	result = &GenerateResult{
		RenderResult: rendered,
		Mode:         mode,
		Conflicts:    sheet.Doc.Checkboxes.Conflicts(),
	}

	if s.archive != nil {
		if err := s.store(ctx, tenantID, result); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
	}

	s.logger.Info("SLI generated",
		zap.String("reference", sheet.Doc.Reference),
		zap.String("mode", string(mode)),
		zap.Int("pages", rendered.PageCount),
		zap.Int("productRows", sheet.Products.Len()),
		zap.Duration("duration", rendered.RenderDuration))

	return result, nil
}

func (s *SLIService) store(ctx context.Context, tenantID uuid.UUID, result *GenerateResult) error {
	key, err := s.archiveKey(ctx, tenantID, result.Filename)
	if err != nil {
		return err
	}

	if err := s.archive.Upload(ctx, key, result.Data, result.ContentType); err != nil {
		s.logger.Error("SLI archive upload failed", zap.String("key", key), zap.Error(err))
		return shared.NewDomainError(infra.ErrCodeStorageFailed, "Failed to archive generated document")
	}
	url, _, err := s.archive.GenerateDownloadURL(ctx, key, s.config.ArchiveExpiry)
	if err != nil {
		s.logger.Error("SLI archive presign failed", zap.String("key", key), zap.Error(err))
		return shared.NewDomainError(infra.ErrCodeStorageFailed, "Failed to sign archived document URL")
	}
	result.ArchiveKey = key
	result.ArchiveURL = url
	return nil
}

// archiveKey picks a free key under the tenant. Archived copies are never
// overwritten: a second copy stamped in the same second gets a numeric suffix.
func (s *SLIService) archiveKey(ctx context.Context, tenantID uuid.UUID, filename string) (string, error) {
	stamp := s.config.Clock().UTC().Format("20060102T150405Z")
	base := fmt.Sprintf("%s%s/%s", s.config.ArchivePrefix, tenantID, stamp)

	key := base + "-" + filename
	for attempt := 1; attempt <= maxArchiveAttempts; attempt++ {
		exists, err := s.archive.ObjectExists(ctx, key)
		if err != nil {
			s.logger.Error("SLI archive lookup failed", zap.String("key", key), zap.Error(err))
			return "", shared.NewDomainError(infra.ErrCodeStorageFailed, "Failed to archive generated document")
		}
		if !exists {
			return key, nil
		}
		key = fmt.Sprintf("%s-%d-%s", base, attempt, filename)
	}
	s.logger.Error("SLI archive key exhausted", zap.String("key", base))
	return "", shared.NewDomainError(infra.ErrCodeStorageFailed, "Failed to archive generated document")
}

// outcome labels a generation for metrics: "ok" or the domain error code
func outcome(err error) string {
	if err == nil {
		return telemetry.OutcomeOK
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return "INTERNAL_ERROR"
}

// renderFailure converts renderer errors into domain errors the transport maps
func (s *SLIService) renderFailure(ctx context.Context, err error, stage string) error {
	var renderErr *infra.RenderError
	if errors.As(err, &renderErr) {
		s.logger.Error("SLI rendering failed",
			zap.String("stage", stage),
			zap.String("code", renderErr.Code),
			zap.Error(err))
		return shared.NewDomainError(renderErr.Code, renderErr.Message)
	}
	if ctx.Err() != nil {
		s.logger.Error("SLI rendering timed out", zap.String("stage", stage), zap.Error(err))
		return shared.NewDomainError(infra.ErrCodeRenderTimeout, "Document rendering timed out")
	}
	s.logger.Error("SLI rendering failed", zap.String("stage", stage), zap.Error(err))
	return fmt.Errorf("failed to render %s: %w", stage, err)
}
