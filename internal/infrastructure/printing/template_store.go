package printing

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/orderportal/backend/internal/domain/printing"
	"github.com/orderportal/backend/internal/infrastructure/storage"
	"go.uber.org/zap"
)

const embeddedOrigin = "embedded:" + DefaultTemplatePath

// ObjectReader reads template objects from a bucket
type ObjectReader interface {
	GetBucket() string
	GetObject(ctx context.Context, key string) ([]byte, error)
}

// TemplateStoreConfig configures where the SLI template resource comes from
type TemplateStoreConfig struct {
	// Path is a local file or an s3://bucket/key reference.
	// Empty uses the embedded template.
	Path string
	// Objects is required when Path is an s3 reference
	Objects  ObjectReader
	Form     *printing.Form
	Geometry printing.PageGeometry
	Logger   *zap.Logger
}

// TemplateStore holds the parsed template engine. The engine is immutable;
// Reload swaps in a freshly parsed one and keeps the old engine on failure.
type TemplateStore struct {
	config   TemplateStoreConfig
	logger   *zap.Logger
	mu       sync.RWMutex
	engine   *TemplateEngine
	origin   string
	loadedAt time.Time
}

// NewTemplateStore loads and parses the configured template
func NewTemplateStore(ctx context.Context, config *TemplateStoreConfig) (*TemplateStore, error) {
	s := &TemplateStore{logger: zap.NewNop()}
	if config != nil {
		s.config = *config
	}
	if s.config.Form == nil {
		s.config.Form = printing.StandardForm()
	}
	if s.config.Geometry.Width == 0 {
		s.config.Geometry = printing.DefaultPage()
	}
	if s.config.Logger != nil {
		s.logger = s.config.Logger
	}

	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Engine returns the current template engine
func (s *TemplateStore) Engine() *TemplateEngine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

// Origin describes where the current template was loaded from
func (s *TemplateStore) Origin() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.origin
}

// LoadedAt returns when the current template was parsed
func (s *TemplateStore) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Reload reads the template resource again and replaces the engine
func (s *TemplateStore) Reload(ctx context.Context) error {
	source, origin, err := s.read(ctx)
	if err != nil {
		return err
	}

	engine, err := NewTemplateEngine(source,
		WithForm(s.config.Form),
		WithGeometry(s.config.Geometry),
	)
	if err != nil {
		s.logger.Error("Template rejected", zap.String("origin", origin), zap.Error(err))
		return err
	}

	s.mu.Lock()
	s.engine = engine
	s.origin = origin
	s.loadedAt = time.Now()
	s.mu.Unlock()

	s.logger.Info("Template loaded",
		zap.String("origin", origin),
		zap.Strings("slots", engine.Slots()),
	)
	return nil
}

func (s *TemplateStore) read(ctx context.Context) (string, string, error) {
	path := s.config.Path
	switch {
	case path == "":
		content, err := LoadTemplateContent(DefaultTemplatePath)
		if err != nil {
			return "", "", NewRenderError(ErrCodeInvalidHTML, "embedded template missing", err)
		}
		return content, embeddedOrigin, nil

	case storage.IsURI(path):
		bucket, key, err := storage.ParseURI(path)
		if err != nil {
			return "", "", NewRenderError(ErrCodeInvalidHTML, "invalid template location", err)
		}
		if s.config.Objects == nil {
			return "", "", NewRenderError(ErrCodeStorageFailed, "object storage is not configured for "+path, nil)
		}
		if got := s.config.Objects.GetBucket(); got != bucket {
			return "", "", NewRenderError(ErrCodeStorageFailed,
				fmt.Sprintf("template bucket %q does not match configured bucket %q", bucket, got), nil)
		}
		data, err := s.config.Objects.GetObject(ctx, key)
		if err != nil {
			return "", "", NewRenderError(ErrCodeStorageFailed, "failed to fetch template "+path, err)
		}
		return string(data), path, nil

	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", "", NewRenderError(ErrCodeInvalidHTML, "failed to read template "+path, err)
		}
		return string(data), path, nil
	}
}
