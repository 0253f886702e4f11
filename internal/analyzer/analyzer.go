package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"rackscope/internal/config"
	"rackscope/internal/export"
	"rackscope/internal/fileutil"
	"rackscope/internal/library"
	"rackscope/internal/logging"
	"rackscope/internal/rack"
)

// ErrUnsupportedExtension is returned for files outside analysis.extensions.
var ErrUnsupportedExtension = errors.New("unsupported preset extension")

// Outcome labels how a request was satisfied.
type Outcome string

const (
	OutcomeDecoded Outcome = "decoded"
	OutcomeCached  Outcome = "cached"
	OutcomeFailed  Outcome = "failed"
)

// Options adjusts a single analysis request.
type Options struct {
	// Force decodes again even when the library holds the same content.
	Force bool

	// SkipStore leaves the library untouched.
	SkipStore bool

	// SkipExport suppresses artifact files.
	SkipExport bool
}

// Result describes one analysed preset.
type Result struct {
	SourcePath    string            `json:"source_path"`
	ContentSHA256 string            `json:"content_sha256,omitempty"`
	Outcome       Outcome           `json:"outcome"`
	Document      *rack.Document    `json:"document,omitempty"`
	Analysis      *library.Analysis `json:"analysis,omitempty"`
	Artifacts     []export.Artifact `json:"artifacts,omitempty"`
	Duration      time.Duration     `json:"duration"`
	Err           error             `json:"-"`
}

// Service wires the decoder to the library and the export writer. Either
// dependency may be nil.
type Service struct {
	cfg    *config.Config
	store  *library.Store
	writer *export.Writer
	logger *slog.Logger
	now    func() time.Time
}

// New constructs a Service.
func New(cfg *config.Config, store *library.Store, writer *export.Writer, logger *slog.Logger) *Service {
	return &Service{
		cfg:    cfg,
		store:  store,
		writer: writer,
		logger: logging.NewComponentLogger(logger, "analyzer"),
		now:    time.Now,
	}
}

// AnalyzeFile reads and analyses the preset at path.
func (s *Service) AnalyzeFile(ctx context.Context, path string, opts Options) (*Result, error) {
	if !s.cfg.SupportsExtension(path) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedExtension, filepath.Base(path))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	data, err := fileutil.ReadFileLimited(abs, s.cfg.MaxFileBytes())
	if err != nil {
		return nil, fmt.Errorf("read preset: %w", err)
	}
	return s.analyze(ctx, abs, data, opts)
}

// AnalyzeBytes analyses preset bytes received without a file on disk, e.g.
// an upload. name supplies the rack name and the artifact base name.
func (s *Service) AnalyzeBytes(ctx context.Context, name string, data []byte, opts Options) (*Result, error) {
	if limit := s.cfg.MaxFileBytes(); limit > 0 && int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %s is larger than %d bytes", fileutil.ErrTooLarge, filepath.Base(name), limit)
	}
	return s.analyze(ctx, name, data, opts)
}

func (s *Service) analyze(ctx context.Context, sourcePath string, data []byte, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := s.now()
	result := &Result{
		SourcePath:    sourcePath,
		ContentSHA256: fileutil.SHA256Hex(data),
	}
	logger := logging.WithContext(ctx, s.logger).With(logging.String(logging.FieldSourcePath, sourcePath))

	if s.store != nil && !opts.Force {
		existing, err := s.store.FindByHash(ctx, result.ContentSHA256, rack.NameFromPath(sourcePath))
		switch {
		case err == nil:
			result.Outcome = OutcomeCached
			result.Analysis = existing
			result.Document = existing.Document
			result.Duration = s.now().Sub(start)
			logger.Info("analysis reused",
				logging.String(logging.FieldAnalysisID, existing.ID),
				logging.String(logging.FieldRack, existing.RackName),
			)
			return result, nil
		case !errors.Is(err, library.ErrNotFound):
			return nil, fmt.Errorf("lookup analysis: %w", err)
		}
	}

	tree, err := rack.Decompress(data)
	if err != nil {
		return nil, err
	}
	doc := rack.DecodeTree(sourcePath, tree,
		rack.WithMaxDepth(s.cfg.Analysis.MaxDepth),
		rack.WithLogger(logger),
	)
	result.Document = doc
	result.Outcome = OutcomeDecoded

	if s.writer != nil && !opts.SkipExport {
		artifacts, err := s.writer.WriteArtifacts(doc, tree, sourcePath)
		result.Artifacts = artifacts
		if err != nil {
			logging.WarnWithContext(logger, "artifact export failed", "export_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check export_dir permissions and free space"),
				logging.String(logging.FieldImpact, "analysis stored without some artifacts"),
			)
		}
	}

	if s.store != nil && !opts.SkipStore {
		analysis := library.NewAnalysis(doc, sourcePath, result.ContentSHA256)
		if err := s.store.Save(ctx, analysis); err != nil {
			return nil, fmt.Errorf("store analysis: %w", err)
		}
		result.Analysis = analysis
		ctx = logging.WithAnalysisID(ctx, analysis.ID)
		logger = logging.WithContext(ctx, s.logger).With(logging.String(logging.FieldSourcePath, sourcePath))
	}

	result.Duration = s.now().Sub(start)
	stats := doc.Stats()
	attrs := []logging.Attr{
		logging.String(logging.FieldRack, doc.Name),
		logging.String(logging.FieldCategory, doc.Category.String()),
		logging.Int("chains", stats.Chains),
		logging.Int("devices", stats.Devices),
		logging.Int("warnings", len(doc.Warnings())),
		logging.Int("errors", len(doc.Errors())),
		logging.Duration("duration", result.Duration),
	}
	if doc.HasErrors() {
		attrs = append(attrs, logging.Alert("decode_errors"))
	}
	logger.Info("rack analysed", logging.Args(attrs...)...)
	return result, nil
}
