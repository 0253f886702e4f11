package export

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"

	"rackscope/internal/config"
	"rackscope/internal/fileutil"
	"rackscope/internal/logging"
	"rackscope/internal/rack"
	"rackscope/internal/textutil"
)

// Artifact is one file written by WriteArtifacts.
type Artifact struct {
	Format Format `json:"format"`
	Path   string `json:"path"`
}

// Writer writes analysis artifacts into a single export directory.
type Writer struct {
	dir     string
	formats []Format
	indent  int
	logger  *slog.Logger
}

// NewWriter validates formats and returns a writer rooted at dir.
func NewWriter(dir string, formats []string, indent int, logger *slog.Logger) (*Writer, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("export directory is required")
	}
	parsed := make([]Format, 0, len(formats))
	seen := make(map[Format]struct{}, len(formats))
	for _, value := range formats {
		format, err := ParseFormat(value)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[format]; ok {
			continue
		}
		seen[format] = struct{}{}
		parsed = append(parsed, format)
	}
	return &Writer{
		dir:     dir,
		formats: parsed,
		indent:  indent,
		logger:  logging.NewComponentLogger(logger, "export"),
	}, nil
}

// NewWriterFromConfig builds a writer from the export section. It returns
// nil when exporting is disabled.
func NewWriterFromConfig(cfg *config.Config, logger *slog.Logger) (*Writer, error) {
	if cfg == nil || !cfg.Export.Enabled {
		return nil, nil
	}
	return NewWriter(cfg.Paths.ExportDir, cfg.Export.Formats, cfg.Export.Indent, logger)
}

// Dir returns the export directory.
func (w *Writer) Dir() string {
	return w.dir
}

// ArtifactName returns the file name used for sourcePath in format:
// "<base>_analysis.<ext>" for reports and "<base>.xml" for the preset tree.
func ArtifactName(sourcePath string, format Format) string {
	base := filepath.Base(sourcePath)
	base = textutil.SanitizeFileName(strings.TrimSuffix(base, filepath.Ext(base)))
	if base == "" || base == "." {
		base = "rack"
	}
	if format == FormatXML {
		return base + ".xml"
	}
	return base + "_analysis." + string(format)
}

// WriteArtifacts writes one file per configured format. tree may be nil, in
// which case the XML artifact is skipped. Existing artifacts for the same
// source are replaced atomically.
func (w *Writer) WriteArtifacts(doc *rack.Document, tree *etree.Document, sourcePath string) ([]Artifact, error) {
	if w == nil {
		return nil, nil
	}
	if doc == nil {
		return nil, errors.New("write artifacts: document is required")
	}

	artifacts := make([]Artifact, 0, len(w.formats))
	for _, format := range w.formats {
		var (
			data []byte
			err  error
		)
		if format == FormatXML {
			if tree == nil {
				w.logger.Debug("xml artifact skipped", logging.String(logging.FieldRack, doc.Name))
				continue
			}
			data, err = PrettyXML(tree, w.indent)
		} else {
			data, err = Encode(doc, format, w.indent)
		}
		if err != nil {
			return artifacts, err
		}

		path := filepath.Join(w.dir, ArtifactName(sourcePath, format))
		if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
			return artifacts, fmt.Errorf("write %s artifact: %w", format, err)
		}
		artifacts = append(artifacts, Artifact{Format: format, Path: path})
	}

	w.logger.Info("artifacts written",
		logging.String(logging.FieldRack, doc.Name),
		logging.Int("count", len(artifacts)),
		logging.String("dir", w.dir),
	)
	return artifacts, nil
}
