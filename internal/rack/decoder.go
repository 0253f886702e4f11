package rack

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/text/unicode/norm"

	"rackscope/internal/logging"
)

// DefaultMaxDepth bounds how many rack levels may be nested inside the main
// rack before decoding of the enclosing chain fails.
const DefaultMaxDepth = 32

// Option adjusts decoder behaviour.
type Option func(*options)

type options struct {
	maxDepth int
	logger   *slog.Logger
}

// WithMaxDepth overrides DefaultMaxDepth. Negative values are ignored.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth >= 0 {
			o.maxDepth = depth
		}
	}
}

// WithLogger routes decoder debug output to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

type decoder struct {
	maxDepth    int
	logger      *slog.Logger
	diagnostics []Diagnostic
}

func newDecoder(opts []Option) *decoder {
	o := options{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.logger == nil {
		o.logger = logging.NewNop()
	}
	return &decoder{
		maxDepth:    o.maxDepth,
		logger:      logging.NewComponentLogger(o.logger, "rack"),
		diagnostics: make([]Diagnostic, 0),
	}
}

func (d *decoder) warn(context, format string, args ...any) {
	d.record(SeverityWarning, context, format, args...)
}

func (d *decoder) fail(context, format string, args ...any) {
	d.record(SeverityError, context, format, args...)
}

func (d *decoder) record(severity Severity, context, format string, args ...any) {
	d.diagnostics = append(d.diagnostics, Diagnostic{
		Severity: severity,
		Message:  fmt.Sprintf(format, args...),
		Context:  context,
	})
}

// Decode decompresses and decodes a preset. name is the source filename; the
// document name is derived from it.
func Decode(name string, data []byte, opts ...Option) (*Document, error) {
	tree, err := Decompress(data)
	if err != nil {
		return nil, err
	}
	return DecodeTree(name, tree, opts...), nil
}

// DecodeFile reads and decodes the preset at path.
func DecodeFile(path string, opts ...Option) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preset: %w", err)
	}
	return Decode(path, data, opts...)
}

// DecodeTree decodes an already parsed preset tree. It never fails; problems
// are reported through the document's diagnostics.
func DecodeTree(name string, tree *etree.Document, opts ...Option) *Document {
	d := newDecoder(opts)
	doc := &Document{
		Name:          NameFromPath(name),
		Category:      CategoryUnknown,
		MacroControls: make([]MacroControl, 0),
		Chains:        make([]Chain, 0),
	}

	var root *etree.Element
	if tree != nil {
		root = tree.Root()
	}

	category, main, strategy := detect(root)
	doc.Category = category
	if main == nil {
		d.fail("", "unknown rack type - unable to detect %s", strings.Join(rackTags(), ", "))
		doc.Diagnostics = d.diagnostics
		d.log(doc, strategy)
		return doc
	}

	doc.MacroControls = ExtractMacros(main)

	chains, err := d.walkChains(topLevelCollection(root, main), category, 0, "")
	if err != nil {
		d.fail("", "%v", err)
		chains = make([]Chain, 0)
	}
	doc.Chains = chains
	doc.Diagnostics = d.diagnostics
	d.log(doc, strategy)
	return doc
}

func (d *decoder) log(doc *Document, strategy string) {
	for _, diag := range doc.Diagnostics {
		d.logger.Debug("rack diagnostic",
			logging.String(logging.FieldRack, doc.Name),
			logging.String("severity", diag.Severity.String()),
			logging.String("context", diag.Context),
			logging.String("message", diag.Message),
		)
	}
	stats := doc.Stats()
	d.logger.Debug("rack decoded",
		logging.String(logging.FieldRack, doc.Name),
		logging.String(logging.FieldCategory, doc.Category.String()),
		logging.String("detection", strategy),
		logging.Int("chains", stats.Chains),
		logging.Int("devices", stats.Devices),
		logging.Int("macros", stats.Macros),
		logging.Int("diagnostics", len(doc.Diagnostics)),
	)
}

// NameFromPath derives a rack name from a file path: the base name without
// its extension, in Unicode NFC form.
func NameFromPath(path string) string {
	base := filepath.Base(strings.TrimSpace(path))
	if base == "." || base == string(filepath.Separator) {
		return "Unknown"
	}
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" {
		return "Unknown"
	}
	return norm.NFC.String(name)
}

func rackTags() []string {
	tags := make([]string, 0, len(Categories))
	for _, c := range Categories {
		tags = append(tags, c.Tag())
	}
	return tags
}
