package library

import (
	"errors"
	"time"

	"rackscope/internal/rack"
)

// ErrNotFound is returned when no analysis matches the lookup.
var ErrNotFound = errors.New("analysis not found")

// Analysis is one archived decode of a preset file.
//
// Document is populated by Get, FindByHash, and Save. List leaves it nil and
// only fills the summary columns.
type Analysis struct {
	ID            string         `json:"id"`
	RackName      string         `json:"rack_name"`
	SourcePath    string         `json:"source_path,omitempty"`
	ContentSHA256 string         `json:"content_sha256"`
	Category      rack.Category  `json:"category"`
	ChainCount    int            `json:"chain_count"`
	DeviceCount   int            `json:"device_count"`
	MacroCount    int            `json:"macro_count"`
	WarningCount  int            `json:"warning_count"`
	ErrorCount    int            `json:"error_count"`
	Document      *rack.Document `json:"document,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// NewAnalysis builds an unsaved analysis with summary counts taken from doc.
func NewAnalysis(doc *rack.Document, sourcePath, contentSHA256 string) *Analysis {
	a := &Analysis{
		SourcePath:    sourcePath,
		ContentSHA256: contentSHA256,
		Document:      doc,
	}
	a.refreshSummary()
	return a
}

func (a *Analysis) refreshSummary() {
	if a.Document == nil {
		return
	}
	stats := a.Document.Stats()
	a.RackName = a.Document.Name
	a.Category = a.Document.Category
	a.ChainCount = stats.Chains
	a.DeviceCount = stats.Devices
	a.MacroCount = stats.Macros
	a.WarningCount = len(a.Document.Warnings())
	a.ErrorCount = len(a.Document.Errors())
}

// ListFilter narrows List results. Zero values match everything.
type ListFilter struct {
	Category rack.Category

	// Name matches rack names containing the value, case-insensitively.
	Name  string
	Limit int
}

// Summary aggregates the library contents.
type Summary struct {
	Total      int                   `json:"total"`
	Devices    int                   `json:"devices"`
	WithErrors int                   `json:"with_errors"`
	ByCategory map[rack.Category]int `json:"by_category"`
}
