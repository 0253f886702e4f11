package rack

import (
	"fmt"
)

// MaxMacroControls is the number of macro slots a rack exposes.
const MaxMacroControls = 16

// Document is the decoded form of one rack preset file.
type Document struct {
	Name          string         `json:"name"`
	Category      Category       `json:"category"`
	MacroControls []MacroControl `json:"macro_controls"`
	Chains        []Chain        `json:"chains"`
	Diagnostics   []Diagnostic   `json:"diagnostics"`
}

// MacroControl is a renamed macro knob and its stored value.
type MacroControl struct {
	Index       int     `json:"index"`
	DisplayName string  `json:"display_name"`
	Value       float64 `json:"value"`
}

// Chain is one parallel signal path inside a rack.
type Chain struct {
	Name     string   `json:"name"`
	IsSoloed bool     `json:"is_soloed"`
	Devices  []Device `json:"devices"`
}

// Device is a single device inside a chain.
//
// NestedChains is nil for plain devices and non-nil (possibly empty) for
// devices that are racks themselves.
type Device struct {
	TypeTag      string  `json:"type_tag"`
	DisplayName  string  `json:"display_name"`
	PresetName   string  `json:"preset_name,omitempty"`
	IsEnabled    bool    `json:"is_enabled"`
	NestedChains []Chain `json:"nested_chains"`
}

// IsContainer reports whether the device is a nested rack.
func (d Device) IsContainer() bool {
	return d.NestedChains != nil
}

// Severity grades a Diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "warning":
		*s = SeverityWarning
	case "error":
		*s = SeverityError
	default:
		return fmt.Errorf("unknown severity %q", string(text))
	}
	return nil
}

// Diagnostic is a non-fatal note about something the decoder could not read.
// Context names the chain index or device path the note applies to, and is
// empty for document-level notes.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Context  string   `json:"context,omitempty"`
}

func (d Diagnostic) String() string {
	if d.Context == "" {
		return fmt.Sprintf("%s: %s", d.Severity, d.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", d.Severity, d.Message, d.Context)
}

// Warnings returns the warning-level diagnostics in order.
func (d *Document) Warnings() []Diagnostic {
	return d.diagnosticsOf(SeverityWarning)
}

// Errors returns the error-level diagnostics in order.
func (d *Document) Errors() []Diagnostic {
	return d.diagnosticsOf(SeverityError)
}

// HasErrors reports whether any error-level diagnostic was recorded.
func (d *Document) HasErrors() bool {
	return len(d.Errors()) > 0
}

func (d *Document) diagnosticsOf(severity Severity) []Diagnostic {
	var out []Diagnostic
	for _, diag := range d.Diagnostics {
		if diag.Severity == severity {
			out = append(out, diag)
		}
	}
	return out
}

// Stats summarizes the size of a decoded document.
type Stats struct {
	Chains      int `json:"total_chains"`
	Devices     int `json:"total_devices"`
	NestedRacks int `json:"nested_racks"`
	Macros      int `json:"macro_controls"`
	MaxDepth    int `json:"max_depth"`
}

// Stats walks the chain tree and counts chains, devices, and nested racks.
// Chains and Devices include nested levels; MaxDepth is 0 for a flat rack.
func (d *Document) Stats() Stats {
	stats := Stats{Chains: len(d.Chains), Macros: len(d.MacroControls)}
	countChains(d.Chains, 0, &stats)
	return stats
}

// DeviceCount returns the number of devices at every nesting level.
func (d *Document) DeviceCount() int {
	return d.Stats().Devices
}

func countChains(chains []Chain, depth int, stats *Stats) {
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}
	for _, chain := range chains {
		for _, device := range chain.Devices {
			stats.Devices++
			if device.IsContainer() {
				stats.NestedRacks++
				stats.Chains += len(device.NestedChains)
				countChains(device.NestedChains, depth+1, stats)
			}
		}
	}
}
