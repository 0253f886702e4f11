package export

import (
	"fmt"
	"strings"
)

// Format names an artifact encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCBOR Format = "cbor"
	FormatXML  Format = "xml"
)

// Formats lists every supported artifact format.
var Formats = []Format{FormatJSON, FormatYAML, FormatCBOR, FormatXML}

// ParseFormat maps a config or flag value to a Format.
func ParseFormat(value string) (Format, error) {
	normalized := Format(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case FormatJSON, FormatYAML, FormatCBOR, FormatXML:
		return normalized, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", value)
	}
}

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/yaml"
	case FormatCBOR:
		return "application/cbor"
	case FormatXML:
		return "application/xml"
	default:
		return "application/octet-stream"
	}
}
