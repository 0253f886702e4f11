package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"rackscope/internal/rack"
)

var cborMode = mustCBORMode()

func mustCBORMode() cbor.EncMode {
	mode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("cbor encode mode: %v", err))
	}
	return mode
}

// Encode renders the report map of doc in format. indent applies to JSON and
// YAML; CBOR output is canonical. FormatXML is rejected because it needs the
// source tree; use PrettyXML.
func Encode(doc *rack.Document, format Format, indent int) ([]byte, error) {
	report := ToMap(doc)
	switch format {
	case FormatJSON:
		return encodeJSON(report, indent)
	case FormatYAML:
		return encodeYAML(report, indent)
	case FormatCBOR:
		out, err := cborMode.Marshal(report)
		if err != nil {
			return nil, fmt.Errorf("encode cbor: %w", err)
		}
		return out, nil
	case FormatXML:
		return nil, fmt.Errorf("encode %s: report requires the source tree", format)
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

func encodeJSON(report map[string]any, indent int) ([]byte, error) {
	var (
		out []byte
		err error
	)
	if indent > 0 {
		out, err = json.MarshalIndent(report, "", strings.Repeat(" ", indent))
	} else {
		out, err = json.Marshal(report)
	}
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return append(out, '\n'), nil
}

func encodeYAML(report map[string]any, indent int) ([]byte, error) {
	if indent < 2 {
		indent = 2
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(indent)
	if err := enc.Encode(report); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// PrettyXML re-indents a copy of tree with indent spaces and an XML
// declaration. The input tree is not modified.
func PrettyXML(tree *etree.Document, indent int) ([]byte, error) {
	if tree == nil || tree.Root() == nil {
		return nil, fmt.Errorf("pretty xml: empty document")
	}
	if indent <= 0 {
		indent = 2
	}
	out := tree.Copy()
	if !hasDeclaration(out) {
		out.InsertChildAt(0, etree.NewProcInst("xml", `version="1.0" encoding="UTF-8"`))
	}
	out.Indent(indent)
	data, err := out.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("pretty xml: %w", err)
	}
	return data, nil
}

func hasDeclaration(doc *etree.Document) bool {
	for _, token := range doc.Child {
		if inst, ok := token.(*etree.ProcInst); ok && inst.Target == "xml" {
			return true
		}
	}
	return false
}
