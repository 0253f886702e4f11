package export_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"rackscope/internal/export"
	"rackscope/internal/rack"
	"rackscope/internal/testsupport"
)

func sampleFixture() testsupport.RackFixture {
	return testsupport.RackFixture{
		Tag:    testsupport.AudioEffectRack,
		Macros: []testsupport.MacroFixture{{Index: 2, Name: "Space", Value: "42"}},
		Chains: []testsupport.ChainFixture{
			{Name: "Verb", Soloed: true, Devices: []testsupport.DeviceFixture{
				{Tag: "Reverb", UserName: "Hall"},
				{Tag: testsupport.AudioEffectRack},
			}},
		},
	}
}

func decodeSample(t *testing.T) (*rack.Document, []byte) {
	t.Helper()
	data := sampleFixture().Gzip(t)
	doc, err := rack.Decode("/presets/Space Verb.adg", data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return doc, data
}

func TestToMapReportLayout(t *testing.T) {
	doc, _ := decodeSample(t)
	report := export.ToMap(doc)

	if report["rack_name"] != "Space Verb" || report["rack_type"] != "AudioEffectGroupDevice" {
		t.Fatalf("unexpected header %v %v", report["rack_name"], report["rack_type"])
	}
	macros := report["macro_controls"].([]any)
	macro := macros[0].(map[string]any)
	if macro["name"] != "Space" || macro["value"] != 42.0 || macro["index"] != 2 {
		t.Fatalf("unexpected macro %v", macro)
	}

	chain := report["chains"].([]any)[0].(map[string]any)
	if chain["name"] != "Verb" || chain["is_soloed"] != true {
		t.Fatalf("unexpected chain %v", chain)
	}
	devices := chain["devices"].([]any)
	reverb := devices[0].(map[string]any)
	if reverb["name"] != "Hall" || reverb["preset_name"] != "Reverb" || reverb["is_on"] != true {
		t.Fatalf("unexpected device %v", reverb)
	}
	if _, ok := reverb["chains"]; ok {
		t.Fatal("plain devices must not carry a chains key")
	}
	nested := devices[1].(map[string]any)
	if chains, ok := nested["chains"].([]any); !ok || len(chains) != 0 {
		t.Fatalf("expected empty chains list on nested rack, got %v", nested["chains"])
	}

	warnings := report["parsing_warnings"].([]any)
	if len(warnings) != 1 || !strings.HasSuffix(warnings[0].(string), "(chains[0]/devices[1])") {
		t.Fatalf("unexpected warnings %v", warnings)
	}
	if _, ok := report["parsing_errors"]; ok {
		t.Fatal("expected no parsing_errors key without errors")
	}
	stats := report["stats"].(map[string]any)
	if stats["total_devices"] != 2 || stats["nested_racks"] != 1 {
		t.Fatalf("unexpected stats %v", stats)
	}
}

func TestToMapUnknownCategory(t *testing.T) {
	doc := &rack.Document{
		Name:        "Mystery",
		Diagnostics: []rack.Diagnostic{{Severity: rack.SeverityError, Message: "unknown rack type"}},
	}
	report := export.ToMap(doc)
	if report["rack_type"] != nil {
		t.Fatalf("expected nil rack type, got %v", report["rack_type"])
	}
	if errs := report["parsing_errors"].([]any); len(errs) != 1 || errs[0] != "unknown rack type" {
		t.Fatalf("unexpected errors %v", errs)
	}
}

func TestEncodeFormats(t *testing.T) {
	doc, _ := decodeSample(t)

	jsonOut, err := export.Encode(doc, export.FormatJSON, 2)
	if err != nil {
		t.Fatalf("Encode json: %v", err)
	}
	var fromJSON map[string]any
	if err := json.Unmarshal(jsonOut, &fromJSON); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if !strings.Contains(string(jsonOut), "\n  \"chains\"") {
		t.Fatalf("expected two-space indentation, got %s", jsonOut)
	}

	yamlOut, err := export.Encode(doc, export.FormatYAML, 2)
	if err != nil {
		t.Fatalf("Encode yaml: %v", err)
	}
	var fromYAML map[string]any
	if err := yaml.Unmarshal(yamlOut, &fromYAML); err != nil {
		t.Fatalf("decode yaml: %v", err)
	}

	cborOut, err := export.Encode(doc, export.FormatCBOR, 0)
	if err != nil {
		t.Fatalf("Encode cbor: %v", err)
	}
	var fromCBOR map[string]any
	if err := cbor.Unmarshal(cborOut, &fromCBOR); err != nil {
		t.Fatalf("decode cbor: %v", err)
	}

	for name, decoded := range map[string]map[string]any{"json": fromJSON, "yaml": fromYAML, "cbor": fromCBOR} {
		if decoded["rack_name"] != "Space Verb" {
			t.Errorf("%s: rack_name = %v", name, decoded["rack_name"])
		}
	}

	again, err := export.Encode(doc, export.FormatCBOR, 0)
	if err != nil || string(again) != string(cborOut) {
		t.Fatal("expected canonical cbor output to be stable")
	}

	if _, err := export.Encode(doc, export.FormatXML, 2); err == nil {
		t.Fatal("expected xml report encoding to be rejected")
	}
}

func TestPrettyXML(t *testing.T) {
	data := sampleFixture().Gzip(t)
	tree, err := rack.Decompress(data)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	out, err := export.PrettyXML(tree, 4)
	if err != nil {
		t.Fatalf("PrettyXML: %v", err)
	}
	text := string(out)
	if !strings.HasPrefix(text, "<?xml") {
		t.Fatalf("expected declaration, got %q", text[:20])
	}
	if strings.Count(text, "<?xml") != 1 {
		t.Fatal("expected exactly one declaration")
	}
	if !strings.Contains(text, "\n    <GroupDevicePreset>") {
		t.Fatalf("expected four-space indentation, got %s", text)
	}
}

func TestArtifactName(t *testing.T) {
	cases := []struct {
		source string
		format export.Format
		want   string
	}{
		{"/a/Bass Rack.adg", export.FormatJSON, "Bass Rack_analysis.json"},
		{"Bass Rack.adg", export.FormatXML, "Bass Rack.xml"},
		{"x/What?.adv", export.FormatYAML, "What_analysis.yaml"},
		{"", export.FormatCBOR, "rack_analysis.cbor"},
	}
	for _, tc := range cases {
		if got := export.ArtifactName(tc.source, tc.format); got != tc.want {
			t.Errorf("ArtifactName(%q, %s) = %q, want %q", tc.source, tc.format, got, tc.want)
		}
	}
}

func TestWriterWritesArtifacts(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithExportFormats("json", "cbor", "xml"))
	writer, err := export.NewWriterFromConfig(cfg, nil)
	if err != nil {
		t.Fatalf("NewWriterFromConfig: %v", err)
	}

	doc, data := decodeSample(t)
	tree, err := rack.Decompress(data)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	artifacts, err := writer.WriteArtifacts(doc, tree, "/presets/Space Verb.adg")
	if err != nil {
		t.Fatalf("WriteArtifacts: %v", err)
	}
	if len(artifacts) != 3 {
		t.Fatalf("expected 3 artifacts, got %+v", artifacts)
	}
	for _, name := range []string{"Space Verb_analysis.json", "Space Verb_analysis.cbor", "Space Verb.xml"} {
		if _, err := os.Stat(filepath.Join(cfg.Paths.ExportDir, name)); err != nil {
			t.Errorf("expected artifact %s: %v", name, err)
		}
	}

	withoutTree, err := writer.WriteArtifacts(doc, nil, "/presets/Space Verb.adg")
	if err != nil {
		t.Fatalf("WriteArtifacts without tree: %v", err)
	}
	if len(withoutTree) != 2 {
		t.Fatalf("expected xml to be skipped without a tree, got %+v", withoutTree)
	}
}

func TestWriterDisabledAndInvalid(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithExportFormats())
	writer, err := export.NewWriterFromConfig(cfg, nil)
	if err != nil || writer != nil {
		t.Fatalf("expected nil writer when exports are disabled, got %v %v", writer, err)
	}
	if _, err := export.NewWriter(t.TempDir(), []string{"toml"}, 2, nil); err == nil {
		t.Fatal("expected unsupported format error")
	}
}
