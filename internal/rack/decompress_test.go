package rack_test

import (
	"errors"
	"testing"

	"rackscope/internal/rack"
	"rackscope/internal/testsupport"
)

func TestDecompressRejectsNonGzip(t *testing.T) {
	cases := map[string][]byte{
		"empty":     nil,
		"plain xml": []byte("<Ableton/>"),
		"truncated": testsupport.Gzip(t, []byte("<Ableton/>"))[:8],
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			tree, err := rack.Decompress(data)
			if tree != nil {
				t.Fatal("expected no tree")
			}
			var decompErr *rack.DecompressionError
			if !errors.As(err, &decompErr) {
				t.Fatalf("expected DecompressionError, got %v", err)
			}
			if !errors.Is(err, rack.ErrDecompression) || !rack.IsFatal(err) {
				t.Fatalf("expected fatal decompression error, got %v", err)
			}
		})
	}
}

func TestDecompressRejectsMalformedXML(t *testing.T) {
	cases := map[string]string{
		"unclosed root": "<Ableton><GroupDevicePreset>",
		"no root":       "just some text",
		"bad syntax":    "<<Ableton>",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := rack.Decompress(testsupport.Gzip(t, []byte(body)))
			var malformed *rack.MalformedDocumentError
			if !errors.As(err, &malformed) {
				t.Fatalf("expected MalformedDocumentError, got %v", err)
			}
			if errors.Is(err, rack.ErrDecompression) {
				t.Fatal("malformed markup must not be reported as a decompression failure")
			}
		})
	}
}

func TestDecompressParsesTree(t *testing.T) {
	data := testsupport.RackFixture{Tag: testsupport.InstrumentRack}.Gzip(t)
	tree, err := rack.Decompress(data)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if tree.Root() == nil || tree.Root().Tag != "Ableton" {
		t.Fatalf("unexpected root: %+v", tree.Root())
	}
}
