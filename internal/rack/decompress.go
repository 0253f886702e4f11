package rack

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/beevik/etree"
	"github.com/klauspost/compress/gzip"
)

// maxDecompressedBytes caps the inflated document size. Real presets are a
// few megabytes at most.
const maxDecompressedBytes = 256 << 20

// Decompress inflates a gzip-compressed preset and parses the XML inside.
// It never returns a partial tree: any gzip failure yields a
// *DecompressionError and any markup failure a *MalformedDocumentError.
func Decompress(data []byte) (*etree.Document, error) {
	raw, err := inflate(data)
	if err != nil {
		return nil, &DecompressionError{Err: err}
	}
	return parseXML(raw)
}

func inflate(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.New("empty input")
	}
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open gzip stream: %w", err)
	}
	defer zr.Close()

	raw, err := io.ReadAll(io.LimitReader(zr, maxDecompressedBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read gzip stream: %w", err)
	}
	if len(raw) > maxDecompressedBytes {
		return nil, fmt.Errorf("decompressed size exceeds %d bytes", maxDecompressedBytes)
	}
	return raw, nil
}

func parseXML(raw []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, &MalformedDocumentError{Err: err}
	}
	if doc.Root() == nil {
		return nil, &MalformedDocumentError{Err: errors.New("no root element")}
	}
	return doc, nil
}
