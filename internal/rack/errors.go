package rack

import (
	"errors"
	"fmt"
)

var (
	// ErrDecompression marks input that is not a readable gzip stream.
	ErrDecompression = errors.New("decompression failed")
	// ErrMalformedDocument marks decompressed content that is not well-formed XML.
	ErrMalformedDocument = errors.New("malformed document")
	// ErrDepthExceeded is returned when rack nesting passes the configured ceiling.
	ErrDepthExceeded = errors.New("rack nesting too deep")
)

// DecompressionError reports that the raw bytes could not be gunzipped.
type DecompressionError struct {
	Err error
}

func (e *DecompressionError) Error() string {
	return fmt.Sprintf("%s: %v", ErrDecompression, e.Err)
}

func (e *DecompressionError) Unwrap() []error {
	return []error{ErrDecompression, e.Err}
}

// MalformedDocumentError reports that the decompressed bytes are not a
// well-formed XML document.
type MalformedDocumentError struct {
	Err error
}

func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("%s: %v", ErrMalformedDocument, e.Err)
}

func (e *MalformedDocumentError) Unwrap() []error {
	return []error{ErrMalformedDocument, e.Err}
}

// IsFatal reports whether err is one of the failures that prevent a document
// from being produced at all.
func IsFatal(err error) bool {
	return errors.Is(err, ErrDecompression) || errors.Is(err, ErrMalformedDocument)
}
