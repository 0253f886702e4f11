// Package textutil provides name normalization and filename sanitization
// shared by the exporters and the library.
package textutil
