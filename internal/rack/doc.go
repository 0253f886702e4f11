// Package rack decodes device-rack preset files into a typed model of chains,
// devices, and macro controls.
//
// A preset is a gzip-compressed XML document. Decoding runs in one direction:
// the container is decompressed into an element tree, the rack category is
// detected, macro controls and chains are extracted, and every device is
// resolved to a display name through a static type table. Devices that are
// themselves racks are walked recursively, bounded by a depth ceiling.
//
// Only decompression and malformed-markup failures are fatal. Everything else
// (unknown categories, missing branch collections, broken chains) is recorded
// as a Diagnostic on the returned Document so callers always get either a
// fatal error or a document that explains what it could not read.
//
// Decoding is pure and stateless; independent files may be decoded from
// multiple goroutines without coordination.
package rack
