// Package export renders decoded rack documents as analysis artifacts.
//
// ToMap produces the portable report shape shared by every encoder (JSON,
// YAML, CBOR). PrettyXML re-indents the decompressed preset tree so it can be
// read or diffed by hand. Writer places both kinds of artifact next to each
// other in the export directory, named after the source preset.
package export
