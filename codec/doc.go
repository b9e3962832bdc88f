// Package codec writes parsed FITS headers as a stream of records, one
// per HDU, in NDJSON, YAML or CBOR.
//
// Records keep the card order of the header. The CBOR encoding uses Core
// Deterministic Encoding, so identical headers always produce identical
// bytes.
package codec
