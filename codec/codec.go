// Package codec provides the built-in wire types: scalar leaves and the
// composite combinators (optionals, fixed arrays, records, tagged unions)
// built on top of the blob validation protocol.
//
// Codec selection is a breaking-change boundary: the byte images produced
// here are the persistence format. Records are the concatenation of their
// fields in declared order with no implicit padding, numeric scalars are
// little-endian, and unions spend a discriminant byte only when the layout
// engine cannot avoid it.
package codec

import "encoding/binary"

// Little-endian accessors for validated scalar bytes. Thin wrappers over
// encoding/binary, kept here so call sites spell the format's byte order
// exactly once.

// GetUint16 reads a little-endian uint16.
func GetUint16(b []byte) uint16 { return binary.LittleEndian.Uint16(b) }

// GetUint32 reads a little-endian uint32.
func GetUint32(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }

// GetUint64 reads a little-endian uint64.
func GetUint64(b []byte) uint64 { return binary.LittleEndian.Uint64(b) }

// PutUint16 writes a little-endian uint16.
func PutUint16(b []byte, v uint16) { binary.LittleEndian.PutUint16(b, v) }

// PutUint32 writes a little-endian uint32.
func PutUint32(b []byte, v uint32) { binary.LittleEndian.PutUint32(b, v) }

// PutUint64 writes a little-endian uint64.
func PutUint64(b []byte, v uint64) { binary.LittleEndian.PutUint64(b, v) }

func allZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
