package codec

import (
	"errors"
	"fmt"

	"github.com/hupe1980/blobgo/blob"
	"github.com/hupe1980/blobgo/layout"
)

// ErrNonZeroViolation is returned when a non-zero integer's encoding is the
// all-zero pattern.
var ErrNonZeroViolation = errors.New("codec: non-zero integer encoded as zero")

// InvalidBooleanError indicates a boolean byte that is neither 0 nor 1.
type InvalidBooleanError struct {
	Byte byte
}

func (e *InvalidBooleanError) Error() string {
	return fmt.Sprintf("codec: invalid boolean byte %d", e.Byte)
}

// rawType is a fixed-width scalar for which every bit pattern is legal.
// Validation is a no-op beyond the length contract.
type rawType struct {
	size int
}

func (t rawType) Layout() layout.Layout   { return layout.New(t.size) }
func (t rawType) Validate(b []byte) error { return nil }

// boolType accepts exactly the bytes 0 and 1.
type boolType struct{}

func (boolType) Layout() layout.Layout { return layout.New(1) }

func (boolType) Validate(b []byte) error {
	if b[0] > 1 {
		return &InvalidBooleanError{Byte: b[0]}
	}
	return nil
}

// nonZeroType is a fixed-width integer whose all-zero pattern is reserved,
// making the whole encoding a niche.
type nonZeroType struct {
	size int
}

func (t nonZeroType) Layout() layout.Layout { return layout.NewNonZero(t.size) }

func (t nonZeroType) Validate(b []byte) error {
	if allZero(b) {
		return ErrNonZeroViolation
	}
	return nil
}

// The scalar leaf types. Each is stateless; use them directly as blob.Type
// values when building composites.
var (
	// Unit occupies no bytes.
	Unit blob.Type = rawType{size: 0}
	// Byte is a single opaque byte.
	Byte blob.Type = rawType{size: 1}
	// Bool is one byte, 0 or 1.
	Bool blob.Type = boolType{}

	Uint8  blob.Type = rawType{size: 1}
	Uint16 blob.Type = rawType{size: 2}
	Uint32 blob.Type = rawType{size: 4}
	Uint64 blob.Type = rawType{size: 8}

	NonZeroUint8  blob.Type = nonZeroType{size: 1}
	NonZeroUint16 blob.Type = nonZeroType{size: 2}
	NonZeroUint32 blob.Type = nonZeroType{size: 4}
	NonZeroUint64 blob.Type = nonZeroType{size: 8}
)
