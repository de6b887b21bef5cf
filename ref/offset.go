// Package ref implements the relative reference model: non-zero,
// word-counted offsets into an append-only region, and the tagged pointer
// word that can hold either such an offset or a backend-resolved word.
package ref

import (
	"errors"
	"fmt"
)

// WordSize is the addressing granularity of persisted regions, in bytes.
// Region positions are always multiples of WordSize.
const WordSize = 8

// MaxOffset is the largest representable offset word count. One bit of the
// pointer word is reserved for the tag, so offsets above this ceiling must
// fail at allocation time rather than be truncated.
const MaxOffset = 1<<63 - 1

var (
	// ErrZeroOffset is returned when constructing an offset of zero; zero is
	// reserved to mean "absent", which is what makes an optional offset free.
	ErrZeroOffset = errors.New("ref: offset zero is reserved")
	// ErrOffsetRange is returned when an offset exceeds MaxOffset.
	ErrOffsetRange = errors.New("ref: offset out of range")
	// ErrUnaligned is returned for region positions that are not
	// word-aligned.
	ErrUnaligned = errors.New("ref: position not word-aligned")
)

// Offset is a positive word count denoting a position in a backing region.
// The zero value is not a valid offset.
type Offset uint64

// NewOffset returns the offset with word count n. n must be positive and at
// most MaxOffset.
func NewOffset(n uint64) (Offset, error) {
	if n == 0 {
		return 0, ErrZeroOffset
	}
	if n > MaxOffset {
		return 0, fmt.Errorf("%w: %d > %d", ErrOffsetRange, uint64(n), uint64(MaxOffset))
	}
	return Offset(n), nil
}

// FromPosition returns the offset addressing the word-aligned byte position
// pos. Position 0 maps to word count 1: the region's first word is word one,
// keeping word zero free to mean "absent".
func FromPosition(pos uint64) (Offset, error) {
	if pos%WordSize != 0 {
		return 0, fmt.Errorf("%w: %d", ErrUnaligned, pos)
	}
	return NewOffset(pos/WordSize + 1)
}

// Get returns the word count.
func (o Offset) Get() uint64 { return uint64(o) }

// Position returns the byte position the offset addresses.
func (o Offset) Position() uint64 { return (uint64(o) - 1) * WordSize }

func (o Offset) String() string { return fmt.Sprintf("Offset(%d)", uint64(o)) }
