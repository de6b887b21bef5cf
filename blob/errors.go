package blob

import (
	"errors"
	"fmt"
)

// ErrPadding is returned when bytes that the encoding requires to be zero
// (unused union or absent-optional space) contain a non-zero byte.
var ErrPadding = errors.New("blob: non-zero padding")

// SizeError indicates a span whose length does not match the type's layout.
type SizeError struct {
	Want int
	Got  int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("blob: size mismatch: want %d bytes, got %d", e.Want, e.Got)
}

// FieldError wraps a validation failure with the position of the failing
// field, preserving a path from the composite down to the root cause.
//
// The original underlying error can be accessed via errors.Unwrap.
type FieldError struct {
	Index  int    // declaration-order index of the field or element
	Name   string // field name, if the composite has one; empty for elements
	Offset int    // byte offset of the field within the composite
	Err    error
}

func (e *FieldError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("field %q (index %d, offset %d): %v", e.Name, e.Index, e.Offset, e.Err)
	}
	return fmt.Sprintf("field %d (offset %d): %v", e.Index, e.Offset, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// DiscriminantError indicates a tag byte that names no inhabited alternative.
type DiscriminantError struct {
	Byte byte
}

func (e *DiscriminantError) Error() string {
	return fmt.Sprintf("blob: unrecognized discriminant %d", e.Byte)
}
