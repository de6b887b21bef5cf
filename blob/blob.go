// Package blob implements the zero-copy validation protocol.
//
// A blob is a fixed-length byte span understood to encode exactly one value
// of a known type. Untrusted spans enter as MaybeValid; a successful
// Validate yields a Valid view of the same bytes. The transition is the only
// effect of validation — no byte is ever copied or rewritten, so a Valid
// view read back from a persisted region is bit-identical to the bytes that
// were written.
package blob

import "github.com/hupe1980/blobgo/layout"

// Type is the wire contract one value type implements.
//
// Implementations must be stateless and safe for concurrent use: Layout is
// computed structurally and Validate is a pure function of its input.
type Type interface {
	// Layout returns the byte footprint of the type.
	Layout() layout.Layout

	// Validate reports whether b is a legal encoding. b is exactly
	// Layout().Len() bytes; callers are responsible for the length.
	Validate(b []byte) error
}

// MaybeValid is an untrusted view of a blob. It asserts nothing about the
// bytes beyond their length.
type MaybeValid struct {
	t Type
	b []byte
}

// NewMaybeValid wraps b as an untrusted blob of type t. The only check is
// that b has exactly the type's wire length.
func NewMaybeValid(t Type, b []byte) (MaybeValid, error) {
	if want := t.Layout().Len(); len(b) != want {
		return MaybeValid{}, &SizeError{Want: want, Got: len(b)}
	}
	return MaybeValid{t: t, b: b}, nil
}

// Type returns the target type.
func (m MaybeValid) Type() Type { return m.t }

// Bytes returns the underlying span. Callers must treat it as immutable.
func (m MaybeValid) Bytes() []byte { return m.b }

// Validate proves the bytes are a legal encoding, returning the Valid view
// of the same span. No copy is performed.
func (m MaybeValid) Validate() (Valid, error) {
	if err := m.t.Validate(m.b); err != nil {
		return Valid{}, err
	}
	return Valid{t: m.t, b: m.b}, nil
}

// Valid is a validated view of a blob. It is only produced by a successful
// Validate (or by AssumeValid), so holding one proves the bytes are legal.
type Valid struct {
	t Type
	b []byte
}

// Validate wraps and validates b as a value of type t in one step.
func Validate(t Type, b []byte) (Valid, error) {
	m, err := NewMaybeValid(t, b)
	if err != nil {
		return Valid{}, err
	}
	return m.Validate()
}

// Type returns the target type.
func (v Valid) Type() Type { return v.t }

// Bytes returns the underlying span. Callers must treat it as immutable.
func (v Valid) Bytes() []byte { return v.b }

// AssumeValid wraps b as an already-validated blob of type t without running
// the validator.
//
// This is the escape hatch for bytes whose validity is established elsewhere
// (for example a heap arena handing back a slot it validated at allocation
// time). Passing bytes that are not a legal encoding of t breaks every
// guarantee a Valid view carries; nothing on the ordinary validated paths
// calls this.
func AssumeValid(t Type, b []byte) Valid {
	if want := t.Layout().Len(); len(b) != want {
		panic("blob: AssumeValid length mismatch")
	}
	return Valid{t: t, b: b}
}
