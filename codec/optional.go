package codec

import (
	"fmt"

	"github.com/hupe1980/blobgo/blob"
	"github.com/hupe1980/blobgo/layout"
)

// OptionalType encodes a value that may be absent.
//
// The encoding is chosen once, at construction time, from the element's
// layout. If the element has a niche, absence is the all-zero bit pattern
// and presence is any legal element value, so the optional costs no extra
// byte. Otherwise a one-byte discriminant (0 absent, 1 present) is
// prepended and an absent value zero-fills the element's slot so round
// trips stay byte-identical.
//
// The optional itself never has a niche: its absent encoding is all-zero,
// so no byte range of it is non-zero across every legal value. Nesting an
// optional therefore always falls back to the tagged encoding.
type OptionalType struct {
	elem   blob.Type
	lay    layout.Layout
	tagged bool
}

// Optional returns the optional wire type over elem.
func Optional(elem blob.Type) OptionalType {
	el := elem.Layout()
	if _, _, ok := el.Niche(); ok {
		// The element's niche is consumed here to mean "absent"; it must
		// not leak into the optional's own layout, whose all-zero absent
		// form would contradict it.
		return OptionalType{elem: elem, lay: layout.New(el.Len())}
	}
	return OptionalType{elem: elem, lay: layout.New(1 + el.Len()), tagged: true}
}

// Elem returns the element type.
func (t OptionalType) Elem() blob.Type { return t.elem }

// Tagged reports whether the encoding spends a discriminant byte.
func (t OptionalType) Tagged() bool { return t.tagged }

// Layout implements blob.Type.
func (t OptionalType) Layout() layout.Layout { return t.lay }

// Validate implements blob.Type.
func (t OptionalType) Validate(b []byte) error {
	if !t.tagged {
		if allZero(b) {
			return nil // absent
		}
		return t.elem.Validate(b)
	}

	switch b[0] {
	case 0:
		if !allZero(b[1:]) {
			return blob.ErrPadding
		}
		return nil
	case 1:
		if err := t.elem.Validate(b[1:]); err != nil {
			return &blob.FieldError{Index: 0, Offset: 1, Err: err}
		}
		return nil
	default:
		return &blob.DiscriminantError{Byte: b[0]}
	}
}

// IsAbsent reports whether validated bytes b encode absence.
func (t OptionalType) IsAbsent(b []byte) bool {
	if t.tagged {
		return b[0] == 0
	}
	return allZero(b)
}

// Payload returns the element's bytes within validated, present bytes b.
func (t OptionalType) Payload(b []byte) []byte {
	if t.tagged {
		return b[1 : 1+t.elem.Layout().Len()]
	}
	return b
}

// EncodeAbsent returns the encoding of absence: all-zero for the whole slot.
func (t OptionalType) EncodeAbsent() []byte {
	return make([]byte, t.lay.Len())
}

// EncodePresent returns the encoding of a present value from the element's
// encoded bytes. The element bytes are validated first so a niche-encoded
// optional can never be handed the reserved all-zero pattern.
func (t OptionalType) EncodePresent(elem []byte) ([]byte, error) {
	if want := t.elem.Layout().Len(); len(elem) != want {
		return nil, &blob.SizeError{Want: want, Got: len(elem)}
	}
	if err := t.elem.Validate(elem); err != nil {
		return nil, fmt.Errorf("codec: optional payload invalid: %w", err)
	}
	out := make([]byte, t.lay.Len())
	if t.tagged {
		out[0] = 1
		copy(out[1:], elem)
	} else {
		copy(out, elem)
	}
	return out, nil
}
