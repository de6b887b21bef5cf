package codec

import (
	"fmt"

	"github.com/hupe1980/blobgo/blob"
	"github.com/hupe1980/blobgo/layout"
)

// Variant is one alternative of a tagged union. A nil Type marks the
// alternative as an uninhabited placeholder: it keeps its discriminant slot
// in declaration order but no value of it can ever be encoded.
type Variant struct {
	Name string
	Type blob.Type
}

// EnumType is a tagged union. Its length is the maximum over inhabited
// alternatives; a one-byte discriminant (the alternative's ascending
// declaration-order index) is prepended only when more than one alternative
// is inhabited. With a single inhabited alternative the union is
// transparent: same bytes, same niche.
type EnumType struct {
	name     string
	variants []Variant
	lay      layout.Layout
	tagged   bool
}

// Enum returns the wire type of a union over variants. It fails if no
// alternative is inhabited.
func Enum(name string, variants ...Variant) (EnumType, error) {
	alts := make([]layout.Layout, len(variants))
	for i, v := range variants {
		if v.Type == nil {
			alts[i] = layout.Never()
			continue
		}
		alts[i] = v.Type.Layout()
	}
	lay, tagged, err := layout.Enum(alts)
	if err != nil {
		return EnumType{}, fmt.Errorf("codec: enum %s: %w", name, err)
	}
	return EnumType{name: name, variants: variants, lay: lay, tagged: tagged}, nil
}

// Name returns the union's name, used in error text only.
func (t EnumType) Name() string { return t.name }

// Tagged reports whether the encoding spends a discriminant byte.
func (t EnumType) Tagged() bool { return t.tagged }

// Layout implements blob.Type.
func (t EnumType) Layout() layout.Layout { return t.lay }

// Validate implements blob.Type.
func (t EnumType) Validate(b []byte) error {
	if !t.tagged {
		for _, v := range t.variants {
			if v.Type != nil {
				return v.Type.Validate(b)
			}
		}
		// Enum() rejects fully uninhabited unions.
		panic("codec: untagged enum with no inhabited variant")
	}

	tag := b[0]
	if int(tag) >= len(t.variants) || t.variants[tag].Type == nil {
		return &blob.DiscriminantError{Byte: tag}
	}
	v := t.variants[tag]
	n := v.Type.Layout().Len()
	if err := v.Type.Validate(b[1 : 1+n]); err != nil {
		return &blob.FieldError{Index: int(tag), Name: v.Name, Offset: 1, Err: err}
	}
	// The slot is sized for the widest alternative; narrower payloads must
	// leave the tail zero or it is misread after a round trip.
	if !allZero(b[1+n:]) {
		return blob.ErrPadding
	}
	return nil
}

// Tag returns the declaration-order index of the alternative encoded by
// validated bytes b.
func (t EnumType) Tag(b []byte) int {
	if t.tagged {
		return int(b[0])
	}
	for i, v := range t.variants {
		if v.Type != nil {
			return i
		}
	}
	return -1
}

// Payload returns the alternative's bytes within validated bytes b.
func (t EnumType) Payload(b []byte) []byte {
	i := t.Tag(b)
	n := t.variants[i].Type.Layout().Len()
	if t.tagged {
		return b[1 : 1+n]
	}
	return b[:n]
}

// Encode returns the union's bytes for alternative tag with the given
// encoded payload, zero-filling any tail the widest alternative reserves.
func (t EnumType) Encode(tag int, payload []byte) ([]byte, error) {
	if tag < 0 || tag >= len(t.variants) || t.variants[tag].Type == nil {
		return nil, &blob.DiscriminantError{Byte: byte(tag)}
	}
	v := t.variants[tag]
	if want := v.Type.Layout().Len(); len(payload) != want {
		return nil, &blob.SizeError{Want: want, Got: len(payload)}
	}
	if err := v.Type.Validate(payload); err != nil {
		return nil, fmt.Errorf("codec: enum %s payload invalid: %w", t.name, err)
	}
	out := make([]byte, t.lay.Len())
	if t.tagged {
		out[0] = byte(tag)
		copy(out[1:], payload)
	} else {
		copy(out, payload)
	}
	return out, nil
}
