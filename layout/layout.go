// Package layout computes byte footprints for wire types.
//
// A Layout describes how many bytes a type occupies on the wire and,
// optionally, its niche: a contiguous byte range that is guaranteed to
// contain at least one non-zero byte in every legal encoding. Niches let
// enclosing codecs store "absent" or discriminant information inside bytes
// the value already owns, instead of spending an extra tag byte.
//
// Layouts are plain values. They are computed structurally from a type's
// definition and are never persisted; two independently computed layouts for
// the same type are always equal.
package layout

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidNiche is returned when a niche range does not fit the value.
	ErrInvalidNiche = errors.New("layout: invalid niche range")
	// ErrUninhabited is returned when an enum has no inhabited alternative.
	ErrUninhabited = errors.New("layout: no inhabited alternative")
)

// Layout is the byte footprint of a wire type.
//
// The zero value is the layout of the unit type: zero bytes, no niche.
type Layout struct {
	length      int
	nicheStart  int
	nicheEnd    int
	hasNiche    bool
	uninhabited bool
}

// New returns the layout of a type occupying length bytes with no niche.
func New(length int) Layout {
	if length < 0 {
		panic(fmt.Sprintf("layout: negative length %d", length))
	}
	return Layout{length: length}
}

// NewNonZero returns the layout of a type whose entire encoding is its
// niche: no legal value is all-zero.
func NewNonZero(length int) Layout {
	if length <= 0 {
		panic(fmt.Sprintf("layout: non-zero layout needs positive length, got %d", length))
	}
	return Layout{length: length, nicheStart: 0, nicheEnd: length, hasNiche: true}
}

// WithNiche returns the layout of a type occupying length bytes whose niche
// is the byte range [start, end). An empty range means no niche.
func WithNiche(length, start, end int) (Layout, error) {
	if length < 0 {
		return Layout{}, fmt.Errorf("%w: negative length %d", ErrInvalidNiche, length)
	}
	if start > end {
		return Layout{}, fmt.Errorf("%w: start %d > end %d", ErrInvalidNiche, start, end)
	}
	if start < 0 || end > length {
		return Layout{}, fmt.Errorf("%w: [%d,%d) outside [0,%d)", ErrInvalidNiche, start, end, length)
	}
	if start == end {
		return Layout{length: length}, nil
	}
	return Layout{length: length, nicheStart: start, nicheEnd: end, hasNiche: true}, nil
}

// Never returns the layout of an uninhabited type: a placeholder alternative
// that no value can legally encode. Only Enum treats it specially.
func Never() Layout {
	return Layout{uninhabited: true}
}

// Len returns the byte length.
func (l Layout) Len() int { return l.length }

// Niche returns the niche range [start, end), if any.
func (l Layout) Niche() (start, end int, ok bool) {
	if !l.hasNiche {
		return 0, 0, false
	}
	return l.nicheStart, l.nicheEnd, true
}

// Inhabited reports whether any value of the type exists.
func (l Layout) Inhabited() bool { return !l.uninhabited }

func (l Layout) nicheWidth() int { return l.nicheEnd - l.nicheStart }

// Extend returns the layout of l followed immediately by other, with no
// padding between them. The combined niche is the shorter of the two input
// niches (ties prefer l); a niche contributed by other is shifted by l's
// length so that it addresses the same bytes in the combined encoding.
func (l Layout) Extend(other Layout) Layout {
	out := Layout{length: l.length + other.length}

	switch {
	case l.hasNiche && other.hasNiche:
		if l.nicheWidth() <= other.nicheWidth() {
			out.nicheStart, out.nicheEnd = l.nicheStart, l.nicheEnd
		} else {
			out.nicheStart = other.nicheStart + l.length
			out.nicheEnd = other.nicheEnd + l.length
		}
		out.hasNiche = true
	case l.hasNiche:
		out.nicheStart, out.nicheEnd = l.nicheStart, l.nicheEnd
		out.hasNiche = true
	case other.hasNiche:
		out.nicheStart = other.nicheStart + l.length
		out.nicheEnd = other.nicheEnd + l.length
		out.hasNiche = true
	}
	return out
}

// Enum returns the layout of a tagged union over alts, in declaration order.
//
// Alternatives with a Never layout are uninhabited placeholders and do not
// occupy wire space. The union's length is the maximum length over inhabited
// alternatives. With more than one inhabited alternative a one-byte
// discriminant is prepended (tagged == true) and the union has no niche;
// with exactly one, the union is that alternative's layout unchanged.
// Discriminant values are the ascending declaration-order indices of the
// alternatives.
func Enum(alts []Layout) (l Layout, tagged bool, err error) {
	var (
		inhabited int
		only      Layout
		maxLen    int
	)
	for _, a := range alts {
		if !a.Inhabited() {
			continue
		}
		inhabited++
		only = a
		if a.length > maxLen {
			maxLen = a.length
		}
	}
	switch inhabited {
	case 0:
		return Layout{}, false, ErrUninhabited
	case 1:
		return only, false, nil
	default:
		return Layout{length: 1 + maxLen}, true, nil
	}
}

func (l Layout) String() string {
	if l.uninhabited {
		return "Layout{never}"
	}
	if !l.hasNiche {
		return fmt.Sprintf("Layout{len: %d}", l.length)
	}
	return fmt.Sprintf("Layout{len: %d, niche: [%d,%d)}", l.length, l.nicheStart, l.nicheEnd)
}
