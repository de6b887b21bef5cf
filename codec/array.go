package codec

import (
	"fmt"

	"github.com/hupe1980/blobgo/blob"
	"github.com/hupe1980/blobgo/layout"
)

// ArrayType is a fixed-length sequence of one element type, laid out as the
// elements concatenated in ascending index order.
type ArrayType struct {
	elem  blob.Type
	count int
	lay   layout.Layout
}

// Array returns the wire type of count consecutive elem values.
func Array(elem blob.Type, count int) ArrayType {
	if count < 0 {
		panic(fmt.Sprintf("codec: negative array count %d", count))
	}
	lay := layout.New(0)
	for i := 0; i < count; i++ {
		lay = lay.Extend(elem.Layout())
	}
	return ArrayType{elem: elem, count: count, lay: lay}
}

// Elem returns the element type.
func (t ArrayType) Elem() blob.Type { return t.elem }

// Count returns the element count.
func (t ArrayType) Count() int { return t.count }

// Layout implements blob.Type.
func (t ArrayType) Layout() layout.Layout { return t.lay }

// Validate implements blob.Type. Elements are validated in ascending index
// order; the first failure is returned with its index attached.
func (t ArrayType) Validate(b []byte) error {
	n := t.elem.Layout().Len()
	for i := 0; i < t.count; i++ {
		off := i * n
		if err := t.elem.Validate(b[off : off+n]); err != nil {
			return &blob.FieldError{Index: i, Offset: off, Err: err}
		}
	}
	return nil
}

// Index returns element i's bytes within validated bytes b.
func (t ArrayType) Index(b []byte, i int) []byte {
	n := t.elem.Layout().Len()
	return b[i*n : (i+1)*n]
}
