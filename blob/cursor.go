package blob

import "fmt"

// Cursor walks a composite blob field by field, mirroring the order in which
// the type's layout was built with Extend. Each Field call slices the next
// field's bytes, validates them, and advances; failures come back wrapped in
// a FieldError carrying the field's index and byte offset.
type Cursor struct {
	b   []byte
	off int
	idx int
}

// NewCursor returns a cursor over b positioned at the first field.
func NewCursor(b []byte) *Cursor {
	return &Cursor{b: b}
}

// Offset returns the current byte offset.
func (c *Cursor) Offset() int { return c.off }

// Field validates the next field as a value of type t and advances past it.
func (c *Cursor) Field(t Type) error {
	return c.field(t, "")
}

// NamedField is Field with a field name attached to any failure.
func (c *Cursor) NamedField(name string, t Type) error {
	return c.field(t, name)
}

func (c *Cursor) field(t Type, name string) error {
	n := t.Layout().Len()
	if c.off+n > len(c.b) {
		return &FieldError{
			Index: c.idx, Name: name, Offset: c.off,
			Err: &SizeError{Want: n, Got: len(c.b) - c.off},
		}
	}
	if err := t.Validate(c.b[c.off : c.off+n]); err != nil {
		return &FieldError{Index: c.idx, Name: name, Offset: c.off, Err: err}
	}
	c.off += n
	c.idx++
	return nil
}

// Finish completes the walk, returning the Valid view of the whole blob.
//
// Contract: Finish may only be called once every field has been validated,
// i.e. the cursor's offset equals the blob length. The cast it performs is
// zero-cost, so nothing re-checks the bytes; calling it early is a
// programmer error, not a recoverable condition.
func (c *Cursor) Finish(t Type) Valid {
	if c.off != len(c.b) {
		panic(fmt.Sprintf("blob: Finish before full validation: offset %d of %d", c.off, len(c.b)))
	}
	return Valid{t: t, b: c.b}
}
