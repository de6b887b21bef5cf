package codec

import (
	"github.com/hupe1980/blobgo/blob"
	"github.com/hupe1980/blobgo/layout"
)

// Field is one named field of a record.
type Field struct {
	Name string
	Type blob.Type
}

// StructType is a record: its fields concatenated in declared order with no
// implicit padding. The record's layout, including its niche, is folded from
// the fields with layout.Extend, so the byte image matches exactly what a
// cursor walk in declaration order expects.
type StructType struct {
	name   string
	fields []Field
	lay    layout.Layout
}

// Struct returns the wire type of a record with the given fields.
func Struct(name string, fields ...Field) StructType {
	lay := layout.New(0)
	for _, f := range fields {
		lay = lay.Extend(f.Type.Layout())
	}
	return StructType{name: name, fields: fields, lay: lay}
}

// Name returns the record's name, used in error text only.
func (t StructType) Name() string { return t.name }

// Fields returns the declared fields.
func (t StructType) Fields() []Field { return t.fields }

// Layout implements blob.Type.
func (t StructType) Layout() layout.Layout { return t.lay }

// Validate implements blob.Type by walking the fields with a cursor.
// A failure identifies the failing field by name and index.
func (t StructType) Validate(b []byte) error {
	c := blob.NewCursor(b)
	for _, f := range t.fields {
		if err := c.NamedField(f.Name, f.Type); err != nil {
			return err
		}
	}
	c.Finish(t)
	return nil
}

// FieldBytes returns field i's bytes within validated bytes b.
func (t StructType) FieldBytes(b []byte, i int) []byte {
	off := 0
	for j := 0; j < i; j++ {
		off += t.fields[j].Type.Layout().Len()
	}
	return b[off : off+t.fields[i].Type.Layout().Len()]
}
