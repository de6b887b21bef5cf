package blob

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/blobgo/layout"
)

// pair is evenByte ++ anyByte, validated through the cursor.
type pair struct{}

func (pair) Layout() layout.Layout {
	return layout.New(1).Extend(layout.New(1))
}

func (pair) Validate(b []byte) error {
	c := NewCursor(b)
	if err := c.NamedField("even", evenByte{}); err != nil {
		return err
	}
	if err := c.NamedField("any", anyByte{}); err != nil {
		return err
	}
	c.Finish(pair{})
	return nil
}

func TestCursor_WalksInOrder(t *testing.T) {
	c := NewCursor([]byte{2, 9})
	require.NoError(t, c.Field(evenByte{}))
	assert.Equal(t, 1, c.Offset())
	require.NoError(t, c.Field(anyByte{}))
	assert.Equal(t, 2, c.Offset())

	v := c.Finish(pair{})
	assert.Equal(t, []byte{2, 9}, v.Bytes())
}

func TestCursor_FieldFailureWrapped(t *testing.T) {
	c := NewCursor([]byte{2, 9})
	require.NoError(t, c.Field(evenByte{}))

	err := c.NamedField("broken", evenByte{})
	var ferr *FieldError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, 1, ferr.Index)
	assert.Equal(t, "broken", ferr.Name)
	assert.Equal(t, 1, ferr.Offset)

	// The cursor does not advance past a failed field.
	assert.Equal(t, 1, c.Offset())
}

func TestCursor_TruncatedField(t *testing.T) {
	c := NewCursor([]byte{2})
	require.NoError(t, c.Field(evenByte{}))

	err := c.Field(anyByte{})
	var ferr *FieldError
	require.ErrorAs(t, err, &ferr)
	var serr *SizeError
	require.ErrorAs(t, err, &serr)
}

func TestCursor_FinishContract(t *testing.T) {
	c := NewCursor([]byte{2, 9})
	require.NoError(t, c.Field(evenByte{}))

	// Finishing before the walk reaches the end is a programmer error.
	assert.Panics(t, func() {
		c.Finish(pair{})
	})
}

func TestCursor_ComposedType(t *testing.T) {
	v, err := Validate(pair{}, []byte{4, 7})
	require.NoError(t, err)
	assert.Equal(t, []byte{4, 7}, v.Bytes())

	_, err = Validate(pair{}, []byte{5, 7})
	var ferr *FieldError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, "even", ferr.Name)
	assert.Equal(t, 0, ferr.Index)
}
