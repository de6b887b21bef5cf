package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/blobgo/blob"
)

func TestArray_Layout(t *testing.T) {
	arr := Array(Uint16, 3)
	assert.Equal(t, 6, arr.Layout().Len())
	assert.Equal(t, 3, arr.Count())

	t.Run("niche comes from the first element", func(t *testing.T) {
		narr := Array(NonZeroUint16, 4)
		start, end, ok := narr.Layout().Niche()
		require.True(t, ok)
		assert.Equal(t, 0, start)
		assert.Equal(t, 2, end)
	})

	t.Run("empty array", func(t *testing.T) {
		assert.Equal(t, 0, Array(Uint64, 0).Layout().Len())
	})
}

func TestArray_Validate(t *testing.T) {
	arr := Array(Bool, 3)

	t.Run("all elements valid", func(t *testing.T) {
		require.NoError(t, arr.Validate([]byte{1, 0, 1}))
	})

	t.Run("failure reports the element index", func(t *testing.T) {
		err := arr.Validate([]byte{1, 0, 3})
		var ferr *blob.FieldError
		require.ErrorAs(t, err, &ferr)
		assert.Equal(t, 2, ferr.Index)
		assert.Equal(t, 2, ferr.Offset)

		var berr *InvalidBooleanError
		require.ErrorAs(t, err, &berr)
		assert.Equal(t, byte(3), berr.Byte)
	})

	t.Run("short-circuits on the first failure", func(t *testing.T) {
		err := arr.Validate([]byte{1, 2, 3})
		var ferr *blob.FieldError
		require.ErrorAs(t, err, &ferr)
		assert.Equal(t, 1, ferr.Index)
	})
}

func TestArray_Index(t *testing.T) {
	arr := Array(Uint16, 3)
	b := []byte{1, 0, 2, 0, 3, 0}
	require.NoError(t, arr.Validate(b))
	assert.Equal(t, uint16(2), GetUint16(arr.Index(b, 1)))
	assert.Equal(t, uint16(3), GetUint16(arr.Index(b, 2)))
}
