package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/blobgo/blob"
	"github.com/hupe1980/blobgo/testutil"
)

func TestScalar_Lengths(t *testing.T) {
	cases := []struct {
		typ  blob.Type
		want int
	}{
		{Unit, 0}, {Byte, 1}, {Bool, 1},
		{Uint8, 1}, {Uint16, 2}, {Uint32, 4}, {Uint64, 8},
		{NonZeroUint8, 1}, {NonZeroUint16, 2}, {NonZeroUint32, 4}, {NonZeroUint64, 8},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.typ.Layout().Len())
	}
}

func TestScalar_RawAcceptsEveryPattern(t *testing.T) {
	rng := testutil.NewRNG(42)
	for i := 0; i < 100; i++ {
		b := make([]byte, Uint64.Layout().Len())
		rng.FillBytes(b)
		assert.NoError(t, Uint64.Validate(b))
	}
	assert.NoError(t, Uint32.Validate([]byte{0, 0, 0, 0}))
	assert.NoError(t, Unit.Validate(nil))
}

func TestScalar_Bool(t *testing.T) {
	assert.NoError(t, Bool.Validate([]byte{0}))
	assert.NoError(t, Bool.Validate([]byte{1}))

	err := Bool.Validate([]byte{2})
	var berr *InvalidBooleanError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, byte(2), berr.Byte)
}

func TestScalar_NonZero(t *testing.T) {
	t.Run("all-zero rejected", func(t *testing.T) {
		assert.ErrorIs(t, NonZeroUint32.Validate([]byte{0, 0, 0, 0}), ErrNonZeroViolation)
		assert.ErrorIs(t, NonZeroUint8.Validate([]byte{0}), ErrNonZeroViolation)
	})

	t.Run("any other pattern accepted", func(t *testing.T) {
		rng := testutil.NewRNG(7)
		for i := 0; i < 100; i++ {
			b := make([]byte, 8)
			rng.FillNonZero(b)
			assert.NoError(t, NonZeroUint64.Validate(b))
		}
	})

	t.Run("whole encoding is the niche", func(t *testing.T) {
		start, end, ok := NonZeroUint16.Layout().Niche()
		require.True(t, ok)
		assert.Equal(t, 0, start)
		assert.Equal(t, 2, end)
	})
}

func TestScalar_LittleEndianAccessors(t *testing.T) {
	b := make([]byte, 8)
	PutUint64(b, 0x0123456789abcdef)
	assert.Equal(t, []byte{0xef, 0xcd, 0xab, 0x89, 0x67, 0x45, 0x23, 0x01}, b)
	assert.Equal(t, uint64(0x0123456789abcdef), GetUint64(b))

	b2 := make([]byte, 4)
	PutUint32(b2, 1)
	assert.Equal(t, []byte{1, 0, 0, 0}, b2)
	assert.Equal(t, uint32(1), GetUint32(b2))

	b3 := make([]byte, 2)
	PutUint16(b3, 0xbeef)
	assert.Equal(t, uint16(0xbeef), GetUint16(b3))
}
