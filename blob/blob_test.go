package blob

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/blobgo/layout"
)

// evenByte is a one-byte test type accepting only even values.
type evenByte struct{}

func (evenByte) Layout() layout.Layout { return layout.New(1) }

func (evenByte) Validate(b []byte) error {
	if b[0]%2 != 0 {
		return errors.New("odd byte")
	}
	return nil
}

// anyByte accepts everything.
type anyByte struct{}

func (anyByte) Layout() layout.Layout { return layout.New(1) }
func (anyByte) Validate([]byte) error { return nil }

func TestMaybeValid_SizeContract(t *testing.T) {
	_, err := NewMaybeValid(evenByte{}, []byte{1, 2})
	var serr *SizeError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 1, serr.Want)
	assert.Equal(t, 2, serr.Got)
}

func TestMaybeValid_Validate(t *testing.T) {
	t.Run("transition preserves the span", func(t *testing.T) {
		raw := []byte{4}
		m, err := NewMaybeValid(evenByte{}, raw)
		require.NoError(t, err)

		v, err := m.Validate()
		require.NoError(t, err)

		// Same backing bytes: validation never copies.
		assert.Equal(t, &raw[0], &v.Bytes()[0])
	})

	t.Run("illegal bytes refuse the transition", func(t *testing.T) {
		m, err := NewMaybeValid(evenByte{}, []byte{3})
		require.NoError(t, err)
		_, err = m.Validate()
		require.Error(t, err)
	})
}

func TestValidate_Shorthand(t *testing.T) {
	v, err := Validate(evenByte{}, []byte{2})
	require.NoError(t, err)
	assert.Equal(t, []byte{2}, v.Bytes())
}

func TestAssumeValid(t *testing.T) {
	raw := []byte{8}
	v := AssumeValid(evenByte{}, raw)
	assert.Equal(t, &raw[0], &v.Bytes()[0])

	assert.Panics(t, func() {
		AssumeValid(evenByte{}, []byte{1, 2})
	})
}
