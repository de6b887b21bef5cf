package pile

import (
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestPile_AppendPositions(t *testing.T) {
	p := New()
	defer p.Close()

	// Records of length 1, 1, 0, 0 land at word-aligned positions
	// 0, 8, 16, 16: zero-length appends do not grow the region.
	positions := []uint64{}
	for _, n := range []int{1, 1, 0, 0} {
		pos, err := p.Append(make([]byte, n))
		require.NoError(t, err)
		positions = append(positions, pos)
	}
	assert.Equal(t, []uint64{0, 8, 16, 16}, positions)
	assert.Equal(t, uint64(16), p.Len())
}

func TestPile_AppendPadsWithZeros(t *testing.T) {
	p := New()
	defer p.Close()

	pos, err := p.Append([]byte{0xaa, 0xbb, 0xcc})
	require.NoError(t, err)
	require.Equal(t, uint64(0), pos)
	require.Equal(t, uint64(8), p.Len())

	b, err := p.Slice(0, 8)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xaa, 0xbb, 0xcc, 0, 0, 0, 0, 0}, b)
}

func TestPile_SliceBounds(t *testing.T) {
	p := New()
	defer p.Close()

	_, err := p.Append([]byte{1, 2, 3, 4})
	require.NoError(t, err)

	_, err = p.Slice(0, 4)
	require.NoError(t, err)

	_, err = p.Slice(8, 1)
	var rerr *RangeError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, uint64(8), rerr.Pos)

	// Overflowing pos+n must not wrap into range.
	_, err = p.Slice(^uint64(0)-2, 8)
	require.Error(t, err)
}

func TestPile_SnapshotStableAcrossGrowth(t *testing.T) {
	p := New()
	defer p.Close()

	first := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	_, err := p.Append(first)
	require.NoError(t, err)

	snap := p.Snapshot()
	require.Equal(t, uint64(8), snap.Len())

	// Force several growth cycles past minCapacity.
	big := make([]byte, 32*1024)
	for i := 0; i < 8; i++ {
		_, err := p.Append(big)
		require.NoError(t, err)
	}

	// The old snapshot still sees exactly its prefix.
	assert.Equal(t, uint64(8), snap.Len())
	b, err := snap.Slice(0, 8)
	require.NoError(t, err)
	assert.Equal(t, first, b)
}

func TestPile_ConcurrentReadersDuringAppend(t *testing.T) {
	p := New()
	defer p.Close()

	const rounds = 1000
	var stop atomic.Bool

	g := new(errgroup.Group)
	for r := 0; r < 4; r++ {
		g.Go(func() error {
			for !stop.Load() {
				// Anything beneath the published length must already
				// carry its record: first byte of each word non-zero.
				snap := p.Snapshot()
				b := snap.Bytes()
				for pos := uint64(0); pos < snap.Len(); pos += 8 {
					if b[pos] == 0 {
						stop.Store(true)
						return assert.AnError
					}
				}
			}
			return nil
		})
	}

	for i := 0; i < rounds; i++ {
		_, err := p.Append([]byte{byte(i%255 + 1)})
		require.NoError(t, err)
	}
	stop.Store(true)
	require.NoError(t, g.Wait(), "reader observed unpublished bytes")
}

func TestPile_Closed(t *testing.T) {
	p := New()
	require.NoError(t, p.Close())
	require.NoError(t, p.Close(), "close is idempotent")

	_, err := p.Append([]byte{1})
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, p.Sync(), ErrClosed)
}

func TestPile_FileBacked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "region.pile")

	p, err := OpenFile(path)
	require.NoError(t, err)

	pos1, err := p.Append([]byte{0xde, 0xad})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), pos1)

	pos2, err := p.Append([]byte{0xbe, 0xef, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07})
	require.NoError(t, err)
	assert.Equal(t, uint64(8), pos2)

	require.NoError(t, p.Sync())
	require.NoError(t, p.Close())

	// Reopen: the file was truncated to the published length and the
	// appended words read back bit-identical.
	p2, err := OpenFile(path)
	require.NoError(t, err)
	defer p2.Close()

	assert.Equal(t, uint64(24), p2.Len())
	b, err := p2.Slice(0, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad}, b)
	b, err = p2.Slice(8, 9)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xbe, 0xef, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07}, b)
}

func TestPile_FileBackedSnapshotSurvivesGrowth(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grow.pile")

	p, err := OpenFile(path)
	require.NoError(t, err)
	defer p.Close()

	first := []byte{9, 9, 9, 9}
	_, err = p.Append(first)
	require.NoError(t, err)
	snap := p.Snapshot()

	big := make([]byte, 128*1024)
	_, err = p.Append(big)
	require.NoError(t, err)

	b, err := snap.Slice(0, 4)
	require.NoError(t, err)
	assert.Equal(t, first, b)
}
