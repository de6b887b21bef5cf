// Package pile implements the append-only persisted byte region backing the
// persisted-region arena.
//
// A pile starts empty and grows only by appending whole encoded values,
// each aligned up to an 8-byte word. Byte positions are stable forever:
// published bytes are never rewritten or reclaimed.
//
// The append path is single-writer (serialized internally); reads are
// lock-free. The published length is stored after the new bytes are fully
// written, and readers load it before trusting anything beneath it — that
// pairing is the only concurrency primitive the region needs. Growth
// republishes a larger backing without touching the already-published
// prefix, so a Snapshot stays stable across later appends.
package pile

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/blobgo/internal/conv"
	"github.com/hupe1980/blobgo/internal/mmap"
	"github.com/hupe1980/blobgo/ref"
)

const (
	// minCapacity is the smallest backing allocation, in bytes.
	minCapacity = 64 * 1024
)

var (
	// ErrClosed is returned when using a closed pile.
	ErrClosed = errors.New("pile: closed")
)

// RangeError indicates a read beyond the published length.
type RangeError struct {
	Pos uint64
	Len uint64
	End uint64 // published length at the time of the read
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("pile: range [%d,%d) beyond published length %d", e.Pos, e.Pos+e.Len, e.End)
}

// backend supplies and persists backing storage for the region.
type backend interface {
	// grow returns a zeroed backing of at least need bytes whose prefix
	// up to length equals the current backing's prefix. The previous
	// backing must remain readable until close.
	grow(cur []byte, length, need uint64) ([]byte, error)
	sync() error
	close(length uint64) error
}

// Pile is the append-only region. The zero value is not usable; use New or
// OpenFile.
type Pile struct {
	mu     sync.Mutex // serializes the append path
	data   atomic.Pointer[[]byte]
	length atomic.Uint64 // published bytes; stored only after they are written
	be     backend
	closed atomic.Bool
}

// New returns an empty in-memory pile.
func New() *Pile {
	p := &Pile{be: &memBackend{}}
	empty := []byte{}
	p.data.Store(&empty)
	return p
}

// OpenFile opens (or creates) a file-backed pile at path. An existing
// file's size is the region's published length and must be word-aligned.
func OpenFile(path string) (*Pile, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	size, err := conv.Int64ToInt(fi.Size())
	if err != nil {
		f.Close()
		return nil, err
	}
	if size%ref.WordSize != 0 {
		f.Close()
		return nil, fmt.Errorf("pile: file %s has unaligned size %d", path, size)
	}

	p := &Pile{be: &fileBackend{f: f}}
	data := []byte{}
	if size > 0 {
		fb := p.be.(*fileBackend)
		m, err := mmap.MapFile(f, size)
		if err != nil {
			f.Close()
			return nil, err
		}
		fb.maps = append(fb.maps, m)
		fb.capacity = uint64(size)
		data = m.Bytes()
	}
	p.data.Store(&data)
	p.length.Store(uint64(size))
	return p, nil
}

// Len returns the published length in bytes. Bytes beneath it are immutable
// and safe to read concurrently with later appends.
func (p *Pile) Len() uint64 { return p.length.Load() }

// Append writes b at the end of the region and returns the byte position it
// starts at. The region advances by len(b) rounded up to a whole word; the
// padding stays zero. A zero-length append returns the current end without
// growing.
func (p *Pile) Append(b []byte) (uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed.Load() {
		return 0, ErrClosed
	}
	pos := p.length.Load()
	if len(b) == 0 {
		return pos, nil
	}

	n, err := conv.IntToUint64(len(b))
	if err != nil {
		return 0, err
	}
	end := pos + alignUp(n)

	cur := *p.data.Load()
	if end > uint64(len(cur)) {
		need := max(end, uint64(len(cur))*2, minCapacity)
		grown, err := p.be.grow(cur, pos, need)
		if err != nil {
			return 0, err
		}
		p.data.Store(&grown)
		cur = grown
	}

	copy(cur[pos:], b)
	// Publish: everything beneath end is now written.
	p.length.Store(end)
	return pos, nil
}

// Snapshot captures the currently published prefix. The returned view stays
// valid and stable across later appends and growth.
func (p *Pile) Snapshot() Snapshot {
	// Length first: any backing published afterwards carries at least
	// this prefix.
	n := p.length.Load()
	data := *p.data.Load()
	return Snapshot{b: data[:n]}
}

// Slice returns the n bytes at position pos. The slice aliases the region;
// callers must treat it as immutable.
func (p *Pile) Slice(pos, n uint64) ([]byte, error) {
	return p.Snapshot().Slice(pos, n)
}

// Sync flushes a file-backed region to disk. In-memory piles are a no-op.
func (p *Pile) Sync() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed.Load() {
		return ErrClosed
	}
	return p.be.sync()
}

// Close releases the backing storage. File-backed piles are truncated to
// the published length so reopening sees exactly the appended words.
func (p *Pile) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed.Swap(true) {
		return nil
	}
	return p.be.close(p.length.Load())
}

// Snapshot is a stable view of a region prefix.
type Snapshot struct {
	b []byte
}

// Len returns the snapshot's length in bytes.
func (s Snapshot) Len() uint64 { return uint64(len(s.b)) }

// Bytes returns the snapshot's bytes. Callers must treat them as immutable.
func (s Snapshot) Bytes() []byte { return s.b }

// Slice returns the n bytes at position pos within the snapshot.
func (s Snapshot) Slice(pos, n uint64) ([]byte, error) {
	end := pos + n
	if end < pos || end > uint64(len(s.b)) {
		return nil, &RangeError{Pos: pos, Len: n, End: uint64(len(s.b))}
	}
	return s.b[pos:end], nil
}

func alignUp(n uint64) uint64 {
	return (n + ref.WordSize - 1) &^ uint64(ref.WordSize-1)
}

// memBackend backs the region with garbage-collected slices.
type memBackend struct{}

func (*memBackend) grow(cur []byte, length, need uint64) ([]byte, error) {
	n, err := conv.Uint64ToInt(need)
	if err != nil {
		return nil, err
	}
	grown := make([]byte, n)
	copy(grown, cur[:length])
	return grown, nil
}

func (*memBackend) sync() error               { return nil }
func (*memBackend) close(length uint64) error { return nil }

// fileBackend backs the region with a shared file mapping. Superseded
// mappings are retired but kept mapped until close so older snapshots stay
// valid.
type fileBackend struct {
	f        *os.File
	maps     []*mmap.Mapping
	capacity uint64
}

func (fb *fileBackend) grow(cur []byte, length, need uint64) ([]byte, error) {
	size, err := conv.Uint64ToInt(need)
	if err != nil {
		return nil, err
	}
	if err := fb.f.Truncate(int64(size)); err != nil {
		return nil, err
	}
	m, err := mmap.MapFile(fb.f, size)
	if err != nil {
		return nil, err
	}
	fb.maps = append(fb.maps, m)
	fb.capacity = need
	return m.Bytes(), nil
}

func (fb *fileBackend) sync() error {
	if len(fb.maps) == 0 {
		return nil
	}
	return fb.maps[len(fb.maps)-1].Sync()
}

func (fb *fileBackend) close(length uint64) error {
	var firstErr error
	for _, m := range fb.maps {
		_ = m.Sync()
		if err := m.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	fb.maps = nil
	if err := fb.f.Truncate(int64(length)); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := fb.f.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
