package arena

import (
	"fmt"
	"math/bits"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/blobgo/blob"
	"github.com/hupe1980/blobgo/internal/mmap"
	"github.com/hupe1980/blobgo/ref"
)

const (
	// DefaultChunkSize is the default heap chunk size (1 MiB).
	DefaultChunkSize = 1024 * 1024
	// maxChunks bounds the chunk table; with 1 MiB chunks this addresses
	// 64 GiB.
	maxChunks = 65536
)

// HeapStats tracks heap arena usage.
type HeapStats struct {
	ActiveChunks uint64
	BytesUsed    uint64
	TotalAllocs  uint64
	Live         int64
}

type hchunk struct {
	data    []byte
	mapping *mmap.Mapping // off-heap backing for this chunk
	off     atomic.Int64  // bump pointer, accessed concurrently
	index   uint32
}

// Heap is the live-memory backend: a chunked bump allocator whose resolved
// pointer words are (chunkIndex << chunkBits) | chunkOffset. Chunk offsets
// are word-aligned, so every word has its low bit clear, and word zero is
// reserved at construction, so no resolved word is ever the null pointer.
//
// Allocations are validated once, when stored; Deref is a direct slice with
// no re-validation. Individual deallocations return nothing to the bump
// pointer — space comes back all at once when the arena is freed.
type Heap struct {
	chunkSize  int
	chunkBits  int
	chunkMask  uint64
	chunks     [maxChunks]atomic.Pointer[hchunk]
	chunkCount atomic.Uint32
	current    atomic.Pointer[hchunk]
	mu         sync.Mutex
	closed     atomic.Bool

	bytesUsed   atomic.Uint64
	totalAllocs atomic.Uint64
	live        atomic.Int64
}

// NewHeap creates a heap arena with the given chunk size, rounded up to a
// power of two. A non-positive size selects DefaultChunkSize.
func NewHeap(chunkSize int) (*Heap, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	chunkBits := bits.Len(uint(chunkSize - 1))
	chunkSize = 1 << chunkBits

	a := &Heap{
		chunkSize: chunkSize,
		chunkBits: chunkBits,
		chunkMask: uint64(chunkSize - 1),
	}
	if err := a.addChunk(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Heap) addChunk() error {
	idx := a.chunkCount.Load()
	if idx >= maxChunks {
		return fmt.Errorf("arena: heap exceeds %d chunks", maxChunks)
	}
	mapping, err := mmap.MapAnon(a.chunkSize)
	if err != nil {
		return fmt.Errorf("arena: mapping heap chunk: %w", err)
	}
	c := &hchunk{data: mapping.Bytes(), mapping: mapping, index: idx}
	// Reserve the first word before the chunk is published; word zero must
	// keep meaning "absent", and later chunks stay uniform with chunk zero.
	c.off.Store(ref.WordSize)
	a.chunks[idx].Store(c)
	// Count before current, so a word handed out of the new chunk always
	// passes the count bounds check in deref.
	a.chunkCount.Add(1)
	a.current.Store(c)
	return nil
}

// Alloc implements Arena. The encoded bytes are validated, copied into a
// chunk, and owned by the returned handle.
func (a *Heap) Alloc(t blob.Type, b []byte) (*Handle, error) {
	if a.closed.Load() {
		return nil, ErrClosed
	}
	if _, err := blob.Validate(t, b); err != nil {
		return nil, fmt.Errorf("arena: alloc of invalid value: %w", err)
	}

	word, data, err := a.bump(len(b))
	if err != nil {
		return nil, err
	}
	copy(data, b)
	a.bytesUsed.Add(uint64(len(b)))
	a.totalAllocs.Add(1)
	a.live.Add(1)
	return newHandle(a, t, len(b), ref.PtrFromWord(word)), nil
}

func (a *Heap) bump(size int) (uint64, []byte, error) {
	aligned := int64(alignUp(size))
	for {
		cur := a.current.Load()
		if cur == nil {
			return 0, nil, ErrClosed
		}
		oldOff := cur.off.Load()
		newOff := oldOff + aligned
		// A full chunk rolls over even for zero-size allocations: a word
		// at offset len(data) would decode as the next chunk's offset 0.
		if oldOff < int64(len(cur.data)) && newOff <= int64(len(cur.data)) {
			if !cur.off.CompareAndSwap(oldOff, newOff) {
				continue
			}
			word := uint64(cur.index)<<a.chunkBits | uint64(oldOff)
			return word, cur.data[oldOff : oldOff+int64(size) : newOff], nil
		}
		if size > a.chunkSize-ref.WordSize {
			return 0, nil, fmt.Errorf("arena: allocation of %d bytes exceeds chunk size %d", size, a.chunkSize)
		}

		// Chunk is full; take the lock and add one unless someone beat us.
		a.mu.Lock()
		if a.current.Load() != cur {
			a.mu.Unlock()
			continue
		}
		if err := a.addChunk(); err != nil {
			a.mu.Unlock()
			return 0, nil, err
		}
		a.mu.Unlock()
	}
}

// Deref implements Arena. Heap dereference always succeeds for a live
// handle: the bytes were validated at allocation, so this is a direct slice.
func (a *Heap) Deref(h *Handle) ([]byte, error) {
	if a.closed.Load() {
		return nil, ErrClosed
	}
	if h.owner != Arena(a) {
		return nil, ErrForeignHandle
	}
	word, ok := h.ptr.Load().Word()
	if !ok {
		return nil, ErrForeignHandle
	}

	chunkIdx := word >> a.chunkBits
	chunkOff := word & a.chunkMask
	if chunkIdx >= uint64(a.chunkCount.Load()) {
		return nil, fmt.Errorf("arena: stale heap word %#x", word)
	}
	c := a.chunks[chunkIdx].Load()
	end := chunkOff + uint64(h.size)
	if c == nil || end > uint64(len(c.data)) {
		return nil, fmt.Errorf("arena: heap word %#x out of bounds", word)
	}
	return c.data[chunkOff:end:end], nil
}

// Dealloc implements Arena. A bump allocator reclaims nothing per value;
// the live count exists so Free can assert nothing is still owned.
func (a *Heap) Dealloc(h *Handle) {
	a.live.Add(-1)
}

// Stats returns current usage.
func (a *Heap) Stats() HeapStats {
	return HeapStats{
		ActiveChunks: uint64(a.chunkCount.Load()),
		BytesUsed:    a.bytesUsed.Load(),
		TotalAllocs:  a.totalAllocs.Load(),
		Live:         a.live.Load(),
	}
}

// Free unmaps every chunk. All handles and slices from this arena are
// invalid afterwards; the arena cannot be reused.
func (a *Heap) Free() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed.Swap(true) {
		return
	}
	count := int(a.chunkCount.Load())
	for i := 0; i < count; i++ {
		if c := a.chunks[i].Load(); c != nil && c.mapping != nil {
			_ = c.mapping.Close()
		}
		a.chunks[i].Store(nil)
	}
	a.chunkCount.Store(0)
	a.current.Store(nil)
}

func alignUp(n int) int {
	return (n + ref.WordSize - 1) &^ (ref.WordSize - 1)
}

var _ Arena = (*Heap)(nil)
