package blobgo

import (
	"io"

	"github.com/hupe1980/blobgo/arena"
	"github.com/hupe1980/blobgo/blob"
	"github.com/hupe1980/blobgo/pile"
	"github.com/hupe1980/blobgo/ref"
)

// Store is the façade over a pile-backed arena: values go in by appending
// their encoded bytes, and come back as validated zero-copy views addressed
// by offset.
type Store struct {
	region *pile.Pile
	arena  *arena.Pile
	opts   options
}

// New creates an in-memory store.
func New(opts ...Option) *Store {
	return newStore(pile.New(), opts)
}

// Open opens (or creates) a file-backed store at path.
func Open(path string, opts ...Option) (*Store, error) {
	region, err := pile.OpenFile(path)
	if err != nil {
		return nil, err
	}
	return newStore(region, opts), nil
}

// LoadSnapshot reads a snapshot written by Save into an in-memory store.
func LoadSnapshot(r io.Reader, opts ...Option) (*Store, error) {
	region, err := pile.Load(r)
	if err != nil {
		return nil, err
	}
	return newStore(region, opts), nil
}

func newStore(region *pile.Pile, opts []Option) *Store {
	o := applyOptions(opts)
	return &Store{region: region, arena: arena.NewPile(region), opts: o}
}

// Arena returns the store's arena backend, for code that works with owning
// handles directly.
func (s *Store) Arena() *arena.Pile { return s.arena }

// Len returns the region's published length in bytes.
func (s *Store) Len() uint64 { return s.region.Len() }

// Put appends the encoded value b of type t and returns its offset.
func (s *Store) Put(t blob.Type, b []byte) (ref.Offset, error) {
	h, err := s.arena.Alloc(t, b)
	if err != nil {
		return 0, err
	}
	off, ok := h.Offset()
	if !ok {
		// A fresh pile handle is always in the offset state; resolution
		// only happens on dereference.
		panic("blobgo: fresh handle holds no offset")
	}
	s.opts.logger.Debug("stored value", "offset", off.Get(), "bytes", len(b))
	// Pile deallocation is a no-op; the offset outlives the handle.
	_ = h.Close()
	return off, nil
}

// Get returns the validated bytes of the value of type t at off. The slice
// aliases the region: no copy is made, and callers must treat it as
// immutable.
func (s *Store) Get(t blob.Type, off ref.Offset) ([]byte, error) {
	b, err := s.region.Slice(off.Position(), uint64(t.Layout().Len()))
	if err != nil {
		return nil, err
	}
	v, err := blob.Validate(t, b)
	if err != nil {
		return nil, err
	}
	return v.Bytes(), nil
}

// Snapshot captures the currently published region prefix. The view stays
// stable across later Puts.
func (s *Store) Snapshot() pile.Snapshot { return s.region.Snapshot() }

// Save writes a snapshot of the region to w, compressed per the store's
// configuration.
func (s *Store) Save(w io.Writer) error {
	s.opts.logger.Debug("saving snapshot", "bytes", s.region.Len(), "compression", s.opts.compression)
	return s.region.Save(w, s.opts.compression)
}

// Sync flushes a file-backed region to disk.
func (s *Store) Sync() error { return s.region.Sync() }

// Close releases the region.
func (s *Store) Close() error { return s.region.Close() }
