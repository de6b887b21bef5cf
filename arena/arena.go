// Package arena supplies the pluggable backends that allocate, resolve, and
// free references to encoded values.
//
// A backend defines both where bytes live and what a resolved pointer word
// means there: the heap arena hands out words into its own chunks, the pile
// arena stores offsets into an append-only region and validates lazily on
// dereference, and the absent arena refuses everything (it exists so generic
// code can be exercised without a real backend).
//
// Values are owned through handles. A Handle captures the value's type and
// exact size at allocation time and releases the allocation with exactly
// that metadata when closed — the one invariant everything else here leans
// on, which is why handles can only be created by Alloc and carry their
// metadata in unexported fields.
package arena

import (
	"errors"
	"sync/atomic"

	"github.com/hupe1980/blobgo/blob"
	"github.com/hupe1980/blobgo/ref"
)

var (
	// ErrAbsent is returned by the absent arena for every operation.
	ErrAbsent = errors.New("arena: absent backend")
	// ErrClosed is returned when using a closed arena or handle.
	ErrClosed = errors.New("arena: closed")
	// ErrForeignHandle is returned when a handle is presented to a backend
	// that did not create it.
	ErrForeignHandle = errors.New("arena: handle belongs to another backend")
)

// Arena is a reference backend.
type Arena interface {
	// Alloc stores the encoded value b of type t and returns its owning
	// handle. b must be a legal encoding; backends validate before
	// storing so a region never holds junk.
	Alloc(t blob.Type, b []byte) (*Handle, error)

	// Deref resolves h to the value's bytes. The returned slice aliases
	// backend storage and must be treated as immutable.
	Deref(h *Handle) ([]byte, error)

	// Dealloc releases h's allocation. Called exactly once, by Handle.Close.
	Dealloc(h *Handle)
}

// Handle owns one allocated value: its pointer plus the type and size
// captured when Alloc stored it.
type Handle struct {
	owner  Arena
	typ    blob.Type
	size   int
	ptr    ref.AtomicTaggedPtr
	closed atomic.Bool
}

func newHandle(owner Arena, typ blob.Type, size int, ptr ref.TaggedPtr) *Handle {
	h := &Handle{owner: owner, typ: typ, size: size}
	h.ptr.Store(ptr)
	return h
}

// Type returns the value's type.
func (h *Handle) Type() blob.Type { return h.typ }

// Size returns the value's byte length captured at allocation.
func (h *Handle) Size() int { return h.size }

// Ptr returns the handle's current pointer state. A pile handle starts in
// the offset state and may flip to resolved after a dereference; both states
// denote the same value.
func (h *Handle) Ptr() ref.TaggedPtr { return h.ptr.Load() }

// Offset returns the persisted offset, if the handle points into a
// persisted region.
func (h *Handle) Offset() (ref.Offset, bool) {
	return h.ptr.Load().Offset()
}

// Valid dereferences the handle into a validated blob view.
func (h *Handle) Valid() (blob.Valid, error) {
	b, err := h.owner.Deref(h)
	if err != nil {
		return blob.Valid{}, err
	}
	return blob.AssumeValid(h.typ, b), nil
}

// Close releases the allocation using the metadata captured at Alloc time.
// It is idempotent.
func (h *Handle) Close() error {
	if h.closed.Swap(true) {
		return nil
	}
	h.owner.Dealloc(h)
	return nil
}

// Take copies the value out and releases the allocation.
func (h *Handle) Take() ([]byte, error) {
	if h.closed.Load() {
		return nil, ErrClosed
	}
	b, err := h.owner.Deref(h)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, h.Close()
}
