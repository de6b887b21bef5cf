package arena

import (
	"fmt"

	"github.com/hupe1980/blobgo/blob"
	"github.com/hupe1980/blobgo/pile"
	"github.com/hupe1980/blobgo/ref"
)

// Pile is the persisted-region backend. Alloc appends the encoded value to
// the region and stores its offset; Deref slices the region at that offset
// and runs full validation, since persisted bytes are untrusted until
// proven. A successful dereference upgrades the handle's pointer to the
// resolved state so later dereferences skip re-validation.
//
// This backend's resolved pointer words count from one word before the
// region start: word = position + WordSize. That keeps every resolved word
// non-zero and word-aligned, as the tagged pointer requires.
//
// Dealloc is a no-op — the region is append-only and never reclaimed.
type Pile struct {
	region *pile.Pile
}

// NewPile returns the arena over region.
func NewPile(region *pile.Pile) *Pile {
	return &Pile{region: region}
}

// Region returns the backing region.
func (a *Pile) Region() *pile.Pile { return a.region }

// Alloc implements Arena. The value is validated, appended to the region's
// end, and addressed by the offset of its first word. An offset beyond the
// representable range fails the allocation; it is never truncated.
func (a *Pile) Alloc(t blob.Type, b []byte) (*Handle, error) {
	if _, err := blob.Validate(t, b); err != nil {
		return nil, fmt.Errorf("arena: alloc of invalid value: %w", err)
	}
	pos, err := a.region.Append(b)
	if err != nil {
		return nil, err
	}
	off, err := ref.FromPosition(pos)
	if err != nil {
		return nil, err
	}
	return newHandle(a, t, len(b), ref.PtrFromOffset(off)), nil
}

// Deref implements Arena.
func (a *Pile) Deref(h *Handle) ([]byte, error) {
	if h.owner != Arena(a) {
		return nil, ErrForeignHandle
	}
	ptr := h.ptr.Load()

	if word, ok := ptr.Word(); ok {
		// Already validated once; the bytes beneath us are immutable.
		return a.region.Slice(word-ref.WordSize, uint64(h.size))
	}

	off, ok := ptr.Offset()
	if !ok {
		return nil, ErrForeignHandle
	}
	pos := off.Position()
	b, err := a.region.Slice(pos, uint64(h.size))
	if err != nil {
		return nil, err
	}
	if err := h.typ.Validate(b); err != nil {
		return nil, fmt.Errorf("arena: pile value at %s invalid: %w", off, err)
	}
	// Cache the resolution; a lost race just means someone else already did.
	h.ptr.Resolve(ptr, pos+ref.WordSize)
	return b, nil
}

// Dealloc implements Arena. Append-only storage reclaims nothing.
func (a *Pile) Dealloc(h *Handle) {}

var _ Arena = (*Pile)(nil)
