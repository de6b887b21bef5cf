package ref

import (
	"fmt"
	"sync/atomic"
)

// Kind discriminates the two states of a tagged pointer word.
type Kind uint8

const (
	// KindOffset means the word holds an unresolved persisted offset.
	KindOffset Kind = iota
	// KindResolved means the word holds a backend-resolved word: an
	// arena-defined, word-aligned, non-zero location.
	KindResolved
)

func (k Kind) String() string {
	switch k {
	case KindOffset:
		return "offset"
	case KindResolved:
		return "resolved"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// TaggedPtr packs either a persisted Offset or a resolved backend word into
// one uint64, discriminated by the low bit. Resolved words are word-aligned
// so their low bit is always clear; the offset form sets it. Both states
// denote the same logical child — which one a pointer currently holds is
// invisible to callers that go through an arena's dereference.
//
// The zero TaggedPtr is the null pointer and holds neither state.
type TaggedPtr struct {
	word uint64
}

// PtrFromOffset returns the pointer holding o. The conversion is total: any
// valid offset fits once the tag bit is accounted for.
func PtrFromOffset(o Offset) TaggedPtr {
	return TaggedPtr{word: uint64(o)<<1 | 1}
}

// PtrFromWord returns the pointer holding the resolved word w.
//
// Precondition: w is non-zero and word-aligned. An unaligned word would set
// the tag bit and silently flip the pointer's state, so this is enforced
// here rather than left to convention.
func PtrFromWord(w uint64) TaggedPtr {
	if w == 0 || w&1 != 0 {
		panic(fmt.Sprintf("ref: resolved word %#x is zero or unaligned", w))
	}
	return TaggedPtr{word: w}
}

// IsNull reports whether the pointer is the null pointer.
func (p TaggedPtr) IsNull() bool { return p.word == 0 }

// Kind inspects the pointer's state without mutating it.
func (p TaggedPtr) Kind() Kind {
	if p.word&1 != 0 {
		return KindOffset
	}
	return KindResolved
}

// Offset returns the held offset, if the pointer is in the offset state.
func (p TaggedPtr) Offset() (Offset, bool) {
	if p.word&1 == 0 {
		return 0, false
	}
	return Offset(p.word >> 1), true
}

// Word returns the held resolved word, if the pointer is in the resolved
// state.
func (p TaggedPtr) Word() (uint64, bool) {
	if p.word&1 != 0 || p.word == 0 {
		return 0, false
	}
	return p.word, true
}

func (p TaggedPtr) String() string {
	if p.IsNull() {
		return "TaggedPtr(null)"
	}
	if o, ok := p.Offset(); ok {
		return fmt.Sprintf("TaggedPtr(%s)", o)
	}
	return fmt.Sprintf("TaggedPtr(word %#x)", p.word)
}

// AtomicTaggedPtr is the mutable dual-state variant of TaggedPtr. It is
// created from an offset on load and may later be upgraded, exactly once
// per resolution, to the resolved word the backend computed for the same
// child. Readers that lose the upgrade race simply keep using the offset.
type AtomicTaggedPtr struct {
	word atomic.Uint64
}

// Store sets the pointer.
func (p *AtomicTaggedPtr) Store(t TaggedPtr) { p.word.Store(t.word) }

// Load returns the current pointer.
func (p *AtomicTaggedPtr) Load() TaggedPtr { return TaggedPtr{word: p.word.Load()} }

// Resolve upgrades the pointer from old (an offset state) to the resolved
// word w. It reports whether this call performed the upgrade.
func (p *AtomicTaggedPtr) Resolve(old TaggedPtr, w uint64) bool {
	resolved := PtrFromWord(w)
	return p.word.CompareAndSwap(old.word, resolved.word)
}
