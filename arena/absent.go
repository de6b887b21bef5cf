package arena

import "github.com/hupe1980/blobgo/blob"

// Absent is the backend that has no storage. Every allocation and
// dereference fails with ErrAbsent; deallocation is a no-op. It exists to
// exercise arena-generic code paths without a real backend behind them.
type Absent struct{}

// Alloc implements Arena.
func (Absent) Alloc(t blob.Type, b []byte) (*Handle, error) {
	return nil, ErrAbsent
}

// Deref implements Arena.
func (Absent) Deref(h *Handle) ([]byte, error) {
	return nil, ErrAbsent
}

// Dealloc implements Arena.
func (Absent) Dealloc(h *Handle) {}

var _ Arena = Absent{}
