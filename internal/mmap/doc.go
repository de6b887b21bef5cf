// Package mmap provides memory-mapped regions for the persisted pile.
//
// # Overview
//
// A pile region lives in a file; mapping it gives the validation layer
// direct views into persisted bytes without copying them through kernel
// buffers. Mappings come in two flavors: shared read-write file mappings
// (the live tail of a growing pile) and anonymous mappings (off-heap chunks
// for the heap arena, outside the garbage collector's control).
//
// # Growth
//
// A mapping's size is fixed at creation. Growing a pile means mapping the
// enlarged file again and republishing; the old mapping stays valid until
// closed, which is what keeps previously handed-out snapshots stable.
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2), msync(2), madvise(2)
//   - Windows: CreateFileMapping/MapViewOfFile; advise is a no-op
//
// # Thread Safety
//
// Mappings are safe for concurrent read access. Close is idempotent and
// guarded by an atomic flag, but callers must ensure no goroutine touches
// Bytes() after Close returns.
package mmap
