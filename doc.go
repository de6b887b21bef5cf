// Package blobgo is a zero-copy persistent object store.
//
// Values are written into a flat byte region such that the stored bytes are
// bit-identical to their validated in-memory representation: reading a value
// back is validation, never deserialization, and never a copy. Children are
// addressed by relative offsets, so the whole structure is relocatable.
//
// # Quick Start
//
// In-memory store:
//
//	store := blobgo.New()
//	defer store.Close()
//
//	point := codec.Struct("Point",
//		codec.Field{Name: "x", Type: codec.Uint32},
//		codec.Field{Name: "y", Type: codec.Uint32},
//	)
//
//	buf := make([]byte, point.Layout().Len())
//	codec.PutUint32(buf[0:4], 3)
//	codec.PutUint32(buf[4:8], 7)
//
//	off, _ := store.Put(point, buf)
//	view, _ := store.Get(point, off) // validated, zero-copy
//
// File-backed store:
//
//	store, _ := blobgo.Open("objects.pile")
//	defer store.Close()
//
// # Layers
//
// The packages compose leaf to root: layout computes byte footprints and
// niches, codec supplies the scalar and composite wire types, blob is the
// field-by-field validation protocol, ref is the offset/tagged-pointer
// model, pile is the append-only persisted region, and arena plugs the
// backends (absent, heap, pile) together behind one allocation interface.
// This package is the façade over a pile-backed arena.
//
// # Concurrency
//
// The append path is single-writer; reads are lock-free. A reader holding a
// Snapshot observes a stable prefix even while the region keeps growing.
package blobgo
