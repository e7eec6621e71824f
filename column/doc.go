// Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

// Package column implements a nested variable-length columnar data model:
// ragged (list-of-list) arrays packed into flat offset/child buffers, with
// zero-copy interchange to Apache Arrow and a header/frames serialization
// protocol for network transfer and checkpointing.
//
// # Representation
//
// A [Column] is a typed, nullable, sliceable sequence: a logical window
// (offset, size) over shared immutable [Buffer] storage, an optional
// validity mask with one bit per base element, and zero or more child
// columns whose count and meaning are fixed per variant. A list column owns
// exactly two children, an int32 offsets column with base_size+1 entries
// and an elements column that may itself be a list column, nesting to
// arbitrary depth. String columns use the same shape with a uint8 chars
// child. List and string columns never carry a flat data buffer;
// constructing one with a data buffer fails with InvalidState.
//
// Columns are immutable after construction. Sliced views share buffers with
// their base, no copy-on-write is performed, and concurrent read-only
// access is always safe. Derived properties (null count, size in bytes) are
// computed lazily and cached exactly once, which is sound only because of
// the immutability guarantee.
//
// # List operations
//
// [Column.List] returns a [ListAccessor] for per-row operations: Take
// (segmented gather by per-row index lists), Len (per-row element counts),
// and Leaves (flatten to the innermost elements). Take and Len dispatch to
// a [Kernels] backend — a blocking, single-shot parallel-execution
// capability. [HostKernels] is the in-process reference backend; device
// backends plug in via [DefaultKernels] or [ListAccessor.WithKernels].
//
// # Interchange
//
// [Column.ToArrow] and [FromArrow] convert to and from Arrow arrays sharing
// buffers rather than copying: validity masks map directly onto Arrow
// validity bitmaps and a list level's offsets buffer is exported raw, with
// the slice window carried by the array offset.
//
// # Serialization
//
// [Column.Serialize] decomposes a column tree into one nested [Header] and
// a flat list of binary frames, partitioned on the receiving side purely by
// the frame counts recorded per header. [WritePayload] and [ReadPayload]
// carry the pair as a self-describing byte stream, optionally with a
// zstd-compressed frame section.
package column
