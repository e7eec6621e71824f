// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package column

import (
	"strings"
)

// Offsets returns the int32 offsets child of a list or string column. Row i
// of the list occupies elements[offsets[i]:offsets[i+1]]; offsets are
// monotonically non-decreasing and absolute into the shared base buffers.
func (c *Column) Offsets() *Column {
	return c.children[0]
}

// Elements returns the elements child of a list or string column. For a
// list column it may itself be a list column, nesting to arbitrary depth.
func (c *Column) Elements() *Column {
	return c.children[1]
}

// SizeInBytes returns the bytes reachable from this (possibly sliced) view:
// the mask allocation at each nullable level, each level's offset buffer,
// and the innermost leaf data within the sliced range. The walk tracks a
// running logical offset by indexing into each level's own offsets. The
// result is computed once and cached, which is sound because columns are
// immutable.
func (c *Column) SizeInBytes() int64 {
	c.sizeOnce.Do(func() {
		c.byteSize = c.computeSizeInBytes()
	})
	return c.byteSize
}

func (c *Column) computeSizeInBytes() int64 {
	if !c.dtype.IsList() {
		return c.viewSizeInBytes()
	}

	var n int64
	if c.Nullable() {
		n += int64(MaskAllocationBytes(c.size))
	}
	n += int64((c.size + 1) * c.children[0].dtype.ItemSize())

	cur := c.children[1]
	curOffset := c.offset
	for cur.dtype.IsList() {
		n += int64((cur.size + 1 - curOffset) * cur.children[0].dtype.ItemSize())
		curOffset = int(cur.children[0].data.int32At(curOffset))
		cur = cur.children[1]
	}
	n += cur.baseTailSizeInBytes(curOffset)
	return n
}

// viewSizeInBytes accounts for a non-list column as the root of the walk:
// exactly the view's elements (and, for strings, the view's offsets window
// plus the chars tail) and the mask allocation. Not valid inside the list
// descent, where size is the base count and a running base offset applies.
func (c *Column) viewSizeInBytes() int64 {
	var n int64
	switch c.dtype.Kind() {
	case KindString:
		n += int64((c.size + 1) * c.children[0].dtype.ItemSize())
		charsFrom := int(c.children[0].data.int32At(c.offset))
		n += int64(c.children[1].data.Len() - charsFrom)
	default:
		n += int64(c.size) * int64(c.dtype.ItemSize())
	}
	if c.Nullable() {
		n += int64(MaskAllocationBytes(c.size))
	}
	return n
}

// baseTailSizeInBytes accounts for the unsliced non-list leaf reached
// through the list descent, from the running base offset to its end, plus
// its mask allocation when nullable. c.size here is the base element count.
func (c *Column) baseTailSizeInBytes(from int) int64 {
	var n int64
	switch c.dtype.Kind() {
	case KindString:
		n += int64((c.size + 1 - from) * c.children[0].dtype.ItemSize())
		charsFrom := int(c.children[0].data.int32At(from))
		n += int64(c.children[1].data.Len() - charsFrom)
	default:
		n += int64((c.size - from) * c.dtype.ItemSize())
	}
	if c.Nullable() {
		n += int64(MaskAllocationBytes(c.size))
	}
	return n
}

// ListAccessor exposes the per-row list operations of a list column. Obtain
// one with [Column.List].
type ListAccessor struct {
	col     *Column
	kernels Kernels
}

// List returns the list accessor for c, failing with TypeMismatch when c is
// not a list column. The accessor dispatches to [DefaultKernels]; use
// [ListAccessor.WithKernels] to substitute a backend.
func (c *Column) List() (*ListAccessor, error) {
	if !c.IsList() {
		return nil, typeMismatchf("list accessor requires a list column, got %s", c.dtype)
	}
	return &ListAccessor{col: c, kernels: DefaultKernels}, nil
}

// WithKernels returns an accessor bound to the given kernel backend.
func (a *ListAccessor) WithKernels(k Kernels) *ListAccessor {
	return &ListAccessor{col: a.col, kernels: k}
}

// Take collects elements from each row according to a parallel column of
// per-row index lists: row i of the result is
// [source[i][j] for j in indices[i]].
//
// Preconditions are checked before dispatching to the kernel backend:
// indices must be a list column of an integer element type with the same
// row count as the source. A null source row or a null indices row yields a
// null result row. Index lists containing null values surface as
// NullIndexError; any other kernel failure propagates unchanged.
func (a *ListAccessor) Take(indices *Column) (*Column, error) {
	if !indices.IsList() {
		return nil, typeMismatchf("take indices must be a list column, got %s", indices.dtype)
	}
	if indices.Size() != a.col.Size() {
		return nil, sizeMismatchf("take indices have %d rows, source has %d",
			indices.Size(), a.col.Size())
	}
	if elem := indices.dtype.Elem(); !elem.IsInteger() {
		return nil, typeMismatchf("take indices must hold integer values, got %s", elem)
	}

	res, err := a.kernels.SegmentedGather(a.col, indices)
	if err != nil {
		if strings.Contains(err.Error(), "contains nulls") {
			return nil, &Error{
				Type:    TypeNullIndex,
				Message: "indices must not contain nulls",
				Cause:   err,
			}
		}
		return nil, err
	}
	return res, nil
}

// Len computes the element count of each row: 0 for empty lists, null for
// null rows. One output row per input row, order preserved.
func (a *ListAccessor) Len() (*Column, error) {
	return a.kernels.CountElements(a.col)
}

// Leaves descends through every list level to the innermost non-list
// elements column and returns it unchanged. Row boundaries collapse; the
// result carries no relation back to the input's rows, but nulls at the
// innermost level are preserved.
func (a *ListAccessor) Leaves() (*Column, error) {
	elements := a.col.Elements()
	for elements.IsList() {
		elements = elements.Elements()
	}
	return elements, nil
}
