// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package column

import (
	"sync"
)

// UnknownNullCount is the sentinel for a null count that has not been
// computed yet. NullCount resolves it lazily from the mask.
const UnknownNullCount = -1

// Column is a typed, nullable, sliceable sequence over shared immutable
// buffers. A column never mutates after construction, so concurrent
// read-only access needs no locking and the lazy caches below are computed
// at most once.
//
// Variants are distinguished by the dtype's Kind:
//
//   - fixed-width primitives own a flat data buffer;
//   - list columns own no data buffer and exactly two children,
//     [int32 offsets (base_size+1 entries), elements];
//   - string columns own no data buffer and exactly two children,
//     [int32 offsets, uint8 chars].
//
// offset and size select a logical window into the shared base storage;
// slicing shares buffers and children, it never copies.
type Column struct {
	dtype    DataType
	size     int
	offset   int
	data     *Buffer // nil for list and string variants
	mask     *Buffer // validity bitmap over base elements, nil if no nulls in scope
	children []*Column

	nullCount int
	nullOnce  sync.Once

	byteSize int64
	sizeOnce sync.Once
}

// New constructs a column from its parts. The data buffer must be nil for
// list and string variants; supplying one fails with InvalidState since
// those variants carry their payload in children.
func New(dtype DataType, size int, data, mask *Buffer, offset, nullCount int, children ...*Column) (*Column, error) {
	switch dtype.Kind() {
	case KindList, KindString:
		if data != nil {
			return nil, invalidStatef(
				"%s columns do not use a flat data buffer, set offsets and elements children instead",
				dtype)
		}
		if len(children) != 2 {
			return nil, invalidStatef("%s column requires exactly 2 children, got %d",
				dtype, len(children))
		}
		if off := children[0]; off.dtype.Kind() != KindInt32 {
			return nil, typeMismatchf("offsets child must be int32, got %s", off.dtype)
		}
	case KindStruct:
	default:
		if len(children) != 0 {
			return nil, invalidStatef("%s column takes no children", dtype)
		}
	}
	if nullCount > size {
		return nil, invalidStatef("null count %d exceeds size %d", nullCount, size)
	}
	if nullCount < 0 {
		nullCount = UnknownNullCount
	}
	if mask == nil && nullCount > 0 {
		return nil, invalidStatef("null count %d with no mask", nullCount)
	}
	return &Column{
		dtype:     dtype,
		size:      size,
		offset:    offset,
		data:      data,
		mask:      mask,
		children:  children,
		nullCount: nullCount,
	}, nil
}

// NewList constructs a list column of the given element type from an int32
// offsets column and an elements column.
func NewList(elem DataType, size int, mask *Buffer, offset, nullCount int, offsets, elements *Column) (*Column, error) {
	return New(ListOf(elem), size, nil, mask, offset, nullCount, offsets, elements)
}

// DType returns the semantic element type.
func (c *Column) DType() DataType { return c.dtype }

// Size returns the logical element count of this (possibly sliced) view.
func (c *Column) Size() int { return c.size }

// Offset returns the logical start into the shared base storage.
func (c *Column) Offset() int { return c.offset }

// Data returns the flat data buffer, nil for list and string variants.
func (c *Column) Data() *Buffer { return c.data }

// Mask returns the validity bitmap buffer, nil when the column has no nulls
// in scope.
func (c *Column) Mask() *Buffer { return c.mask }

// Nullable reports whether the column carries a validity mask.
func (c *Column) Nullable() bool { return c.mask != nil }

// Children returns the ordered child columns. The returned slice is shared;
// callers must not modify it.
func (c *Column) Children() []*Column { return c.children }

// Child returns the i-th child column.
func (c *Column) Child(i int) *Column { return c.children[i] }

// NullCount returns the number of null rows in this view, computing it from
// the mask on first use when it was constructed with UnknownNullCount.
func (c *Column) NullCount() int {
	c.nullOnce.Do(func() {
		if c.nullCount == UnknownNullCount {
			c.nullCount = countUnsetBits(c.mask, c.offset, c.size)
		}
	})
	return c.nullCount
}

// IsNull reports whether row i of this view is null. Null-ness is decided
// solely by the mask, never by offset arithmetic.
func (c *Column) IsNull(i int) bool {
	return !maskValid(c.mask, c.offset+i)
}

// IsList reports whether the column is a list variant.
func (c *Column) IsList() bool { return c.dtype.IsList() }

// Slice returns a zero-copy view of length rows starting at start. Buffers
// and children are shared with the receiver; the null count of the view is
// recomputed lazily.
func (c *Column) Slice(start, length int) *Column {
	return &Column{
		dtype:     c.dtype,
		size:      length,
		offset:    c.offset + start,
		data:      c.data,
		mask:      c.mask,
		children:  c.children,
		nullCount: UnknownNullCount,
	}
}

// BaseSize returns the number of rows before slicing: for list and string
// variants this is derived from the offsets child, for flat variants it is
// the data buffer capacity in elements.
func (c *Column) BaseSize() int {
	switch c.dtype.Kind() {
	case KindList, KindString:
		return c.children[0].size - 1
	default:
		if w := c.dtype.ItemSize(); w > 0 && c.data != nil {
			return c.data.Len() / w
		}
		return c.size
	}
}
