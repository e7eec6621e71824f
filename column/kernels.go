// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package column

import (
	"fmt"
)

// Kernels is the parallel-execution capability consumed by the list
// operations. Calls are blocking, single-shot, and have no partial-result
// semantics: they return a complete result column or fail.
//
// Implementations must follow the null-propagation rule: a null source row
// or a null indices row produces a null result row. A gather over index
// lists that themselves contain null values must fail with an error whose
// message contains "contains nulls".
type Kernels interface {
	// SegmentedGather builds, for every row i, the list
	// [source[i][j] for j in indices[i]], preserving row and index order.
	SegmentedGather(source, indices *Column) (*Column, error)

	// CountElements returns one int32 row per input row holding the row's
	// element count, null for null rows.
	CountElements(col *Column) (*Column, error)
}

// DefaultKernels is the backend used by accessors obtained from
// [Column.List]. It defaults to the host reference backend; embedders with
// a device backend swap it at startup or per accessor via
// [ListAccessor.WithKernels].
var DefaultKernels Kernels = HostKernels{}

// HostKernels is the in-process reference backend. It gathers in value
// space, which keeps it obviously correct for every element type the value
// bridge supports; device backends operate on the buffers directly.
type HostKernels struct{}

// SegmentedGather implements [Kernels].
func (HostKernels) SegmentedGather(source, indices *Column) (*Column, error) {
	srcRows, err := source.Values()
	if err != nil {
		return nil, fmt.Errorf("segmented gather: reading source: %w", err)
	}
	idxRows, err := indices.Values()
	if err != nil {
		return nil, fmt.Errorf("segmented gather: reading indices: %w", err)
	}

	out := make([]any, len(srcRows))
	for i := range srcRows {
		if srcRows[i] == nil || idxRows[i] == nil {
			continue
		}
		src := srcRows[i].([]any)
		idx := idxRows[i].([]any)
		row := make([]any, 0, len(idx))
		for _, iv := range idx {
			if iv == nil {
				return nil, fmt.Errorf("segmented gather: indices column contains nulls")
			}
			j, ok := asIndex(iv)
			if !ok || j < 0 || j >= int64(len(src)) {
				return nil, fmt.Errorf("segmented gather: index %v out of range for row %d of length %d",
					iv, i, len(src))
			}
			row = append(row, src[j])
		}
		out[i] = row
	}
	return FromValues(source.DType(), out)
}

// CountElements implements [Kernels].
func (HostKernels) CountElements(col *Column) (*Column, error) {
	rows, err := col.Values()
	if err != nil {
		return nil, fmt.Errorf("count elements: reading rows: %w", err)
	}
	out := make([]any, len(rows))
	for i, r := range rows {
		if r == nil {
			continue
		}
		out[i] = int32(len(r.([]any)))
	}
	return FromValues(Int32, out)
}

// asIndex normalizes a gathered index value to int64.
func asIndex(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case uint64:
		return int64(n), true
	default:
		return 0, false
	}
}
