// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package conformance

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ziongh/cudf/column"
)

// Fixture is one named reference column.
type Fixture struct {
	Name  string
	DType column.DataType
	Rows  []any
}

// Build constructs the fixture column.
func (f Fixture) Build() (*column.Column, error) {
	c, err := column.FromValues(f.DType, f.Rows)
	if err != nil {
		return nil, fmt.Errorf("building fixture %q: %w", f.Name, err)
	}
	return c, nil
}

func rows(vs ...any) []any { return vs }

// Fixtures is the reference matrix: every element type the column layer
// supports, with and without nulls, flat and nested, including the
// degenerate shapes (zero rows, empty lists, fully null children).
func Fixtures() []Fixture {
	return []Fixture{
		{"int8", column.Int8, rows(-1, 0, 127)},
		{"int64_with_nulls", column.Int64, rows(1, nil, 3)},
		{"uint32", column.Uint32, rows(0, 42, 7)},
		{"float64_with_nulls", column.Float64, rows(1.5, nil, -2.25)},
		{"bool_with_nulls", column.Bool, rows(true, nil, false)},
		{"string_plain", column.String, rows("a", "bc", "")},
		{"string_with_nulls", column.String, rows("ab", nil, "cde")},
		{"list_plain", column.ListOf(column.Int64),
			rows(rows(1, 2, 3), rows(), rows(4, 5))},
		{"list_with_null_row", column.ListOf(column.Int64),
			rows(rows(1, 2, 3), nil, rows(4, 5))},
		{"list_inner_nulls", column.ListOf(column.Int64),
			rows(rows(1, nil), rows(nil), rows())},
		{"list_all_null_elements", column.ListOf(column.Int64),
			rows(rows(nil, nil), rows(nil))},
		{"list_zero_rows", column.ListOf(column.Int64), rows()},
		{"list_empty_lists", column.ListOf(column.Int64),
			rows(rows(), rows(), rows())},
		{"nested_list", column.ListOf(column.ListOf(column.Int64)),
			rows(rows(rows(1, nil), rows(3, 4)), nil, rows(rows(5, 6)))},
		{"triply_nested_list", column.ListOf(column.ListOf(column.ListOf(column.Int32))),
			rows(rows(rows(rows(1), rows(2, 3))), nil, rows(rows(rows())))},
		{"list_of_strings", column.ListOf(column.String),
			rows(rows("a", nil), nil, rows("bc", ""))},
	}
}

// VerifySerialization checks deserialize(serialize(c)) == c for one column.
func VerifySerialization(c *column.Column) error {
	h, frames, err := c.Serialize()
	if err != nil {
		return err
	}
	back, err := column.Deserialize(h, frames)
	if err != nil {
		return err
	}
	if !c.Equal(back) {
		return fmt.Errorf("serialization round-trip changed the column")
	}
	return nil
}

// VerifyArrow checks that the Arrow export/import round-trip preserves
// size, null pattern, and element values.
func VerifyArrow(c *column.Column, mem memory.Allocator) error {
	arr, err := c.ToArrow(mem)
	if err != nil {
		return err
	}
	defer arr.Release()
	back, err := column.FromArrow(arr)
	if err != nil {
		return err
	}
	if !c.Equal(back) {
		return fmt.Errorf("arrow round-trip changed the column")
	}
	return nil
}
