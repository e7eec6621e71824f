package column_test

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziongh/cudf/column"
)

func arrowRoundTrip(t *testing.T, c *column.Column) *column.Column {
	t.Helper()
	mem := memory.NewGoAllocator()
	arr, err := c.ToArrow(mem)
	require.NoError(t, err)
	defer arr.Release()

	back, err := column.FromArrow(arr)
	require.NoError(t, err)
	return back
}

func TestArrowRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		dtype column.DataType
		rows  []any
	}{
		{"int64", column.Int64, []any{1, nil, 3}},
		{"float32", column.Float32, []any{1.5, 2.5}},
		{"bool", column.Bool, []any{true, nil, false}},
		{"string", column.String, []any{"ab", nil, "cde"}},
		{"list", column.ListOf(column.Int64),
			listRows(listRows(1, 2, 3), nil, listRows(4, 5))},
		{"nested list", column.ListOf(column.ListOf(column.Int64)),
			listRows(listRows(listRows(1, nil), listRows(3, 4)), nil, listRows(listRows(5, 6)))},
		{"list of strings", column.ListOf(column.String),
			listRows(listRows("a", nil), nil, listRows("bc"))},
		{"zero rows", column.ListOf(column.Int64), listRows()},
		{"empty lists", column.ListOf(column.Int64),
			listRows(listRows(), listRows(), listRows())},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := mustColumn(t, tt.dtype, tt.rows)
			back := arrowRoundTrip(t, c)
			assert.True(t, c.Equal(back))
		})
	}
}

func TestArrowExportShape(t *testing.T) {
	c := mustColumn(t, column.ListOf(column.Int64),
		listRows(listRows(1, 2, 3), nil, listRows(4, 5)))

	mem := memory.NewGoAllocator()
	arr, err := c.ToArrow(mem)
	require.NoError(t, err)
	defer arr.Release()

	lst, ok := arr.(*array.List)
	require.True(t, ok)
	assert.Equal(t, 3, lst.Len())
	assert.Equal(t, 1, lst.NullN())
	assert.True(t, lst.IsNull(1))
	assert.True(t, arrow.TypeEqual(arrow.ListOf(arrow.PrimitiveTypes.Int64), lst.DataType()))

	start, end := lst.ValueOffsets(0)
	assert.Equal(t, int64(0), start)
	assert.Equal(t, int64(3), end)
}

func TestArrowExportSlicedKeepsRawOffsets(t *testing.T) {
	c := mustColumn(t, column.ListOf(column.Int64),
		listRows(listRows(1, 2, 3), nil, listRows(4, 5)))
	view := c.Slice(1, 2)

	mem := memory.NewGoAllocator()
	arr, err := view.ToArrow(mem)
	require.NoError(t, err)
	defer arr.Release()

	// Offsets are not rewritten on export: the slice window travels in the
	// array offset and the raw child-0 buffer is shared.
	assert.Equal(t, 2, arr.Len())
	assert.Equal(t, 1, arr.Data().Offset())
	require.Same(t,
		&c.Offsets().Data().Bytes()[0],
		&arr.Data().Buffers()[1].Bytes()[0])

	back, err := column.FromArrow(arr)
	require.NoError(t, err)
	assert.True(t, view.Equal(back))
}

func TestArrowAllNullElementsPlaceholder(t *testing.T) {
	c := mustColumn(t, column.ListOf(column.Int64),
		listRows(listRows(nil, nil), listRows(nil)))

	mem := memory.NewGoAllocator()
	arr, err := c.ToArrow(mem)
	require.NoError(t, err)
	defer arr.Release()

	lst := arr.(*array.List)
	values := lst.ListValues()
	assert.Equal(t, 3, values.Len())
	assert.Equal(t, 3, values.NullN())

	back, err := column.FromArrow(arr)
	require.NoError(t, err)
	assert.True(t, c.Equal(back))
}

func TestArrowIdempotentExport(t *testing.T) {
	c := mustColumn(t, column.ListOf(column.Int64),
		listRows(listRows(1), nil))
	mem := memory.NewGoAllocator()

	a, err := c.ToArrow(mem)
	require.NoError(t, err)
	defer a.Release()
	b, err := c.ToArrow(mem)
	require.NoError(t, err)
	defer b.Release()

	assert.True(t, array.Equal(a, b))
}
