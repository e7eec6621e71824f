package column_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziongh/cudf/column"
)

func TestTake(t *testing.T) {
	source := mustColumn(t, column.ListOf(column.Int64),
		listRows(listRows(1, 2, 3), nil, listRows(4, 5)))
	indices := mustColumn(t, column.ListOf(column.Int32),
		listRows(listRows(0, 1), listRows(), listRows()))

	lst, err := source.List()
	require.NoError(t, err)
	got, err := lst.Take(indices)
	require.NoError(t, err)

	want := mustColumn(t, column.ListOf(column.Int64),
		listRows(listRows(1, 2), nil, listRows()))
	assert.True(t, got.Equal(want))
}

func TestTakeNullIndicesRowYieldsNullRow(t *testing.T) {
	source := mustColumn(t, column.ListOf(column.Int64),
		listRows(listRows(1, 2), listRows(3)))
	indices := mustColumn(t, column.ListOf(column.Int64),
		listRows(nil, listRows(0)))

	lst, err := source.List()
	require.NoError(t, err)
	got, err := lst.Take(indices)
	require.NoError(t, err)

	want := mustColumn(t, column.ListOf(column.Int64),
		listRows(nil, listRows(3)))
	assert.True(t, got.Equal(want))
}

func TestTakeReordersWithinRow(t *testing.T) {
	source := mustColumn(t, column.ListOf(column.Int64),
		listRows(listRows(10, 20, 30)))
	indices := mustColumn(t, column.ListOf(column.Int64),
		listRows(listRows(2, 0, 2)))

	lst, err := source.List()
	require.NoError(t, err)
	got, err := lst.Take(indices)
	require.NoError(t, err)

	want := mustColumn(t, column.ListOf(column.Int64),
		listRows(listRows(30, 10, 30)))
	assert.True(t, got.Equal(want))
}

func TestTakeValidation(t *testing.T) {
	source := mustColumn(t, column.ListOf(column.Int64),
		listRows(listRows(1, 2, 3), nil, listRows(4, 5)))
	lst, err := source.List()
	require.NoError(t, err)

	t.Run("non-list indices", func(t *testing.T) {
		flat := mustColumn(t, column.Int64, []any{0, 1, 2})
		_, err := lst.Take(flat)
		require.ErrorIs(t, err, column.ErrTypeMismatch)
	})

	t.Run("size mismatch", func(t *testing.T) {
		short := mustColumn(t, column.ListOf(column.Int64),
			listRows(listRows(0), listRows()))
		_, err := lst.Take(short)
		require.ErrorIs(t, err, column.ErrSizeMismatch)
	})

	t.Run("non-integer indices", func(t *testing.T) {
		floats := mustColumn(t, column.ListOf(column.Float64),
			listRows(listRows(0.0), listRows(), listRows()))
		_, err := lst.Take(floats)
		require.ErrorIs(t, err, column.ErrTypeMismatch)
	})

	t.Run("null index value", func(t *testing.T) {
		withNull := mustColumn(t, column.ListOf(column.Int64),
			listRows(listRows(0, nil), listRows(), listRows()))
		_, err := lst.Take(withNull)
		require.ErrorIs(t, err, column.ErrNullIndex)
		assert.Contains(t, err.Error(), "must not contain nulls")
	})
}

func TestTakeOutOfRangePropagates(t *testing.T) {
	source := mustColumn(t, column.ListOf(column.Int64),
		listRows(listRows(1, 2)))
	indices := mustColumn(t, column.ListOf(column.Int64),
		listRows(listRows(5)))

	lst, err := source.List()
	require.NoError(t, err)
	_, err = lst.Take(indices)
	require.Error(t, err)
	assert.NotErrorIs(t, err, column.ErrNullIndex)
}

func TestLen(t *testing.T) {
	s := mustColumn(t, column.ListOf(column.Int64),
		listRows(listRows(1, 2, 3), nil, listRows(4, 5)))

	lst, err := s.List()
	require.NoError(t, err)
	got, err := lst.Len()
	require.NoError(t, err)

	want := mustColumn(t, column.Int32, []any{3, nil, 2})
	assert.True(t, got.Equal(want))
}

func TestLeaves(t *testing.T) {
	a := mustColumn(t, column.ListOf(column.ListOf(column.Int64)),
		listRows(
			listRows(listRows(1, nil), listRows(3, 4)),
			nil,
			listRows(listRows(5, 6)),
		))

	lst, err := a.List()
	require.NoError(t, err)
	got, err := lst.Leaves()
	require.NoError(t, err)

	want := mustColumn(t, column.Int64, []any{1, nil, 3, 4, 5, 6})
	assert.True(t, got.Equal(want))
}

func TestLeavesSingleLevel(t *testing.T) {
	s := mustColumn(t, column.ListOf(column.Int64),
		listRows(listRows(1, 2), listRows(3)))

	lst, err := s.List()
	require.NoError(t, err)
	got, err := lst.Leaves()
	require.NoError(t, err)
	require.Same(t, s.Elements(), got)
}

func TestSizeInBytes(t *testing.T) {
	s := mustColumn(t, column.ListOf(column.Int64),
		listRows(listRows(1, 2, 3), nil, listRows(4, 5)))

	// mask allocation (64) + offsets (3+1)*4 + leaf 5*8.
	want := int64(64 + 16 + 40)
	assert.Equal(t, want, s.SizeInBytes())
	assert.Equal(t, want, s.SizeInBytes())
}

func TestSizeInBytesSliced(t *testing.T) {
	s := mustColumn(t, column.ListOf(column.Int64),
		listRows(listRows(1, 2, 3), nil, listRows(4, 5)))
	view := s.Slice(2, 1)

	// mask allocation (64) + offsets (1+1)*4 + leaf elements from the
	// slice's running offset: (5-2)*8.
	assert.Equal(t, int64(64+8+24), view.SizeInBytes())
}

func TestSizeInBytesNested(t *testing.T) {
	a := mustColumn(t, column.ListOf(column.ListOf(column.Int64)),
		listRows(
			listRows(listRows(1, 2), listRows(3, 4)),
			listRows(listRows(5, 6)),
		))

	// No nulls anywhere: outer offsets (2+1)*4, inner offsets (3+1)*4,
	// leaf 6*8.
	assert.Equal(t, int64(12+16+48), a.SizeInBytes())
}

func TestSizeInBytesSlicedFlat(t *testing.T) {
	c := mustColumn(t, column.Int64, []any{1, 2, 3, 4, 5})
	view := c.Slice(3, 2)

	// Just the view's elements: 2*8, no mask.
	assert.Equal(t, int64(16), view.SizeInBytes())
}

func TestSizeInBytesSlicedString(t *testing.T) {
	c := mustColumn(t, column.String, []any{"ab", "c", nil, "def"})
	view := c.Slice(1, 2)

	// Offsets window (2+1)*4, chars from offsets[1]=2 to the end of
	// "abcdef", mask allocation (64).
	assert.Equal(t, int64(12+4+64), view.SizeInBytes())
}

func TestSizeInBytesFlat(t *testing.T) {
	c := mustColumn(t, column.Int64, []any{1, nil, 3})
	// leaf 3*8 + mask allocation (64).
	assert.Equal(t, int64(24+64), c.SizeInBytes())
}
