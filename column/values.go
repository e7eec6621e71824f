// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package column

import (
	"encoding/binary"
	"fmt"
	"math"
	"reflect"
)

// FromValues builds a column of the given dtype from one Go value per row.
// nil marks a null row; lists are []any, nesting to the dtype's depth.
// Numeric values accept the usual Go widths and are normalized to the
// column's element width. Null list rows are stored with degenerate
// (repeated) offsets.
func FromValues(dtype DataType, rows []any) (*Column, error) {
	var mask *Buffer
	nulls := 0
	for _, v := range rows {
		if v == nil {
			nulls++
		}
	}
	if nulls > 0 {
		mask = newMask(len(rows))
		for i, v := range rows {
			if v == nil {
				maskClear(mask, i)
			}
		}
	}

	switch dtype.Kind() {
	case KindList:
		offsets := make([]byte, 0, (len(rows)+1)*4)
		offsets = binary.LittleEndian.AppendUint32(offsets, 0)
		var elemRows []any
		for _, v := range rows {
			if v != nil {
				sub, ok := v.([]any)
				if !ok {
					return nil, typeMismatchf("list row must be []any, got %T", v)
				}
				elemRows = append(elemRows, sub...)
			}
			offsets = binary.LittleEndian.AppendUint32(offsets, uint32(len(elemRows)))
		}
		offsetsCol, err := New(Int32, len(rows)+1, NewBuffer(offsets), nil, 0, 0)
		if err != nil {
			return nil, err
		}
		elements, err := FromValues(dtype.Elem(), elemRows)
		if err != nil {
			return nil, err
		}
		return New(dtype, len(rows), nil, mask, 0, nulls, offsetsCol, elements)

	case KindString:
		offsets := make([]byte, 0, (len(rows)+1)*4)
		offsets = binary.LittleEndian.AppendUint32(offsets, 0)
		var chars []byte
		for _, v := range rows {
			if v != nil {
				s, ok := v.(string)
				if !ok {
					return nil, typeMismatchf("string row must be string, got %T", v)
				}
				chars = append(chars, s...)
			}
			offsets = binary.LittleEndian.AppendUint32(offsets, uint32(len(chars)))
		}
		offsetsCol, err := New(Int32, len(rows)+1, NewBuffer(offsets), nil, 0, 0)
		if err != nil {
			return nil, err
		}
		charsCol, err := New(Uint8, len(chars), NewBuffer(chars), nil, 0, 0)
		if err != nil {
			return nil, err
		}
		return New(dtype, len(rows), nil, mask, 0, nulls, offsetsCol, charsCol)

	case KindStruct:
		return nil, typeMismatchf("struct columns cannot be built from values")

	default:
		width := dtype.ItemSize()
		data := make([]byte, 0, len(rows)*width)
		for _, v := range rows {
			var err error
			data, err = appendScalar(data, dtype, v)
			if err != nil {
				return nil, err
			}
		}
		return New(dtype, len(rows), NewBuffer(data), mask, 0, nulls)
	}
}

// appendScalar encodes one scalar (or a zero placeholder for null) at the
// dtype's width.
func appendScalar(dst []byte, dtype DataType, v any) ([]byte, error) {
	if v == nil {
		return append(dst, make([]byte, dtype.ItemSize())...), nil
	}
	switch dtype.Kind() {
	case KindBool:
		b, ok := v.(bool)
		if !ok {
			return nil, typeMismatchf("bool row must be bool, got %T", v)
		}
		if b {
			return append(dst, 1), nil
		}
		return append(dst, 0), nil
	case KindFloat32:
		f, err := toFloat64(v)
		if err != nil {
			return nil, err
		}
		return binary.LittleEndian.AppendUint32(dst, math.Float32bits(float32(f))), nil
	case KindFloat64:
		f, err := toFloat64(v)
		if err != nil {
			return nil, err
		}
		return binary.LittleEndian.AppendUint64(dst, math.Float64bits(f)), nil
	default:
		n, err := toInt64(v)
		if err != nil {
			return nil, err
		}
		switch dtype.ItemSize() {
		case 1:
			return append(dst, byte(n)), nil
		case 2:
			return binary.LittleEndian.AppendUint16(dst, uint16(n)), nil
		case 4:
			return binary.LittleEndian.AppendUint32(dst, uint32(n)), nil
		default:
			return binary.LittleEndian.AppendUint64(dst, uint64(n)), nil
		}
	}
}

// Values materializes the view as one Go value per row: nil for nulls,
// int64/uint64/float64/bool/string scalars, []any for lists. Intended for
// host kernels, fixtures, and structural comparison, not for hot paths.
func (c *Column) Values() ([]any, error) {
	out := make([]any, c.size)
	for i := range out {
		v, err := c.valueAtBase(c.offset + i)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// valueAtBase reads the value at an absolute base index. List and string
// offsets are absolute into the children's base buffers, so recursion does
// not consult the children's own window.
func (c *Column) valueAtBase(i int) (any, error) {
	if !maskValid(c.mask, i) {
		return nil, nil
	}
	switch c.dtype.Kind() {
	case KindList:
		start := int(c.children[0].data.int32At(i))
		end := int(c.children[0].data.int32At(i + 1))
		sub := make([]any, 0, end-start)
		for j := start; j < end; j++ {
			v, err := c.children[1].valueAtBase(j)
			if err != nil {
				return nil, err
			}
			sub = append(sub, v)
		}
		return sub, nil
	case KindString:
		start := int(c.children[0].data.int32At(i))
		end := int(c.children[0].data.int32At(i + 1))
		return string(c.children[1].data.Bytes()[start:end]), nil
	case KindStruct:
		return nil, typeMismatchf("struct columns cannot be read as values")
	case KindBool:
		return c.data.Bytes()[i] != 0, nil
	case KindFloat32:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(c.data.Bytes()[i*4:]))), nil
	case KindFloat64:
		return math.Float64frombits(binary.LittleEndian.Uint64(c.data.Bytes()[i*8:])), nil
	case KindUint8, KindUint16, KindUint32, KindUint64:
		return uintAt(c.data.Bytes(), i, c.dtype.ItemSize()), nil
	default:
		return intAt(c.data.Bytes(), i, c.dtype.ItemSize()), nil
	}
}

func intAt(data []byte, i, width int) int64 {
	switch width {
	case 1:
		return int64(int8(data[i]))
	case 2:
		return int64(int16(binary.LittleEndian.Uint16(data[i*2:])))
	case 4:
		return int64(int32(binary.LittleEndian.Uint32(data[i*4:])))
	default:
		return int64(binary.LittleEndian.Uint64(data[i*8:]))
	}
}

func uintAt(data []byte, i, width int) uint64 {
	switch width {
	case 1:
		return uint64(data[i])
	case 2:
		return uint64(binary.LittleEndian.Uint16(data[i*2:]))
	case 4:
		return uint64(binary.LittleEndian.Uint32(data[i*4:]))
	default:
		return binary.LittleEndian.Uint64(data[i*8:])
	}
}

// Equal reports structural equality of two views: same dtype, size, null
// pattern, and element values at every nesting depth. Buffer layout may
// differ between equal columns (e.g. after a serialization round-trip of a
// sliced view).
func (c *Column) Equal(other *Column) bool {
	if other == nil || !c.dtype.Equal(other.dtype) || c.size != other.size {
		return false
	}
	a, err := c.Values()
	if err != nil {
		return false
	}
	b, err := other.Values()
	if err != nil {
		return false
	}
	return reflect.DeepEqual(a, b)
}

// Numeric normalization helpers for FromValues.

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	case uint:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("cannot convert %T to an integer row value", v)
	}
}

func toFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("cannot convert %T to a float row value", v)
	}
}
