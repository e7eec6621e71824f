// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package column

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Arrow returns the Arrow data type corresponding to d.
func (d DataType) Arrow() (arrow.DataType, error) {
	switch d.kind {
	case KindInt8:
		return arrow.PrimitiveTypes.Int8, nil
	case KindInt16:
		return arrow.PrimitiveTypes.Int16, nil
	case KindInt32:
		return arrow.PrimitiveTypes.Int32, nil
	case KindInt64:
		return arrow.PrimitiveTypes.Int64, nil
	case KindUint8:
		return arrow.PrimitiveTypes.Uint8, nil
	case KindUint16:
		return arrow.PrimitiveTypes.Uint16, nil
	case KindUint32:
		return arrow.PrimitiveTypes.Uint32, nil
	case KindUint64:
		return arrow.PrimitiveTypes.Uint64, nil
	case KindFloat32:
		return arrow.PrimitiveTypes.Float32, nil
	case KindFloat64:
		return arrow.PrimitiveTypes.Float64, nil
	case KindBool:
		return arrow.FixedWidthTypes.Boolean, nil
	case KindString:
		return arrow.BinaryTypes.String, nil
	case KindList:
		elem, err := d.elem.Arrow()
		if err != nil {
			return nil, err
		}
		return arrow.ListOf(elem), nil
	default:
		return nil, typeMismatchf("no Arrow equivalent for %s columns", d)
	}
}

// dataTypeFromArrow inverts DataType.Arrow.
func dataTypeFromArrow(dt arrow.DataType) (DataType, error) {
	switch t := dt.(type) {
	case *arrow.Int8Type:
		return Int8, nil
	case *arrow.Int16Type:
		return Int16, nil
	case *arrow.Int32Type:
		return Int32, nil
	case *arrow.Int64Type:
		return Int64, nil
	case *arrow.Uint8Type:
		return Uint8, nil
	case *arrow.Uint16Type:
		return Uint16, nil
	case *arrow.Uint32Type:
		return Uint32, nil
	case *arrow.Uint64Type:
		return Uint64, nil
	case *arrow.Float32Type:
		return Float32, nil
	case *arrow.Float64Type:
		return Float64, nil
	case *arrow.BooleanType:
		return Bool, nil
	case *arrow.StringType:
		return String, nil
	case *arrow.ListType:
		elem, err := dataTypeFromArrow(t.Elem())
		if err != nil {
			return DataType{}, err
		}
		return ListOf(elem), nil
	default:
		return DataType{}, typeMismatchf("unsupported Arrow type %s", dt)
	}
}

// ToArrow exports the view as an Arrow array. Buffers are shared, not
// copied: the validity buffer is the column's mask and a list level's
// offsets buffer is the raw child-0 buffer with no offset rewriting — the
// array's own offset carries the slice window, exactly as Arrow readers
// expect. The one exception is bool, whose byte-per-value host layout must
// be repacked into Arrow's bit layout.
//
// An entirely-null elements child is exported as a zero-copy all-null
// placeholder of the correct length instead of materializing its buffers;
// readers treat it as logically equal to an array of nulls.
func (c *Column) ToArrow(mem memory.Allocator) (arrow.Array, error) {
	data, err := c.toArrowData(mem)
	if err != nil {
		return nil, err
	}
	defer data.Release()
	return array.MakeFromData(data), nil
}

func (c *Column) toArrowData(mem memory.Allocator) (arrow.ArrayData, error) {
	adt, err := c.dtype.Arrow()
	if err != nil {
		return nil, err
	}

	switch c.dtype.Kind() {
	case KindList:
		elements := c.children[1]
		var elemData arrow.ArrayData
		if elements.Size() > 0 && elements.NullCount() == elements.Size() {
			placeholder := array.MakeArrayOfNull(mem, adt.(*arrow.ListType).Elem(), elements.Size())
			defer placeholder.Release()
			elemData = placeholder.Data()
			elemData.Retain()
		} else {
			elemData, err = elements.toArrowData(mem)
			if err != nil {
				return nil, err
			}
		}
		defer elemData.Release()
		buffers := []*memory.Buffer{c.mask.Arrow(), c.children[0].data.Arrow()}
		return array.NewData(adt, c.size, buffers, []arrow.ArrayData{elemData}, c.NullCount(), c.offset), nil

	case KindString:
		buffers := []*memory.Buffer{c.mask.Arrow(), c.children[0].data.Arrow(), c.children[1].data.Arrow()}
		return array.NewData(adt, c.size, buffers, nil, c.NullCount(), c.offset), nil

	case KindBool:
		b := array.NewBooleanBuilder(mem)
		defer b.Release()
		for i := range c.size {
			if c.IsNull(i) {
				b.AppendNull()
				continue
			}
			b.Append(c.data.Bytes()[c.offset+i] != 0)
		}
		arr := b.NewArray()
		defer arr.Release()
		d := arr.Data()
		d.Retain()
		return d, nil

	case KindStruct:
		return nil, typeMismatchf("no Arrow equivalent for %s columns", c.dtype)

	default:
		buffers := []*memory.Buffer{c.mask.Arrow(), c.data.Arrow()}
		return array.NewData(adt, c.size, buffers, nil, c.NullCount(), c.offset), nil
	}
}

// FromArrow imports an Arrow array as a column, sharing buffers where the
// layouts agree. The array's offset becomes the column's logical offset;
// list offsets stay absolute into the child buffers.
func FromArrow(arr arrow.Array) (*Column, error) {
	dtype, err := dataTypeFromArrow(arr.DataType())
	if err != nil {
		return nil, err
	}
	data := arr.Data()

	var mask *Buffer
	if arr.NullN() != 0 {
		if vb := data.Buffers()[0]; vb != nil && vb.Len() > 0 {
			mask = arrowBuffer(vb)
		} else {
			// All-null placeholder arrays may omit their validity buffer.
			mask = newMask(data.Offset() + arr.Len())
			for i := range arr.Len() {
				if arr.IsNull(i) {
					maskClear(mask, data.Offset()+i)
				}
			}
		}
	}

	switch dtype.Kind() {
	case KindList:
		offsetsBuf := arrowBuffer(data.Buffers()[1])
		if offsetsBuf == nil {
			offsetsBuf = NewBuffer(make([]byte, (data.Offset()+arr.Len()+1)*4))
		}
		offsetsCol, err := New(Int32, data.Offset()+arr.Len()+1, offsetsBuf, nil, 0, 0)
		if err != nil {
			return nil, err
		}
		child := array.MakeFromData(data.Children()[0])
		defer child.Release()
		elements, err := FromArrow(child)
		if err != nil {
			return nil, err
		}
		return New(dtype, arr.Len(), nil, mask, data.Offset(), arr.NullN(), offsetsCol, elements)

	case KindString:
		offsetsBuf := arrowBuffer(data.Buffers()[1])
		if offsetsBuf == nil {
			offsetsBuf = NewBuffer(make([]byte, (data.Offset()+arr.Len()+1)*4))
		}
		offsetsCol, err := New(Int32, data.Offset()+arr.Len()+1, offsetsBuf, nil, 0, 0)
		if err != nil {
			return nil, err
		}
		charsBuf := arrowBuffer(data.Buffers()[2])
		charsCol, err := New(Uint8, charsBuf.Len(), charsBuf, nil, 0, 0)
		if err != nil {
			return nil, err
		}
		return New(dtype, arr.Len(), nil, mask, data.Offset(), arr.NullN(), offsetsCol, charsCol)

	case KindBool:
		bools := arr.(*array.Boolean)
		bytes := make([]byte, arr.Len())
		var m *Buffer
		if arr.NullN() != 0 {
			m = newMask(arr.Len())
		}
		for i := range arr.Len() {
			if bools.IsNull(i) {
				maskClear(m, i)
				continue
			}
			if bools.Value(i) {
				bytes[i] = 1
			}
		}
		return New(dtype, arr.Len(), NewBuffer(bytes), m, 0, arr.NullN())

	default:
		buf := arrowBuffer(data.Buffers()[1])
		if buf == nil {
			// Placeholder arrays may omit the value buffer too.
			buf = NewBuffer(make([]byte, (data.Offset()+arr.Len())*dtype.ItemSize()))
		}
		return New(dtype, arr.Len(), buf, mask, data.Offset(), arr.NullN())
	}
}

// arrowBuffer wraps an Arrow buffer's bytes, or returns nil for an absent
// buffer (all-null placeholder children may omit their payload buffers).
func arrowBuffer(b *memory.Buffer) *Buffer {
	if b == nil {
		return nil
	}
	return NewBuffer(b.Bytes())
}
