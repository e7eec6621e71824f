// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package column

import (
	"fmt"
	"strings"
)

// Kind is the closed set of column variants. Dispatch on Kind is done with
// switch statements rather than type inspection so the compiler can check
// exhaustiveness where it matters.
type Kind int8

const (
	KindInt8 Kind = iota
	KindInt16
	KindInt32
	KindInt64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindBool
	KindString
	KindList
	KindStruct
)

// DataType is the semantic element type of a column. It is a small value
// type; list types carry their element type, recursing to arbitrary depth.
type DataType struct {
	kind Kind
	elem *DataType // list element type, nil otherwise
}

// Convenience constructors for the fixed-width primitives.
var (
	Int8    = DataType{kind: KindInt8}
	Int16   = DataType{kind: KindInt16}
	Int32   = DataType{kind: KindInt32}
	Int64   = DataType{kind: KindInt64}
	Uint8   = DataType{kind: KindUint8}
	Uint16  = DataType{kind: KindUint16}
	Uint32  = DataType{kind: KindUint32}
	Uint64  = DataType{kind: KindUint64}
	Float32 = DataType{kind: KindFloat32}
	Float64 = DataType{kind: KindFloat64}
	Bool    = DataType{kind: KindBool}
	String  = DataType{kind: KindString}
)

// ListOf returns the list type with the given element type.
func ListOf(elem DataType) DataType {
	e := elem
	return DataType{kind: KindList, elem: &e}
}

// Kind returns the variant tag.
func (d DataType) Kind() Kind { return d.kind }

// IsList reports whether d is a list type.
func (d DataType) IsList() bool { return d.kind == KindList }

// Elem returns the element type of a list type. It panics for non-list
// types; callers must check IsList first.
func (d DataType) Elem() DataType {
	if d.elem == nil {
		panic("column: Elem called on non-list DataType " + d.String())
	}
	return *d.elem
}

// ItemSize returns the width in bytes of one element for fixed-width types,
// and 0 for variable-width types (string, list, struct).
func (d DataType) ItemSize() int {
	switch d.kind {
	case KindInt8, KindUint8, KindBool:
		return 1
	case KindInt16, KindUint16:
		return 2
	case KindInt32, KindUint32, KindFloat32:
		return 4
	case KindInt64, KindUint64, KindFloat64:
		return 8
	default:
		return 0
	}
}

// IsInteger reports whether d is a signed or unsigned integer type.
func (d DataType) IsInteger() bool {
	switch d.kind {
	case KindInt8, KindInt16, KindInt32, KindInt64,
		KindUint8, KindUint16, KindUint32, KindUint64:
		return true
	default:
		return false
	}
}

// IsFixedWidth reports whether elements of d occupy a fixed number of bytes.
func (d DataType) IsFixedWidth() bool { return d.ItemSize() > 0 }

var kindNames = map[Kind]string{
	KindInt8:    "int8",
	KindInt16:   "int16",
	KindInt32:   "int32",
	KindInt64:   "int64",
	KindUint8:   "uint8",
	KindUint16:  "uint16",
	KindUint32:  "uint32",
	KindUint64:  "uint64",
	KindFloat32: "float32",
	KindFloat64: "float64",
	KindBool:    "bool",
	KindString:  "string",
	KindStruct:  "struct",
}

// String returns the transferable type token, e.g. "int64" or
// "list<list<float64>>". ParseDataType inverts it.
func (d DataType) String() string {
	if d.kind == KindList {
		return "list<" + d.elem.String() + ">"
	}
	return kindNames[d.kind]
}

// Equal reports whether two types are identical, including nested list
// element types.
func (d DataType) Equal(other DataType) bool {
	if d.kind != other.kind {
		return false
	}
	if d.kind == KindList {
		return d.elem.Equal(*other.elem)
	}
	return true
}

// ParseDataType decodes a type token produced by DataType.String.
func ParseDataType(token string) (DataType, error) {
	token = strings.TrimSpace(token)
	if inner, ok := strings.CutPrefix(token, "list<"); ok {
		inner, ok = strings.CutSuffix(inner, ">")
		if !ok {
			return DataType{}, fmt.Errorf("parsing dtype token %q: missing '>'", token)
		}
		elem, err := ParseDataType(inner)
		if err != nil {
			return DataType{}, err
		}
		return ListOf(elem), nil
	}
	for k, name := range kindNames {
		if name == token {
			return DataType{kind: k}, nil
		}
	}
	return DataType{}, fmt.Errorf("parsing dtype token %q: unknown type", token)
}
