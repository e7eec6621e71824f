// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package column

import (
	"github.com/apache/arrow-go/v18/arrow/bitutil"
)

// Validity bitmask layout follows Arrow: one bit per base element, set bit
// means valid, clear bit means null. Allocations are padded to 64-byte
// multiples so masks can back device-aligned transfers unchanged.

const maskAllocationAlignment = 64

// MaskAllocationBytes returns the padded allocation size in bytes for a
// validity mask covering size elements.
func MaskAllocationBytes(size int) int {
	bytes := bitutil.BytesForBits(int64(size))
	return int((bytes + maskAllocationAlignment - 1) / maskAllocationAlignment * maskAllocationAlignment)
}

// newMask allocates an all-valid mask for size elements.
func newMask(size int) *Buffer {
	data := make([]byte, MaskAllocationBytes(size))
	bitutil.SetBitsTo(data, 0, int64(size), true)
	return NewBuffer(data)
}

// maskValid reports whether bit i of mask is set. A nil mask means every
// element is valid.
func maskValid(mask *Buffer, i int) bool {
	if mask == nil {
		return true
	}
	return bitutil.BitIsSet(mask.Bytes(), i)
}

// maskClear marks element i null.
func maskClear(mask *Buffer, i int) {
	bitutil.ClearBit(mask.Bytes(), i)
}

// countUnsetBits returns the number of null slots in mask within
// [offset, offset+length).
func countUnsetBits(mask *Buffer, offset, length int) int {
	if mask == nil || length == 0 {
		return 0
	}
	return length - bitutil.CountSetBits(mask.Bytes(), offset, length)
}
