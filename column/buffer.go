// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package column

import (
	"encoding/binary"

	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Buffer is an immutable-length block of raw bytes with a host-visible view.
// Buffers are shared by reference across sliced column views; no caller may
// mutate the contents after construction.
type Buffer struct {
	data []byte
}

// NewBuffer wraps data without copying. The caller hands over ownership and
// must not write to data afterwards.
func NewBuffer(data []byte) *Buffer {
	return &Buffer{data: data}
}

// NewBufferCopy copies data into a freshly owned buffer.
func NewBufferCopy(data []byte) *Buffer {
	owned := make([]byte, len(data))
	copy(owned, data)
	return &Buffer{data: owned}
}

// Len returns the byte length.
func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}
	return len(b.data)
}

// Bytes returns the host-visible view. Read-only: mutating the returned
// slice corrupts every column view sharing this buffer.
func (b *Buffer) Bytes() []byte {
	if b == nil {
		return nil
	}
	return b.data
}

// Arrow wraps the buffer as an Arrow memory buffer without copying.
func (b *Buffer) Arrow() *memory.Buffer {
	if b == nil {
		return nil
	}
	return memory.NewBufferBytes(b.data)
}

// int32At reads the i-th little-endian int32 from the buffer. Offset buffers
// of list and string columns are stored this way.
func (b *Buffer) int32At(i int) int32 {
	return int32(binary.LittleEndian.Uint32(b.data[i*4:]))
}
