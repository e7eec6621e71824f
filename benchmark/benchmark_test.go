package benchmark

import (
	"bytes"
	"io"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/require"

	"github.com/ziongh/cudf/column"
)

func fixturePair(b *testing.B) (*column.Column, *column.Column) {
	b.Helper()
	cfg := DefaultConfig()
	src, err := ListInt64(cfg)
	require.NoError(b, err)
	idx, err := Indices(src, cfg)
	require.NoError(b, err)
	return src, idx
}

func BenchmarkTake(b *testing.B) {
	src, idx := fixturePair(b)
	lst, err := src.List()
	require.NoError(b, err)
	b.ResetTimer()
	for b.Loop() {
		if _, err := lst.Take(idx); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLen(b *testing.B) {
	src, _ := fixturePair(b)
	lst, err := src.List()
	require.NoError(b, err)
	b.ResetTimer()
	for b.Loop() {
		if _, err := lst.Len(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSerialize(b *testing.B) {
	src, _ := fixturePair(b)
	b.ResetTimer()
	for b.Loop() {
		if _, _, err := src.Serialize(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkWritePayload(b *testing.B) {
	src, _ := fixturePair(b)
	b.ResetTimer()
	for b.Loop() {
		if err := column.WritePayload(io.Discard, src); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkWritePayloadCompressed(b *testing.B) {
	src, _ := fixturePair(b)
	b.ResetTimer()
	for b.Loop() {
		if err := column.WritePayloadCompressed(io.Discard, src); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkPayloadRoundTrip(b *testing.B) {
	src, _ := fixturePair(b)
	var buf bytes.Buffer
	require.NoError(b, column.WritePayload(&buf, src))
	payload := buf.Bytes()
	b.ResetTimer()
	for b.Loop() {
		if _, err := column.ReadPayload(bytes.NewReader(payload)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkToArrow(b *testing.B) {
	src, _ := fixturePair(b)
	mem := memory.NewGoAllocator()
	b.ResetTimer()
	for b.Loop() {
		arr, err := src.ToArrow(mem)
		if err != nil {
			b.Fatal(err)
		}
		arr.Release()
	}
}
