// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package column

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/zstd"
)

// Variant tags carried in serialization headers.
const (
	VariantPrimitive = "primitive"
	VariantList      = "list"
	VariantString    = "string"
)

// Header is the typed metadata produced for one column by Serialize. The
// accompanying frames are a flat list shared by the whole column tree; each
// header records how many of the flat frames belong to its column
// (children's frames first, in child order, then the column's own mask
// frame when it has nulls) so a reconstructor can re-partition the list
// without any frame carrying a length prefix.
type Header struct {
	Variant    string    `json:"variant"`
	DType      string    `json:"dtype"`
	NullCount  int       `json:"null_count"`
	Size       int       `json:"size"`
	Offset     int       `json:"offset"`
	FrameCount int       `json:"frame_count"`
	Subheaders []*Header `json:"subheaders,omitempty"`
}

func variantTag(d DataType) string {
	switch d.Kind() {
	case KindList:
		return VariantList
	case KindString:
		return VariantString
	default:
		return VariantPrimitive
	}
}

// Serialize decomposes the column into a metadata header and an ordered
// flat list of binary frames suitable for network transfer or
// checkpointing. Frames reference the column's base buffers without
// copying; the header records the view's offset so sliced views round-trip
// exactly.
func (c *Column) Serialize() (*Header, [][]byte, error) {
	if c.dtype.Kind() == KindStruct {
		return nil, nil, typeMismatchf("struct columns cannot be serialized")
	}
	h := &Header{
		Variant:   variantTag(c.dtype),
		DType:     c.dtype.String(),
		NullCount: c.NullCount(),
		Size:      c.size,
		Offset:    c.offset,
	}

	var frames [][]byte
	for _, child := range c.children {
		sub, subFrames, err := child.Serialize()
		if err != nil {
			return nil, nil, err
		}
		h.Subheaders = append(h.Subheaders, sub)
		frames = append(frames, subFrames...)
	}
	if len(c.children) == 0 {
		frames = append(frames, c.data.Bytes())
	}
	if h.NullCount > 0 {
		frames = append(frames, c.mask.Bytes())
	}
	h.FrameCount = len(frames)
	return h, frames, nil
}

// Deserialize reconstructs a column from a header and its frames. The mask
// is the final frame when the header records nulls; the remaining frames
// are partitioned among the subheaders in order by their frame counts.
func Deserialize(h *Header, frames [][]byte) (*Column, error) {
	if len(frames) != h.FrameCount {
		return nil, invalidStatef("header records %d frames, got %d", h.FrameCount, len(frames))
	}
	dtype, err := ParseDataType(h.DType)
	if err != nil {
		return nil, fmt.Errorf("deserializing column: %w", err)
	}

	var mask *Buffer
	if h.NullCount > 0 {
		mask = NewBuffer(frames[len(frames)-1])
		frames = frames[:len(frames)-1]
	}

	children := make([]*Column, 0, len(h.Subheaders))
	f := 0
	for _, sub := range h.Subheaders {
		if f+sub.FrameCount > len(frames) {
			return nil, invalidStatef("subheader claims %d frames, only %d remain",
				sub.FrameCount, len(frames)-f)
		}
		child, err := Deserialize(sub, frames[f:f+sub.FrameCount])
		if err != nil {
			return nil, err
		}
		children = append(children, child)
		f += sub.FrameCount
	}

	var data *Buffer
	if len(h.Subheaders) == 0 {
		if len(frames) != 1 {
			return nil, invalidStatef("leaf column expects 1 data frame, got %d", len(frames))
		}
		data = NewBuffer(frames[0])
	}
	return New(dtype, h.Size, data, mask, h.Offset, h.NullCount, children...)
}

// Payload framing: a self-describing byte stream carrying one header plus
// its frames. Layout is magic, flags, uvarint-length JSON header, then the
// frame section (uvarint frame count, per frame a uvarint length and the
// raw bytes). When the zstd flag is set the frame section is one zstd
// stream.

var payloadMagic = [4]byte{'l', 'c', 'o', 'l'}

const (
	payloadFlagZstd = 1 << 0
)

// WritePayload writes the column as a single uncompressed payload stream.
func WritePayload(w io.Writer, c *Column) error {
	return writePayload(w, c, false)
}

// WritePayloadCompressed writes the column with a zstd-compressed frame
// section. ReadPayload handles both forms transparently.
func WritePayloadCompressed(w io.Writer, c *Column) error {
	return writePayload(w, c, true)
}

func writePayload(w io.Writer, c *Column, compress bool) error {
	h, frames, err := c.Serialize()
	if err != nil {
		return err
	}
	hdr, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("encoding payload header: %w", err)
	}

	var flags byte
	if compress {
		flags |= payloadFlagZstd
	}
	pre := make([]byte, 0, len(payloadMagic)+1+binary.MaxVarintLen64+len(hdr))
	pre = append(pre, payloadMagic[:]...)
	pre = append(pre, flags)
	pre = binary.AppendUvarint(pre, uint64(len(hdr)))
	pre = append(pre, hdr...)
	if _, err := w.Write(pre); err != nil {
		return fmt.Errorf("writing payload header: %w", err)
	}

	frameDst := w
	var zw *zstd.Encoder
	if compress {
		zw, err = zstd.NewWriter(w)
		if err != nil {
			return fmt.Errorf("opening zstd frame section: %w", err)
		}
		frameDst = zw
	}

	var lenBuf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(lenBuf[:], uint64(len(frames)))
	if _, err := frameDst.Write(lenBuf[:n]); err != nil {
		return fmt.Errorf("writing frame count: %w", err)
	}
	for i, frame := range frames {
		n = binary.PutUvarint(lenBuf[:], uint64(len(frame)))
		if _, err := frameDst.Write(lenBuf[:n]); err != nil {
			return fmt.Errorf("writing frame %d length: %w", i, err)
		}
		if _, err := frameDst.Write(frame); err != nil {
			return fmt.Errorf("writing frame %d: %w", i, err)
		}
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			return fmt.Errorf("closing zstd frame section: %w", err)
		}
	}
	return nil
}

// ReadPayload reads one payload stream and reconstructs the column.
func ReadPayload(r io.Reader) (*Column, error) {
	br := bufio.NewReader(r)

	var magic [4]byte
	if _, err := io.ReadFull(br, magic[:]); err != nil {
		return nil, fmt.Errorf("reading payload magic: %w", err)
	}
	if magic != payloadMagic {
		return nil, invalidStatef("bad payload magic %q", magic[:])
	}
	flags, err := br.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("reading payload flags: %w", err)
	}

	hdrLen, err := binary.ReadUvarint(br)
	if err != nil {
		return nil, fmt.Errorf("reading payload header length: %w", err)
	}
	hdrBytes, err := readSection(br, hdrLen, "payload header")
	if err != nil {
		return nil, err
	}
	var h Header
	if err := json.Unmarshal(hdrBytes, &h); err != nil {
		return nil, fmt.Errorf("decoding payload header: %w", err)
	}

	frameSrc := io.Reader(br)
	if flags&payloadFlagZstd != 0 {
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("opening zstd frame section: %w", err)
		}
		defer zr.Close()
		frameSrc = zr
	}
	fr := bufio.NewReader(frameSrc)

	count, err := binary.ReadUvarint(fr)
	if err != nil {
		return nil, fmt.Errorf("reading frame count: %w", err)
	}
	frames := make([][]byte, 0, min(count, 64))
	for i := uint64(0); i < count; i++ {
		frameLen, err := binary.ReadUvarint(fr)
		if err != nil {
			return nil, fmt.Errorf("reading frame %d length: %w", i, err)
		}
		frame, err := readSection(fr, frameLen, fmt.Sprintf("frame %d", i))
		if err != nil {
			return nil, err
		}
		frames = append(frames, frame)
	}
	return Deserialize(&h, frames)
}

// readSection reads exactly n bytes. Length prefixes come off the wire, so
// the buffer grows as data actually arrives rather than being sized up
// front from the declared length.
func readSection(r io.Reader, n uint64, what string) ([]byte, error) {
	if n > math.MaxInt64 {
		return nil, invalidStatef("%s length %d overflows", what, n)
	}
	const chunk = 1 << 20
	if n <= chunk {
		buf := make([]byte, n)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("reading %s: %w", what, err)
		}
		return buf, nil
	}
	var buf bytes.Buffer
	buf.Grow(chunk)
	if _, err := io.CopyN(&buf, r, int64(n)); err != nil {
		return nil, fmt.Errorf("reading %s: %w", what, err)
	}
	return buf.Bytes(), nil
}
