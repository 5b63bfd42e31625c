package pngscan

import (
	"encoding/binary"
	"fmt"
)

// Chunk describes one chunk located inside a buffer. Payload and CRC are
// never inspected.
type Chunk struct {
	Offset int
	Type   ChunkType
	Length uint32 // payload length
	Size   int    // Length + ChunkOverhead
}

// End returns the offset of the byte following the chunk.
func (c Chunk) End() int {
	return c.Offset + c.Size
}

func (c Chunk) String() string {
	return fmt.Sprintf("%s@%d+%d", c.Type, c.Offset, c.Size)
}

// ParseChunk validates and measures the chunk starting at off. It reports
// false when fewer than 8 bytes remain, when the type tag is not a known PNG
// chunk type, or when the declared payload would overrun buf.
func ParseChunk(buf []byte, off int) (Chunk, bool) {
	if off < 0 || off > len(buf)-ChunkHeaderSize {
		return Chunk{}, false
	}

	length := binary.BigEndian.Uint32(buf[off : off+4])
	typ := ChunkType(binary.BigEndian.Uint32(buf[off+4 : off+8]))
	if !KnownChunkType(typ) {
		return Chunk{}, false
	}

	// uint64 keeps a hostile length field from wrapping around
	if uint64(off)+ChunkOverhead+uint64(length) > uint64(len(buf)) {
		return Chunk{}, false
	}

	return Chunk{
		Offset: off,
		Type:   typ,
		Length: length,
		Size:   int(length) + ChunkOverhead,
	}, true
}
