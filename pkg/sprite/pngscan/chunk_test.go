package pngscan

import (
	"encoding/binary"
	"testing"

	"github.com/provide-io/spriteloader/go/spriteloader/internal/pngtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChunk(t *testing.T) {
	ihdr := pngtest.IHDR()

	hugeLength := make([]byte, 16)
	binary.BigEndian.PutUint32(hugeLength[0:4], 0xFFFFFFFF)
	copy(hugeLength[4:8], "IDAT")

	testCases := []struct {
		name  string
		buf   []byte
		off   int
		valid bool
		typ   ChunkType
		size  int
	}{
		{name: "IHDR", buf: ihdr, off: 0, valid: true, typ: TypeIHDR, size: 25},
		{name: "IEND", buf: pngtest.IEND, off: 0, valid: true, typ: TypeIEND, size: 12},
		{name: "IEND at offset", buf: append([]byte{1, 2, 3}, pngtest.IEND...), off: 3, valid: true, typ: TypeIEND, size: 12},
		{name: "fewer than 8 bytes", buf: ihdr[:7], off: 0},
		{name: "offset past end", buf: ihdr, off: len(ihdr) - 7},
		{name: "negative offset", buf: ihdr, off: -1},
		{name: "unknown type", buf: pngtest.Chunk("abcd", []byte{1}), off: 0},
		{name: "payload overruns buffer", buf: ihdr[:24], off: 0},
		{name: "length field near 4GiB", buf: hugeLength, off: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			chunk, ok := ParseChunk(tc.buf, tc.off)
			require.Equal(t, tc.valid, ok)
			if !tc.valid {
				assert.Equal(t, Chunk{}, chunk)
				return
			}
			assert.Equal(t, tc.typ, chunk.Type)
			assert.Equal(t, tc.size, chunk.Size)
			assert.Equal(t, tc.off, chunk.Offset)
			assert.Equal(t, tc.off+tc.size, chunk.End())
		})
	}
}

func TestParseChunkIgnoresCRC(t *testing.T) {
	chunk := pngtest.Chunk("tEXt", []byte("k\x00v"))
	chunk[len(chunk)-1] ^= 0xFF

	parsed, ok := ParseChunk(chunk, 0)
	require.True(t, ok)
	assert.Equal(t, TypeTEXT, parsed.Type)
	assert.Equal(t, uint32(3), parsed.Length)
}
