// Package pngtest builds minimal PNG streams and containers for tests.
package pngtest

import (
	"encoding/binary"
	"hash/crc32"
)

// Signature is the 8-byte PNG signature.
const Signature = "\x89PNG\r\n\x1a\n"

// IEND is a complete, zero-length terminal chunk.
var IEND = []byte{0, 0, 0, 0, 'I', 'E', 'N', 'D', 0xAE, 0x42, 0x60, 0x82}

// Chunk encodes one chunk with a correct CRC.
func Chunk(typ string, payload []byte) []byte {
	out := make([]byte, 0, len(payload)+12)
	out = binary.BigEndian.AppendUint32(out, uint32(len(payload)))
	out = append(out, typ...)
	out = append(out, payload...)
	crc := crc32.ChecksumIEEE(append([]byte(typ), payload...))
	return binary.BigEndian.AppendUint32(out, crc)
}

// IHDR returns a header chunk for a 1x1 8-bit truecolor image.
func IHDR() []byte {
	payload := []byte{
		0, 0, 0, 1, // width
		0, 0, 0, 1, // height
		8, 2, 0, 0, 0,
	}
	return Chunk("IHDR", payload)
}

// PNG returns a structurally valid stream: signature, IHDR, one IDAT of
// dataLen bytes filled with fill, and IEND. Its length is 57 + dataLen.
func PNG(dataLen int, fill byte) []byte {
	data := make([]byte, dataLen)
	for i := range data {
		data[i] = fill
	}
	out := []byte(Signature)
	out = append(out, IHDR()...)
	out = append(out, Chunk("IDAT", data)...)
	return append(out, IEND...)
}

// Size returns the length of PNG(dataLen, ...).
func Size(dataLen int) int {
	return 57 + dataLen
}

// Container returns a size-byte buffer of filler junk with each image copied
// in at its offset.
func Container(size int, images map[int][]byte) []byte {
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = byte(i*7 + 3)
	}
	// junk must not contain an accidental signature
	for i := range buf {
		if buf[i] == 0x89 {
			buf[i] = 0x88
		}
	}
	for off, img := range images {
		copy(buf[off:], img)
	}
	return buf
}
