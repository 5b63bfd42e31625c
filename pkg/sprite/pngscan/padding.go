package pngscan

import (
	"encoding/binary"
	"fmt"

	spriteerrors "github.com/provide-io/spriteloader/go/spriteloader/pkg/sprite/errors"
	"github.com/provide-io/spriteloader/go/spriteloader/pkg/utils"
)

// FillerType is the ancillary chunk type used to absorb length differences.
const FillerType = TypeTEXT

// FillerChunk returns a complete filler chunk of size bytes: length, tEXt
// tag, the payload 'a', 0x00, 'a'... and the CRC over tag and payload.
func FillerChunk(size int) ([]byte, error) {
	chunk := make([]byte, size)
	if err := putFiller(chunk); err != nil {
		return nil, err
	}
	return chunk, nil
}

// putFiller fills dst with one filler chunk spanning all of it.
func putFiller(dst []byte) error {
	payloadLen := len(dst) - ChunkOverhead
	if payloadLen < fillerMarkerSize {
		return fmt.Errorf("%w: %d bytes available, need at least %d",
			spriteerrors.ErrPadTooSmall, len(dst), ChunkOverhead+fillerMarkerSize)
	}

	binary.BigEndian.PutUint32(dst[0:4], uint32(payloadLen))
	binary.BigEndian.PutUint32(dst[4:8], uint32(FillerType))

	payload := dst[ChunkHeaderSize : ChunkHeaderSize+payloadLen]
	payload[0] = fillerByte
	payload[1] = 0
	for i := fillerMarkerSize; i < payloadLen; i++ {
		payload[i] = fillerByte
	}

	binary.BigEndian.PutUint32(dst[len(dst)-4:], ChunkChecksum(FillerType, payload))
	return nil
}

// PadToLength returns png re-encoded to exactly length bytes. When the
// lengths already match the result is a copy. Otherwise a filler chunk is
// inserted in front of the terminal chunk (the last TrailerSize bytes), which
// requires length to exceed len(png) by at least 14 bytes.
func PadToLength(png []byte, length int) ([]byte, error) {
	if length == len(png) {
		out := make([]byte, length)
		copy(out, png)
		return out, nil
	}
	if len(png) < TrailerSize {
		return nil, fmt.Errorf("%w: %d bytes", spriteerrors.ErrImageTooShort, len(png))
	}
	if length-len(png) < ChunkOverhead+fillerMarkerSize {
		return nil, fmt.Errorf("%w: %d -> %d bytes", spriteerrors.ErrPadTooSmall, len(png), length)
	}

	body := len(png) - TrailerSize
	fillerEnd := length - TrailerSize

	out := make([]byte, length)
	copy(out, png[:body])
	if err := putFiller(out[body:fillerEnd]); err != nil {
		return nil, err
	}
	copy(out[fillerEnd:], png[body:])
	return out, nil
}

// PadToLengthXOR rebuilds the first length bytes of original: the leading
// len(payload) bytes are XORed with payload, a filler chunk covers everything
// up to the terminal chunk, and original's terminal chunk at
// [length-TrailerSize, length) is kept.
func PadToLengthXOR(original, payload []byte, length int) ([]byte, error) {
	if length > len(original) {
		return nil, fmt.Errorf("%w: output %d bytes exceeds original %d bytes",
			spriteerrors.ErrTransformTooLarge, length, len(original))
	}
	if length < len(payload)+TrailerSize+MinimumPad {
		return nil, fmt.Errorf("%w: payload %d bytes, output %d bytes",
			spriteerrors.ErrTransformTooLarge, len(payload), length)
	}

	fillerEnd := length - TrailerSize

	out := make([]byte, length)
	n := utils.XORPrefix(out, original, payload)
	if err := putFiller(out[n:fillerEnd]); err != nil {
		return nil, err
	}
	copy(out[fillerEnd:], original[fillerEnd:length])
	return out, nil
}
