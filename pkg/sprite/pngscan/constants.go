// Package pngscan finds PNG streams embedded in arbitrary binary data and
// re-encodes them to an exact byte length.
package pngscan

// Signature opens every PNG datastream: 89 50 4E 47 0D 0A 1A 0A.
const Signature = "\x89PNG\r\n\x1a\n"

const (
	// Fixed sizes of the PNG sub-format
	SignatureSize   = 8
	ChunkHeaderSize = 8  // length (4) + type (4)
	ChunkOverhead   = 12 // length (4) + type (4) + crc (4)
	TrailerSize     = 12 // a zero-length IEND chunk

	// MinimumPad is the smallest length difference a replacement image may
	// have against its target span before it can be padded.
	MinimumPad = 15

	// fillerMarkerSize is the 'a', 0x00 prefix of a filler payload.
	fillerMarkerSize = 2
	fillerByte       = 'a'
)

// ChunkType is a 4-byte PNG chunk tag read as a big-endian integer.
type ChunkType uint32

const (
	TypeIHDR ChunkType = 'I'<<24 | 'H'<<16 | 'D'<<8 | 'R'
	TypePLTE ChunkType = 'P'<<24 | 'L'<<16 | 'T'<<8 | 'E'
	TypeIDAT ChunkType = 'I'<<24 | 'D'<<16 | 'A'<<8 | 'T'
	TypeIEND ChunkType = 'I'<<24 | 'E'<<16 | 'N'<<8 | 'D'
	TypeBKGD ChunkType = 'b'<<24 | 'K'<<16 | 'G'<<8 | 'D'
	TypeCHRM ChunkType = 'c'<<24 | 'H'<<16 | 'R'<<8 | 'M'
	TypeDSIG ChunkType = 'd'<<24 | 'S'<<16 | 'I'<<8 | 'G'
	TypeEXIF ChunkType = 'e'<<24 | 'X'<<16 | 'I'<<8 | 'f'
	TypeGAMA ChunkType = 'g'<<24 | 'A'<<16 | 'M'<<8 | 'A'
	TypeHIST ChunkType = 'h'<<24 | 'I'<<16 | 'S'<<8 | 'T'
	TypeICCP ChunkType = 'i'<<24 | 'C'<<16 | 'C'<<8 | 'P'
	TypeITXT ChunkType = 'i'<<24 | 'T'<<16 | 'X'<<8 | 't'
	TypePHYS ChunkType = 'p'<<24 | 'H'<<16 | 'Y'<<8 | 's'
	TypeSBIT ChunkType = 's'<<24 | 'B'<<16 | 'I'<<8 | 'T'
	TypeSPLT ChunkType = 's'<<24 | 'P'<<16 | 'L'<<8 | 'T'
	TypeSRGB ChunkType = 's'<<24 | 'R'<<16 | 'G'<<8 | 'B'
	TypeSTER ChunkType = 's'<<24 | 'T'<<16 | 'E'<<8 | 'R'
	TypeTEXT ChunkType = 't'<<24 | 'E'<<16 | 'X'<<8 | 't'
	TypeTIME ChunkType = 't'<<24 | 'I'<<16 | 'M'<<8 | 'E'
	TypeTRNS ChunkType = 't'<<24 | 'R'<<16 | 'N'<<8 | 'S'
	TypeZTXT ChunkType = 'z'<<24 | 'T'<<16 | 'X'<<8 | 't'
)

// knownTypes is the allow-list the chunk parser accepts.
var knownTypes = map[ChunkType]struct{}{
	TypeIHDR: {}, TypePLTE: {}, TypeIDAT: {}, TypeIEND: {},
	TypeBKGD: {}, TypeCHRM: {}, TypeDSIG: {}, TypeEXIF: {},
	TypeGAMA: {}, TypeHIST: {}, TypeICCP: {}, TypeITXT: {},
	TypePHYS: {}, TypeSBIT: {}, TypeSPLT: {}, TypeSRGB: {},
	TypeSTER: {}, TypeTEXT: {}, TypeTIME: {}, TypeTRNS: {},
	TypeZTXT: {},
}

// KnownChunkType reports whether t is one of the recognized chunk types.
func KnownChunkType(t ChunkType) bool {
	_, ok := knownTypes[t]
	return ok
}

// Bytes returns the 4-byte tag.
func (t ChunkType) Bytes() []byte {
	return []byte{byte(t >> 24), byte(t >> 16), byte(t >> 8), byte(t)}
}

func (t ChunkType) String() string {
	return string(t.Bytes())
}

// Ancillary reports whether decoders may safely ignore chunks of this type
// (lowercase first letter).
func (t ChunkType) Ancillary() bool {
	return byte(t>>24)&0x20 != 0
}
