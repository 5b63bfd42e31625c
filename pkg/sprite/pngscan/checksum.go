package pngscan

import "hash/crc32"

// Checksum returns the reflected CRC-32 (polynomial 0xEDB88320) of data, the
// same algorithm PNG uses for chunk trailers.
func Checksum(data []byte) uint32 {
	return crc32.ChecksumIEEE(data)
}

// ChunkChecksum returns the CRC a chunk of type t carrying payload must end
// with. The length field is not covered.
func ChunkChecksum(t ChunkType, payload []byte) uint32 {
	crc := crc32.Update(0, crc32.IEEETable, t.Bytes())
	return crc32.Update(crc, crc32.IEEETable, payload)
}
