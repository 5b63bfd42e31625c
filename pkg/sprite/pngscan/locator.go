package pngscan

import (
	"bytes"
	"fmt"

	spriteerrors "github.com/provide-io/spriteloader/go/spriteloader/pkg/sprite/errors"
)

var signature = []byte(Signature)

// Span is the location of one complete PNG stream inside a buffer.
type Span struct {
	Offset int
	Size   int
}

// End returns the offset of the byte following the span.
func (s Span) End() int {
	return s.Offset + s.Size
}

// Bytes returns the span's bytes within buf. The result aliases buf.
func (s Span) Bytes(buf []byte) []byte {
	return buf[s.Offset:s.End():s.End()]
}

func (s Span) String() string {
	return fmt.Sprintf("[%d, %d)", s.Offset, s.End())
}

// Step is the result of one FindNext call.
type Step struct {
	Span   Span // valid only when Found
	Found  bool
	Resume int // offset the next search starts from
}

// Done reports whether the search reached the end of the buffer.
func (s Step) Done(buf []byte) bool {
	return !s.Found && s.Resume >= len(buf)
}

// FindNext searches for the next PNG stream at or after start.
//
// A signature that is not followed by an IHDR chunk, or whose chunk walk hits
// an invalid chunk before IEND, is a false positive: nothing is found and
// the search resumes 8 bytes after the signature.
func FindNext(buf []byte, start int) (Step, error) {
	if start < 0 || start > len(buf) {
		return Step{}, fmt.Errorf("%w: %d not in [0, %d]", spriteerrors.ErrOffsetOutOfRange, start, len(buf))
	}

	rel := bytes.Index(buf[start:], signature)
	if rel < 0 {
		return Step{Resume: len(buf)}, nil
	}
	sig := start + rel
	skip := Step{Resume: sig + SignatureSize}

	off := sig + SignatureSize
	first := true
	for {
		chunk, ok := ParseChunk(buf, off)
		if !ok {
			return skip, nil
		}
		if first {
			if chunk.Type != TypeIHDR {
				return skip, nil
			}
			first = false
		}
		off = chunk.End()
		if chunk.Type == TypeIEND {
			return Step{
				Span:   Span{Offset: sig, Size: off - sig},
				Found:  true,
				Resume: off,
			}, nil
		}
	}
}

// Scan walks the whole buffer and returns every embedded PNG stream in
// offset order. Each call builds a fresh result.
func Scan(buf []byte) ([]Span, error) {
	var spans []Span
	off := 0
	for {
		step, err := FindNext(buf, off)
		if err != nil {
			return nil, err
		}
		if step.Found {
			spans = append(spans, step.Span)
		} else if step.Done(buf) {
			return spans, nil
		}
		off = step.Resume
	}
}

// Chunks lists the chunks of the PNG stream described by s. It is meant for
// spans returned by Scan and stops at the first invalid chunk.
func Chunks(buf []byte, s Span) []Chunk {
	var chunks []Chunk
	data := s.Bytes(buf)
	off := SignatureSize
	for off < len(data) {
		c, ok := ParseChunk(data, off)
		if !ok {
			break
		}
		c.Offset += s.Offset
		chunks = append(chunks, c)
		off += c.Size
	}
	return chunks
}
