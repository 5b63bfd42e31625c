package gamedata

import (
	"github.com/provide-io/spriteloader/go/spriteloader/pkg/sprite/pngscan"
)

// ImageInfo summarizes one embedded image.
type ImageInfo struct {
	Index  int
	Offset int
	Size   int
	Chunks int
	// Filler is the number of bytes taken by filler chunks, non-zero for
	// images that were padded by Replace or ApplyTransform.
	Filler int
}

// List loads input and describes every embedded image.
func (p *Patcher) List(input string) ([]ImageInfo, error) {
	c, err := p.Load(input)
	if err != nil {
		return nil, err
	}

	infos := make([]ImageInfo, len(c.Spans))
	for i, span := range c.Spans {
		chunks := pngscan.Chunks(c.Data, span)
		info := ImageInfo{
			Index:  i,
			Offset: span.Offset,
			Size:   span.Size,
			Chunks: len(chunks),
		}
		for _, ch := range chunks {
			if isFiller(c.Data, ch) {
				info.Filler += ch.Size
			}
		}
		infos[i] = info
	}
	return infos, nil
}

func isFiller(buf []byte, ch pngscan.Chunk) bool {
	if ch.Type != pngscan.FillerType || ch.Length < 2 {
		return false
	}
	payload := buf[ch.Offset+pngscan.ChunkHeaderSize:]
	return payload[0] == 'a' && payload[1] == 0
}
