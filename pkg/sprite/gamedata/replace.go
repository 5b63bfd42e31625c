package gamedata

import (
	"fmt"
	"path/filepath"

	spriteerrors "github.com/provide-io/spriteloader/go/spriteloader/pkg/sprite/errors"
	"github.com/provide-io/spriteloader/go/spriteloader/pkg/sprite/pngscan"
)

// Replace copies input to output with every image<N>.png found in srcDir
// written over embedded image N. A replacement must either match the
// original size exactly or be more than pngscan.MinimumPad bytes smaller,
// in which case it is padded back to the original size. Files whose names
// do not address an existing image are ignored.
func (p *Patcher) Replace(input, output, srcDir string) error {
	data, err := p.readContainer(input)
	if err != nil {
		return err
	}
	if !p.fs.DirExists(srcDir) {
		p.logger.Error("❌ Input directory does not exist", "path", srcDir)
		return newError(OutcomeInputDir, nil)
	}
	c, err := p.locate(input, data)
	if err != nil {
		return err
	}

	names, err := p.fs.ReadDir(srcDir)
	if err != nil {
		p.logger.Error("❌ Failed to list input directory", "path", srcDir, "error", err)
		return newError(OutcomeInputDir, err)
	}

	scratch := c.Scratch()
	replaced := 0
	for _, name := range names {
		index, ok := ParseImageName(name)
		if !ok || index >= len(c.Spans) {
			continue
		}
		target := c.Spans[index]

		img, err := p.fs.ReadFile(filepath.Join(srcDir, name))
		if err != nil {
			p.logger.Error("❌ Failed to read replacement image", "file", name, "error", err)
			return newFileError(OutcomeInputImage, name, err)
		}

		patched, err := fitImage(img, target.Size)
		if err != nil {
			p.logger.Error("❌ Replacement image has unusable size",
				"file", name, "size", len(img), "target", target.Size, "error", err)
			return newFileError(OutcomeImageSize, name, err)
		}
		copy(scratch[target.Offset:target.End()], patched)
		replaced++

		p.logger.Debug("🔁 Replaced image", "file", name, "index", index,
			"size", len(img), "target", target.Size, "padding", target.Size-len(img))
	}

	if err := p.writeContainer(output, scratch); err != nil {
		return err
	}
	p.logger.Info("✅ Packed images", "replaced", replaced, "output", output)
	return nil
}

// fitImage returns img re-encoded to exactly size bytes.
func fitImage(img []byte, size int) ([]byte, error) {
	switch {
	case len(img) == size:
		return img, nil
	case len(img) >= minReplacementSize && len(img) < size-pngscan.MinimumPad:
		return pngscan.PadToLength(img, size)
	default:
		return nil, fmt.Errorf("%w: %d bytes for a %d byte image", spriteerrors.ErrReplacementSize, len(img), size)
	}
}
