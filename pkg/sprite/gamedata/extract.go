package gamedata

import (
	"path/filepath"

	"github.com/provide-io/spriteloader/go/spriteloader/internal/staging"
)

// extractLockName is locked inside the output directory while extracting.
const extractLockName = ".sprite-extract"

// Extract writes every embedded image of input to outDir as image<N>.png.
// Unless overwrite is set, an existing target file fails the call before
// anything is written. Images are staged and moved into place only after
// all of them were written.
func (p *Patcher) Extract(input, outDir string, overwrite bool) error {
	data, err := p.readContainer(input)
	if err != nil {
		return err
	}
	if !p.fs.DirExists(outDir) {
		p.logger.Error("❌ Output directory does not exist", "path", outDir)
		return newError(OutcomeOutputDir, nil)
	}
	c, err := p.locate(input, data)
	if err != nil {
		return err
	}

	if !overwrite {
		for i := range c.Spans {
			name := ImageName(i)
			if p.fs.FileExists(filepath.Join(outDir, name)) {
				p.logger.Error("❌ Refusing to overwrite image", "file", name)
				return newError(OutcomeOverwrite, nil)
			}
		}
	}

	unlock, err := p.fs.Lock(filepath.Join(outDir, extractLockName))
	if err != nil {
		p.logger.Error("❌ Failed to lock output directory", "path", outDir, "error", err)
		return newError(OutcomeImageOutput, err)
	}
	defer func() {
		if err := unlock(); err != nil {
			p.logger.Debug("Failed to release extract lock", "path", outDir, "error", err)
		}
	}()

	stage, err := staging.Create(p.fs, outDir)
	if err != nil {
		p.logger.Error("❌ Failed to create staging directory", "path", outDir, "error", err)
		return newError(OutcomeImageOutput, err)
	}
	defer stage.Discard()

	for i := range c.Spans {
		name := ImageName(i)
		if err := stage.WriteFile(name, c.Image(i)); err != nil {
			p.logger.Error("❌ Failed to save image", "file", name, "error", err)
			return newError(OutcomeImageOutput, err)
		}
		p.logger.Trace("🖼️ Staged image", "file", name, "offset", c.Spans[i].Offset, "size", c.Spans[i].Size)
	}

	committed, err := stage.Commit()
	if err != nil {
		p.logger.Error("❌ Failed to move images into place", "committed", len(committed), "error", err)
		return newError(OutcomeImageOutput, err)
	}

	p.logger.Info("✅ Extracted images", "count", len(committed), "path", outDir)
	return nil
}
