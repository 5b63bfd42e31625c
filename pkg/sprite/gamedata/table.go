package gamedata

import (
	"path/filepath"

	"github.com/provide-io/spriteloader/go/spriteloader/pkg/sprite/transform"
	"github.com/provide-io/spriteloader/go/spriteloader/pkg/utils/permissions"
)

// BuildTable derives a transform table from the image<N>.png files in
// srcDir: applying it with ApplyTransform turns each addressed image of
// input into the corresponding replacement, padded to the original length.
func (p *Patcher) BuildTable(input, srcDir, name string) (*transform.Table, error) {
	data, err := p.readContainer(input)
	if err != nil {
		return nil, err
	}
	if !p.fs.DirExists(srcDir) {
		return nil, newError(OutcomeInputDir, nil)
	}
	c, err := p.locate(input, data)
	if err != nil {
		return nil, err
	}

	names, err := p.fs.ReadDir(srcDir)
	if err != nil {
		return nil, newError(OutcomeInputDir, err)
	}

	table := &transform.Table{Name: name}
	for _, fn := range names {
		index, ok := ParseImageName(fn)
		if !ok || index >= len(c.Spans) {
			continue
		}
		img, err := p.fs.ReadFile(filepath.Join(srcDir, fn))
		if err != nil {
			return nil, newFileError(OutcomeInputImage, fn, err)
		}
		entry, err := transform.NewEntry(index, c.Image(index), img)
		if err != nil {
			p.logger.Error("❌ Replacement does not fit", "file", fn, "error", err)
			return nil, newFileError(OutcomeImageSize, fn, err)
		}
		table.Entries = append(table.Entries, entry)
		p.logger.Debug("📋 Added table entry", "file", fn, "index", index, "payload", len(entry.Payload))
	}

	if len(table.Entries) == 0 {
		p.logger.Error("❌ No replacement images found", "path", srcDir)
		return nil, newError(OutcomeInputDir, nil)
	}
	return table, nil
}

// LocateTable finds the named table in dir. See transform.Locate.
func (p *Patcher) LocateTable(dir, name string) (string, error) {
	return transform.Locate(p.fs, dir, name)
}

// LoadTable reads a table file through the patcher's filesystem.
func (p *Patcher) LoadTable(path string) (*transform.Table, error) {
	return transform.Load(p.fs, path, p.logger)
}

// WriteTable encodes table for path and writes it under the same lock and
// atomic replacement as a container.
func (p *Patcher) WriteTable(path string, table *transform.Table) error {
	encoded, err := transform.Encode(path, table)
	if err != nil {
		p.logger.Error("❌ Failed to encode transform table", "path", path, "error", err)
		return newError(OutcomeInternal, err)
	}

	unlock, err := p.fs.Lock(path)
	if err != nil {
		p.logger.Error("❌ Failed to lock transform table", "path", path, "error", err)
		return newError(OutcomeTableOutput, err)
	}
	defer func() {
		if err := unlock(); err != nil {
			p.logger.Debug("Failed to release table lock", "path", path, "error", err)
		}
	}()

	if err := p.fs.WriteFile(path, encoded); err != nil {
		p.logger.Error("❌ Failed to write transform table", "path", path, "error", err)
		return newError(OutcomeTableOutput, err)
	}
	p.logger.Info("💾 Transform table written", "path", path, "entries", len(table.Entries),
		"size", len(encoded), "mode", permissions.FormatOctal(permissions.FileMode()))
	return nil
}
