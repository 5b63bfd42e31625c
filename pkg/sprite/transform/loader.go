package transform

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
	spriteerrors "github.com/provide-io/spriteloader/go/spriteloader/pkg/sprite/errors"
	"github.com/provide-io/spriteloader/go/spriteloader/pkg/sprite/operations"
	_ "github.com/provide-io/spriteloader/go/spriteloader/pkg/sprite/operations/compress"
)

// Files is the file access needed to find and read tables.
// gamedata.OSFileSystem implements it.
type Files interface {
	ReadFile(path string) ([]byte, error)
	FileExists(path string) bool
}

// EnvTableDir names the directory searched for tables by Locate.
const EnvTableDir = "SPRITE_TABLE_DIR"

// TableDir returns the configured table directory, or "." when unset.
func TableDir() string {
	if dir := os.Getenv(EnvTableDir); dir != "" {
		return dir
	}
	return "."
}

// Locate finds the file holding the named table in dir: <name>.json,
// optionally followed by a compression suffix.
func Locate(files Files, dir, name string) (string, error) {
	candidates := []string{name + ".json"}
	for _, ext := range operations.Extensions() {
		candidates = append(candidates, name+".json"+ext)
	}
	for _, c := range candidates {
		path := filepath.Join(dir, c)
		if files.FileExists(path) {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s in %s", spriteerrors.ErrTableNotFound, name, dir)
}

// Load reads a table file, undoing any compression named by its suffixes.
// A table without a name takes the file's base name.
func Load(files Files, path string, logger hclog.Logger) (*Table, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	raw, err := files.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", spriteerrors.ErrTableNotFound, path)
		}
		return nil, fmt.Errorf("reading transform table: %w", err)
	}

	chain, _ := operations.ForPath(path)
	logger.Debug("📋 Loading transform table", "path", path, "codec", operations.ChainToString(chain), "size", len(raw))

	data, err := operations.ReverseChain(raw, chain)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	table, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if table.Name == "" {
		table.Name = NameFromPath(path)
	}

	logger.Debug("✅ Transform table loaded", "name", table.Name, "entries", len(table.Entries))
	return table, nil
}

// NameFromPath returns the table name implied by a file name:
// "dir/invisible.json.gz" names "invisible".
func NameFromPath(path string) string {
	_, base := operations.ForPath(path)
	return strings.TrimSuffix(filepath.Base(base), ".json")
}

// Encode serializes the table for path, compressing it according to the
// path's suffixes.
func Encode(path string, table *Table) ([]byte, error) {
	data, err := table.Marshal()
	if err != nil {
		return nil, fmt.Errorf("encoding transform table: %w", err)
	}

	chain, _ := operations.ForPath(path)
	encoded, err := operations.ApplyChain(data, chain)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", path, err)
	}
	return encoded, nil
}
