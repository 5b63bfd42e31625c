// Package staging writes a set of files into a hidden directory and moves
// them into their destination only once every write has succeeded.
package staging

import (
	"fmt"
	"path/filepath"
)

// FS is the filesystem surface a stage needs.
type FS interface {
	MkdirTemp(dir, pattern string) (string, error)
	WriteFile(path string, data []byte) error
	Rename(oldPath, newPath string) error
	RemoveAll(path string) error
}

// Stage collects files destined for one directory.
type Stage struct {
	fs     FS
	target string
	dir    string
	names  []string
	done   bool
}

// Create opens a stage inside target, so the final renames never cross a
// filesystem boundary.
func Create(fs FS, target string) (*Stage, error) {
	dir, err := fs.MkdirTemp(target, ".sprite-stage-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create stage: %w", err)
	}
	return &Stage{fs: fs, target: target, dir: dir}, nil
}

// Dir returns the hidden staging directory.
func (s *Stage) Dir() string {
	return s.dir
}

// WriteFile stages data under name.
func (s *Stage) WriteFile(name string, data []byte) error {
	if err := s.fs.WriteFile(filepath.Join(s.dir, name), data); err != nil {
		return fmt.Errorf("failed to stage %s: %w", name, err)
	}
	s.names = append(s.names, name)
	return nil
}

// Commit moves every staged file into the target directory, replacing files
// of the same name, and removes the stage. A failed rename stops the commit;
// files already moved stay in place.
func (s *Stage) Commit() ([]string, error) {
	if s.done {
		return nil, fmt.Errorf("stage %s already closed", s.dir)
	}
	committed := make([]string, 0, len(s.names))
	for _, name := range s.names {
		dst := filepath.Join(s.target, name)
		if err := s.fs.Rename(filepath.Join(s.dir, name), dst); err != nil {
			s.Discard()
			return committed, fmt.Errorf("failed to move %s into place: %w", name, err)
		}
		committed = append(committed, dst)
	}
	s.done = true
	if err := s.fs.RemoveAll(s.dir); err != nil {
		return committed, fmt.Errorf("failed to remove stage: %w", err)
	}
	return committed, nil
}

// Discard drops the stage and everything written to it. It is safe to call
// after Commit.
func (s *Stage) Discard() error {
	if s.done {
		return nil
	}
	s.done = true
	return s.fs.RemoveAll(s.dir)
}
