package gamedata

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/provide-io/spriteloader/go/spriteloader/pkg/utils/permissions"
)

// ErrLocked is returned by FileSystem.Lock when another process holds the
// lock.
var ErrLocked = errors.New("❌ output is locked by another process")

// FileSystem is everything the container operations need from the host.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	// WriteFile replaces path with data. Implementations should not leave a
	// partially written file behind on failure.
	WriteFile(path string, data []byte) error
	// ReadDir lists the names of the non-directory entries in dir, sorted.
	// Symlinks are followed.
	ReadDir(dir string) ([]string, error)
	DirExists(path string) bool
	FileExists(path string) bool
	MkdirTemp(dir, pattern string) (string, error)
	Rename(oldPath, newPath string) error
	RemoveAll(path string) error
	// Lock takes an exclusive advisory lock tied to path and returns the
	// function releasing it.
	Lock(path string) (func() error, error)
}

// OSFileSystem implements FileSystem on the host filesystem.
type OSFileSystem struct{}

func (OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile writes to a temporary sibling and renames it over path. The
// result gets permissions.FileMode().
func (OSFileSystem) WriteFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, permissions.FileMode()); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

func (OSFileSystem) ReadDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if e.Type()&fs.ModeSymlink != 0 {
			// Dangling links are kept so reading them reports the file.
			if info, err := os.Stat(filepath.Join(dir, e.Name())); err == nil && info.IsDir() {
				continue
			}
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

func (OSFileSystem) DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (OSFileSystem) FileExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func (OSFileSystem) MkdirTemp(dir, pattern string) (string, error) {
	return os.MkdirTemp(dir, pattern)
}

func (OSFileSystem) Rename(oldPath, newPath string) error {
	return os.Rename(oldPath, newPath)
}

func (OSFileSystem) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

// lockAttempts bounds how often Lock retries after locking a lock file
// that its previous holder already unlinked.
const lockAttempts = 3

// Lock creates <path>.lock and holds an exclusive lock on it until the
// returned function is called. The holder unlinks the file before
// unlocking it, so a lock taken on an unlinked inode is discarded.
func (OSFileSystem) Lock(path string) (func() error, error) {
	lockPath := path + ".lock"
	for attempt := 0; attempt < lockAttempts; attempt++ {
		f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening lock file: %w", err)
		}
		if err := lockFile(f); err != nil {
			f.Close()
			return nil, err
		}
		if !isLockPath(f, lockPath) {
			unlockFile(f)
			f.Close()
			continue
		}
		fmt.Fprintf(f, "%d\n", os.Getpid())
		return releaseLock(f, lockPath), nil
	}
	return nil, ErrLocked
}

// isLockPath reports whether f is still the file found at path.
func isLockPath(f *os.File, path string) bool {
	held, err := f.Stat()
	if err != nil {
		return false
	}
	current, err := os.Stat(path)
	if err != nil {
		return false
	}
	return os.SameFile(held, current)
}

func releaseLock(f *os.File, path string) func() error {
	return func() error {
		// Windows refuses to unlink an open file; remove it after closing.
		rerr := os.Remove(path)
		uerr := unlockFile(f)
		cerr := f.Close()
		if rerr != nil && !errors.Is(rerr, fs.ErrNotExist) {
			if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return errors.Join(uerr, cerr, err)
			}
		}
		return errors.Join(uerr, cerr)
	}
}
