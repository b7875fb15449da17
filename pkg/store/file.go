package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/afero"
)

const tempPrefix = ".tmp-"

// FileStore keeps one file per key under a root directory, fanned out by
// the first two characters of the key.
type FileStore struct {
	fs   afero.Fs
	root string
}

var _ Store = (*FileStore)(nil)

// Entry describes one stored blob.
type Entry struct {
	Key     string
	Size    int64
	ModTime time.Time
}

// NewFileStore creates a store rooted at root on fsys. A nil fsys means the
// OS filesystem.
func NewFileStore(fsys afero.Fs, root string) *FileStore {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &FileStore{fs: fsys, root: root}
}

// Root returns the store directory.
func (s *FileStore) Root() string {
	return s.root
}

func (s *FileStore) path(key string) (string, error) {
	if len(key) < 3 || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return "", fmt.Errorf("store: invalid key %q", key)
	}
	return filepath.Join(s.root, key[:2], key), nil
}

func (s *FileStore) Get(key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	blob, err := afero.ReadFile(s.fs, path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", key, err)
	}
	return blob, nil
}

// Put writes blob to a temporary file and renames it into place, so readers
// never observe a partial blob.
func (s *FileStore) Put(key string, blob []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("store: create %s: %w", dir, err)
	}
	tmp, err := afero.TempFile(s.fs, dir, tempPrefix+key+"-*")
	if err != nil {
		return fmt.Errorf("store: create temp file: %w", err)
	}
	name := tmp.Name()
	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		s.fs.Remove(name)
		return fmt.Errorf("store: write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		s.fs.Remove(name)
		return fmt.Errorf("store: close %s: %w", key, err)
	}
	if err := s.fs.Rename(name, path); err != nil {
		s.fs.Remove(name)
		return fmt.Errorf("store: rename %s: %w", key, err)
	}
	return nil
}

// Delete removes the blob. Deleting a missing key is not an error.
func (s *FileStore) Delete(key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("store: delete %s: %w", key, err)
	}
	return nil
}

// List returns every stored blob, oldest first. Leftover temporary files
// are skipped.
func (s *FileStore) List() ([]Entry, error) {
	var entries []Entry
	err := afero.Walk(s.fs, s.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == s.root {
				return nil
			}
			return err
		}
		if info.IsDir() || strings.HasPrefix(info.Name(), tempPrefix) {
			return nil
		}
		entries = append(entries, Entry{Key: info.Name(), Size: info.Size(), ModTime: info.ModTime()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store: list %s: %w", s.root, err)
	}
	slices.SortStableFunc(entries, func(a, b Entry) int {
		if c := a.ModTime.Compare(b.ModTime); c != 0 {
			return c
		}
		return strings.Compare(a.Key, b.Key)
	})
	return entries, nil
}

// Usage returns the total size of stored blobs in bytes.
func (s *FileStore) Usage() (int64, error) {
	entries, err := s.List()
	if err != nil {
		return 0, err
	}
	var total int64
	for _, e := range entries {
		total += e.Size
	}
	return total, nil
}

// Prune deletes the oldest blobs until the total size is at most maxBytes.
// It returns the deleted entries.
func (s *FileStore) Prune(maxBytes int64) ([]Entry, error) {
	entries, err := s.List()
	if err != nil {
		return nil, err
	}
	var total int64
	for _, e := range entries {
		total += e.Size
	}
	var removed []Entry
	for _, e := range entries {
		if total <= maxBytes {
			break
		}
		if err := s.Delete(e.Key); err != nil {
			return removed, err
		}
		total -= e.Size
		removed = append(removed, e)
	}
	return removed, nil
}
