package vfs

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Dir is a Source backed by an unpacked directory tree.
// The tree is indexed once at open; files added later are not seen.
type Dir struct {
	root  string
	files map[string]string // logical path -> OS path
}

// OpenDir indexes every regular file under root.
func OpenDir(root string) (*Dir, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("opening directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("opening directory: %s is not a directory", root)
	}

	d := &Dir{root: root, files: make(map[string]string)}
	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		d.files[Clean(filepath.ToSlash(rel))] = path
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("indexing %s: %w", root, err)
	}
	return d, nil
}

// Name returns the directory root.
func (d *Dir) Name() string {
	return d.root
}

// Contains checks if a file exists.
func (d *Dir) Contains(path string) bool {
	_, ok := d.files[Clean(path)]
	return ok
}

// Read reads a whole file.
func (d *Dir) Read(path string) ([]byte, error) {
	osPath, ok := d.files[Clean(path)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotExist, path)
	}
	data, err := os.ReadFile(osPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// List returns all logical paths, sorted.
func (d *Dir) List() []string {
	result := make([]string, 0, len(d.files))
	for path := range d.files {
		result = append(result, path)
	}
	sort.Strings(result)
	return result
}

// Close releases the index.
func (d *Dir) Close() error {
	d.files = nil
	return nil
}
