package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/vmihailenco/msgpack/v5"
)

// snapshotFormat is the on-disk snapshot format version. Bump on any
// incompatible change; loaders reject unknown formats rather than guess.
const snapshotFormat = 1

// snapshot is the msgpack wire shape of a persisted cache.
// Only affirmatively valid hrefs are persisted: unknown is the absence of
// an entry, so there is nothing else worth writing.
type snapshot struct {
	Format int      `msgpack:"format"`
	Hrefs  []string `msgpack:"hrefs"`
}

// File is a Memory cache with a msgpack snapshot persisted between runs.
//
// Reads and writes go through the embedded Memory; Flush serializes the
// current entries to the snapshot path atomically (write temp, rename).
type File struct {
	*Memory
	path string
}

// OpenFile opens a file-backed cache, loading the snapshot at path when one
// exists. A missing snapshot yields an empty cache, not an error.
func OpenFile(path string) (*File, error) {
	mem := NewMemory()

	hrefs, err := ReadSnapshot(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	for _, href := range hrefs {
		mem.entries[href] = true
	}

	return &File{Memory: mem, path: path}, nil
}

// Path returns the snapshot path.
func (f *File) Path() string { return f.path }

// Flush writes the current entries to the snapshot path.
// Entries are sorted so identical cache contents produce identical bytes.
func (f *File) Flush() error {
	hrefs := f.hrefs()
	sort.Strings(hrefs)

	data, err := msgpack.Marshal(snapshot{Format: snapshotFormat, Hrefs: hrefs})
	if err != nil {
		return fmt.Errorf("encode cache snapshot: %w", err)
	}

	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create cache dir: %w", err)
		}
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write cache snapshot: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("publish cache snapshot: %w", err)
	}
	return nil
}

// Close flushes the snapshot. The cache remains usable afterwards.
func (f *File) Close() error {
	return f.Flush()
}

// ReadSnapshot reads the hrefs recorded in the snapshot at path.
// Returns os.ErrNotExist (wrapped) when there is no snapshot.
func ReadSnapshot(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cache snapshot: %w", err)
	}

	var snap snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode cache snapshot %s: %w", path, err)
	}
	if snap.Format != snapshotFormat {
		return nil, fmt.Errorf("cache snapshot %s: unsupported format %d", path, snap.Format)
	}
	return snap.Hrefs, nil
}
