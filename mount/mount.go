// Package mount holds the process-wide mounted-volume registry
// (spec.md §5, SPEC_FULL.md §6/§7): a single in-memory table mapping a
// mount handle to its underlying volume and filesystem view. It is
// owned exclusively by the CLI command loop in cmd/ and never mutated
// by filesystem operations themselves, mirroring the way the teacher's
// flag-bound package-level state (e.g. cmd's per-subcommand media-type
// flags) is owned entirely by the command layer rather than by the
// image readers it drives.
package mount

import (
	"sync"

	"vtfs/fsprobe"
	"vtfs/fsys"
	"vtfs/vterr"
	"vtfs/volume"
)

// Mount is one mounted image: its source path, the volume abstraction
// backing it, the detected filesystem view, and the probe result that
// selected it.
type Mount struct {
	Path   string
	Volume volume.Volume
	FS     fsys.FileSystem
	Result fsprobe.Result
}

var (
	mu     sync.Mutex
	mounts = map[string]*Mount{}
)

// Open calls probe on v to build the Mount, registers it under path,
// and returns it; choosing a filesystem (and any raw fallback) is left
// to probe. Re-mounting the same path replaces the previous entry.
func Open(path string, v volume.Volume, probe func(volume.Volume) (*Mount, error)) (*Mount, error) {
	m, err := probe(v)
	if err != nil {
		return nil, err
	}
	m.Path = path
	mu.Lock()
	mounts[path] = m
	mu.Unlock()
	return m, nil
}

// Register inserts an already-constructed Mount under path, replacing
// any prior entry. Used by callers that build the Mount themselves
// (e.g. after running fsprobe.Run directly).
func Register(path string, m *Mount) {
	mu.Lock()
	mounts[path] = m
	mu.Unlock()
}

// Lookup returns the Mount registered under path, if any.
func Lookup(path string) (*Mount, bool) {
	mu.Lock()
	defer mu.Unlock()
	m, ok := mounts[path]
	return m, ok
}

// Unmount removes path from the registry.
func Unmount(path string) error {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := mounts[path]; !ok {
		return vterr.ErrNotFound
	}
	delete(mounts, path)
	return nil
}

// List returns every currently mounted path.
func List() []string {
	mu.Lock()
	defer mu.Unlock()
	out := make([]string, 0, len(mounts))
	for p := range mounts {
		out = append(out, p)
	}
	return out
}
