// Package rawfs is the "no candidate succeeded" fallback mount of
// spec.md §4.5: a FileSystem that exposes the volume's raw blocks with
// no directory structure, grounded on the teacher's own behavior of
// still rendering an Image's Info() when a more specific interpretation
// (e.g. AMSDOS header) fails to parse.
package rawfs

import (
	"fmt"
	"io"

	"vtfs/vterr"
	"vtfs/volume"
)

// FileSystem presents a volume with no recognized filesystem: listing
// is empty, and the only readable "file" is the whole raw volume.
type FileSystem struct {
	vol volume.Volume
}

// New wraps v as a raw, directory-less mount.
func New(v volume.Volume) *FileSystem {
	return &FileSystem{vol: v}
}

func (f *FileSystem) Source() string          { return f.vol.Source() }
func (f *FileSystem) Type() string            { return "raw" }
func (f *FileSystem) DefaultEncoding() string { return "ASCII" }

func (f *FileSystem) Info() string {
	return fmt.Sprintf("raw volume, no filesystem recognized\n%s", f.vol.Info())
}

func (f *FileSystem) CurrentDir() string        { return "/" }
func (f *FileSystem) ChangeDir(path string) error { return vterr.ErrNotFound }

func (f *FileSystem) ListDir(glob string, sink io.Writer) error {
	_, err := fmt.Fprintf(sink, "(no filesystem recognized; %d blocks of %d bytes)\n", f.vol.BlockCount(), f.vol.BlockSize())
	return err
}

func (f *FileSystem) DumpDir(glob string, sink io.Writer) error {
	return f.ListDir(glob, sink)
}

func (f *FileSystem) ListFile(path, encoding string, sink io.Writer) error {
	return vterr.ErrNotFound
}

func (f *FileSystem) DumpFile(path string, sink io.Writer) error {
	return vterr.ErrNotFound
}

func (f *FileSystem) ReadFile(path string) ([]byte, error) {
	return nil, vterr.ErrNotFound
}

func (f *FileSystem) FullName(path string) (string, error) {
	return "", vterr.ErrNotFound
}
