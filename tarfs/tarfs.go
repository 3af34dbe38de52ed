// Package tarfs reads POSIX/GNU tar archives as a mounted filesystem:
// sequential 512-byte header scanning, checksum validation, and
// hard-link resolution (spec.md §4.9). Grounded on the teacher's own
// sequential-chunk scanners (spectrum/tzx.TZX.Read, which walks a byte
// stream block by block until EOF) generalized from TZX's tagged block
// IDs to tar's fixed header stride.
package tarfs

import (
	"fmt"
	"io"
	"log"
	"strings"

	"vtfs/fsprobe"
	"vtfs/fsys"
	"vtfs/vterr"
	"vtfs/volume"
)

const blockSize = 512

// Header is one parsed tar header record (spec.md §4.9's offset table).
type Header struct {
	Name      string
	Mode      int64
	UID, GID  int64
	Size      int64
	Mtime     int64
	Checksum  int64
	LinkFlag  byte
	LinkName  string
	Magic     string
	HeaderLBA int // block holding this header record
	StartLBA  int // first data block, valid when Size > 0
}

func (h Header) IsDir() bool {
	return h.Size == 0 && strings.HasSuffix(h.Name, "/")
}

// octal parses spec.md §4.9's tolerant octal field: leading blanks,
// optional leading '-', octal digits, trailing blanks/NUL.
func octal(b []byte) (int64, error) {
	i := 0
	for i < len(b) && b[i] == ' ' {
		i++
	}
	neg := false
	if i < len(b) && b[i] == '-' {
		neg = true
		i++
	}
	var v int64
	digits := 0
	for i < len(b) && b[i] >= '0' && b[i] <= '7' {
		v = v*8 + int64(b[i]-'0')
		i++
		digits++
	}
	for i < len(b) && (b[i] == ' ' || b[i] == 0) {
		i++
	}
	if i != len(b) || digits == 0 {
		return 0, vterr.ErrInvalid
	}
	if neg {
		v = -v
	}
	return v, nil
}

func cstr(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

func isZeroBlock(b []byte) bool {
	if b[0] != 0 {
		return false
	}
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}

func checksum(data []byte) int64 {
	var sum int64
	for i, c := range data {
		if i >= 148 && i < 156 {
			sum += 0x20
		} else {
			sum += int64(c)
		}
	}
	return sum
}

func parseHeader(data []byte) (*Header, error) {
	sum, err := octal(data[148:154])
	if err != nil {
		return nil, vterr.ErrInvalid
	}
	if checksum(data)%65536 != sum%65536 {
		return nil, vterr.ErrInvalid
	}
	size, err := octal(data[124:136])
	if err != nil {
		return nil, vterr.ErrInvalid
	}
	mode, _ := octal(data[100:108])
	uid, _ := octal(data[108:116])
	gid, _ := octal(data[116:124])
	mtime, _ := octal(data[136:148])
	h := &Header{
		Name:     cstr(data[0:100]),
		Mode:     mode,
		UID:      uid,
		GID:      gid,
		Size:     size,
		Mtime:    mtime,
		Checksum: sum,
		LinkFlag: data[156],
		LinkName: cstr(data[157:257]),
		Magic:    cstr(data[257:265]),
	}
	return h, nil
}

// FileSystem is a mounted tar archive.
type FileSystem struct {
	vol     volume.Volume
	headers []*Header
	cur     string
}

func scan(v volume.Volume) ([]*Header, error) {
	var headers []*Header
	i := 0
	zeroRun := 0
	for i < v.BlockCount() {
		b, err := v.Block(i)
		if err != nil {
			return headers, err
		}
		if isZeroBlock(b.Bytes()) {
			zeroRun++
			i++
			if zeroRun >= 2 {
				break
			}
			continue
		}
		zeroRun = 0
		h, err := parseHeader(b.Bytes())
		if err != nil {
			return headers, err
		}
		h.HeaderLBA = i
		dataBlocks := 0
		if h.Size > 0 && h.LinkFlag != '1' && h.LinkFlag != '2' && h.LinkFlag != '3' && h.LinkFlag != '4' && h.LinkFlag != '5' && h.LinkFlag != '6' {
			dataBlocks = int((h.Size + blockSize - 1) / blockSize)
			h.StartLBA = i + 1
		}
		headers = append(headers, h)
		i += 1 + dataBlocks
	}
	return headers, nil
}

// Test implements the fsprobe.Probe contract for tar.
func Test(v volume.Volume, level int, sink *log.Logger) (bool, int64, string) {
	const typeID = "tar"
	if v.BlockSize() != blockSize {
		return false, -1, typeID
	}
	if level == 0 {
		return true, -1, typeID
	}
	if v.BlockCount() < 1 {
		return false, -1, typeID
	}
	if level == 1 {
		return true, -1, typeID
	}
	headers, err := scan(v)
	if err != nil || len(headers) == 0 {
		if sink != nil {
			sink.Printf("tar: header scan failed: %v", err)
		}
		return false, -1, typeID
	}
	if level == 2 {
		return true, -1, typeID
	}
	// size counts each header block plus the data blocks that follow it.
	size := int64(0)
	for _, h := range headers {
		size++
		if h.StartLBA > 0 {
			size += (h.Size + blockSize - 1) / blockSize
		}
	}
	// Tar has no directory graph, link-count, or free-block concept
	// beyond hard-link name resolution (done lazily on read), so levels
	// 4-6 pass once the sequential scan itself validates at level 3.
	return true, size, typeID
}

// Open mounts a tar archive.
func Open(v volume.Volume) (interface{}, error) {
	headers, err := scan(v)
	if err != nil {
		return nil, err
	}
	return &FileSystem{vol: v, headers: headers, cur: "/"}, nil
}

func init() {
	fsprobe.Register(fsprobe.Probe{Name: "tar", Test: Test, Open: Open})
}

func (f *FileSystem) Source() string          { return f.vol.Source() }
func (f *FileSystem) Type() string            { return "tar" }
func (f *FileSystem) DefaultEncoding() string { return "ASCII" }
func (f *FileSystem) CurrentDir() string      { return f.cur }

func (f *FileSystem) Info() string {
	return fmt.Sprintf("tar archive, %d entries\n%s", len(f.headers), f.vol.Info())
}

func (f *FileSystem) ChangeDir(path string) error {
	if path != "/" && path != "" {
		return vterr.ErrNotFound
	}
	return nil
}

func (f *FileSystem) ListDir(glob string, sink io.Writer) error {
	if glob == "" {
		glob = "*"
	}
	for _, h := range f.headers {
		if !fsys.Match(glob, h.Name) {
			continue
		}
		if _, err := fmt.Fprintf(sink, "%-40s %10d\n", h.Name, h.Size); err != nil {
			return err
		}
	}
	return nil
}

// DumpDir hex-dumps the raw header blocks of every entry matching
// glob, tar's closest equivalent to "raw directory bytes" since a tar
// archive has no separate directory structure from its headers.
func (f *FileSystem) DumpDir(glob string, sink io.Writer) error {
	if glob == "" {
		glob = "*"
	}
	var raw []byte
	for _, h := range f.headers {
		if !fsys.Match(glob, h.Name) {
			continue
		}
		b, err := f.vol.Block(h.HeaderLBA)
		if err != nil {
			continue
		}
		raw = append(raw, b.Bytes()...)
	}
	return fsys.HexDump(raw, sink)
}

func (f *FileSystem) findHeader(path string) (*Header, error) {
	for _, h := range f.headers {
		if h.Name == path {
			if h.LinkFlag == '1' {
				return f.findHeader(h.LinkName)
			}
			return h, nil
		}
	}
	return nil, vterr.ErrNotFound
}

func (f *FileSystem) ReadFile(path string) ([]byte, error) {
	h, err := f.findHeader(path)
	if err != nil {
		return nil, err
	}
	if h.IsDir() || h.Size == 0 {
		return nil, nil
	}
	var out []byte
	n := int((h.Size + blockSize - 1) / blockSize)
	for i := 0; i < n; i++ {
		b, err := f.vol.Block(h.StartLBA + i)
		if err != nil {
			return out, err
		}
		out = append(out, b.Bytes()...)
	}
	if int64(len(out)) > h.Size {
		out = out[:h.Size]
	}
	return out, nil
}

func (f *FileSystem) ListFile(path, encoding string, sink io.Writer) error {
	data, err := f.ReadFile(path)
	if err != nil {
		return err
	}
	_, err = sink.Write(data)
	return err
}

func (f *FileSystem) DumpFile(path string, sink io.Writer) error {
	data, err := f.ReadFile(path)
	if err != nil {
		return err
	}
	return fsys.HexDump(data, sink)
}

func (f *FileSystem) FullName(path string) (string, error) {
	h, err := f.findHeader(path)
	if err != nil {
		return "", err
	}
	return "/" + h.Name, nil
}
