package unixfs

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

func inodeAreaStart(d *dialect, sb *superblock) int {
	return superblockLBA + 1 + sb.isize
}

func readFile(v volume.Volume, d *dialect, areaStart int, in *Inode) ([]byte, error) {
	var out []byte
	n := in.blockCount(d)
	for i := 0; i < n; i++ {
		lba, err := blockForLogical(v, d, in, i)
		if err != nil {
			return out, err
		}
		b, err := v.Block(lba)
		if err != nil {
			return out, err
		}
		take := d.blockSize
		remaining := in.Size - len(out)
		if remaining < take {
			take = remaining
		}
		if take < 0 {
			take = 0
		}
		bytes, err := b.ReadBytes(0, take)
		if err != nil {
			return out, err
		}
		out = append(out, bytes...)
	}
	_ = areaStart
	return out, nil
}

func readDirEntries(v volume.Volume, d *dialect, in *Inode) ([]DirEntry, error) {
	var out []DirEntry
	n := in.blockCount(d)
	for i := 0; i < n; i++ {
		lba, err := blockForLogical(v, d, in, i)
		if err != nil {
			return out, err
		}
		b, err := v.Block(lba)
		if err != nil {
			return out, err
		}
		out = append(out, parseDirBlock(d, b.Bytes())...)
	}
	return out, nil
}

// level3 walks every allocated inode through all indirection levels,
// checking that each resolved data-block address falls within
// [isize, fsize), per spec.md §4.8. The addresses of the indirect
// blocks themselves are not range-checked.
func level3(v volume.Volume, d *dialect, sb *superblock) bool {
	areaStart := inodeAreaStart(d, sb)
	maxInum := (sb.fsize - areaStart) * d.inodesPerBlock
	if maxInum <= 0 {
		return false
	}
	for inum := d.rootInum; inum <= maxInum; inum++ {
		in, err := parseInode(v, d, areaStart, inum)
		if err != nil {
			return false
		}
		if _, ok := d.fileType(in.Flags); !ok {
			continue
		}
		n := in.blockCount(d)
		for i := 0; i < n; i++ {
			lba, err := blockForLogical(v, d, in, i)
			if err != nil {
				return false
			}
			if lba == 0 {
				continue // unallocated (hole) logical block of a sparse file
			}
			if lba < sb.isize || lba >= sb.fsize {
				return false
			}
		}
	}
	return true
}

// level4 performs a BFS from the root inode, checking `.`/`..` and
// building the inode-use map level 5 consumes.
func level4(v volume.Volume, d *dialect, sb *superblock, sink *log.Logger) (map[int]int, bool) {
	areaStart := inodeAreaStart(d, sb)
	uses := map[int]int{}
	type queued struct{ inum, parent int }
	queue := []queued{{d.rootInum, d.rootInum}}
	seen := map[int]bool{}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if seen[cur.inum] {
			uses[cur.inum]++
			continue
		}
		seen[cur.inum] = true
		uses[cur.inum]++
		in, err := parseInode(v, d, areaStart, cur.inum)
		if err != nil {
			return uses, false
		}
		t, ok := d.fileType(in.Flags)
		if !ok || t != "dir" {
			continue
		}
		entries, err := readDirEntries(v, d, in)
		if err != nil {
			return uses, false
		}
		hasDot, hasDotDot := false, false
		for _, e := range entries {
			switch e.Name {
			case ".":
				hasDot = e.Inum == cur.inum
			case "..":
				want := cur.parent
				if cur.inum == d.rootInum {
					want = d.rootInum
				}
				hasDotDot = e.Inum == want
			default:
				queue = append(queue, queued{e.Inum, cur.inum})
			}
		}
		if !hasDot {
			if sink != nil {
				sink.Printf("unix-%s: entry \".\" is missing", d.name)
			}
			return uses, false
		}
		if !hasDotDot {
			if sink != nil {
				sink.Printf("unix-%s: entry \"..\" is missing", d.name)
			}
			return uses, false
		}
	}
	return uses, true
}

// level5 asserts link_count == traversal_count for every allocated
// inode, and that no free-list inode is linked.
func level5(v volume.Volume, d *dialect, sb *superblock, uses map[int]int) bool {
	areaStart := inodeAreaStart(d, sb)
	maxInum := (sb.fsize - areaStart) * d.inodesPerBlock
	for inum := d.rootInum; inum <= maxInum; inum++ {
		in, err := parseInode(v, d, areaStart, inum)
		if err != nil {
			return false
		}
		_, allocated := d.fileType(in.Flags)
		count := uses[inum]
		if allocated {
			if int(in.Nlinks) != count {
				return false
			}
		} else if count > 0 {
			return false
		}
	}
	return true
}

// level6 builds a block-use map across every allocated inode's data
// blocks, detecting double allocation, then checks each free-chain
// block against that map, failing on overlap. Indirect blocks and the
// superblock are not entered in the map.
func level6(v volume.Volume, d *dialect, sb *superblock) bool {
	areaStart := inodeAreaStart(d, sb)
	used := make(map[int]bool, sb.fsize)
	maxInum := (sb.fsize - areaStart) * d.inodesPerBlock
	for inum := d.rootInum; inum <= maxInum; inum++ {
		in, err := parseInode(v, d, areaStart, inum)
		if err != nil {
			return false
		}
		if _, ok := d.fileType(in.Flags); !ok {
			continue
		}
		n := in.blockCount(d)
		for i := 0; i < n; i++ {
			lba, err := blockForLogical(v, d, in, i)
			if err != nil {
				return false
			}
			if lba == 0 {
				continue // unallocated (hole) logical block of a sparse file
			}
			if used[lba] {
				return false
			}
			used[lba] = true
		}
	}
	free, err := walkFreeList(v, d, sb)
	if err != nil {
		return false
	}
	for lba := range free {
		if used[lba] {
			return false
		}
	}
	return true
}

func testDialect(v volume.Volume, d *dialect, level int, sink *log.Logger) (bool, int64, string) {
	typeID := "unix-" + d.name
	if v.BlockSize() != d.blockSize {
		return false, -1, typeID
	}
	if level == 0 {
		return true, -1, typeID
	}
	if v.BlockCount() < 2 {
		return false, -1, typeID
	}
	if level == 1 {
		return true, -1, typeID
	}
	sb, err := readSuperblock(v, d)
	if err != nil {
		return false, -1, typeID
	}
	if level == 2 {
		ok := sb.isize > 0 && sb.fsize > sb.isize && sb.fsize <= v.BlockCount()
		return ok, -1, typeID
	}
	if sb.fsize <= sb.isize || sb.fsize > v.BlockCount() {
		return false, -1, typeID
	}
	if !level3(v, d, sb) {
		return false, -1, typeID
	}
	size := int64(sb.fsize)
	if level == 3 {
		return true, size, typeID
	}
	uses, ok := level4(v, d, sb, sink)
	if !ok {
		return false, size, typeID
	}
	if level == 4 {
		return true, size, typeID
	}
	if !level5(v, d, sb, uses) {
		return false, size, typeID
	}
	if level == 5 {
		return true, size, typeID
	}
	if !level6(v, d, sb) {
		return false, size, typeID
	}
	return true, size, typeID
}

// Test tries every dialect in a fixed order and reports the first one
// whose test matches at the requested level.
func Test(v volume.Volume, level int, sink *log.Logger) (bool, int64, string) {
	for _, name := range orderedDialectNames {
		d := dialects[name]
		if ok, size, typeID := testDialect(v, d, level, sink); ok {
			return true, size, typeID
		}
	}
	return false, -1, "unix"
}

// Open mounts the first dialect whose level-6 test passes.
func Open(v volume.Volume) (interface{}, error) {
	for _, name := range orderedDialectNames {
		d := dialects[name]
		if ok, _, _ := testDialect(v, d, fsprobe.MaxLevel, nil); ok {
			sb, err := readSuperblock(v, d)
			if err != nil {
				return nil, err
			}
			return &FileSystem{vol: v, d: d, sb: sb, cur: "/"}, nil
		}
	}
	return nil, vterr.ErrUnsupported
}

func init() {
	fsprobe.Register(fsprobe.Probe{Name: "unix", Test: Test, Open: Open})
}

// FileSystem is a mounted Unix-family volume.
type FileSystem struct {
	vol volume.Volume
	d   *dialect
	sb  *superblock
	cur string
}

func (f *FileSystem) Source() string          { return f.vol.Source() }
func (f *FileSystem) Type() string            { return "unix-" + f.d.name }
func (f *FileSystem) DefaultEncoding() string { return "ASCII" }
func (f *FileSystem) CurrentDir() string      { return f.cur }

func (f *FileSystem) Info() string {
	return fmt.Sprintf("Unix %s volume, isize=%d fsize=%d\n%s", f.d.name, f.sb.isize, f.sb.fsize, f.vol.Info())
}

func (f *FileSystem) ChangeDir(path string) error {
	if path != "/" && path != "" {
		return vterr.ErrNotFound
	}
	return nil
}

func (f *FileSystem) areaStart() int { return inodeAreaStart(f.d, f.sb) }

func (f *FileSystem) rootEntries() ([]DirEntry, error) {
	in, err := parseInode(f.vol, f.d, f.areaStart(), f.d.rootInum)
	if err != nil {
		return nil, err
	}
	return readDirEntries(f.vol, f.d, in)
}

func (f *FileSystem) ListDir(glob string, sink io.Writer) error {
	if glob == "" {
		glob = "*"
	}
	entries, err := f.rootEntries()
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.Name == "." || e.Name == ".." || !fsys.Match(glob, e.Name) {
			continue
		}
		in, err := parseInode(f.vol, f.d, f.areaStart(), e.Inum)
		if err != nil {
			continue
		}
		t, _ := f.d.fileType(in.Flags)
		if _, err := fmt.Fprintf(sink, "%-20s %-8s %8d\n", e.Name, t, in.Size); err != nil {
			return err
		}
	}
	return nil
}

func (f *FileSystem) DumpDir(glob string, sink io.Writer) error {
	in, err := parseInode(f.vol, f.d, f.areaStart(), f.d.rootInum)
	if err != nil {
		return err
	}
	data, err := readFile(f.vol, f.d, f.areaStart(), in)
	if err != nil {
		return err
	}
	return fsys.HexDump(data, sink)
}

func (f *FileSystem) findInode(path string) (*Inode, error) {
	name := strings.TrimPrefix(path, "/")
	entries, err := f.rootEntries()
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.Name == name {
			return parseInode(f.vol, f.d, f.areaStart(), e.Inum)
		}
	}
	return nil, vterr.ErrNotFound
}

func (f *FileSystem) ReadFile(path string) ([]byte, error) {
	in, err := f.findInode(path)
	if err != nil {
		return nil, err
	}
	return readFile(f.vol, f.d, f.areaStart(), in)
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
	if _, err := f.findInode(path); err != nil {
		return "", err
	}
	return "/" + strings.TrimPrefix(path, "/"), nil
}
