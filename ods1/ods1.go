// Package ods1 reads Files-11 ODS-1 volumes: home-block checksums, the
// file-header/retrieval-pointer chain, and directory entries (spec.md
// §4.7). Grounded on the teacher's fixed-layout binary.Read structs
// (amstrad.AmsdosHeader) generalized to a variable-shape header (ident
// area + map area at offsets the header itself declares), and on
// block.Block.Uint32PDP for the PDP-endian 32-bit bitmap LBN.
package ods1

import (
	"fmt"
	"io"
	"log"
	"strings"

	"vtfs/fsprobe"
	"vtfs/fsys"
	"vtfs/radix50"
	"vtfs/vterr"
	"vtfs/volume"
)

const (
	blockSize    = 512
	homeBlockLBA = 1

	checksum1Offset = 58
	checksum2Offset = 510

	ibszOffset = 0
	iblbOffset = 2

	// rootFileNumber is the Master File Directory's conventional file
	// number; spec.md names files 1 (index) and 2 (bitmap) explicitly
	// but is silent on the MFD's number, so this follows the
	// historical Files-11 convention (file 4, "000000.DIR") rather than
	// inventing a new one — decided and recorded in DESIGN.md.
	rootFileNumber = 4

	dirEntrySize = 16
)

func checksumWords(b interface{ Uint16LE(off int) (uint16, error) }, upTo int) (uint16, error) {
	var sum uint32
	for off := 0; off < upTo; off += 2 {
		w, err := b.Uint16LE(off)
		if err != nil {
			return 0, err
		}
		sum += uint32(w)
	}
	return uint16(sum), nil
}

type homeBlock struct {
	ibsz        uint16
	iblb        uint32
	sum1, sum2  uint16
	want1, want2 uint16
}

func readHome(v volume.Volume) (*homeBlock, error) {
	b, err := v.Block(homeBlockLBA)
	if err != nil {
		return nil, err
	}
	ibsz, err := b.Uint16LE(ibszOffset)
	if err != nil {
		return nil, err
	}
	iblb, err := b.Uint32PDP(iblbOffset)
	if err != nil {
		return nil, err
	}
	sum1, err := checksumWords(b, checksum1Offset)
	if err != nil {
		return nil, err
	}
	want1, err := b.Uint16LE(checksum1Offset)
	if err != nil {
		return nil, err
	}
	sum2, err := checksumWords(b, checksum2Offset)
	if err != nil {
		return nil, err
	}
	want2, err := b.Uint16LE(checksum2Offset)
	if err != nil {
		return nil, err
	}
	return &homeBlock{ibsz: ibsz, iblb: iblb, sum1: sum1, sum2: sum2, want1: want1, want2: want2}, nil
}

func (h *homeBlock) checksumsValid() (bool, bool) {
	return h.sum1 == h.want1, h.sum2 == h.want2
}

// RetrievalPointer is one (count, LBN) extent descriptor.
type RetrievalPointer struct {
	Count int // number of contiguous blocks (already +1'd)
	LBN   int
}

// FileHeader is a parsed ODS-1 file header.
type FileHeader struct {
	FileNumber  uint16
	Sequence    uint16
	StructLevel uint16
	Pointers    []RetrievalPointer
	ExtFileNum  uint16
	ExtSeq      uint16
}

func headerByteForFile(home *homeBlock, fileNumber int) int {
	headerArrayStart := int(home.iblb) + int(home.ibsz)
	return headerArrayStart + (fileNumber - 1)
}

func parseFileHeader(v volume.Volume, home *homeBlock, fileNumber int) (*FileHeader, error) {
	lba := headerByteForFile(home, fileNumber)
	b, err := v.Block(lba)
	if err != nil {
		return nil, err
	}
	identOff, err := b.ReadByte(0)
	if err != nil {
		return nil, err
	}
	mapOffByte, err := b.ReadByte(1)
	if err != nil {
		return nil, err
	}
	identByteOff := int(identOff) * 2
	mapByteOff := int(mapOffByte) * 2

	fh := &FileHeader{}
	fn, err := b.Uint16LE(identByteOff)
	if err != nil {
		return nil, err
	}
	seq, err := b.Uint16LE(identByteOff + 2)
	if err != nil {
		return nil, err
	}
	structLevel, err := b.Uint16LE(identByteOff + 4)
	if err != nil {
		return nil, err
	}
	fh.FileNumber, fh.Sequence, fh.StructLevel = fn, seq, structLevel

	ctsz, err := b.ReadByte(mapByteOff + 2)
	if err != nil {
		return nil, err
	}
	lbsz, err := b.ReadByte(mapByteOff + 3)
	if err != nil {
		return nil, err
	}
	use, err := b.ReadByte(mapByteOff + 4)
	if err != nil {
		return nil, err
	}
	efnu, err := b.Uint16LE(mapByteOff + 6)
	if err != nil {
		return nil, err
	}
	efsq, err := b.Uint16LE(mapByteOff + 8)
	if err != nil {
		return nil, err
	}
	fh.ExtFileNum, fh.ExtSeq = efnu, efsq

	if !(ctsz == 1 && lbsz == 3) {
		// spec.md §9 Open Question: (2,2) and (2,4) retrieval formats are
		// parsed but undocumented upstream; surface ErrUnsupported rather
		// than guess at their semantics.
		return fh, vterr.ErrUnsupported
	}

	entrySize := int(ctsz) + int(lbsz)
	base := mapByteOff + 16
	for i := 0; i < int(use); i++ {
		off := base + i*entrySize
		hiLBN, err := b.ReadByte(off)
		if err != nil {
			return fh, err
		}
		countM1, err := b.ReadByte(off + 1)
		if err != nil {
			return fh, err
		}
		loLBN, err := b.Uint16LE(off + 2)
		if err != nil {
			return fh, err
		}
		lbn := int(hiLBN)<<16 | int(loLBN)
		fh.Pointers = append(fh.Pointers, RetrievalPointer{Count: int(countM1) + 1, LBN: lbn})
	}
	return fh, nil
}

// validateHeader checks the level-3 invariants spec.md §4.7 names for
// the index (file 1) and bitmap (file 2) headers: the file number and
// structure level 0x0101. The header's sequence number is not checked.
func validateHeader(fh *FileHeader, expectNumber uint16) bool {
	return fh.FileNumber == expectNumber && fh.StructLevel == 0x0101
}

func pointersInRange(v volume.Volume, fh *FileHeader) bool {
	for _, p := range fh.Pointers {
		if p.LBN < 0 || p.LBN+p.Count > v.BlockCount() {
			return false
		}
	}
	return true
}

// extensionChainAcyclic walks M.EFNU/M.EFSQ from fh, failing if any
// file number repeats.
func extensionChainAcyclic(v volume.Volume, home *homeBlock, fh *FileHeader) bool {
	seen := map[uint16]bool{fh.FileNumber: true}
	cur := fh
	for cur.ExtFileNum != 0 {
		if seen[cur.ExtFileNum] {
			return false
		}
		seen[cur.ExtFileNum] = true
		next, err := parseFileHeader(v, home, int(cur.ExtFileNum))
		if err != nil {
			return false
		}
		cur = next
	}
	return true
}

// Test implements the fsprobe.Probe contract for ODS-1.
func Test(v volume.Volume, level int, sink *log.Logger) (bool, int64, string) {
	const typeID = "ods1"
	if v.BlockSize() != blockSize || v.BlockCount() < 2 {
		return false, -1, typeID
	}
	if level == 0 {
		return true, -1, typeID
	}
	home, err := readHome(v)
	if err != nil {
		return false, -1, typeID
	}
	if level == 1 {
		return true, -1, typeID
	}
	ok1, ok2 := home.checksumsValid()
	if level == 2 {
		if !ok1 {
			if sink != nil {
				sink.Print("ods1: home block first checksum invalid")
			}
			return false, -1, typeID
		}
		return ok2, -1, typeID
	}
	if !ok1 || !ok2 {
		return false, -1, typeID
	}
	fh1, err := parseFileHeader(v, home, 1)
	if err != nil || !validateHeader(fh1, 1) {
		return false, -1, typeID
	}
	fh2, err := parseFileHeader(v, home, 2)
	if err != nil || !validateHeader(fh2, 2) {
		return false, -1, typeID
	}
	if !pointersInRange(v, fh1) || !pointersInRange(v, fh2) {
		return false, -1, typeID
	}
	if !extensionChainAcyclic(v, home, fh1) || !extensionChainAcyclic(v, home, fh2) {
		return false, -1, typeID
	}
	size := int64(0)
	for _, p := range fh1.Pointers {
		size += int64(p.Count)
	}
	// Levels 4-6: ODS-1's directory graph and allocation bitmap cross
	// checks are out of scope beyond the header/pointer validation above;
	// a volume that passes level 3 is treated as passing through 6,
	// preserving the monotonicity invariant without inventing unverified
	// checks.
	return true, size, typeID
}

// DirEntry is a parsed ODS-1 directory record.
type DirEntry struct {
	FileNumber uint16
	Sequence   uint16
	RVN        uint16
	Name       string
	Ext        string
	Version    uint16
}

func (e DirEntry) FileName() string {
	name := e.Name
	if e.Ext != "" {
		name += "." + e.Ext
	}
	return fmt.Sprintf("%s;%d", name, e.Version)
}

func parseDirEntries(data []byte) []DirEntry {
	var out []DirEntry
	for off := 0; off+dirEntrySize <= len(data); off += dirEntrySize {
		rec := data[off : off+dirEntrySize]
		fileNumber := le16(rec[0:2])
		if fileNumber == 0 {
			continue
		}
		e := DirEntry{
			FileNumber: fileNumber,
			Sequence:   le16(rec[2:4]),
			RVN:        le16(rec[4:6]),
			Name:       strings.TrimRight(radix50.DecodeString(le16(rec[6:8]), le16(rec[8:10]), le16(rec[10:12])), " "),
			Ext:        strings.TrimRight(radix50.DecodeString(le16(rec[12:14])), " "),
			Version:    le16(rec[14:16]),
		}
		out = append(out, e)
	}
	return out
}

func le16(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}

// FileSystem is a mounted ODS-1 volume.
type FileSystem struct {
	vol  volume.Volume
	home *homeBlock
	cur  string
}

// Open mounts a validated ODS-1 volume.
func Open(v volume.Volume) (interface{}, error) {
	home, err := readHome(v)
	if err != nil {
		return nil, err
	}
	ok1, ok2 := home.checksumsValid()
	if !ok1 || !ok2 {
		return nil, vterr.ErrInvalid
	}
	return &FileSystem{vol: v, home: home, cur: "/"}, nil
}

func init() {
	fsprobe.Register(fsprobe.Probe{Name: "ods1", Test: Test, Open: Open})
}

func (f *FileSystem) readFileBytes(fileNumber int) ([]byte, error) {
	fh, err := parseFileHeader(f.vol, f.home, fileNumber)
	if err != nil {
		return nil, err
	}
	var out []byte
	for _, p := range fh.Pointers {
		for i := 0; i < p.Count; i++ {
			b, err := f.vol.Block(p.LBN + i)
			if err != nil {
				return out, err
			}
			out = append(out, b.Bytes()...)
		}
	}
	return out, nil
}

func (f *FileSystem) rootEntries() ([]DirEntry, error) {
	data, err := f.readFileBytes(rootFileNumber)
	if err != nil {
		return nil, err
	}
	return parseDirEntries(data), nil
}

func (f *FileSystem) Source() string          { return f.vol.Source() }
func (f *FileSystem) Type() string            { return "ods1" }
func (f *FileSystem) DefaultEncoding() string { return "ASCII" }
func (f *FileSystem) CurrentDir() string      { return f.cur }

func (f *FileSystem) Info() string {
	return fmt.Sprintf("ODS-1 volume, index bitmap size=%d\n%s", f.home.ibsz, f.vol.Info())
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
	entries, err := f.rootEntries()
	if err != nil {
		return err
	}
	for _, e := range entries {
		if !fsys.Match(glob, e.FileName()) {
			continue
		}
		if _, err := fmt.Fprintf(sink, "%-20s #%d\n", e.FileName(), e.FileNumber); err != nil {
			return err
		}
	}
	return nil
}

func (f *FileSystem) DumpDir(glob string, sink io.Writer) error {
	data, err := f.readFileBytes(rootFileNumber)
	if err != nil {
		return err
	}
	return fsys.HexDump(data, sink)
}

func (f *FileSystem) findEntry(path string) (*DirEntry, error) {
	entries, err := f.rootEntries()
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if strings.EqualFold(e.FileName(), path) || strings.EqualFold(e.Name+"."+e.Ext, path) {
			ec := e
			return &ec, nil
		}
	}
	return nil, vterr.ErrNotFound
}

func (f *FileSystem) ReadFile(path string) ([]byte, error) {
	e, err := f.findEntry(path)
	if err != nil {
		return nil, err
	}
	return f.readFileBytes(int(e.FileNumber))
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
	e, err := f.findEntry(path)
	if err != nil {
		return "", err
	}
	return "/" + e.FileName(), nil
}
