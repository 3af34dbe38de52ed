package rt11

import (
	"bytes"
	"strings"
	"testing"

	"vtfs/volume"
)

// radix50Alphabet mirrors radix50.Decode's table so tests can encode
// names without exporting an encoder the production code doesn't need.
const radix50Alphabet = " ABCDEFGHIJKLMNOPQRSTUVWXYZ$.%0123456789"

func encodeR50(s string) uint16 {
	for len(s) < 3 {
		s += " "
	}
	v := 0
	for i := 0; i < 3; i++ {
		v = v*40 + strings.IndexByte(radix50Alphabet, s[i])
	}
	return uint16(v)
}

func writeLE16(b interface {
	WriteByte(off int, v byte) error
}, off int, v uint16) {
	b.WriteByte(off, byte(v))
	b.WriteByte(off+1, byte(v>>8))
}

func newTestVolume(t *testing.T, blocks int) volume.Volume {
	t.Helper()
	return volume.NewLbaVolume(blockSize, blocks, "test.rx01")
}

// spec.md §8 item 3, first half: an invalid home-block checksum falls
// back to the default directory-start value of 6.
func TestDirStartDefaultsOnBadChecksum(t *testing.T) {
	v := newTestVolume(t, 20)
	home, err := v.Block(homeBlockLBA)
	if err != nil {
		t.Fatal(err)
	}
	// corrupt the stored checksum so it no longer matches the (zero) sum.
	if err := home.WriteByte(checksumOffset, 0xFF); err != nil {
		t.Fatal(err)
	}
	if ds := dirStart(v); ds != defaultDirStart {
		t.Fatalf("dirStart() = %d, want default %d", ds, defaultDirStart)
	}
}

// spec.md §8 item 3, second half: a valid checksum with dir-start word
// 10 is honored.
func TestDirStartHonorsValidHomeBlock(t *testing.T) {
	v := newTestVolume(t, 20)
	home, err := v.Block(homeBlockLBA)
	if err != nil {
		t.Fatal(err)
	}
	writeLE16(home, dirStartOffset, 10)
	var sum uint32
	for off := 0; off < checksumOffset; off += 2 {
		w, err := home.Uint16LE(off)
		if err != nil {
			t.Fatal(err)
		}
		sum += uint32(w)
	}
	writeLE16(home, checksumOffset, uint16(sum))

	if ds := dirStart(v); ds != 10 {
		t.Fatalf("dirStart() = %d, want 10", ds)
	}
}

// buildOneSegmentVolume lays out a single directory segment at
// dirStart=6 (cluster base 4, two 512-byte blocks) holding one
// permanent file entry followed by an EOS terminator, per spec.md §4.6.
func buildOneSegmentVolume(t *testing.T) (volume.Volume, int) {
	t.Helper()
	const ds = 6
	v := volume.NewLbaVolume(blockSize, 20, "test.rx01")

	home, err := v.Block(homeBlockLBA)
	if err != nil {
		t.Fatal(err)
	}
	writeLE16(home, dirStartOffset, ds)
	var sum uint32
	for off := 0; off < checksumOffset; off += 2 {
		w, err := home.Uint16LE(off)
		if err != nil {
			t.Fatal(err)
		}
		sum += uint32(w)
	}
	writeLE16(home, checksumOffset, uint16(sum))

	// segment 1's first 512 bytes live directly on base LBA ds (the
	// clustered view starts at ds-2, so cluster index 1 covers blocks
	// ds and ds+1); all fields used below fit within that one block, so
	// writing straight to the base volume (rather than through the
	// read-only clustered view) is sufficient and avoids writing into a
	// detached copy.
	seg, err := v.Block(ds)
	if err != nil {
		t.Fatal(err)
	}
	startData := ds + 2*1
	writeLE16(seg, 0, 1)         // total_segments
	writeLE16(seg, 2, 0)         // next_segment
	writeLE16(seg, 4, 1)         // highest_segment_used
	writeLE16(seg, 6, 0)         // extra_bytes_per_entry
	writeLE16(seg, 8, uint16(startData))

	entryOff := 10
	writeLE16(seg, entryOff, StatusPerm)
	writeLE16(seg, entryOff+2, encodeR50("TES"))
	writeLE16(seg, entryOff+4, encodeR50("T  "))
	writeLE16(seg, entryOff+6, encodeR50("TXT"))
	writeLE16(seg, entryOff+8, 1) // length in blocks

	eosOff := entryOff + segmentEntryBase
	writeLE16(seg, eosOff, StatusEOS)

	data, err := v.Block(startData)
	if err != nil {
		t.Fatal(err)
	}
	copy(data.Bytes(), []byte("HELLO RT-11"))

	return v, startData
}

func TestLoadSegmentsAndListDir(t *testing.T) {
	v, _ := buildOneSegmentVolume(t)
	segs, err := loadSegments(v, 6)
	if err != nil {
		t.Fatalf("loadSegments: %v", err)
	}
	if len(segs) != 1 {
		t.Fatalf("len(segs) = %d, want 1", len(segs))
	}
	if len(segs[0].Entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(segs[0].Entries))
	}
	e := segs[0].Entries[0]
	if e.FileName() != "TEST.TXT" {
		t.Fatalf("FileName() = %q, want %q", e.FileName(), "TEST.TXT")
	}
}

func TestOpenAndReadFile(t *testing.T) {
	v, _ := buildOneSegmentVolume(t)
	fsIface, err := Open(v)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	fs := fsIface.(*FileSystem)

	var buf bytes.Buffer
	if err := fs.ListDir("*", &buf); err != nil {
		t.Fatalf("ListDir: %v", err)
	}
	if !strings.Contains(buf.String(), "TEST.TXT") {
		t.Fatalf("ListDir output = %q, missing TEST.TXT", buf.String())
	}

	data, err := fs.ReadFile("TEST.TXT")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("HELLO RT-11")) {
		t.Fatalf("ReadFile = %q, want prefix %q", data, "HELLO RT-11")
	}
}

func TestTestLevelsMonotonic(t *testing.T) {
	v, _ := buildOneSegmentVolume(t)
	var lastOK = true
	for level := 0; level <= 6; level++ {
		ok, _, typeID := Test(v, level, nil)
		if typeID != "rt11" {
			t.Fatalf("Test(%d) type = %q, want rt11", level, typeID)
		}
		if ok && !lastOK {
			t.Fatalf("Test(%d) succeeded after a lower level failed", level)
		}
		lastOK = ok
	}
	if !lastOK {
		t.Fatalf("well-formed volume should pass all levels")
	}
}
