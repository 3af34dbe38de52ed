package block

import (
	"bytes"
	"testing"

	"vtfs/vterr"
)

func TestBlockReadWriteByte(t *testing.T) {
	b := New(8)
	if b.Size() != 8 {
		t.Fatalf("Size() = %d, want 8", b.Size())
	}
	if b.Dirty() {
		t.Fatalf("new block should not be dirty")
	}
	if err := b.WriteByte(3, 0x42); err != nil {
		t.Fatalf("WriteByte: %v", err)
	}
	if !b.Dirty() {
		t.Fatalf("block should be dirty after a changed byte")
	}
	v, err := b.ReadByte(3)
	if err != nil || v != 0x42 {
		t.Fatalf("ReadByte(3) = %v, %v; want 0x42, nil", v, err)
	}
	if _, err := b.ReadByte(8); err != vterr.ErrRange {
		t.Fatalf("ReadByte(8) = %v, want ErrRange", err)
	}
}

func TestBlockWriteByteSameValueNotDirty(t *testing.T) {
	b := FromBytes([]byte{1, 2, 3})
	if err := b.WriteByte(0, 1); err != nil {
		t.Fatal(err)
	}
	if b.Dirty() {
		t.Fatalf("writing the same value must not set dirty")
	}
}

func TestBlockUint16BEAndLE(t *testing.T) {
	b := FromBytes([]byte{0x01, 0x02})
	be, err := b.Uint16BE(0)
	if err != nil || be != 0x0102 {
		t.Fatalf("Uint16BE = %#x, %v; want 0x0102", be, err)
	}
	le, err := b.Uint16LE(0)
	if err != nil || le != 0x0201 {
		t.Fatalf("Uint16LE = %#x, %v; want 0x0201", le, err)
	}
}

func TestBlockUint32PDP(t *testing.T) {
	// PDP-endian: high word first, each word little-endian internally.
	// high word = 0x0001, low word = 0x0002 -> value 0x00010002.
	b := FromBytes([]byte{0x01, 0x00, 0x02, 0x00})
	v, err := b.Uint32PDP(0)
	if err != nil || v != 0x00010002 {
		t.Fatalf("Uint32PDP = %#x, %v; want 0x00010002", v, err)
	}
}

func TestBlockCString(t *testing.T) {
	b := FromBytes([]byte{'h', 'i', 0, 'X', 'X'})
	s, err := b.CString(0, 5)
	if err != nil || s != "hi" {
		t.Fatalf("CString = %q, %v; want %q", s, err, "hi")
	}
	s, err = b.CString(3, 2)
	if err != nil || s != "XX" {
		t.Fatalf("CString(no NUL within maxLen) = %q, %v; want %q", s, err, "XX")
	}
}

func TestTrackMinMaxAndByID(t *testing.T) {
	tr := &Track{Sectors: []*Sector{
		NewSector(5, []byte{1}),
		NewSector(1, []byte{2}),
		NewSector(3, []byte{3}),
	}}
	if tr.MinID() != 1 {
		t.Fatalf("MinID() = %d, want 1", tr.MinID())
	}
	if tr.MaxID() != 5 {
		t.Fatalf("MaxID() = %d, want 5", tr.MaxID())
	}
	s, err := tr.ByID(3)
	if err != nil || s.ID != 3 {
		t.Fatalf("ByID(3) = %v, %v", s, err)
	}
	if _, err := tr.ByID(99); err != vterr.ErrRange {
		t.Fatalf("ByID(99) = %v, want ErrRange", err)
	}
	pos, err := tr.At(1)
	if err != nil || pos.ID != 1 {
		t.Fatalf("At(1) = %v, %v; want sector ID 1", pos, err)
	}
}

func TestClusterStraddlesSubBlocks(t *testing.T) {
	c, err := NewCluster([]*Block{
		FromBytes([]byte{1, 2}),
		FromBytes([]byte{3, 4}),
	})
	if err != nil {
		t.Fatalf("NewCluster: %v", err)
	}
	if c.Size() != 4 {
		t.Fatalf("Size() = %d, want 4", c.Size())
	}
	got, err := c.ReadBytes(1, 2)
	if err != nil || !bytes.Equal(got, []byte{2, 3}) {
		t.Fatalf("ReadBytes(1,2) = %v, %v; want [2 3]", got, err)
	}
}

func TestClusterRejectsMismatchedSubBlockSizes(t *testing.T) {
	_, err := NewCluster([]*Block{FromBytes([]byte{1}), FromBytes([]byte{1, 2})})
	if err != vterr.ErrInvalid {
		t.Fatalf("NewCluster with mismatched sizes = %v, want ErrInvalid", err)
	}
}
