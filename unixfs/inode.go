package unixfs

import (
	"vtfs/vterr"
	"vtfs/volume"
)

// Inode is the common record shape spec.md §9 describes: a fixed
// header plus a dialect-sized address array and whichever timestamps
// fit in the remaining inode bytes.
type Inode struct {
	Num    int
	Flags  uint16
	Nlinks byte
	Uid    byte
	Gid    byte
	Size   int
	Addr   []byte // raw, dialect.addrBytes per slot, dialect.numAddr slots
	Atime  uint32
	Mtime  uint32
	Ctime  uint32
}

func le16(b []byte) uint16 { return uint16(b[0]) | uint16(b[1])<<8 }

func pdp32(b []byte) uint32 {
	hi := le16(b[0:2])
	lo := le16(b[2:4])
	return uint32(hi)<<16 | uint32(lo)
}

// readAddr decodes one address slot: 2-byte slots are little-endian
// words; 3- and 4-byte slots follow the high-byte-first,
// little-endian-word-low convention spec.md §4.8 describes for V7's
// 24-bit pointers, generalized to 4 bytes for the BSD variants.
func readAddr(b []byte) int {
	switch len(b) {
	case 2:
		return int(le16(b))
	case 3:
		return int(b[0])<<16 | int(le16(b[1:3]))
	case 4:
		return int(b[0])<<24 | int(le16(b[1:3]))<<8 | int(b[3])
	default:
		return 0
	}
}

func inodeLBA(d *dialect, inodeAreaStart, inum int) (lba, offset int) {
	idx := inum - 1
	lba = inodeAreaStart + idx/d.inodesPerBlock
	offset = (idx % d.inodesPerBlock) * d.inodeSize
	return
}

func parseInode(v volume.Volume, d *dialect, inodeAreaStart, inum int) (*Inode, error) {
	lba, offset := inodeLBA(d, inodeAreaStart, inum)
	b, err := v.Block(lba)
	if err != nil {
		return nil, err
	}
	data, err := b.ReadBytes(offset, d.inodeSize)
	if err != nil {
		return nil, err
	}
	in := &Inode{
		Num:    inum,
		Flags:  le16(data[0:2]),
		Nlinks: data[2],
		Uid:    data[3],
		Gid:    data[4],
		Size:   int(data[5])<<16 | int(le16(data[6:8])),
	}
	addrOff := 8
	addrTotal := d.numAddr * d.addrBytes
	if addrOff+addrTotal > len(data) {
		return nil, vterr.ErrInvalid
	}
	in.Addr = data[addrOff : addrOff+addrTotal]
	timesOff := addrOff + addrTotal
	times := []*uint32{&in.Atime, &in.Mtime, &in.Ctime}
	for _, t := range times {
		if timesOff+4 > len(data) {
			break
		}
		*t = pdp32(data[timesOff : timesOff+4])
		timesOff += 4
	}
	return in, nil
}

func (in *Inode) addrSlot(d *dialect, i int) []byte {
	off := i * d.addrBytes
	return in.Addr[off : off+d.addrBytes]
}

// ptrsPerBlock returns how many block pointers one indirect block
// holds.
func ptrsPerBlock(d *dialect) int {
	return d.blockSize / d.addrBytes
}

func readIndirectSlot(v volume.Volume, d *dialect, lba, slot int) (int, error) {
	b, err := v.Block(lba)
	if err != nil {
		return 0, err
	}
	off := slot * d.addrBytes
	data, err := b.ReadBytes(off, d.addrBytes)
	if err != nil {
		return 0, err
	}
	return readAddr(data), nil
}

// blockForLogical resolves the physical LBA for logical block index n
// within an inode, walking as many indirection levels as needed.
// Resolved addresses are not range-checked here.
func blockForLogical(v volume.Volume, d *dialect, in *Inode, n int) (int, error) {
	if d.family == addrFamilyV5V6 {
		return blockForV5V6(v, d, in, n)
	}
	return blockForFixed(v, d, in, n)
}

func blockForV5V6(v volume.Volume, d *dialect, in *Inode, n int) (int, error) {
	large := in.Flags&d.largeFileBit != 0
	ppb := ptrsPerBlock(d)
	if !large {
		if n >= d.numAddr {
			return 0, vterr.ErrRange
		}
		return readAddr(in.addrSlot(d, n)), nil
	}
	if !d.lastSlotDouble {
		slot := n / ppb
		rem := n % ppb
		if slot >= d.numAddr {
			return 0, vterr.ErrRange
		}
		base := readAddr(in.addrSlot(d, slot))
		return readIndirectSlot(v, d, base, rem)
	}
	singleSlots := d.numAddr - 1
	singleCap := singleSlots * ppb
	if n < singleCap {
		slot := n / ppb
		rem := n % ppb
		base := readAddr(in.addrSlot(d, slot))
		return readIndirectSlot(v, d, base, rem)
	}
	n -= singleCap
	doubleCap := ppb * ppb
	if n >= doubleCap {
		return 0, vterr.ErrRange
	}
	dbl := readAddr(in.addrSlot(d, singleSlots))
	mid, err := readIndirectSlot(v, d, dbl, n/ppb)
	if err != nil {
		return 0, err
	}
	return readIndirectSlot(v, d, mid, n%ppb)
}

func blockForFixed(v volume.Volume, d *dialect, in *Inode, n int) (int, error) {
	ppb := ptrsPerBlock(d)
	if n < d.direct {
		return readAddr(in.addrSlot(d, n)), nil
	}
	n -= d.direct
	if n < ppb {
		base := readAddr(in.addrSlot(d, d.direct))
		return readIndirectSlot(v, d, base, n)
	}
	n -= ppb
	if n < ppb*ppb {
		dbl := readAddr(in.addrSlot(d, d.direct+1))
		mid, err := readIndirectSlot(v, d, dbl, n/ppb)
		if err != nil {
			return 0, err
		}
		return readIndirectSlot(v, d, mid, n%ppb)
	}
	if !d.hasTriple {
		return 0, vterr.ErrRange
	}
	n -= ppb * ppb
	if n >= ppb*ppb*ppb {
		return 0, vterr.ErrRange
	}
	tpl := readAddr(in.addrSlot(d, d.direct+2))
	mid2, err := readIndirectSlot(v, d, tpl, n/(ppb*ppb))
	if err != nil {
		return 0, err
	}
	n %= ppb * ppb
	mid, err := readIndirectSlot(v, d, mid2, n/ppb)
	if err != nil {
		return 0, err
	}
	return readIndirectSlot(v, d, mid, n%ppb)
}

// blockCount returns how many data blocks in holds, rounded up.
func (in *Inode) blockCount(d *dialect) int {
	return (in.Size + d.blockSize - 1) / d.blockSize
}
