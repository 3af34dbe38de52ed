package volume

import (
	"fmt"

	"vtfs/block"
	"vtfs/vterr"
)

// LbaVolume is a flat, linearly addressed volume: spec.md §3's base
// case, and the shape most disk-image containers (RT-11, ODS-1, tar,
// Unix) are presented in. Geometry is the (0,0,1..count) convention
// for non-CHS volumes.
type LbaVolume struct {
	blockSize int
	count     int
	blocks    []*block.Block
	source    string
}

// NewLbaVolumeFromBytes splits data into count = len(data)/blockSize
// blocks, eagerly wrapping each slice without copying.
func NewLbaVolumeFromBytes(data []byte, blockSize int, source string) (*LbaVolume, error) {
	if blockSize <= 0 || len(data)%blockSize != 0 {
		return nil, vterr.ErrInvalid
	}
	count := len(data) / blockSize
	blocks := make([]*block.Block, count)
	for i := 0; i < count; i++ {
		blocks[i] = block.FromBytes(data[i*blockSize : (i+1)*blockSize])
	}
	return &LbaVolume{blockSize: blockSize, count: count, blocks: blocks, source: source}, nil
}

// NewLbaVolume allocates a count-block volume whose blocks materialize
// as zero-filled on first touch, for synthetic volumes that have no
// backing image.
func NewLbaVolume(blockSize, count int, source string) *LbaVolume {
	return &LbaVolume{blockSize: blockSize, count: count, blocks: make([]*block.Block, count), source: source}
}

func (v *LbaVolume) BlockSize() int  { return v.blockSize }
func (v *LbaVolume) BlockCount() int { return v.count }

func (v *LbaVolume) MinCylinder() int { return 0 }
func (v *LbaVolume) MaxCylinder() int { return 0 }
func (v *LbaVolume) MinHead() int     { return 0 }
func (v *LbaVolume) MaxHead() int     { return 0 }

func (v *LbaVolume) SectorRange(cyl, head int) (int, int, error) {
	if cyl != 0 || head != 0 {
		return 0, 0, vterr.ErrRange
	}
	return 1, v.count, nil
}

func (v *LbaVolume) Block(lba int) (*block.Block, error) {
	if lba < 0 || lba >= v.count {
		return nil, vterr.ErrRange
	}
	if v.blocks[lba] == nil {
		v.blocks[lba] = block.New(v.blockSize)
	}
	return v.blocks[lba], nil
}

func (v *LbaVolume) BlockCHS(cyl, head, sector int) (*block.Block, error) {
	if cyl != 0 || head != 0 || sector < 1 || sector > v.count {
		return nil, vterr.ErrRange
	}
	return v.Block(sector - 1)
}

func (v *LbaVolume) Base() Volume   { return nil }
func (v *LbaVolume) Source() string { return v.source }
func (v *LbaVolume) Info() string {
	return fmt.Sprintf("lba volume: %d blocks of %d bytes (%s)", v.count, v.blockSize, v.source)
}
