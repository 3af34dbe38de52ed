package volume

import (
	"fmt"

	"vtfs/block"
	"vtfs/vterr"
)

// PaddedVolume extends or truncates a base volume by k blocks:
// positive k appends k zero-filled blocks (materialized lazily), and
// negative k drops |k| trailing blocks, per spec.md §4.4. Geometry
// follows the (0,0,1..count) non-CHS convention.
type PaddedVolume struct {
	base   Volume
	pad    int
	count  int
	extra  []*block.Block
	source string
}

// NewPaddedVolume builds a padded/truncated view of base.
func NewPaddedVolume(base Volume, k int) (*PaddedVolume, error) {
	count := base.BlockCount() + k
	if count < 0 {
		return nil, vterr.ErrRange
	}
	var extra []*block.Block
	if k > 0 {
		extra = make([]*block.Block, k)
	}
	return &PaddedVolume{base: base, pad: k, count: count, extra: extra, source: base.Source()}, nil
}

func (v *PaddedVolume) BlockSize() int  { return v.base.BlockSize() }
func (v *PaddedVolume) BlockCount() int { return v.count }

func (v *PaddedVolume) MinCylinder() int { return 0 }
func (v *PaddedVolume) MaxCylinder() int { return 0 }
func (v *PaddedVolume) MinHead() int     { return 0 }
func (v *PaddedVolume) MaxHead() int     { return 0 }

func (v *PaddedVolume) SectorRange(cyl, head int) (int, int, error) {
	if cyl != 0 || head != 0 {
		return 0, 0, vterr.ErrRange
	}
	return 1, v.count, nil
}

func (v *PaddedVolume) Block(lba int) (*block.Block, error) {
	if lba < 0 || lba >= v.count {
		return nil, vterr.ErrRange
	}
	if lba < v.base.BlockCount() {
		return v.base.Block(lba)
	}
	idx := lba - v.base.BlockCount()
	if v.extra[idx] == nil {
		v.extra[idx] = block.New(v.base.BlockSize())
	}
	return v.extra[idx], nil
}

func (v *PaddedVolume) BlockCHS(cyl, head, sector int) (*block.Block, error) {
	if cyl != 0 || head != 0 || sector < 1 || sector > v.count {
		return nil, vterr.ErrRange
	}
	return v.Block(sector - 1)
}

func (v *PaddedVolume) Base() Volume   { return v.base }
func (v *PaddedVolume) Source() string { return v.source }
func (v *PaddedVolume) Info() string {
	if v.pad >= 0 {
		return fmt.Sprintf("pad +%d -> %s", v.pad, v.base.Info())
	}
	return fmt.Sprintf("pad %d -> %s", v.pad, v.base.Info())
}
