package volume

import (
	"fmt"

	"vtfs/block"
	"vtfs/vterr"
)

// ChsVolume is a cylinder/head/sector volume whose tracks may vary in
// sector count across the disk — the CBM DOS zoned-track case spec.md
// §4.10 describes, where outer tracks carry more sectors than inner
// ones. LBA addresses resolve by traversing (cylinder, head) in
// row-major order (cylinder outer, head inner) and summing track
// lengths, per spec.md §4.4.
type ChsVolume struct {
	blockSize        int
	minCyl, maxCyl   int
	minHead, maxHead int
	// tracks[c-minCyl][h-minHead] is the track at cylinder c, head h.
	tracks [][]*block.Track
	source string
}

// NewChsVolume builds a CHS volume from an explicit per-(cylinder,head)
// track table. tracks must be indexed [cyl-minCyl][head-minHead].
func NewChsVolume(blockSize, minCyl, maxCyl, minHead, maxHead int, tracks [][]*block.Track, source string) (*ChsVolume, error) {
	if blockSize <= 0 || minCyl > maxCyl || minHead > maxHead {
		return nil, vterr.ErrInvalid
	}
	if len(tracks) != maxCyl-minCyl+1 {
		return nil, vterr.ErrInvalid
	}
	for _, row := range tracks {
		if len(row) != maxHead-minHead+1 {
			return nil, vterr.ErrInvalid
		}
	}
	return &ChsVolume{
		blockSize: blockSize,
		minCyl:    minCyl, maxCyl: maxCyl,
		minHead: minHead, maxHead: maxHead,
		tracks: tracks,
		source: source,
	}, nil
}

func (v *ChsVolume) BlockSize() int { return v.blockSize }

func (v *ChsVolume) BlockCount() int {
	total := 0
	for _, row := range v.tracks {
		for _, t := range row {
			total += len(t.Sectors)
		}
	}
	return total
}

func (v *ChsVolume) MinCylinder() int { return v.minCyl }
func (v *ChsVolume) MaxCylinder() int { return v.maxCyl }
func (v *ChsVolume) MinHead() int     { return v.minHead }
func (v *ChsVolume) MaxHead() int     { return v.maxHead }

func (v *ChsVolume) track(cyl, head int) (*block.Track, error) {
	if cyl < v.minCyl || cyl > v.maxCyl || head < v.minHead || head > v.maxHead {
		return nil, vterr.ErrRange
	}
	return v.tracks[cyl-v.minCyl][head-v.minHead], nil
}

func (v *ChsVolume) SectorRange(cyl, head int) (int, int, error) {
	t, err := v.track(cyl, head)
	if err != nil {
		return 0, 0, err
	}
	return t.MinID(), t.MaxID(), nil
}

func (v *ChsVolume) Block(lba int) (*block.Block, error) {
	if lba < 0 {
		return nil, vterr.ErrRange
	}
	remaining := lba
	for c := v.minCyl; c <= v.maxCyl; c++ {
		for h := v.minHead; h <= v.maxHead; h++ {
			t, _ := v.track(c, h)
			n := len(t.Sectors)
			if remaining < n {
				s, err := t.At(remaining)
				if err != nil {
					return nil, err
				}
				return s.Block, nil
			}
			remaining -= n
		}
	}
	return nil, vterr.ErrRange
}

func (v *ChsVolume) BlockCHS(cyl, head, sector int) (*block.Block, error) {
	t, err := v.track(cyl, head)
	if err != nil {
		return nil, err
	}
	s, err := t.ByID(sector)
	if err != nil {
		return nil, err
	}
	return s.Block, nil
}

func (v *ChsVolume) Base() Volume   { return nil }
func (v *ChsVolume) Source() string { return v.source }
func (v *ChsVolume) Info() string {
	return fmt.Sprintf("chs volume: cyl %d-%d, head %d-%d, %d bytes/sector (%s)",
		v.minCyl, v.maxCyl, v.minHead, v.maxHead, v.blockSize, v.source)
}
