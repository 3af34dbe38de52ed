package volume

import (
	"fmt"

	"vtfs/block"
	"vtfs/vterr"
)

// ClusteredVolume groups N consecutive base blocks, starting at
// startBlock, into single (N*base-block-size)-byte units — the RT-11
// directory-segment view of spec.md §4.6 is a clustered volume with
// N=2 over the image volume. requested caps the cluster count when
// non-negative (e.g. RT-11's 31-segment directory chain limit);
// passing a negative requested uses every complete cluster available.
type ClusteredVolume struct {
	base       Volume
	n          int
	startBlock int
	count      int
	cache      []*block.Block
	source     string
}

// NewClusteredVolume builds a clustered view of base.
func NewClusteredVolume(base Volume, n, startBlock, requested int) (*ClusteredVolume, error) {
	if n <= 0 || startBlock < 0 {
		return nil, vterr.ErrInvalid
	}
	avail := (base.BlockCount() - startBlock) / n
	if avail < 0 {
		avail = 0
	}
	count := avail
	if requested >= 0 && requested < count {
		count = requested
	}
	return &ClusteredVolume{
		base: base, n: n, startBlock: startBlock, count: count,
		cache:  make([]*block.Block, count),
		source: base.Source(),
	}, nil
}

func (v *ClusteredVolume) BlockSize() int  { return v.base.BlockSize() * v.n }
func (v *ClusteredVolume) BlockCount() int { return v.count }

func (v *ClusteredVolume) MinCylinder() int { return 0 }
func (v *ClusteredVolume) MaxCylinder() int { return 0 }
func (v *ClusteredVolume) MinHead() int     { return 0 }
func (v *ClusteredVolume) MaxHead() int     { return 0 }

func (v *ClusteredVolume) SectorRange(cyl, head int) (int, int, error) {
	if cyl != 0 || head != 0 {
		return 0, 0, vterr.ErrRange
	}
	return 1, v.count, nil
}

func (v *ClusteredVolume) Block(lba int) (*block.Block, error) {
	if lba < 0 || lba >= v.count {
		return nil, vterr.ErrRange
	}
	if v.cache[lba] == nil {
		parts := make([]*block.Block, v.n)
		for i := 0; i < v.n; i++ {
			b, err := v.base.Block(v.startBlock + lba*v.n + i)
			if err != nil {
				return nil, err
			}
			parts[i] = b
		}
		cl, err := block.NewCluster(parts)
		if err != nil {
			return nil, err
		}
		v.cache[lba] = cl.AsBlock()
	}
	return v.cache[lba], nil
}

func (v *ClusteredVolume) BlockCHS(cyl, head, sector int) (*block.Block, error) {
	if cyl != 0 || head != 0 || sector < 1 || sector > v.count {
		return nil, vterr.ErrRange
	}
	return v.Block(sector - 1)
}

func (v *ClusteredVolume) Base() Volume   { return v.base }
func (v *ClusteredVolume) Source() string { return v.source }
func (v *ClusteredVolume) Info() string {
	return fmt.Sprintf("cluster x%d from block %d (%d units) -> %s", v.n, v.startBlock, v.count, v.base.Info())
}
