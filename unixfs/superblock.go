package unixfs

import (
	"vtfs/vterr"
	"vtfs/volume"
)

const superblockLBA = 1

// superblock holds the fields spec.md §4.8 names explicitly: isize
// (inode-area size in blocks), fsize (total blocks), and the free-block
// list's first array.
type superblock struct {
	isize int
	fsize int
	free  []int // this array's own entries, slot 0 is the next list block
}

func readSuperblock(v volume.Volume, d *dialect) (*superblock, error) {
	b, err := v.Block(superblockLBA)
	if err != nil {
		return nil, err
	}
	isize, err := b.Uint16LE(0)
	if err != nil {
		return nil, err
	}
	fsize, err := b.Uint32PDP(2)
	if err != nil {
		return nil, err
	}
	nfree, err := b.Uint16LE(6)
	if err != nil {
		return nil, err
	}
	n := int(nfree)
	if n > d.maxFree {
		n = d.maxFree
	}
	free := make([]int, n)
	off := 8
	for i := 0; i < n; i++ {
		w, err := b.Uint32PDP(off)
		if err != nil {
			return nil, err
		}
		free[i] = int(w)
		off += 4
	}
	return &superblock{isize: int(isize), fsize: int(fsize), free: free}, nil
}

func readFreeListBlock(v volume.Volume, d *dialect, lba int) ([]int, error) {
	b, err := v.Block(lba)
	if err != nil {
		return nil, err
	}
	nfree, err := b.Uint16LE(0)
	if err != nil {
		return nil, err
	}
	n := int(nfree)
	if n > d.maxFree {
		n = d.maxFree
	}
	free := make([]int, n)
	off := 2
	for i := 0; i < n; i++ {
		w, err := b.Uint32PDP(off)
		if err != nil {
			return nil, err
		}
		free[i] = int(w)
		off += 4
	}
	return free, nil
}

// walkFreeList follows the recursive free-block chain (spec.md §4.8:
// "its slot 0 points to the next list block, recursively") until the
// next pointer is zero, per the Open Question in spec.md §9 that
// warns against stopping after one hop.
func walkFreeList(v volume.Volume, d *dialect, sb *superblock) (map[int]bool, error) {
	seen := map[int]bool{}
	visitedListBlocks := map[int]bool{}
	cur := sb.free
	for {
		for i, blk := range cur {
			if i == 0 {
				continue
			}
			seen[blk] = true
		}
		if len(cur) == 0 || cur[0] == 0 {
			return seen, nil
		}
		next := cur[0]
		if next < 0 || next >= sb.fsize || visitedListBlocks[next] {
			return seen, vterr.ErrInvalid
		}
		visitedListBlocks[next] = true
		nb, err := readFreeListBlock(v, d, next)
		if err != nil {
			return seen, err
		}
		seen[next] = true
		cur = nb
	}
}
