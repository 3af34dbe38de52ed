package volume

import (
	"fmt"

	"vtfs/block"
	"vtfs/vterr"
)

// InterleavedVolume reorders a base volume's blocks by the classic
// sector-interleave formula (spec.md §4.4/§8): logical addresses below
// start pass through unchanged; addresses at or above start are
// permuted within their track by interleave factor, and across tracks
// by head and cylinder skew. Geometry is inherited from the base
// volume; only the physical block each logical LBA resolves to
// changes.
type InterleavedVolume struct {
	base                          Volume
	interleave, headSkew, cylSkew int
	start                         int
	spt, tpc                      int
	source                        string
}

// NewInterleavedVolume wraps base with the given interleave factor and
// cylinder/head skews, active from logical block start onward. spt and
// tpc (sectors-per-track, tracks-per-cylinder) are derived from base's
// first track and head range, per spec.md's assumption of a uniform
// track layout for interleaved media.
func NewInterleavedVolume(base Volume, interleave, headSkew, cylSkew, start int) (*InterleavedVolume, error) {
	if interleave <= 0 {
		return nil, vterr.ErrInvalid
	}
	min, max, err := base.SectorRange(base.MinCylinder(), base.MinHead())
	if err != nil {
		return nil, err
	}
	spt := max - min + 1
	tpc := base.MaxHead() - base.MinHead() + 1
	if spt <= 0 || tpc <= 0 {
		return nil, vterr.ErrInvalid
	}
	return &InterleavedVolume{
		base: base, interleave: interleave, headSkew: headSkew, cylSkew: cylSkew,
		start: start, spt: spt, tpc: tpc,
		source: base.Source(),
	}, nil
}

// physicalLBA applies the interleave permutation formula of spec.md §4.4.
func (v *InterleavedVolume) physicalLBA(n int) int {
	if n < v.start {
		return n
	}
	m := n - v.start
	t := m / v.spt
	s := m % v.spt
	c := t / v.tpc
	h := t % v.tpc
	spic := v.spt / gcd(v.spt, v.interleave)
	sPrime := (s*v.interleave + s/spic + h*v.headSkew + c*v.cylSkew) % v.spt
	return v.start + t*v.spt + sPrime
}

func (v *InterleavedVolume) BlockSize() int  { return v.base.BlockSize() }
func (v *InterleavedVolume) BlockCount() int { return v.base.BlockCount() }

func (v *InterleavedVolume) MinCylinder() int { return v.base.MinCylinder() }
func (v *InterleavedVolume) MaxCylinder() int { return v.base.MaxCylinder() }
func (v *InterleavedVolume) MinHead() int     { return v.base.MinHead() }
func (v *InterleavedVolume) MaxHead() int     { return v.base.MaxHead() }

func (v *InterleavedVolume) SectorRange(cyl, head int) (int, int, error) {
	return v.base.SectorRange(cyl, head)
}

func (v *InterleavedVolume) Block(lba int) (*block.Block, error) {
	if lba < 0 || lba >= v.BlockCount() {
		return nil, vterr.ErrRange
	}
	return v.base.Block(v.physicalLBA(lba))
}

func (v *InterleavedVolume) BlockCHS(cyl, head, sector int) (*block.Block, error) {
	lba, err := lbaForCHS(v, cyl, head, sector)
	if err != nil {
		return nil, err
	}
	return v.Block(lba)
}

func (v *InterleavedVolume) Base() Volume   { return v.base }
func (v *InterleavedVolume) Source() string { return v.source }
func (v *InterleavedVolume) Info() string {
	return fmt.Sprintf("interleave %d/skew h%d c%d from %d -> %s", v.interleave, v.headSkew, v.cylSkew, v.start, v.base.Info())
}
