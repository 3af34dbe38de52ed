// Package unixfs reads the Unix inode-based filesystem family: V5, V6,
// V7, 2.8BSD and 2.11BSD (spec.md §4.8). Five variants share one
// generic walker parameterized by a small "dialect" struct rather than
// a class hierarchy, per spec.md §9's guidance — grounded on the
// teacher's amstrad/dsk/amsdos.go `DiscParameterBlock`, which embeds a
// shared cpm3 skeleton plus per-system fields the same way.
package unixfs

// addrFamily distinguishes the two address-resolution shapes spec.md
// §4.8 describes: the V5/V6 large-file-flag switch, and the fixed
// direct/indirect/double/triple slot layout used from V7 onward.
type addrFamily int

const (
	addrFamilyV5V6 addrFamily = iota
	addrFamilyFixed
)

// dialect captures everything that differs between the five variants.
type dialect struct {
	name           string
	blockSize      int
	rootInum       int
	inodeSize      int
	inodesPerBlock int
	maxFree        int // free-list array capacity
	dirEntrySize   int // 0 => 2.11BSD variable-length records

	family  addrFamily
	numAddr int
	addrBytes int // bytes per address slot

	// addrFamilyFixed layout: direct slots, then one single-indirect
	// slot, one double-indirect slot, and (if >0) one triple-indirect
	// slot.
	direct int
	hasTriple bool

	// addrFamilyV5V6 layout: large-file flag bit in the inode flags
	// word, and whether the last slot is double-indirect (V6) or every
	// slot is single-indirect (V5).
	largeFileBit  uint16
	lastSlotDouble bool

	dirTypes map[uint16]string // type nibble (masked 0xE000) -> name
}

const (
	flagAllocated = 0x8000
	dirTypeMask   = 0xE000
)

var (
	v5v6Dir = map[uint16]string{
		0x8000: "regular",
		0xC000: "dir",
		0xA000: "cdev",
		0xE000: "bdev",
	}
	v7PlusDir = map[uint16]string{
		0x8000: "regular",
		0x4000: "dir",
		0x2000: "cdev",
		0x6000: "bdev",
		0xA000: "symlink",
		0xC000: "socket",
	}
)

var dialects = map[string]*dialect{
	"v5": {
		name: "v5", blockSize: 512, rootInum: 1, inodeSize: 32, inodesPerBlock: 16,
		maxFree: 100, dirEntrySize: 16,
		family: addrFamilyV5V6, numAddr: 8, addrBytes: 2,
		largeFileBit: 0x1000, lastSlotDouble: false,
		dirTypes: v5v6Dir,
	},
	"v6": {
		name: "v6", blockSize: 512, rootInum: 1, inodeSize: 32, inodesPerBlock: 16,
		maxFree: 100, dirEntrySize: 16,
		family: addrFamilyV5V6, numAddr: 8, addrBytes: 2,
		largeFileBit: 0x1000, lastSlotDouble: true,
		dirTypes: v5v6Dir,
	},
	"v7": {
		name: "v7", blockSize: 512, rootInum: 2, inodeSize: 64, inodesPerBlock: 8,
		maxFree: 50, dirEntrySize: 16,
		family: addrFamilyFixed, numAddr: 13, addrBytes: 3,
		direct: 10, hasTriple: true,
		dirTypes: v7PlusDir,
	},
	"bsd28": {
		name: "bsd28", blockSize: 1024, rootInum: 2, inodeSize: 64, inodesPerBlock: 16,
		maxFree: 50, dirEntrySize: 16,
		family: addrFamilyFixed, numAddr: 13, addrBytes: 4,
		direct: 10, hasTriple: true,
		dirTypes: v7PlusDir,
	},
	"bsd211": {
		name: "bsd211", blockSize: 1024, rootInum: 2, inodeSize: 64, inodesPerBlock: 16,
		maxFree: 50, dirEntrySize: 0,
		family: addrFamilyFixed, numAddr: 7, addrBytes: 4,
		direct: 4, hasTriple: true,
		dirTypes: v7PlusDir,
	},
}

// orderedDialectNames fixes probe order so diagnostics are reproducible.
var orderedDialectNames = []string{"v7", "bsd211", "bsd28", "v6", "v5"}

func (d *dialect) fileType(flags uint16) (string, bool) {
	if d.family == addrFamilyV5V6 && flags&flagAllocated == 0 {
		return "", false
	}
	t, ok := d.dirTypes[flags&dirTypeMask]
	return t, ok
}
