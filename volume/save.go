package volume

import (
	"os"

	"vtfs/vterr"
)

// rx01Blocks/rx02Blocks are the exact logical block counts spec.md
// §6 names for the two physical reconstruction formats.
const (
	rx01Blocks = 494
	rx02Blocks = 988

	rxTracks        = 77 // track 0 is left empty; 1..76 carry data
	rxSectorsPerTrk = 26
	rxInterleave    = 2
	rxTrackSkew     = 6
)

// SaveImage re-emits v to filename. For most formats this is a
// byte-identical concatenation of every block (spec.md §6); for
// "rx01"/"rx02" it reconstructs the physical single-density/double-
// density 8-inch floppy sector layout (128/256-byte sectors, 2:1
// interleave, 6-sector track-to-track skew, empty track 0) instead of
// the logical 512-byte block stream.
func SaveImage(v Volume, filename string, format string) error {
	switch format {
	case "rx01":
		return saveRX(v, filename, 128, rx01Blocks)
	case "rx02":
		return saveRX(v, filename, 256, rx02Blocks)
	default:
		return saveFlat(v, filename)
	}
}

func saveFlat(v Volume, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	for i := 0; i < v.BlockCount(); i++ {
		b, err := v.Block(i)
		if err != nil {
			return err
		}
		if _, err := f.Write(b.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

// saveRX rearranges v's flat block stream into an RX01/RX02 physical
// image: track 0 is entirely zero, and each of the following 76 tracks
// holds rxSectorsPerTrk sectors of sectorSize bytes, placed at a
// position computed from a 2:1 interleave (with the same +1 step after
// each pass over the track that InterleavedVolume.physicalLBA applies)
// plus a cumulative 6-sector skew per track (spec.md §6).
func saveRX(v Volume, filename string, sectorSize, expectBlocks int) error {
	if v.BlockCount() != expectBlocks {
		return vterr.ErrInvalid
	}
	var flat []byte
	for i := 0; i < v.BlockCount(); i++ {
		b, err := v.Block(i)
		if err != nil {
			return err
		}
		flat = append(flat, b.Bytes()...)
	}
	dataTracks := rxTracks - 1
	totalSectors := dataTracks * rxSectorsPerTrk
	if len(flat) != totalSectors*sectorSize {
		return vterr.ErrInvalid
	}

	image := make([]byte, rxTracks*rxSectorsPerTrk*sectorSize)
	for t := 0; t < dataTracks; t++ {
		for ls := 0; ls < rxSectorsPerTrk; ls++ {
			physPos := (ls*rxInterleave + ls/(rxSectorsPerTrk/gcd(rxSectorsPerTrk, rxInterleave)) + t*rxTrackSkew) % rxSectorsPerTrk
			srcOff := (t*rxSectorsPerTrk + ls) * sectorSize
			dstTrack := t + 1 // track 0 stays empty
			dstOff := (dstTrack*rxSectorsPerTrk + physPos) * sectorSize
			copy(image[dstOff:dstOff+sectorSize], flat[srcOff:srcOff+sectorSize])
		}
	}

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(image)
	return err
}
