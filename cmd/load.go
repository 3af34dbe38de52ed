package cmd

import (
	"os"
	"strings"

	"github.com/pkg/errors"

	"vtfs/cbmdos"
	"vtfs/compress/lzhuf"
	"vtfs/compress/lzwz"
	"vtfs/fsprobe"
	"vtfs/fsys"
	"vtfs/mount"
	"vtfs/rawfs"
	"vtfs/volume"
	"vtfs/vterr"
)

// lzwMagic is the 2-byte header every `compress` .Z stream starts with
// (spec.md §4.2); it's the only decompressor in scope with a real magic.
var lzwMagic = []byte{0x1F, 0x9D}

// decompress unwraps path's raw bytes before buildVolume sees them, per
// the raw-bytes -> optional decompressor -> container-loader pipeline.
// LZW streams announce themselves with lzwMagic; LZSS+Huffman streams
// carry no magic of their own (spec.md §4.3), so the .lzh extension is
// used as the on-disk convention instead, the same way cbmdos images
// are told apart by length rather than content. An LZW stream that ends
// part-way through a code (including the pad bits after its last code)
// yields the bytes decoded up to that point.
func decompress(path string, data []byte) ([]byte, error) {
	switch {
	case len(data) >= 2 && data[0] == lzwMagic[0] && data[1] == lzwMagic[1]:
		out, err := lzwz.Decompress(data)
		if err != nil && err != vterr.ErrTruncated {
			return nil, errors.Wrapf(err, "decompressing %s as LZW", path)
		}
		return out, nil
	case strings.EqualFold(strings.TrimPrefix(extOf(path), "."), "lzh"):
		out, err := lzhuf.Decompress(data)
		if err != nil {
			return nil, errors.Wrapf(err, "decompressing %s as LZSS+Huffman", path)
		}
		return out, nil
	default:
		return data, nil
	}
}

func extOf(path string) string {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return ""
	}
	return path[i:]
}

// buildVolume constructs the base Volume for a raw image file. CBM DOS
// images are detected by their exact byte count (spec.md §4.10) and
// get a CHS volume; everything else is wrapped as a flat LBA volume at
// the first of 512, 1024 and 256 bytes that evenly divides its length
// (spec.md §4.5's block-size compatibility level), or as a single
// whole-image block when none does.
func buildVolume(path string, data []byte) (volume.Volume, error) {
	if v, _, err := cbmdos.Build(data, path); err == nil {
		return v, nil
	}
	for _, size := range []int{512, 1024, 256} {
		if len(data) > 0 && len(data)%size == 0 {
			return volume.NewLbaVolumeFromBytes(data, size, path)
		}
	}
	return volume.NewLbaVolumeFromBytes(data, len(data), path)
}

// loadMount reads path, probes it, and registers the winning (or raw
// fallback) filesystem under path in the mount registry.
func loadMount(path string) (*mount.Mount, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	data, err = decompress(path, data)
	if err != nil {
		return nil, err
	}
	v, err := buildVolume(path, data)
	if err != nil {
		return nil, errors.Wrapf(err, "building volume for %s", path)
	}
	result, _ := fsprobe.Run(v, nil)
	var fs fsys.FileSystem
	var probeResult fsprobe.Result
	if result != nil {
		opened, err := result.Probe.Open(v)
		if err != nil {
			return nil, errors.Wrapf(err, "opening %s as %s", path, result.TypeID)
		}
		fs = opened.(fsys.FileSystem)
		probeResult = *result
	} else {
		fs = rawfs.New(v)
		probeResult = fsprobe.Result{TypeID: "raw", Size: int64(v.BlockCount())}
	}
	m := &mount.Mount{Path: path, Volume: v, FS: fs, Result: probeResult}
	mount.Register(path, m)
	return m, nil
}
