// Package lzwz decodes the adaptive 9-to-N-bit LZW stream produced by
// the Unix `compress`(1) utility (.Z files), per spec.md §4.2. This is
// a distinct variant from the standard library's compress/lzw (which
// implements the GIF/TIFF/PDF flavor with different code-size framing
// and no block-mode reset) — there is no off-the-shelf Go decoder for
// this exact historical format, so it is hand-rolled against the
// byte-level algorithm, the same way the teacher hand-rolls its TZX
// and TAP block codecs against a textual protocol description rather
// than importing a tape-format library.
package lzwz

import (
	"vtfs/bitio"
	"vtfs/vterr"
)

const (
	magic0 = 0x1F
	magic1 = 0x9D

	initialCodeSize = 9
	clearCode       = 256
)

// header holds the parsed .Z file header (spec.md §4.2).
type header struct {
	maxBits   int
	blockMode bool
}

func parseHeader(data []byte) (header, []byte, error) {
	if len(data) < 3 || data[0] != magic0 || data[1] != magic1 {
		return header{}, nil, vterr.ErrInvalid
	}
	flags := data[2]
	if flags&0x60 != 0 {
		return header{}, nil, vterr.ErrInvalid
	}
	maxBits := int(flags & 0x1F)
	if maxBits > 24 || maxBits < initialCodeSize {
		return header{}, nil, vterr.ErrInvalid
	}
	return header{
		maxBits:   maxBits,
		blockMode: flags&0x80 != 0,
	}, data[3:], nil
}

// dict is the shared adaptive dictionary state used by both the
// counting pass and the materializing pass.
type dict struct {
	prefix []int
	suffix []byte
	length []int
	first  []byte
}

func newDict(maxBits int) *dict {
	cap := 1 << uint(maxBits)
	d := &dict{
		prefix: make([]int, cap),
		suffix: make([]byte, cap),
		length: make([]int, cap),
		first:  make([]byte, cap),
	}
	for i := 0; i < 256; i++ {
		d.prefix[i] = -1
		d.suffix[i] = byte(i)
		d.first[i] = byte(i)
		d.length[i] = 1
	}
	return d
}

// decodeBytes reconstructs the byte string for an already-installed
// dictionary entry by walking its prefix chain and writing right to
// left, per spec.md §4.2 step 2.
func (d *dict) decodeBytes(code int) []byte {
	buf := make([]byte, d.length[code])
	i := len(buf) - 1
	cur := code
	for cur >= 256 {
		buf[i] = d.suffix[cur]
		i--
		cur = d.prefix[cur]
	}
	buf[0] = byte(cur)
	return buf
}

// ByteCount computes the uncompressed length of data without
// materializing any bytes beyond single-byte lookups (pass 1 of the
// two-pass design in spec.md §4.2/§8).
func ByteCount(data []byte) (int, error) {
	h, payload, err := parseHeader(data)
	if err != nil {
		return 0, err
	}
	br := bitio.NewLSBReader(payload)
	d := newDict(h.maxBits)

	codeSize := initialCodeSize
	maxCode := (1 << uint(codeSize)) - 1
	nextFree := 256
	if h.blockMode {
		nextFree = 257
	}
	blockStart := 0
	total := 0
	prev := -1
	needFirst := true

	for {
		code := br.Next(codeSize)
		if code == bitio.EOF {
			if br.Remaining() == 0 {
				return total, nil
			}
			return total, vterr.ErrTruncated
		}
		if h.blockMode && code == clearCode {
			skip := blockStart + ((br.ByteOffset()-blockStart+codeSize-1)/codeSize)*codeSize
			br.SeekByte(skip)
			blockStart = skip
			codeSize = initialCodeSize
			maxCode = 511
			nextFree = 256
			needFirst = true
			continue
		}
		if needFirst {
			if code > 255 {
				return total, vterr.ErrInvalid
			}
			total++
			prev = code
			needFirst = false
			continue
		}
		if code > nextFree {
			return total, vterr.ErrInvalid
		}
		var entryLen int
		if code == nextFree {
			entryLen = d.length[prev] + 1
		} else {
			entryLen = d.length[code]
		}
		total += entryLen

		if nextFree <= maxCode {
			d.prefix[nextFree] = prev
			d.first[nextFree] = d.first[prev]
			d.length[nextFree] = d.length[prev] + 1
			if code == nextFree {
				d.suffix[nextFree] = d.first[prev]
			} else {
				d.suffix[nextFree] = d.first[code]
			}
			nextFree++
			if nextFree > maxCode && codeSize < h.maxBits {
				skip := blockStart + ((br.ByteOffset()-blockStart+codeSize-1)/codeSize)*codeSize
				br.SeekByte(skip)
				blockStart = skip
				codeSize++
				maxCode = (1 << uint(codeSize)) - 1
			}
		}
		prev = code
	}
}

// Decompress fully decodes a .Z byte stream (pass 2 of the two-pass
// design).
func Decompress(data []byte) ([]byte, error) {
	h, payload, err := parseHeader(data)
	if err != nil {
		return nil, err
	}
	br := bitio.NewLSBReader(payload)
	d := newDict(h.maxBits)

	codeSize := initialCodeSize
	maxCode := (1 << uint(codeSize)) - 1
	nextFree := 256
	if h.blockMode {
		nextFree = 257
	}
	blockStart := 0
	var out []byte
	prev := -1
	needFirst := true

	for {
		code := br.Next(codeSize)
		if code == bitio.EOF {
			if br.Remaining() == 0 {
				return out, nil
			}
			return out, vterr.ErrTruncated
		}
		if h.blockMode && code == clearCode {
			skip := blockStart + ((br.ByteOffset()-blockStart+codeSize-1)/codeSize)*codeSize
			br.SeekByte(skip)
			blockStart = skip
			codeSize = initialCodeSize
			maxCode = 511
			nextFree = 256
			needFirst = true
			continue
		}
		if needFirst {
			if code > 255 {
				return out, vterr.ErrInvalid
			}
			out = append(out, byte(code))
			prev = code
			needFirst = false
			continue
		}
		if code > nextFree {
			return out, vterr.ErrInvalid
		}

		var entryBytes []byte
		if code == nextFree {
			entryBytes = append(d.decodeBytes(prev), d.first[prev])
		} else {
			entryBytes = d.decodeBytes(code)
		}
		out = append(out, entryBytes...)

		if nextFree <= maxCode {
			d.prefix[nextFree] = prev
			d.first[nextFree] = d.first[prev]
			d.length[nextFree] = d.length[prev] + 1
			d.suffix[nextFree] = entryBytes[0]
			nextFree++
			if nextFree > maxCode && codeSize < h.maxBits {
				skip := blockStart + ((br.ByteOffset()-blockStart+codeSize-1)/codeSize)*codeSize
				br.SeekByte(skip)
				blockStart = skip
				codeSize++
				maxCode = (1 << uint(codeSize)) - 1
			}
		}
		prev = code
	}
}
