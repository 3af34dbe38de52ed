package lzwz

import (
	"bytes"
	"testing"

	"vtfs/vterr"
)

// packCodes lays out codes LSB-first and contiguous, the same bit walk
// LSBReader.Next performs, so a round trip exercises the real decode
// path instead of a hand-verified fixture.
func packCodes(codes []int, codeSize int) []byte {
	totalBits := len(codes) * codeSize
	buf := make([]byte, (totalBits+7)/8)
	pos := 0
	for _, code := range codes {
		for i := 0; i < codeSize; i++ {
			bit := (code >> uint(i)) & 1
			buf[pos/8] |= byte(bit) << uint(pos%8)
			pos++
		}
	}
	return buf
}

func zHeader(maxBits int, blockMode bool) []byte {
	flags := byte(maxBits)
	if blockMode {
		flags |= 0x80
	}
	return []byte{magic0, magic1, flags}
}

// spec.md §8 item 1: codes 65,66 under block_mode/max_bits=16 decode
// to "AB". The header byte this produces (0x90) matches the literal
// worked example in the spec text, confirming the header layout.
func TestDecompressTwoLiteralCodes(t *testing.T) {
	header := zHeader(16, true)
	if header[2] != 0x90 {
		t.Fatalf("flags byte = %#x, want 0x90", header[2])
	}
	payload := packCodes([]int{65, 66}, initialCodeSize)
	data := append(header, payload...)

	out, err := Decompress(data)
	if err != nil && err != vterr.ErrTruncated {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(out, []byte("AB")) {
		t.Fatalf("Decompress = %q, want %q", out, "AB")
	}
}

// spec.md §8 item 2: codes 65,66,257,67,260 decode to "ABABCCC". Code
// 257 is the ordinary entry installed after the first two literals (prefix
// 65, suffix 66 = "AB"); code 260 replays the KwK special case off the
// literal 'C' to emit "CC".
func TestDecompressKwKSpecialCase(t *testing.T) {
	header := zHeader(16, true)
	payload := packCodes([]int{65, 66, 257, 67, 260}, initialCodeSize)
	data := append(header, payload...)

	out, err := Decompress(data)
	if err != nil && err != vterr.ErrTruncated {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(out, []byte("ABABCCC")) {
		t.Fatalf("Decompress = %q, want %q", out, "ABABCCC")
	}
}

func TestByteCountMatchesDecompressLength(t *testing.T) {
	header := zHeader(16, true)
	payload := packCodes([]int{65, 66, 257, 67, 260}, initialCodeSize)
	data := append(header, payload...)

	n, err := ByteCount(data)
	if err != nil && err != vterr.ErrTruncated {
		t.Fatalf("ByteCount: %v", err)
	}
	if n != len("ABABCCC") {
		t.Fatalf("ByteCount = %d, want %d", n, len("ABABCCC"))
	}
}

func TestParseHeaderRejectsBadMagic(t *testing.T) {
	data := []byte{0x1F, 0x00, 0x90}
	if _, err := ByteCount(data); err != vterr.ErrInvalid {
		t.Fatalf("ByteCount with bad magic = %v, want ErrInvalid", err)
	}
}

func TestParseHeaderRejectsReservedFlagBits(t *testing.T) {
	data := []byte{magic0, magic1, 0x90 | 0x20}
	if _, err := ByteCount(data); err != vterr.ErrInvalid {
		t.Fatalf("ByteCount with reserved flag bits = %v, want ErrInvalid", err)
	}
}

func TestDecompressRejectsCodeAheadOfDictionary(t *testing.T) {
	header := zHeader(16, true)
	// code 65 is a valid literal; 400 is far beyond next_free (257) at
	// that point and must be rejected rather than silently decoded.
	payload := packCodes([]int{65, 400}, initialCodeSize)
	data := append(header, payload...)

	_, err := Decompress(data)
	if err != vterr.ErrInvalid {
		t.Fatalf("Decompress with out-of-range code = %v, want ErrInvalid", err)
	}
}
