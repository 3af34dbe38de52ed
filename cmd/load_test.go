package cmd

import (
	"bytes"
	"testing"
)

// packCodes lays out LZW codes LSB-first and contiguous, mirroring
// compress/lzwz's own test helper, so this fixture exercises the real
// decode path instead of a hand-verified byte string.
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

func TestDecompressDetectsLZWMagic(t *testing.T) {
	header := []byte{0x1F, 0x9D, 0x90} // max_bits=16, block_mode set
	payload := packCodes([]int{65, 66}, 9)
	data := append(header, payload...)

	out, err := decompress("image.Z", data)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if !bytes.Equal(out, []byte("AB")) {
		t.Fatalf("decompress = %q, want %q", out, "AB")
	}
}

func TestDecompressPassesThroughUnrecognizedData(t *testing.T) {
	data := []byte{0x00, 0x01, 0x02, 0x03}
	out, err := decompress("plain.img", data)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Fatalf("decompress = %v, want passthrough %v", out, data)
	}
}

func TestBuildVolumePicksBlockSize(t *testing.T) {
	data := make([]byte, 512*10)
	v, err := buildVolume("x.img", data)
	if err != nil {
		t.Fatal(err)
	}
	if v.BlockSize() != 512 || v.BlockCount() != 10 {
		t.Fatalf("buildVolume = blockSize=%d count=%d", v.BlockSize(), v.BlockCount())
	}
}

func TestBuildVolumeFallsBackToWholeImage(t *testing.T) {
	data := make([]byte, 513)
	v, err := buildVolume("odd.img", data)
	if err != nil {
		t.Fatal(err)
	}
	if v.BlockCount() != 1 || v.BlockSize() != 513 {
		t.Fatalf("buildVolume fallback = blockSize=%d count=%d", v.BlockSize(), v.BlockCount())
	}
}
