package bitio

import "testing"

func TestLSBReaderNext(t *testing.T) {
	// 0x05 = 00000101: low 3 bits (bit0 first) are 1,0,1 -> 5.
	r := NewLSBReader([]byte{0x05})
	if v := r.Next(3); v != 5 {
		t.Fatalf("Next(3) = %d, want 5", v)
	}
	// remaining bits (bit3..bit7 of 0x05) are all 0.
	if v := r.Next(5); v != 0 {
		t.Fatalf("Next(5) = %d, want 0", v)
	}
}

func TestLSBReaderSpansByteBoundary(t *testing.T) {
	// bit stream across two bytes, 12-bit code straddling the boundary.
	// byte0=0xFF contributes its 8 bits (255), byte1's low 4 bits (0x0A&0xF=0xA)
	// contribute the high nibble: 0xA<<8 | 0xFF = 0xAFF.
	r := NewLSBReader([]byte{0xFF, 0x0A})
	if v := r.Next(12); v != 0xAFF {
		t.Fatalf("Next(12) = %#x, want 0xAFF", v)
	}
}

func TestLSBReaderEOF(t *testing.T) {
	r := NewLSBReader([]byte{0xFF})
	if v := r.Next(9); v != EOF {
		t.Fatalf("Next(9) on 1 byte = %d, want EOF", v)
	}
}

func TestLSBReaderSeekByte(t *testing.T) {
	r := NewLSBReader([]byte{0x00, 0x00, 0xFF})
	r.SeekByte(2)
	if off := r.ByteOffset(); off != 2 {
		t.Fatalf("ByteOffset after seek = %d, want 2", off)
	}
	if v := r.Next(8); v != 0xFF {
		t.Fatalf("Next(8) after seek = %#x, want 0xFF", v)
	}
}

func TestLSBReaderRemaining(t *testing.T) {
	r := NewLSBReader([]byte{0xAB})
	if rem := r.Remaining(); rem != 8 {
		t.Fatalf("Remaining = %d, want 8", rem)
	}
	r.Next(5)
	if rem := r.Remaining(); rem != 3 {
		t.Fatalf("Remaining after Next(5) = %d, want 3", rem)
	}
}

func TestMSBReaderNext(t *testing.T) {
	// 0xB4 = 10110100: MSB-first 4 bits -> 1011, next 4 -> 0100.
	r := NewMSBReader([]byte{0xB4})
	if v := r.Next(4); v != 0xB {
		t.Fatalf("Next(4) = %#x, want 0xB", v)
	}
	if v := r.Next(4); v != 0x4 {
		t.Fatalf("Next(4) = %#x, want 0x4", v)
	}
}

func TestMSBReaderEOF(t *testing.T) {
	r := NewMSBReader([]byte{0x00})
	r.Next(8)
	if v := r.Next(1); v != EOF {
		t.Fatalf("Next(1) past end = %d, want EOF", v)
	}
}

func TestMSBReaderByteOffset(t *testing.T) {
	r := NewMSBReader([]byte{0xFF, 0xFF})
	r.Next(12)
	if off := r.ByteOffset(); off != 1 {
		t.Fatalf("ByteOffset after Next(12) = %d, want 1", off)
	}
}
