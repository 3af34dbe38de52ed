package storage

import (
	"bytes"
	"testing"
)

func TestReaderPeekShortDoesNotConsume(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0x34, 0x12, 0xFF}))
	v, err := r.PeekShort()
	if err != nil {
		t.Fatalf("PeekShort: %v", err)
	}
	if v != 0x1234 {
		t.Fatalf("PeekShort = %#x, want 0x1234", v)
	}
	b := r.ReadByte()
	if b != 0x34 {
		t.Fatalf("ReadByte after PeekShort = %#x, want 0x34 (peek must not consume)", b)
	}
}

func TestReaderReadByteReturnsZeroAtEOF(t *testing.T) {
	r := NewReader(bytes.NewReader(nil))
	if b := r.ReadByte(); b != 0 {
		t.Fatalf("ReadByte at EOF = %#x, want 0", b)
	}
}

func TestReadAllDrainsUnderlyingReader(t *testing.T) {
	data := []byte("hello storage")
	got, err := ReadAll(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("ReadAll = %q, want %q", got, data)
	}
}
