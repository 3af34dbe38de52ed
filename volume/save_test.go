package volume

import (
	"os"
	"testing"
)

func TestSaveImageFlatRoundTrip(t *testing.T) {
	data := make([]byte, 512*4)
	for i := range data {
		data[i] = byte(i)
	}
	v, err := NewLbaVolumeFromBytes(data, 512, "test")
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	path := dir + "/out.img"
	if err := SaveImage(v, path, ""); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(data) {
		t.Fatalf("saved size = %d, want %d", len(got), len(data))
	}
	for i := range data {
		if got[i] != data[i] {
			t.Fatalf("byte %d = %d, want %d", i, got[i], data[i])
		}
	}
}

func TestSaveImageRX01Geometry(t *testing.T) {
	data := make([]byte, rx01Blocks*512)
	for i := range data {
		data[i] = byte(i)
	}
	v, err := NewLbaVolumeFromBytes(data, 512, "test")
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	path := dir + "/out.rx01"
	if err := SaveImage(v, path, "rx01"); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	wantSize := rxTracks * rxSectorsPerTrk * 128
	if len(got) != wantSize {
		t.Fatalf("saved size = %d, want %d", len(got), wantSize)
	}
	// Track 0 must be entirely zero.
	for i := 0; i < rxSectorsPerTrk*128; i++ {
		if got[i] != 0 {
			t.Fatalf("track 0 byte %d = %d, want 0", i, got[i])
		}
	}
}

func TestSaveImageRXWrongBlockCountRejected(t *testing.T) {
	v := NewLbaVolume(512, 10, "test")
	if err := SaveImage(v, "/tmp/should-not-be-written.rx01", "rx01"); err == nil {
		t.Fatalf("expected error for wrong block count")
	}
}
