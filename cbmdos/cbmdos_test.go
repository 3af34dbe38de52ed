package cbmdos

import "testing"

func build1541Bytes() []byte {
	total := 0
	for t := 1; t <= 35; t++ {
		total += sectorsForTrack(t, zones1541)
	}
	return make([]byte, total*sectorSize)
}

func TestBuild1541Geometry(t *testing.T) {
	data := build1541Bytes()
	if len(data) != 174848 {
		t.Fatalf("fixture size = %d, want 174848", len(data))
	}
	v, withErr, err := Build(data, "test.d64")
	if err != nil {
		t.Fatal(err)
	}
	if withErr {
		t.Fatalf("expected no error bytes")
	}
	if v.MinCylinder() != 1 || v.MaxCylinder() != 35 {
		t.Fatalf("cylinder range = %d..%d", v.MinCylinder(), v.MaxCylinder())
	}
	min, max, err := v.SectorRange(17, 0)
	if err != nil || min != 1 || max != 21 {
		t.Fatalf("track 17 sector range = %d..%d, %v", min, max, err)
	}
	min, max, err = v.SectorRange(25, 0)
	if err != nil || min != 1 || max != 18 {
		t.Fatalf("track 25 sector range = %d..%d, %v", min, max, err)
	}
}

func TestBuildUnknownSizeRejected(t *testing.T) {
	if _, _, err := Build(make([]byte, 12345), "bad"); err == nil {
		t.Fatalf("expected error for unrecognized byte count")
	}
}

func TestBuildDetectsErrorBytes(t *testing.T) {
	base := build1541Bytes()
	blocks := len(base) / sectorSize
	withErrData := make([]byte, 0, blocks*257)
	off := 0
	for i := 0; i < blocks; i++ {
		withErrData = append(withErrData, base[off:off+sectorSize]...)
		withErrData = append(withErrData, 0)
		off += sectorSize
	}
	_, withErr, err := Build(withErrData, "test.d64")
	if err != nil {
		t.Fatal(err)
	}
	if !withErr {
		t.Fatalf("expected error-byte image to be detected")
	}
}
