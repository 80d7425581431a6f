package stack

import (
	"errors"
	"math"
	"path/filepath"
	"testing"
)

// newTestStack fills each plane with a unique constant value
func newTestStack(t *testing.T, width, height, sizeZ, sizeT int) *Stack {
	t.Helper()
	data := make([]float64, width*height*sizeZ*sizeT)
	size := width * height
	for tt := 0; tt < sizeT; tt++ {
		for z := 0; z < sizeZ; z++ {
			value := float64(tt*sizeZ+z+1) / float64(sizeZ*sizeT+1)
			start := (tt*sizeZ + z) * size
			for i := 0; i < size; i++ {
				data[start+i] = value
			}
		}
	}
	s, err := New(data, width, height, sizeZ, sizeT)
	if err != nil {
		t.Fatalf("Failed to create stack: %v", err)
	}
	return s
}

// TestNewValidatesDimensions verifies mismatched data is rejected
func TestNewValidatesDimensions(t *testing.T) {
	if _, err := New(make([]float64, 10), 2, 2, 2, 1); err == nil {
		t.Error("Expected error for wrong data length, got nil")
	}
	if _, err := New(nil, 0, 2, 1, 1); err == nil {
		t.Error("Expected error for zero width, got nil")
	}
}

// TestPlaneLayout verifies planes are addressed by z then t
func TestPlaneLayout(t *testing.T) {
	s := newTestStack(t, 4, 3, 3, 2)

	for tt := 0; tt < 2; tt++ {
		for z := 0; z < 3; z++ {
			want := float64(tt*3+z+1) / 7
			got, err := s.At(2, 1, z, tt)
			if err != nil {
				t.Fatalf("Failed to read z=%d,t=%d: %v", z, tt, err)
			}
			if math.Abs(got-want) > 1e-12 {
				t.Errorf("Expected %f at z=%d,t=%d, got %f", want, z, tt, got)
			}
		}
	}

	if _, err := s.Plane(3, 0); !errors.Is(err, ErrPlaneOutOfRange) {
		t.Errorf("Expected ErrPlaneOutOfRange, got %v", err)
	}
	if _, err := s.At(4, 0, 0, 0); err == nil {
		t.Error("Expected error for pixel outside plane, got nil")
	}
}

// TestPlaneImage verifies rendering to 16-bit grayscale
func TestPlaneImage(t *testing.T) {
	s := newTestStack(t, 5, 5, 1, 1)
	img, err := s.PlaneImage(0, 0)
	if err != nil {
		t.Fatalf("Failed to render plane: %v", err)
	}

	want := uint16(32767)
	if got := img.Gray16At(2, 2).Y; got != want {
		t.Errorf("Expected value %d, got %d", want, got)
	}
}

// TestPlaneOf covers file name parsing
func TestPlaneOf(t *testing.T) {
	tests := []struct {
		name string
		z, t int
	}{
		{"cell_z003_t001.png", 3, 1},
		{"Z12-T4.tif", 12, 4},
		{"slice_042.jpg", 42, 0},
		{"plain.png", 0, 0},
	}
	for _, tc := range tests {
		z, tt := planeOf(tc.name)
		if z != tc.z || tt != tc.t {
			t.Errorf("%s: expected z=%d,t=%d, got z=%d,t=%d", tc.name, tc.z, tc.t, z, tt)
		}
	}
}

// TestSaveAndLoad writes every plane to disk and loads the directory back
func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	s := newTestStack(t, 6, 4, 2, 2)

	for tt := 0; tt < 2; tt++ {
		for z := 0; z < 2; z++ {
			path := filepath.Join(dir, "planes", "img_z"+string(rune('0'+z))+"_t"+string(rune('0'+tt))+".png")
			if err := s.SavePlane(z, tt, path); err != nil {
				t.Fatalf("Failed to save plane z=%d,t=%d: %v", z, tt, err)
			}
		}
	}

	loaded, err := Load(filepath.Join(dir, "planes"))
	if err != nil {
		t.Fatalf("Failed to load stack: %v", err)
	}

	if loaded.Width() != 6 || loaded.Height() != 4 || loaded.SizeZ() != 2 || loaded.SizeT() != 2 {
		t.Fatalf("Expected 6x4x2x2 stack, got %dx%dx%dx%d",
			loaded.Width(), loaded.Height(), loaded.SizeZ(), loaded.SizeT())
	}

	for tt := 0; tt < 2; tt++ {
		for z := 0; z < 2; z++ {
			want, _ := s.At(3, 2, z, tt)
			got, err := loaded.At(3, 2, z, tt)
			if err != nil {
				t.Fatalf("Failed to read loaded plane: %v", err)
			}
			// 8-bit grayscale conversion on load
			if math.Abs(got-want) > 2.0/255 {
				t.Errorf("Expected ~%f at z=%d,t=%d, got %f", want, z, tt, got)
			}
		}
	}

	if _, err := Load(t.TempDir()); err == nil {
		t.Error("Expected error for empty directory, got nil")
	}
}

// TestLoadRejectsIncompleteBlock verifies missing and duplicated planes fail
// the load instead of leaving zero-filled or overwritten planes
func TestLoadRejectsIncompleteBlock(t *testing.T) {
	s := newTestStack(t, 4, 4, 2, 2)

	tests := []struct {
		name  string
		files map[string][2]int
	}{
		{"missing plane", map[string][2]int{
			"img_z0_t0.png": {0, 0},
			"img_z1_t1.png": {1, 1},
			"img_z0_t1.png": {0, 1},
		}},
		{"duplicate plane", map[string][2]int{
			"img_z0_t0.png":  {0, 0},
			"copy_z0_t0.png": {1, 1},
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, plane := range tc.files {
				if err := s.SavePlane(plane[0], plane[1], filepath.Join(dir, name)); err != nil {
					t.Fatalf("Failed to save %s: %v", name, err)
				}
			}
			if _, err := Load(dir); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}
