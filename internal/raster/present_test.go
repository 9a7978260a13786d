package raster

import "testing"

func TestFullscreenVertexTriangle(t *testing.T) {
	want := [][2]float32{
		{-1, -1},
		{3, -1},
		{-1, 3},
	}
	for i, w := range want {
		x, y := fullscreenVertex(PresentTriangle, i)
		if x != w[0] || y != w[1] {
			t.Errorf("triangle vertex %d = (%v, %v), want (%v, %v)", i, x, y, w[0], w[1])
		}
	}
}

func TestFullscreenVertexQuad(t *testing.T) {
	want := [][2]float32{
		{-1, -1},
		{1, -1},
		{-1, 1},
		{-1, 1},
		{1, -1},
		{1, 1},
	}
	for i, w := range want {
		x, y := fullscreenVertex(PresentQuad, i)
		if x != w[0] || y != w[1] {
			t.Errorf("quad vertex %d = (%v, %v), want (%v, %v)", i, x, y, w[0], w[1])
		}
	}
}

func TestPresentRoundTrip(t *testing.T) {
	sizes := []struct{ w, h int }{
		{1, 1},
		{64, 64},
		{100, 37},
	}
	for _, mode := range []PresentMode{PresentTriangle, PresentQuad} {
		for _, s := range sizes {
			b := testBindings(s.w, s.h, nil)
			for i := range b.Color {
				b.Color[i] = Pixel{R: 0.5, G: 0.5, B: 0.5}
			}
			before := make([]Pixel, len(b.Color))
			copy(before, b.Color)

			dst := make([]byte, s.w*s.h*4)
			PresentPass{Mode: mode}.Run(testDispatcher(), b, dst)

			for i := 0; i < len(dst); i += 4 {
				if dst[i] != 128 || dst[i+1] != 128 || dst[i+2] != 128 || dst[i+3] != 0xFF {
					t.Fatalf("%s %dx%d: display pixel %d = %v, want [128 128 128 255]",
						mode, s.w, s.h, i/4, dst[i:i+4])
				}
			}

			// Present is a pure read.
			for i := range b.Color {
				if b.Color[i] != before[i] {
					t.Fatalf("%s: present mutated color buffer cell %d", mode, i)
				}
			}
		}
	}
}

func TestPresentClampsShadeRange(t *testing.T) {
	b := testBindings(2, 1, nil)
	b.Color[0] = Pixel{R: -3, G: 2, B: 0.5}
	b.Color[1] = Pixel{R: 1, G: 0, B: 0.999}

	dst := make([]byte, 8)
	PresentPass{Mode: PresentTriangle}.Run(testDispatcher(), b, dst)

	want := []byte{0, 255, 128, 255, 255, 0, 255, 255}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("dst[%d] = %d, want %d", i, dst[i], want[i])
		}
	}
}

func TestPresentModeString(t *testing.T) {
	if PresentTriangle.String() != "triangle" || PresentQuad.String() != "quad" {
		t.Errorf("PresentMode strings = %q, %q", PresentTriangle, PresentQuad)
	}
	if PresentTriangle.vertexCount() != 3 || PresentQuad.vertexCount() != 6 {
		t.Errorf("vertex counts = %d, %d, want 3, 6",
			PresentTriangle.vertexCount(), PresentQuad.vertexCount())
	}
}
