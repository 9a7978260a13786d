package raster

import (
	"errors"
	"strings"
	"testing"
)

func TestNewPipelineRejectsBadVertexCount(t *testing.T) {
	_, err := NewPipeline(Options{Width: 64, Height: 64}, make([]Vertex, 4))
	if !errors.Is(err, ErrVertexCount) {
		t.Fatalf("err = %v, want ErrVertexCount", err)
	}
}

func TestNewPipelineRejectsBadScreen(t *testing.T) {
	for _, s := range []struct{ w, h int }{{0, 64}, {64, 0}, {-1, -1}} {
		_, err := NewPipeline(Options{Width: s.w, Height: s.h}, nil)
		if !errors.Is(err, ErrBufferSize) {
			t.Fatalf("%dx%d: err = %v, want ErrBufferSize", s.w, s.h, err)
		}
	}
}

func TestSetVerticesRejectsBadCount(t *testing.T) {
	p, err := NewPipeline(Options{Width: 8, Height: 8}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.SetVertices(make([]Vertex, 5)); !errors.Is(err, ErrVertexCount) {
		t.Fatalf("err = %v, want ErrVertexCount", err)
	}
}

func TestSetWireframeRejectsOddSegments(t *testing.T) {
	p, err := NewPipeline(Options{Width: 8, Height: 8}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.SetWireframe(make([]Vertex, 3), Pixel{}); err == nil {
		t.Fatal("expected an error for an odd segment list")
	}
}

func TestRenderRejectsShortSurface(t *testing.T) {
	p, err := NewPipeline(Options{Width: 8, Height: 8}, nil)
	if err != nil {
		t.Fatal(err)
	}
	err = p.Render(make([]byte, 8))
	if err == nil || !strings.Contains(err.Error(), "display surface") {
		t.Fatalf("err = %v, want a surface size error", err)
	}
}

func TestRenderFrame(t *testing.T) {
	// Projects to the screen triangle (10,10) (50,10) (30,40) under an
	// identity camera; shade is 1-1 = 0 over a 0.25 background.
	verts := []Vertex{
		{X: 0.1, Y: 0.1},
		{X: 0.5, Y: 0.1},
		{X: 0.3, Y: 0.4},
	}
	p, err := NewPipeline(Options{
		Width:      100,
		Height:     100,
		Background: Pixel{R: 0.25, G: 0.25, B: 0.25},
	}, verts)
	if err != nil {
		t.Fatal(err)
	}
	p.SetCamera(identCamera())

	dst := make([]byte, p.SurfaceLen())
	if err := p.Render(dst); err != nil {
		t.Fatal(err)
	}

	inside := (30 + 20*100) * 4
	if dst[inside] != 0 || dst[inside+3] != 0xFF {
		t.Errorf("covered display pixel = %v, want shade 0", dst[inside:inside+4])
	}
	if dst[0] != 64 {
		t.Errorf("background display pixel = %d, want 64", dst[0])
	}
}

func TestRenderClearsBetweenFrames(t *testing.T) {
	verts := []Vertex{
		{X: 0.1, Y: 0.1},
		{X: 0.5, Y: 0.1},
		{X: 0.3, Y: 0.4},
	}
	p, err := NewPipeline(Options{
		Width:      64,
		Height:     64,
		Background: Pixel{R: 0.25, G: 0.25, B: 0.25},
	}, verts)
	if err != nil {
		t.Fatal(err)
	}
	p.SetCamera(identCamera())

	dst := make([]byte, p.SurfaceLen())
	if err := p.Render(dst); err != nil {
		t.Fatal(err)
	}

	// Remove the geometry; the stale coverage must not survive the next
	// frame's clear.
	if err := p.SetVertices(nil); err != nil {
		t.Fatal(err)
	}
	if err := p.Render(dst); err != nil {
		t.Fatal(err)
	}
	for _, px := range p.ColorBuffer() {
		if px != (Pixel{R: 0.25, G: 0.25, B: 0.25}) {
			t.Fatalf("stale pixel %+v survived the clear", px)
		}
	}
}

func TestResizeReallocates(t *testing.T) {
	p, err := NewPipeline(Options{Width: 8, Height: 8}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Resize(16, 4); err != nil {
		t.Fatal(err)
	}
	if w, h := p.Size(); w != 16 || h != 4 {
		t.Fatalf("size after resize = %dx%d", w, h)
	}
	if len(p.ColorBuffer()) != 64 {
		t.Fatalf("buffer length = %d, want 64", len(p.ColorBuffer()))
	}
	if err := p.Render(make([]byte, p.SurfaceLen())); err != nil {
		t.Fatal(err)
	}

	if err := p.Resize(0, 4); !errors.Is(err, ErrBufferSize) {
		t.Fatalf("err = %v, want ErrBufferSize", err)
	}
}

func TestValidateCatchesMismatchedBuffer(t *testing.T) {
	b := testBindings(4, 4, nil)
	b.Color = b.Color[:10]
	if err := b.Validate(); !errors.Is(err, ErrBufferSize) {
		t.Fatalf("err = %v, want ErrBufferSize", err)
	}
}
