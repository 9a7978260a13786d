// Package raster renders triangle meshes through a three-pass compute
// pipeline: a clear kernel resets a flat color buffer, a raster kernel
// projects triangles and fills it with per-pixel barycentric tests, and a
// present kernel blits the result to a display surface. Passes run in strict
// sequence with a full barrier between launches; units inside one launch run
// concurrently and unsynchronized.
package raster

import (
	"fmt"

	"github.com/pudnax/compaster/internal/compute"
)

// Options configures a pipeline. Zero values pick the defaults noted per
// field.
type Options struct {
	Width  int
	Height int

	// WorkgroupSize is the per-launch unit grouping; defaults to
	// compute.DefaultWorkgroupSize.
	WorkgroupSize int
	// Workers caps concurrent workgroups; defaults to NumCPU.
	Workers int

	Background  Pixel
	PresentMode PresentMode
}

// Pipeline owns the color buffer and runs the kernel sequence for a frame.
// The buffer is allocated once and reused (cleared, not reallocated) across
// frames; Resize is the only operation that reallocates it.
type Pipeline struct {
	dispatcher *compute.Dispatcher
	bindings   Bindings

	clear   ClearPass
	raster  RasterPass
	present PresentPass

	lines *LinePass
	edges []Vertex
}

// NewPipeline validates the configuration and geometry and allocates the
// color buffer. The vertex buffer is held as a read-only input; callers must
// not mutate it during Render.
func NewPipeline(opts Options, vertices []Vertex) (*Pipeline, error) {
	if len(vertices)%3 != 0 {
		return nil, fmt.Errorf("%w: got %d vertices", ErrVertexCount, len(vertices))
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("%w: screen %dx%d", ErrBufferSize, opts.Width, opts.Height)
	}

	p := &Pipeline{
		dispatcher: compute.NewDispatcher(opts.WorkgroupSize, opts.Workers),
		bindings: Bindings{
			Color:    make([]Pixel, opts.Width*opts.Height),
			Vertices: vertices,
			Screen: ScreenUniform{
				Width:  float32(opts.Width),
				Height: float32(opts.Height),
			},
		},
		clear:   ClearPass{Background: opts.Background},
		present: PresentPass{Mode: opts.PresentMode},
	}
	return p, nil
}

// SetCamera installs the camera snapshot used by the next frame.
func (p *Pipeline) SetCamera(cam CameraUniform) {
	p.bindings.Camera = cam
}

// SetVertices swaps the bound vertex buffer.
func (p *Pipeline) SetVertices(vertices []Vertex) error {
	if len(vertices)%3 != 0 {
		return fmt.Errorf("%w: got %d vertices", ErrVertexCount, len(vertices))
	}
	p.bindings.Vertices = vertices
	return nil
}

// SetWireframe enables the line overlay with the given segment pairs, or
// disables it when segments is empty.
func (p *Pipeline) SetWireframe(segments []Vertex, color Pixel) error {
	if len(segments)%2 != 0 {
		return fmt.Errorf("raster: wireframe needs vertex pairs, got %d vertices", len(segments))
	}
	if len(segments) == 0 {
		p.lines = nil
		p.edges = nil
		return nil
	}
	p.lines = &LinePass{Color: color}
	p.edges = segments
	return nil
}

// Resize reallocates the color buffer for a new screen extent.
func (p *Pipeline) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: screen %dx%d", ErrBufferSize, width, height)
	}
	p.bindings.Color = make([]Pixel, width*height)
	p.bindings.Screen = ScreenUniform{Width: float32(width), Height: float32(height)}
	return nil
}

// Size returns the current screen extent.
func (p *Pipeline) Size() (width, height int) {
	return int(p.bindings.Screen.Width), int(p.bindings.Screen.Height)
}

// SurfaceLen returns the byte length Render requires of its display surface.
func (p *Pipeline) SurfaceLen() int {
	w, h := p.Size()
	return w * h * 4
}

// ColorBuffer exposes the raw buffer for host-side readback, e.g. saving a
// still image. The slice is invalidated by Resize.
func (p *Pipeline) ColorBuffer() []Pixel {
	return p.bindings.Color
}

// Bindings exposes the frame state for host-side capture.
func (p *Pipeline) Bindings() *Bindings {
	return &p.bindings
}

// Render runs one frame: Clear, then Raster, then the optional line overlay,
// then Present into dst. Every kernel fully retires before the next launch.
// A failed frame has no partial-recovery path; re-running Render restarts
// from Clear.
func (p *Pipeline) Render(dst []byte) error {
	if err := p.bindings.Validate(); err != nil {
		return err
	}
	if need := p.SurfaceLen(); len(dst) < need {
		return fmt.Errorf("raster: display surface needs %d bytes, got %d", need, len(dst))
	}

	p.clear.Run(p.dispatcher, &p.bindings)
	p.raster.Run(p.dispatcher, &p.bindings)
	if p.lines != nil {
		p.lines.Run(p.dispatcher, &p.bindings, p.edges)
	}
	p.present.Run(p.dispatcher, &p.bindings, dst)
	return nil
}
