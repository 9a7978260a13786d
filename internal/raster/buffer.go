package raster

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrVertexCount reports a vertex buffer whose length is not a
	// multiple of 3.
	ErrVertexCount = errors.New("raster: vertex count not a multiple of 3")

	// ErrBufferSize reports a color buffer that disagrees with the screen
	// descriptor.
	ErrBufferSize = errors.New("raster: color buffer does not match screen size")
)

// Pixel is one color-buffer cell: three normalized channels, no alpha,
// no depth.
type Pixel struct {
	R, G, B float32
}

// Vertex is an object-space position. No normal, color or UV attributes.
type Vertex struct {
	X, Y, Z float32
}

// ScreenUniform describes the render target extent. Immutable for a frame;
// must agree with the bound color buffer.
type ScreenUniform struct {
	Width  float32
	Height float32
}

// CameraUniform is the per-frame camera snapshot: view position and the
// combined view-projection transform.
type CameraUniform struct {
	ViewPos  mgl32.Vec4
	ViewProj mgl32.Mat4
}

// Bindings holds the resources a kernel launch touches. Kernels receive it
// explicitly; there is no process-wide state. Color is the only member
// mutated during a frame: write-only in Clear, read-write in Raster,
// read-only in Present.
type Bindings struct {
	Color    []Pixel
	Vertices []Vertex
	Screen   ScreenUniform
	Camera   CameraUniform
}

// Validate checks the contracts the kernels rely on: vertex count a multiple
// of 3 and a color buffer exactly covering the screen.
func (b *Bindings) Validate() error {
	if len(b.Vertices)%3 != 0 {
		return fmt.Errorf("%w: got %d vertices", ErrVertexCount, len(b.Vertices))
	}
	w, h := int(b.Screen.Width), int(b.Screen.Height)
	if w <= 0 || h <= 0 || len(b.Color) != w*h {
		return fmt.Errorf("%w: screen %dx%d, buffer length %d", ErrBufferSize, w, h, len(b.Color))
	}
	return nil
}
