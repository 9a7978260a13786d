package raster

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Byte layouts for every structure crossing the host/device-style boundary.
// All fields are little-endian float32 at fixed offsets with no implicit
// padding; the sizes below are load-bearing and verified by tests.
const (
	VertexSize        = 12 // x, y, z
	PixelSize         = 12 // r, g, b
	ScreenUniformSize = 8  // width, height
	CameraUniformSize = 80 // view position vec4, then column-major 4x4 view-projection
)

// frame capture container: a full snapshot of the device-visible frame state.
const (
	captureMagic     = "CFC1"
	captureHeaderLen = 4 + ScreenUniformSize + CameraUniformSize
)

func putF32(b []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(b[off:], math.Float32bits(v))
}

func getF32(b []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
}

// PutVertex writes v at b[off : off+VertexSize].
func PutVertex(b []byte, off int, v Vertex) {
	putF32(b, off+0, v.X)
	putF32(b, off+4, v.Y)
	putF32(b, off+8, v.Z)
}

// GetVertex reads a vertex from b[off : off+VertexSize].
func GetVertex(b []byte, off int) Vertex {
	return Vertex{X: getF32(b, off+0), Y: getF32(b, off+4), Z: getF32(b, off+8)}
}

// PutPixel writes p at b[off : off+PixelSize].
func PutPixel(b []byte, off int, p Pixel) {
	putF32(b, off+0, p.R)
	putF32(b, off+4, p.G)
	putF32(b, off+8, p.B)
}

// GetPixel reads a pixel from b[off : off+PixelSize].
func GetPixel(b []byte, off int) Pixel {
	return Pixel{R: getF32(b, off+0), G: getF32(b, off+4), B: getF32(b, off+8)}
}

// PutScreenUniform writes s at b[off : off+ScreenUniformSize].
func PutScreenUniform(b []byte, off int, s ScreenUniform) {
	putF32(b, off+0, s.Width)
	putF32(b, off+4, s.Height)
}

// GetScreenUniform reads a screen descriptor from b[off : off+ScreenUniformSize].
func GetScreenUniform(b []byte, off int) ScreenUniform {
	return ScreenUniform{Width: getF32(b, off+0), Height: getF32(b, off+4)}
}

// PutCameraUniform writes c at b[off : off+CameraUniformSize]: the view
// position vec4 first, then the view-projection matrix in column-major
// order.
func PutCameraUniform(b []byte, off int, c CameraUniform) {
	for i := 0; i < 4; i++ {
		putF32(b, off+i*4, c.ViewPos[i])
	}
	for i := 0; i < 16; i++ {
		putF32(b, off+16+i*4, c.ViewProj[i])
	}
}

// GetCameraUniform reads a camera snapshot from b[off : off+CameraUniformSize].
func GetCameraUniform(b []byte, off int) CameraUniform {
	var c CameraUniform
	for i := 0; i < 4; i++ {
		c.ViewPos[i] = getF32(b, off+i*4)
	}
	for i := 0; i < 16; i++ {
		c.ViewProj[i] = getF32(b, off+16+i*4)
	}
	return c
}

// MarshalFrameCapture serializes the complete frame state: magic, screen
// descriptor, camera, vertex buffer, color buffer. Counts are little-endian
// uint32 prefixes.
func MarshalFrameCapture(b *Bindings) []byte {
	size := captureHeaderLen +
		4 + len(b.Vertices)*VertexSize +
		4 + len(b.Color)*PixelSize
	out := make([]byte, size)

	copy(out, captureMagic)
	PutScreenUniform(out, 4, b.Screen)
	PutCameraUniform(out, 4+ScreenUniformSize, b.Camera)

	off := captureHeaderLen
	binary.LittleEndian.PutUint32(out[off:], uint32(len(b.Vertices)))
	off += 4
	for _, v := range b.Vertices {
		PutVertex(out, off, v)
		off += VertexSize
	}
	binary.LittleEndian.PutUint32(out[off:], uint32(len(b.Color)))
	off += 4
	for _, p := range b.Color {
		PutPixel(out, off, p)
		off += PixelSize
	}
	return out
}

// UnmarshalFrameCapture decodes a frame capture and revalidates the
// contracts: vertex count a multiple of 3, pixel count matching the screen
// descriptor.
func UnmarshalFrameCapture(data []byte) (*Bindings, error) {
	if len(data) < captureHeaderLen+8 || string(data[:4]) != captureMagic {
		return nil, fmt.Errorf("raster: not a frame capture")
	}

	b := &Bindings{
		Screen: GetScreenUniform(data, 4),
		Camera: GetCameraUniform(data, 4+ScreenUniformSize),
	}

	off := captureHeaderLen
	nv := int(binary.LittleEndian.Uint32(data[off:]))
	off += 4
	if off+nv*VertexSize+4 > len(data) {
		return nil, fmt.Errorf("raster: truncated frame capture")
	}
	b.Vertices = make([]Vertex, nv)
	for i := range b.Vertices {
		b.Vertices[i] = GetVertex(data, off)
		off += VertexSize
	}

	np := int(binary.LittleEndian.Uint32(data[off:]))
	off += 4
	if off+np*PixelSize > len(data) {
		return nil, fmt.Errorf("raster: truncated frame capture")
	}
	b.Color = make([]Pixel, np)
	for i := range b.Color {
		b.Color[i] = GetPixel(data, off)
		off += PixelSize
	}

	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}
