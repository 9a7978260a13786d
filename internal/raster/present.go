package raster

import "github.com/pudnax/compaster/internal/compute"

// PresentMode selects the geometry the present pass synthesizes.
type PresentMode int

const (
	// PresentTriangle covers the viewport with a single oversized
	// clip-space triangle, three invocations.
	PresentTriangle PresentMode = iota
	// PresentQuad covers the viewport with a two-triangle quad, six
	// invocations.
	PresentQuad
)

func (m PresentMode) vertexCount() int {
	if m == PresentQuad {
		return 6
	}
	return 3
}

func (m PresentMode) String() string {
	if m == PresentQuad {
		return "quad"
	}
	return "triangle"
}

// fullscreenVertex derives clip-space position i of the synthesized
// full-viewport geometry from the invocation index alone, using only bit
// arithmetic. No buffer is read.
func fullscreenVertex(mode PresentMode, i int) (x, y float32) {
	if mode == PresentQuad {
		// Square corners for triangles (0,1,2) and (3,4,5), one bit per
		// index: (0,0) (1,0) (0,1) / (0,1) (1,0) (1,1).
		const xBits, yBits int = 0b110010, 0b101100
		x = float32((xBits>>uint(i))&1)*2 - 1
		y = float32((yBits>>uint(i))&1)*2 - 1
		return x, y
	}
	x = float32((i<<1)&2)*2 - 1
	y = float32(i&2)*2 - 1
	return x, y
}

// PresentPass reads the color buffer and writes the display surface. It
// never mutates the color buffer.
type PresentPass struct {
	Mode PresentMode
}

// Run presents a frame into dst, a tightly packed RGBA8 surface of the bound
// screen size. Stage A synthesizes full-viewport geometry from invocation
// indices; stage B runs one unit per covered display pixel, flooring its
// position to a cell index and emitting that cell's color.
func (p PresentPass) Run(d *compute.Dispatcher, b *Bindings, dst []byte) {
	width, height := int(b.Screen.Width), int(b.Screen.Height)

	// Stage A: clip-space bounds of the synthesized geometry, clamped to
	// the viewport. Both variants cover the full rectangle by construction,
	// so this resolves to the whole surface.
	n := p.Mode.vertexCount()
	minX, minY := float32(1), float32(1)
	maxX, maxY := float32(-1), float32(-1)
	for i := 0; i < n; i++ {
		x, y := fullscreenVertex(p.Mode, i)
		minX = min(minX, x)
		minY = min(minY, y)
		maxX = max(maxX, x)
		maxY = max(maxY, y)
	}
	minX, minY = max(minX, -1), max(minY, -1)
	maxX, maxY = min(maxX, 1), min(maxY, 1)

	px0 := int((minX + 1) / 2 * float32(width))
	py0 := int((minY + 1) / 2 * float32(height))
	px1 := int((maxX + 1) / 2 * float32(width))
	py1 := int((maxY + 1) / 2 * float32(height))
	px1, py1 = min(px1, width), min(py1, height)

	spanX := px1 - px0
	spanY := py1 - py0
	if spanX <= 0 || spanY <= 0 {
		return
	}

	// Stage B: pure read of the color buffer, write-only on dst.
	buf := b.Color
	d.Dispatch(spanX*spanY, func(i int) {
		x := px0 + i%spanX
		y := py0 + i/spanX
		idx := x + y*width
		c := buf[idx]
		o := idx * 4
		dst[o+0] = channel8(c.R)
		dst[o+1] = channel8(c.G)
		dst[o+2] = channel8(c.B)
		dst[o+3] = 0xFF
	})
}

// channel8 converts a normalized channel to 8 bits, clamping out-of-range
// shade values.
func channel8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
