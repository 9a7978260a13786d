package raster

import "github.com/pudnax/compaster/internal/compute"

// LinePass overlays line segments on the color buffer after rasterization.
// Segments are consecutive vertex pairs; they share the raster kernel's
// projection and its wholesale off-screen rejection.
type LinePass struct {
	Color Pixel
}

// Run dispatches one unit of work per segment. Segment units contend on the
// color buffer the same way triangle units do.
func (p LinePass) Run(d *compute.Dispatcher, b *Bindings, segments []Vertex) {
	d.Dispatch(len(segments)/2, func(s int) {
		p.drawSegment(b, segments[2*s], segments[2*s+1])
	})
}

func (p LinePass) drawSegment(b *Bindings, va, vb Vertex) {
	x0, y0, _ := Project(va, &b.Camera, b.Screen)
	x1, y1, _ := Project(vb, &b.Camera, b.Screen)

	sw, sh := b.Screen.Width, b.Screen.Height
	if x0 < 0 || x0 > sw || y0 < 0 || y0 > sh ||
		x1 < 0 || x1 > sw || y1 < 0 || y1 > sh {
		return
	}

	width, height := int(sw), int(sh)
	dx, dy := x1-x0, y1-y0
	steps := int(max(abs(dx), abs(dy))) + 1

	// DDA stepping; the step count bounds the loop, so every unit
	// terminates.
	sx := dx / float32(steps)
	sy := dy / float32(steps)
	x, y := x0, y0
	for i := 0; i <= steps; i++ {
		px, py := int(x), int(y)
		if px >= 0 && px < width && py >= 0 && py < height {
			b.Color[px+py*width] = p.Color
		}
		x += sx
		y += sy
	}
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
