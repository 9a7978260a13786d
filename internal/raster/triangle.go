package raster

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pudnax/compaster/internal/compute"
)

// shadeBias is subtracted from the interpolated clip-w term to produce the
// grayscale shade. An ad hoc tuning value with no physical-lighting meaning.
const shadeBias = 1.0

// degenerateArea is the |signed double area| below which a triangle counts
// as collinear and contributes no pixels.
const degenerateArea = 1.0

// Project transforms an object-space vertex to screen space: clip-space
// transform, perspective divide of x and y, then scale by the screen extent.
// The returned w is the raw clip-space w component, which the raster kernel
// reuses as its shading value. It is not a true depth.
func Project(v Vertex, cam *CameraUniform, screen ScreenUniform) (x, y, w float32) {
	clip := cam.ViewProj.Mul4x1(mgl32.Vec4{v.X, v.Y, v.Z, 1})
	w = clip.W()
	x = clip.X() / w * screen.Width
	y = clip.Y() / w * screen.Height
	return x, y, w
}

// barycentric returns the weights of point p relative to the screen-space
// triangle (a, b, c), using the standard 2D cross-product form. A triangle
// whose double area falls under degenerateArea yields sentinel coordinates
// with a negative component, so every point tests outside.
func barycentric(ax, ay, bx, by, cx, cy, px, py float32) (b0, b1, b2 float32) {
	area := (by-cy)*(ax-cx) + (cx-bx)*(ay-cy)
	if area > -degenerateArea && area < degenerateArea {
		return -1, 1, 1
	}
	inv := 1 / area
	b0 = ((by-cy)*(px-cx) + (cx-bx)*(py-cy)) * inv
	b1 = ((cy-ay)*(px-cx) + (ax-cx)*(py-cy)) * inv
	b2 = 1 - b0 - b1
	return b0, b1, b2
}

// RasterPass projects and scan-converts triangles into the color buffer.
type RasterPass struct{}

// Run dispatches one unit of work per triangle index i, consuming vertices
// [3i, 3i+3). Concurrent units may target the same cell with no mutual
// exclusion and no depth test: the surviving color is whichever write lands
// last in an unspecified order.
func (RasterPass) Run(d *compute.Dispatcher, b *Bindings) {
	d.Dispatch(len(b.Vertices)/3, func(t int) {
		rasterTriangle(b, t)
	})
}

// rasterTriangle is the hot path: project, reject, then test every pixel in
// the screen-space bounding box.
func rasterTriangle(b *Bindings, t int) {
	v := b.Vertices[3*t : 3*t+3]
	x0, y0, w0 := Project(v[0], &b.Camera, b.Screen)
	x1, y1, w1 := Project(v[1], &b.Camera, b.Screen)
	x2, y2, w2 := Project(v[2], &b.Camera, b.Screen)

	// Off-screen rejection: one vertex outside the screen rectangle drops
	// the whole triangle. No partial clipping.
	sw, sh := b.Screen.Width, b.Screen.Height
	if x0 < 0 || x0 > sw || y0 < 0 || y0 > sh ||
		x1 < 0 || x1 > sw || y1 < 0 || y1 > sh ||
		x2 < 0 || x2 > sw || y2 < 0 || y2 > sh {
		return
	}

	width, height := int(sw), int(sh)
	minX := int(min(x0, x1, x2))
	maxX := int(max(x0, x1, x2))
	minY := int(min(y0, y1, y2))
	maxY := int(max(y0, y1, y2))

	// Vertices at exactly x == width or y == height pass rejection but
	// would index one past the buffer; clamp the scan to the cell grid.
	if minX < 0 {
		minX = 0
	}
	if maxX > width-1 {
		maxX = width - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY > height-1 {
		maxY = height - 1
	}

	for sy := minY; sy <= maxY; sy++ {
		fy := float32(sy)
		rowOff := sy * width
		for sx := minX; sx <= maxX; sx++ {
			b0, b1, b2 := barycentric(x0, y0, x1, y1, x2, y2, float32(sx), fy)
			if b0 < 0 || b1 < 0 || b2 < 0 {
				// No fill-rule tie-breaking on shared edges; a pixel
				// exactly on an edge between adjacent triangles may be
				// double-written or left empty.
				continue
			}
			shade := b0*w0 + b1*w1 + b2*w2 - shadeBias
			b.Color[rowOff+sx] = Pixel{shade, shade, shade}
		}
	}
}
