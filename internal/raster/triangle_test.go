package raster

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pudnax/compaster/internal/compute"
)

var testBackground = Pixel{R: 0.25, G: 0.25, B: 0.25}

// renderTriangles clears to the test background and rasterizes verts on a
// w×h screen under the given camera.
func renderTriangles(t *testing.T, w, h int, cam CameraUniform, verts []Vertex) *Bindings {
	t.Helper()
	b := testBindings(w, h, verts)
	b.Camera = cam
	d := testDispatcher()
	ClearPass{Background: testBackground}.Run(d, b)
	RasterPass{}.Run(d, b)
	return b
}

func identCamera() CameraUniform {
	return CameraUniform{ViewProj: mgl32.Ident4()}
}

func TestProject(t *testing.T) {
	screen := ScreenUniform{Width: 100, Height: 100}
	cam := identCamera()

	x, y, w := Project(Vertex{X: 0.1, Y: 0.4, Z: 0}, &cam, screen)
	if x != 10 || y != 40 || w != 1 {
		t.Fatalf("Project = (%v, %v, %v), want (10, 40, 1)", x, y, w)
	}

	// A w-coordinate other than 1 divides x and y and is returned raw.
	cam.ViewProj = mgl32.Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 1,
		0, 0, 0, 0,
	}
	x, y, w = Project(Vertex{X: 0.2, Y: 0.4, Z: 2}, &cam, screen)
	if x != 10 || y != 20 || w != 2 {
		t.Fatalf("Project = (%v, %v, %v), want (10, 20, 2)", x, y, w)
	}
}

func TestContainment(t *testing.T) {
	// Projects near screen coordinates (10,10), (50,10), (30,40).
	verts := []Vertex{
		{X: 0.1, Y: 0.1},
		{X: 0.5, Y: 0.1},
		{X: 0.3, Y: 0.4},
	}
	cam := identCamera()
	b := renderTriangles(t, 100, 100, cam, verts)

	// The reference classifier feeds barycentric the same projected
	// coordinates the kernel used, so edge pixels classify identically.
	x0, y0, _ := Project(verts[0], &cam, b.Screen)
	x1, y1, _ := Project(verts[1], &cam, b.Screen)
	x2, y2, _ := Project(verts[2], &cam, b.Screen)
	inside := func(px, py float32) bool {
		b0, b1, b2 := barycentric(x0, y0, x1, y1, x2, y2, px, py)
		return b0 >= 0 && b1 >= 0 && b2 >= 0
	}

	// Interpolated w is 1 everywhere, so covered pixels hold a shade of 0
	// up to interpolation rounding.
	const eps = 1e-5
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			got := b.Color[x+y*100]
			if inside(float32(x), float32(y)) {
				if abs(got.R) > eps || abs(got.G) > eps || abs(got.B) > eps {
					t.Fatalf("pixel (%d,%d) = %+v, want shade near 0", x, y, got)
				}
			} else if got != testBackground {
				t.Fatalf("pixel (%d,%d) = %+v, want untouched background", x, y, got)
			}
		}
	}

	// Spot checks from the containment property.
	if b.Color[30+20*100] == testBackground {
		t.Error("interior pixel (30,20) was not written")
	}
	if b.Color[0] != testBackground {
		t.Error("outside pixel (0,0) was modified")
	}
}

func TestDegenerateTriangleWritesNothing(t *testing.T) {
	// Collinear: projects to (0,0), (10,10), (20,20).
	verts := []Vertex{
		{X: 0, Y: 0},
		{X: 0.1, Y: 0.1},
		{X: 0.2, Y: 0.2},
	}
	b := renderTriangles(t, 100, 100, identCamera(), verts)

	for i, p := range b.Color {
		if p != testBackground {
			t.Fatalf("pixel %d = %+v, degenerate triangle must contribute no pixels", i, p)
		}
	}
}

func TestNearCollinearTriangleWritesNothing(t *testing.T) {
	// Double area well under the degeneracy threshold but not exactly zero.
	b0, b1, b2 := barycentric(0, 0, 10, 10.0001, 20, 20, 10, 10)
	if b0 >= 0 && b1 >= 0 && b2 >= 0 {
		t.Fatalf("near-collinear barycentric = (%v, %v, %v), want a sentinel with a negative component", b0, b1, b2)
	}
}

func TestOffscreenTriangleRejectedWholesale(t *testing.T) {
	// One vertex projects to x = -5; the whole triangle is dropped even
	// though part of it covers the screen.
	verts := []Vertex{
		{X: -0.05, Y: 0.05},
		{X: 0.05, Y: 0.05},
		{X: 0.05, Y: -0.05},
	}
	b := renderTriangles(t, 100, 100, identCamera(), verts)

	for i, p := range b.Color {
		if p != testBackground {
			t.Fatalf("pixel %d = %+v, off-screen triangle must write nothing", i, p)
		}
	}
}

func TestBoundaryVertexStaysInBounds(t *testing.T) {
	// Vertices at exactly (100,100) pass rejection; the scan must clamp
	// instead of indexing past the buffer.
	verts := []Vertex{
		{X: 1.0, Y: 1.0},
		{X: 0.6, Y: 1.0},
		{X: 1.0, Y: 0.6},
	}
	b := renderTriangles(t, 100, 100, identCamera(), verts)

	if b.Color[90+90*100] == testBackground {
		t.Error("interior pixel (90,90) was not written")
	}
}

func TestShadeInterpolatesClipW(t *testing.T) {
	// clip.w = z with this matrix; all three vertices share z = 2, so the
	// interpolated w is 2 and the shade is 2 - 1 = 1 everywhere.
	cam := CameraUniform{ViewProj: mgl32.Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 1,
		0, 0, 0, 0,
	}}
	verts := []Vertex{
		{X: 0.2, Y: 0.2, Z: 2},
		{X: 1.0, Y: 0.2, Z: 2},
		{X: 0.6, Y: 0.8, Z: 2},
	}
	b := renderTriangles(t, 100, 100, cam, verts)

	got := b.Color[30+20*100]
	if abs(got.R-1) > 1e-5 || abs(got.G-1) > 1e-5 || abs(got.B-1) > 1e-5 {
		t.Fatalf("pixel (30,20) = %+v, want shade near 1", got)
	}
}

func TestOverlapRaceYieldsCandidateShade(t *testing.T) {
	// Two triangles cover pixel (30,20) with shades 0 and 1. Which write
	// survives is unspecified; the result must be a member of the
	// candidate set, not a blend.
	cam := CameraUniform{ViewProj: mgl32.Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 1,
		0, 0, 0, 0,
	}}
	verts := []Vertex{
		// shade 0: z = 1, projects to (10,10) (50,10) (30,40)
		{X: 0.1, Y: 0.1, Z: 1},
		{X: 0.5, Y: 0.1, Z: 1},
		{X: 0.3, Y: 0.4, Z: 1},
		// shade 1: z = 2, projects to the same screen triangle
		{X: 0.2, Y: 0.2, Z: 2},
		{X: 1.0, Y: 0.2, Z: 2},
		{X: 0.6, Y: 0.8, Z: 2},
	}

	// One triangle per workgroup so the two units really do run
	// concurrently.
	d := compute.NewDispatcher(1, 4)
	for run := 0; run < 25; run++ {
		b := testBindings(100, 100, verts)
		b.Camera = cam
		ClearPass{Background: testBackground}.Run(d, b)
		RasterPass{}.Run(d, b)
		got := b.Color[30+20*100]
		for _, c := range []float32{got.R, got.G, got.B} {
			if abs(c) > 1e-5 && abs(c-1) > 1e-5 {
				t.Fatalf("run %d: overlapped channel = %v, want a member of {0, 1}", run, c)
			}
		}
	}
}
