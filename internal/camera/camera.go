// Package camera provides the orbit camera that feeds the raster pipeline.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pudnax/compaster/internal/raster"
)

const (
	zNear = 0.1
	zFar  = 100.0
	fovY  = float32(math.Pi / 2)

	minZoom = 0.3
	maxZoom = zFar / 2
)

// Camera orbits a target point at a zoom distance, oriented by pitch and
// yaw. The eye position is derived; mutate it through the Set/Add methods.
type Camera struct {
	Zoom   float32
	Pitch  float32
	Yaw    float32
	Target mgl32.Vec3
	Eye    mgl32.Vec3
	Up     mgl32.Vec3
	Aspect float32
}

// New creates an orbit camera and derives its eye position.
func New(zoom, pitch, yaw float32, target mgl32.Vec3, aspect float32) *Camera {
	c := &Camera{
		Zoom:   zoom,
		Pitch:  pitch,
		Yaw:    yaw,
		Target: target,
		Up:     mgl32.Vec3{0, 1, 0},
		Aspect: aspect,
	}
	c.update()
	return c
}

// ViewProjection returns the combined perspective and look-at transform.
func (c *Camera) ViewProjection() mgl32.Mat4 {
	view := mgl32.LookAtV(c.Eye, c.Target, c.Up)
	proj := mgl32.Perspective(fovY, c.Aspect, zNear, zFar)
	return proj.Mul4(view)
}

// Uniform snapshots the camera for one frame.
func (c *Camera) Uniform() raster.CameraUniform {
	return raster.CameraUniform{
		ViewPos:  mgl32.Vec4{c.Eye.X(), c.Eye.Y(), c.Eye.Z(), 1},
		ViewProj: c.ViewProjection(),
	}
}

func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, minZoom, maxZoom)
	c.update()
}

func (c *Camera) AddZoom(delta float32) {
	c.SetZoom(c.Zoom + delta)
}

// SetPitch clamps just short of the poles so the look-at basis stays
// well-defined.
func (c *Camera) SetPitch(pitch float32) {
	const limit = float32(math.Pi/2) - 1e-4
	c.Pitch = clamp(pitch, -limit, limit)
	c.update()
}

func (c *Camera) AddPitch(delta float32) {
	c.SetPitch(c.Pitch + delta)
}

func (c *Camera) SetYaw(yaw float32) {
	c.Yaw = yaw
	c.update()
}

func (c *Camera) AddYaw(delta float32) {
	c.SetYaw(c.Yaw + delta)
}

func (c *Camera) SetAspect(aspect float32) {
	c.Aspect = aspect
}

func (c *Camera) update() {
	sinYaw, cosYaw := sincos(c.Yaw)
	sinPitch, cosPitch := sincos(c.Pitch)
	c.Eye = c.Target.Add(mgl32.Vec3{
		sinYaw * cosPitch,
		sinPitch,
		cosYaw * cosPitch,
	}.Mul(c.Zoom))
}

func sincos(v float32) (float32, float32) {
	s, c := math.Sincos(float64(v))
	return float32(s), float32(c)
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
