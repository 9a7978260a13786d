// Package model builds position-only vertex buffers for the raster pipeline.
package model

import (
	"fmt"
	"os"

	"github.com/g3n/engine/loader/obj"

	"github.com/pudnax/compaster/internal/raster"
)

// Load resolves a model reference: the built-in names "triangle" and "cube",
// or a Wavefront OBJ path, normalized to the built-in framing.
func Load(name string) ([]raster.Vertex, error) {
	switch name {
	case "triangle":
		return Triangle(), nil
	case "cube":
		return Cube(), nil
	}
	verts, err := LoadOBJ(name)
	if err != nil {
		return nil, err
	}
	Normalize(verts)
	return verts, nil
}

// Triangle returns the minimal one-triangle test mesh.
func Triangle() []raster.Vertex {
	return []raster.Vertex{
		{X: 0, Y: 0.5, Z: 0},
		{X: -0.5, Y: 0, Z: 0},
		{X: 0.5, Y: 0, Z: 0},
	}
}

// cube corners, ±1 on every axis.
var cubeCorners = [8]raster.Vertex{
	{X: -1, Y: -1, Z: -1},
	{X: 1, Y: -1, Z: -1},
	{X: 1, Y: 1, Z: -1},
	{X: -1, Y: 1, Z: -1},
	{X: -1, Y: -1, Z: 1},
	{X: 1, Y: -1, Z: 1},
	{X: 1, Y: 1, Z: 1},
	{X: -1, Y: 1, Z: 1},
}

// two triangles per face, counter-clockwise seen from outside.
var cubeIndices = [36]int{
	0, 2, 1, 0, 3, 2, // back
	4, 5, 6, 4, 6, 7, // front
	0, 4, 7, 0, 7, 3, // left
	1, 2, 6, 1, 6, 5, // right
	0, 1, 5, 0, 5, 4, // bottom
	3, 7, 6, 3, 6, 2, // top
}

// Cube returns the twelve-triangle unit cube spanning [-1, 1] on each axis.
func Cube() []raster.Vertex {
	verts := make([]raster.Vertex, len(cubeIndices))
	for i, ci := range cubeIndices {
		verts[i] = cubeCorners[ci]
	}
	return verts
}

// CubeEdges returns the top and bottom rim edges of the unit cube as segment
// pairs, for the wireframe overlay.
func CubeEdges() []raster.Vertex {
	v := func(x, y, z float32) raster.Vertex { return raster.Vertex{X: x, Y: y, Z: z} }
	return []raster.Vertex{
		v(-1, -1, -1), v(1, -1, -1),
		v(-1, -1, -1), v(-1, -1, 1),
		v(-1, -1, 1), v(1, -1, 1),
		v(1, -1, 1), v(1, -1, -1),
		v(-1, 1, -1), v(1, 1, -1),
		v(-1, 1, -1), v(-1, 1, 1),
		v(-1, 1, 1), v(1, 1, 1),
		v(1, 1, 1), v(1, 1, -1),
	}
}

// LoadOBJ reads a Wavefront OBJ file and returns a flat vertex buffer, fan-
// triangulating any polygonal faces. The result length is always a multiple
// of 3.
func LoadOBJ(path string) ([]raster.Vertex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("model: open %s: %w", path, err)
	}
	defer f.Close()

	dec, err := obj.DecodeReader(f, nil)
	if err != nil {
		return nil, fmt.Errorf("model: decode %s: %w", path, err)
	}

	at := func(vi int) raster.Vertex {
		return raster.Vertex{
			X: dec.Vertices[vi*3],
			Y: dec.Vertices[vi*3+1],
			Z: dec.Vertices[vi*3+2],
		}
	}

	var verts []raster.Vertex
	for _, o := range dec.Objects {
		for _, face := range o.Faces {
			for i := 2; i < len(face.Vertices); i++ {
				verts = append(verts,
					at(face.Vertices[0]),
					at(face.Vertices[i-1]),
					at(face.Vertices[i]))
			}
		}
	}
	if len(verts) == 0 {
		return nil, fmt.Errorf("model: %s contains no faces", path)
	}
	return verts, nil
}

// Normalize recenters the mesh on the origin and scales its largest span to
// 2 units, in place, so arbitrary OBJ input frames like the built-in cube.
func Normalize(verts []raster.Vertex) {
	if len(verts) == 0 {
		return
	}
	mn := [3]float32{verts[0].X, verts[0].Y, verts[0].Z}
	mx := mn
	for _, v := range verts {
		p := [3]float32{v.X, v.Y, v.Z}
		for k := 0; k < 3; k++ {
			mn[k] = min(mn[k], p[k])
			mx[k] = max(mx[k], p[k])
		}
	}

	center := [3]float32{
		(mn[0] + mx[0]) / 2,
		(mn[1] + mx[1]) / 2,
		(mn[2] + mx[2]) / 2,
	}
	span := max(mx[0]-mn[0], mx[1]-mn[1], mx[2]-mn[2])
	if span < 1e-6 {
		span = 1e-6
	}
	scale := 2 / span

	for i := range verts {
		verts[i].X = (verts[i].X - center[0]) * scale
		verts[i].Y = (verts[i].Y - center[1]) * scale
		verts[i].Z = (verts[i].Z - center[2]) * scale
	}
}
