// Package geometry builds indexed triangle meshes for the scene: UV
// spheres and torus knots, tessellated the same way three.js does so
// that vertex layouts match the reference scene exactly.
package geometry

import "github.com/go-gl/mathgl/mgl64"

// Mesh is an indexed triangle mesh in object space.
// Triangles are counter-clockwise when seen from the outside.
// A Mesh is immutable once built and may be shared between nodes.
type Mesh struct {
	Name      string
	Positions []mgl64.Vec3
	Normals   []mgl64.Vec3
	Indices   []uint32
}

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Bounds returns the axis-aligned bounding box of the mesh.
func (m *Mesh) Bounds() (lo, hi mgl64.Vec3) {
	if len(m.Positions) == 0 {
		return mgl64.Vec3{}, mgl64.Vec3{}
	}
	lo, hi = m.Positions[0], m.Positions[0]
	for _, p := range m.Positions[1:] {
		for i := 0; i < 3; i++ {
			if p[i] < lo[i] {
				lo[i] = p[i]
			}
			if p[i] > hi[i] {
				hi[i] = p[i]
			}
		}
	}
	return lo, hi
}

// Spec describes a mesh by its generator parameters.
// It is comparable and serves as the cache key.
type Spec interface {
	Build() *Mesh
	Key() string
	Validate() error
}
