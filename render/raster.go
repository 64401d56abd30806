package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gogpu/logoscene/internal/parallel"
	"github.com/gogpu/logoscene/material"
	"github.com/gogpu/logoscene/scene"
)

// vertex is a mesh vertex after the vertex stage.
type vertex struct {
	clip   mgl64.Vec4
	world  mgl64.Vec3
	local  mgl64.Vec3
	normal mgl64.Vec3

	// Screen position (pixels, Y down), NDC depth and 1/w. Only valid
	// for vertices in front of the near plane.
	sx, sy, sz, invW float64
}

// nearDist is the signed distance to the GL near plane (z = -w);
// non-negative is visible.
func (v *vertex) nearDist() float64 { return v.clip.Z() + v.clip.W() }

func (v *vertex) project(w, h int) {
	v.invW = 1 / v.clip.W()
	nx := v.clip.X() * v.invW
	ny := v.clip.Y() * v.invW
	v.sz = v.clip.Z() * v.invW
	v.sx = (nx*0.5 + 0.5) * float64(w)
	v.sy = (0.5 - ny*0.5) * float64(h)
}

func lerpVertex(a, b *vertex, t float64) vertex {
	return vertex{
		clip:   a.clip.Add(b.clip.Sub(a.clip).Mul(t)),
		world:  a.world.Add(b.world.Sub(a.world).Mul(t)),
		local:  a.local.Add(b.local.Sub(a.local).Mul(t)),
		normal: a.normal.Add(b.normal.Sub(a.normal).Mul(t)),
	}
}

// triangle is a screen-space triangle that survived clipping and culling.
type triangle struct {
	v     [3]int32
	node  int32
	front bool
	area  float64 // signed, in pixels²

	minX, maxX, minY, maxY int // inclusive pixel bounds
}

// batch is the geometry of one pass.
type batch struct {
	verts []vertex
	tris  []triangle
	nodes []*scene.Node
	// scale holds each node's largest axis scale.
	scale []float64
}

func (b *batch) reset(nodes []*scene.Node) {
	b.verts = b.verts[:0]
	b.tris = b.tris[:0]
	b.nodes = nodes
	b.scale = b.scale[:0]
	for _, n := range nodes {
		b.scale = append(b.scale, n.Transform.MaxScale())
	}
}

// add runs the vertex stage for nodes[ni] and appends its visible
// triangles.
func (b *batch) add(ni int, vp mgl64.Mat4, w, h int) {
	n := b.nodes[ni]
	mesh := n.Mesh
	if mesh == nil || n.Material == nil || len(mesh.Positions) == 0 {
		return
	}
	model := n.Transform.Matrix()
	normalMat := model.Mat3().Inv().Transpose()
	mvp := vp.Mul4(model)

	base := len(b.verts)
	for i, p := range mesh.Positions {
		v := vertex{
			clip:  mvp.Mul4x1(p.Vec4(1)),
			world: model.Mul4x1(p.Vec4(1)).Vec3(),
			local: p,
		}
		if i < len(mesh.Normals) {
			v.normal = normalMat.Mul3x1(mesh.Normals[i])
			if l := v.normal.Len(); l > 0 {
				v.normal = v.normal.Mul(1 / l)
			}
		}
		if v.nearDist() >= 0 && v.clip.W() > 0 {
			v.project(w, h)
		}
		b.verts = append(b.verts, v)
	}

	side := n.Material.Side()
	var poly [4]int32
	for t := 0; t+2 < len(mesh.Indices); t += 3 {
		i0 := int32(base) + int32(mesh.Indices[t])
		i1 := int32(base) + int32(mesh.Indices[t+1])
		i2 := int32(base) + int32(mesh.Indices[t+2])

		in0 := b.verts[i0].nearDist() >= 0
		in1 := b.verts[i1].nearDist() >= 0
		in2 := b.verts[i2].nearDist() >= 0
		switch {
		case in0 && in1 && in2:
			b.emit(ni, side, i0, i1, i2, w, h)
		case !in0 && !in1 && !in2:
			continue
		default:
			k := b.clipNear([3]int32{i0, i1, i2}, &poly, w, h)
			for j := 1; j+1 < k; j++ {
				b.emit(ni, side, poly[0], poly[j], poly[j+1], w, h)
			}
		}
	}
}

// clipNear clips a triangle against the near plane, appending the new
// vertices, and writes the resulting convex polygon (3 or 4 vertices)
// to out in the original winding order.
func (b *batch) clipNear(in [3]int32, out *[4]int32, w, h int) int {
	k := 0
	for i := range 3 {
		cur, next := in[i], in[(i+1)%3]
		dc, dn := b.verts[cur].nearDist(), b.verts[next].nearDist()
		if dc >= 0 {
			out[k] = cur
			k++
		}
		if (dc >= 0) != (dn >= 0) {
			t := dc / (dc - dn)
			v := lerpVertex(&b.verts[cur], &b.verts[next], t)
			// Land exactly on the plane so the vertex always projects.
			v.clip[2] = -v.clip[3]
			v.project(w, h)
			b.verts = append(b.verts, v)
			out[k] = int32(len(b.verts) - 1)
			k++
		}
	}
	return k
}

// emit culls and bounds a projected triangle and appends it.
func (b *batch) emit(ni int, side material.Side, i0, i1, i2 int32, w, h int) {
	a, c, d := &b.verts[i0], &b.verts[i1], &b.verts[i2]
	if a.sz > 1 && c.sz > 1 && d.sz > 1 {
		return // beyond the far plane
	}
	area := (c.sx-a.sx)*(d.sy-a.sy) - (d.sx-a.sx)*(c.sy-a.sy)
	if area == 0 || math.IsNaN(area) {
		return
	}
	// Screen Y points down, so counter-clockwise in NDC is negative here.
	front := area < 0
	if !side.Draws(front) {
		return
	}

	minX := int(math.Ceil(min(a.sx, c.sx, d.sx) - 0.5))
	maxX := int(math.Floor(max(a.sx, c.sx, d.sx) - 0.5))
	minY := int(math.Ceil(min(a.sy, c.sy, d.sy) - 0.5))
	maxY := int(math.Floor(max(a.sy, c.sy, d.sy) - 0.5))
	minX, minY = max(minX, 0), max(minY, 0)
	maxX, maxY = min(maxX, w-1), min(maxY, h-1)
	if minX > maxX || minY > maxY {
		return
	}
	b.tris = append(b.tris, triangle{
		v:     [3]int32{i0, i1, i2},
		node:  int32(ni),
		front: front,
		area:  area,
		minX:  minX, maxX: maxX, minY: minY, maxY: maxY,
	})
}

// gbuffer holds, per pixel, the nearest triangle and the
// perspective-correct barycentrics of its second and third vertex.
type gbuffer struct {
	depth  []float64
	tri    []int32
	b1, b2 []float64
}

func (g *gbuffer) resize(n int) {
	if cap(g.depth) < n {
		g.depth = make([]float64, n)
		g.tri = make([]int32, n)
		g.b1 = make([]float64, n)
		g.b2 = make([]float64, n)
	}
	g.depth, g.tri, g.b1, g.b2 = g.depth[:n], g.tri[:n], g.b1[:n], g.b2[:n]
}

func (g *gbuffer) clearRows(band parallel.Band, w int) {
	for i := band.Y0 * w; i < band.Y1*w; i++ {
		g.depth[i] = math.Inf(1)
		g.tri[i] = -1
	}
}

// rasterize writes every triangle of b that covers rows of band into g.
// A fragment is kept when it is nearer than what g holds and, if limit
// is non-nil, nearer than limit at the same pixel.
func (b *batch) rasterize(band parallel.Band, g *gbuffer, limit []float64, w int) {
	for ti := range b.tris {
		t := &b.tris[ti]
		if t.maxY < band.Y0 || t.minY >= band.Y1 {
			continue
		}
		v0, v1, v2 := &b.verts[t.v[0]], &b.verts[t.v[1]], &b.verts[t.v[2]]
		inv := 1 / t.area
		y0, y1 := max(t.minY, band.Y0), min(t.maxY, band.Y1-1)

		for y := y0; y <= y1; y++ {
			py := float64(y) + 0.5
			row := y * w
			for x := t.minX; x <= t.maxX; x++ {
				px := float64(x) + 0.5
				l0 := ((v2.sx-v1.sx)*(py-v1.sy) - (v2.sy-v1.sy)*(px-v1.sx)) * inv
				l1 := ((v0.sx-v2.sx)*(py-v2.sy) - (v0.sy-v2.sy)*(px-v2.sx)) * inv
				l2 := 1 - l0 - l1
				if l0 < 0 || l1 < 0 || l2 < 0 {
					continue
				}
				z := l0*v0.sz + l1*v1.sz + l2*v2.sz
				if z < -1 || z > 1 {
					continue
				}
				i := row + x
				if z >= g.depth[i] || (limit != nil && z >= limit[i]) {
					continue
				}
				q0, q1, q2 := l0*v0.invW, l1*v1.invW, l2*v2.invW
				s := q0 + q1 + q2
				g.depth[i] = z
				g.tri[i] = int32(ti)
				g.b1[i] = q1 / s
				g.b2[i] = q2 / s
			}
		}
	}
}

// surface reconstructs the shading inputs of pixel i from g.
func (b *batch) surface(g *gbuffer, i int, eye mgl64.Vec3, s *material.Surface) (node int32) {
	t := &b.tris[g.tri[i]]
	v0, v1, v2 := &b.verts[t.v[0]], &b.verts[t.v[1]], &b.verts[t.v[2]]
	w1, w2 := g.b1[i], g.b2[i]
	w0 := 1 - w1 - w2

	interp := func(a, c, d mgl64.Vec3) mgl64.Vec3 {
		return a.Mul(w0).Add(c.Mul(w1)).Add(d.Mul(w2))
	}
	s.Position = interp(v0.world, v1.world, v2.world)
	s.Local = interp(v0.local, v1.local, v2.local)
	n := interp(v0.normal, v1.normal, v2.normal)
	if l := n.Len(); l > 0 {
		n = n.Mul(1 / l)
	}
	if !t.front {
		n = n.Mul(-1)
	}
	s.Normal = n
	s.Eye = eye
	s.View = eye.Sub(s.Position)
	if l := s.View.Len(); l > 0 {
		s.View = s.View.Mul(1 / l)
	}
	s.Scale = b.scale[t.node]
	return t.node
}
