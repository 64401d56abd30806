package geometry

import (
	"math"
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const epsilon = 1e-9

func TestSphere_Counts(t *testing.T) {
	tests := []struct {
		name       string
		s          Sphere
		wantVerts  int
		wantIndice int
	}{
		{"background", Sphere{Radius: 1, WidthSegments: 64, HeightSegments: 64}, 65 * 65, 6 * 64 * 63},
		{"droplet", Sphere{Radius: 0.2, WidthSegments: 64, HeightSegments: 64}, 65 * 65, 6 * 64 * 63},
		{"coarse", Sphere{Radius: 2, WidthSegments: 8, HeightSegments: 4}, 9 * 5, 6 * 8 * 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.s.Build()
			if len(m.Positions) != tt.wantVerts || len(m.Normals) != tt.wantVerts {
				t.Errorf("vertices = %d/%d, want %d", len(m.Positions), len(m.Normals), tt.wantVerts)
			}
			if len(m.Indices) != tt.wantIndice {
				t.Errorf("indices = %d, want %d", len(m.Indices), tt.wantIndice)
			}
		})
	}
}

func TestSphere_OnSurface(t *testing.T) {
	m := Sphere{Radius: 0.2, WidthSegments: 16, HeightSegments: 8}.Build()
	for i, p := range m.Positions {
		if math.Abs(p.Len()-0.2) > epsilon {
			t.Fatalf("vertex %d at distance %v, want 0.2", i, p.Len())
		}
		if math.Abs(m.Normals[i].Len()-1) > epsilon {
			t.Fatalf("normal %d not unit: %v", i, m.Normals[i])
		}
	}
	if top := m.Positions[0]; math.Abs(top.Y()-0.2) > epsilon {
		t.Errorf("first row should be the +Y pole, got %v", top)
	}
}

func TestSphere_WindingFacesOutward(t *testing.T) {
	m := Sphere{Radius: 1, WidthSegments: 12, HeightSegments: 6}.Build()
	for i := 0; i < len(m.Indices); i += 3 {
		a, b, c := m.Positions[m.Indices[i]], m.Positions[m.Indices[i+1]], m.Positions[m.Indices[i+2]]
		n := b.Sub(a).Cross(c.Sub(a))
		centroid := a.Add(b).Add(c).Mul(1.0 / 3)
		if n.Dot(centroid) <= 0 {
			t.Fatalf("triangle %d winds inward", i/3)
		}
	}
}

func TestTorusKnot_Counts(t *testing.T) {
	m := LogoKnot.Build()
	wantVerts := (420 + 1) * (69 + 1)
	if len(m.Positions) != wantVerts {
		t.Errorf("vertices = %d, want %d", len(m.Positions), wantVerts)
	}
	if len(m.Indices) != 6*420*69 {
		t.Errorf("indices = %d, want %d", len(m.Indices), 6*420*69)
	}
	if m.TriangleCount() != 2*420*69 {
		t.Errorf("TriangleCount() = %d", m.TriangleCount())
	}
}

func TestTorusKnot_TubeRadius(t *testing.T) {
	k := TorusKnot{Radius: 1, Tube: 0.1, TubularSegments: 32, RadialSegments: 8, P: 2, Q: 3}
	m := k.Build()
	row := k.RadialSegments + 1
	for i := 0; i <= k.TubularSegments; i++ {
		u := float64(i) / float64(k.TubularSegments) * float64(k.P) * math.Pi * 2
		center := k.curve(u)
		for j := 0; j < row; j++ {
			p := m.Positions[i*row+j]
			if d := p.Sub(center).Len(); math.Abs(d-k.Tube) > 1e-6 {
				t.Fatalf("ring %d vertex %d at %v from center, want %v", i, j, d, k.Tube)
			}
		}
	}
}

func TestTorusKnot_Bounds(t *testing.T) {
	lo, hi := LogoKnot.Build().Bounds()
	// The center line reaches radius*(2+1)*0.5 = 1.5*radius in XY.
	maxXY := 1.5*LogoKnot.Radius + LogoKnot.Tube
	if hi.X() > maxXY+epsilon || lo.X() < -maxXY-epsilon {
		t.Errorf("x bounds [%v, %v] exceed %v", lo.X(), hi.X(), maxXY)
	}
	maxZ := 0.5*LogoKnot.Radius + LogoKnot.Tube
	if hi.Z() > maxZ+epsilon || lo.Z() < -maxZ-epsilon {
		t.Errorf("z bounds [%v, %v] exceed %v", lo.Z(), hi.Z(), maxZ)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		spec    Spec
		wantErr bool
	}{
		{"logo knot", LogoKnot, false},
		{"sphere", Sphere{Radius: 1, WidthSegments: 64, HeightSegments: 64}, false},
		{"zero radius", Sphere{Radius: 0, WidthSegments: 8, HeightSegments: 8}, true},
		{"too few segments", Sphere{Radius: 1, WidthSegments: 2, HeightSegments: 8}, true},
		{"knot zero tube", TorusKnot{Radius: 1, TubularSegments: 8, RadialSegments: 8, P: 2, Q: 3}, true},
		{"knot zero p", TorusKnot{Radius: 1, Tube: 0.1, TubularSegments: 8, RadialSegments: 8, Q: 3}, true},
		{"knot negative segments", TorusKnot{Radius: 1, Tube: 0.1, TubularSegments: -1, RadialSegments: 8, P: 2, Q: 3}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.spec.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCache_GetOrBuild(t *testing.T) {
	c := NewCache(2)
	s := Sphere{Radius: 1, WidthSegments: 8, HeightSegments: 4}

	m1 := c.Get(s)
	m2 := c.Get(s)
	if m1 != m2 {
		t.Error("same spec should return the same mesh")
	}
	if hits, misses := c.Stats(); hits != 1 || misses != 1 {
		t.Errorf("Stats() = %d hits, %d misses, want 1, 1", hits, misses)
	}

	other := c.Get(Sphere{Radius: 2, WidthSegments: 8, HeightSegments: 4})
	if other == m1 {
		t.Error("different specs should not share a mesh")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestCache_Evicts(t *testing.T) {
	c := NewCache(1)
	for r := 1; r <= 40; r++ {
		c.Get(Sphere{Radius: float64(r), WidthSegments: 3, HeightSegments: 2})
	}
	if c.Len() > shardCount {
		t.Errorf("Len() = %d, want at most %d", c.Len(), shardCount)
	}
}

func TestCache_Concurrent(t *testing.T) {
	c := NewCache(0)
	s := Sphere{Radius: 1, WidthSegments: 16, HeightSegments: 8}

	var wg sync.WaitGroup
	results := make([]*Mesh, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = c.Get(s)
		}()
	}
	wg.Wait()

	for i, m := range results {
		if m != results[0] {
			t.Fatalf("goroutine %d got a different mesh", i)
		}
	}
	if _, misses := c.Stats(); misses != 1 {
		t.Errorf("misses = %d, want 1", misses)
	}
}

func TestMesh_BoundsEmpty(t *testing.T) {
	lo, hi := (&Mesh{}).Bounds()
	if lo != (mgl64.Vec3{}) || hi != (mgl64.Vec3{}) {
		t.Errorf("empty Bounds() = %v %v", lo, hi)
	}
}
