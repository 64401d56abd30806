package material

import (
	"math"

	"github.com/gogpu/logoscene"
)

// Physical is a metallic-roughness material with optional transmission.
// Transmission is screen space: the refracted ray is marched Thickness
// (scaled by the node scale) through the object and the backdrop is
// sampled where it exits.
type Physical struct {
	Name         string
	Color        logoscene.RGBA
	Metalness    float64
	Roughness    float64
	Transmission float64
	Thickness    float64
	IOR          float64
}

// NewPhysical returns a white dielectric with IOR 1.5 and roughness 1.
func NewPhysical(name string) *Physical {
	return &Physical{Name: name, Color: logoscene.White, Roughness: 1, IOR: 1.5}
}

// Side implements Material.
func (p *Physical) Side() Side { return SideFront }

// Transmissive implements Transmitter.
func (p *Physical) Transmissive() bool { return p.Transmission > 0 }

// Flat implements Flattener.
func (p *Physical) Flat() *Flat { return &Flat{Name: p.Name, Color: p.Color} }

// Shade implements Material.
func (p *Physical) Shade(s *Surface) logoscene.RGBA {
	n, v := s.Normal, s.View
	ndv := math.Max(n.Dot(v), 1e-4)
	rough := math.Max(p.Roughness, 0.04)
	alpha := rough * rough

	ior := p.IOR
	if ior <= 0 {
		ior = 1.5
	}
	f0 := (ior - 1) / (ior + 1)
	f0 *= f0
	specColor := logoscene.RGB(f0, f0, f0).Lerp(p.Color, p.Metalness)
	fv := schlick(specColor, ndv)

	diffuseWeight := (1 - p.Metalness) * (1 - p.Transmission)
	out := logoscene.RGBA{A: 1}

	if lt := s.Lighting; lt != nil {
		out = out.Add(p.Color.Mul(lt.Ambient).Scale(diffuseWeight))
		for _, pl := range lt.Points {
			l, radiance := pl.Radiance(s.Position)
			ndl := n.Dot(l)
			if ndl <= 0 {
				continue
			}
			h := l.Add(v).Normalize()
			ndh := math.Max(n.Dot(h), 0)
			vdh := math.Max(v.Dot(h), 0)

			f := schlick(specColor, vdh)
			spec := ggx(ndh, alpha) * smithG(ndv, ndl, alpha) / (4 * ndv * ndl)
			direct := p.Color.Scale(diffuseWeight / math.Pi).Add(f.Scale(spec))
			out = out.Add(direct.Mul(radiance).Scale(ndl * math.Pi))
		}
		if lt.Env != nil {
			r := reflect(v.Mul(-1), n)
			env := lt.Env.Sample(r).Scale(lt.EnvIntensity * (1 - 0.5*rough))
			out = out.Add(env.Mul(fv))
		}
	}

	if p.Transmission > 0 {
		t := p.transmitted(s, ior)
		w := p.Transmission * (1 - p.Metalness)
		out = out.Add(t.Mul(p.Color).Scale(w).Mul(logoscene.RGB(1-fv.R, 1-fv.G, 1-fv.B)))
	}

	out.A = 1
	return out.Clamp()
}

// transmitted samples the light arriving through the object.
func (p *Physical) transmitted(s *Surface, ior float64) logoscene.RGBA {
	dir := refract(s.View.Mul(-1), s.Normal, 1/ior)
	scale := s.Scale
	if scale == 0 {
		scale = 1
	}
	exit := s.Position.Add(dir.Normalize().Mul(p.Thickness * scale))
	if s.Backdrop != nil {
		if c, ok := s.Backdrop.Sample(exit, p.Roughness*clamp01(ior*2-2)); ok {
			return c
		}
	}
	if s.Lighting != nil && s.Lighting.Env != nil {
		return s.Lighting.Env.Sample(dir)
	}
	return logoscene.Black
}

func schlick(f0 logoscene.RGBA, cos float64) logoscene.RGBA {
	k := math.Pow(1-clamp01(cos), 5)
	return logoscene.RGBA{
		R: f0.R + (1-f0.R)*k,
		G: f0.G + (1-f0.G)*k,
		B: f0.B + (1-f0.B)*k,
		A: 1,
	}
}

// ggx is the Trowbridge-Reitz normal distribution.
func ggx(ndh, alpha float64) float64 {
	a2 := alpha * alpha
	d := ndh*ndh*(a2-1) + 1
	return a2 / (math.Pi * d * d)
}

// smithG is the Schlick-GGX geometry term for both directions.
func smithG(ndv, ndl, alpha float64) float64 {
	k := alpha / 2
	return (ndv / (ndv*(1-k) + k)) * (ndl / (ndl*(1-k) + k))
}
