// Package scene composes the logo scene: nodes with meshes and
// materials, lights, an image-based environment, a camera with orbit
// controls, and the per-frame update phase that animates the logo and
// the background.
package scene

import (
	"github.com/gogpu/logoscene"
	"github.com/gogpu/logoscene/material"
)

// Node names used by Build.
const (
	BackgroundName = "background"
	LogoName       = "logo"
	DropletName    = "droplet"
)

// Scene is the root of the scene graph. It owns all nodes.
//
// A Scene is not safe for concurrent mutation: Advance must not run at
// the same time as a render or an export snapshot of the same scene.
type Scene struct {
	Nodes    []*Node
	Camera   *Camera
	Controls *OrbitControls

	Ambient      logoscene.RGBA
	Lights       []material.PointLight
	Environment  *Environment
	EnvIntensity float64

	elapsed float64
	frames  uint64
}

// Node returns the node with the given name, or nil.
func (s *Scene) Node(name string) *Node {
	for _, n := range s.Nodes {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// Lighting returns the shading inputs shared by every material.
func (s *Scene) Lighting() *material.Lighting {
	l := &material.Lighting{
		Ambient:      s.Ambient,
		Points:       s.Lights,
		EnvIntensity: s.EnvIntensity,
	}
	if s.Environment != nil {
		l.Env = s.Environment
	}
	return l
}

// Advance runs the update phase for one frame: every node's Updater is
// called once, in node order, with the elapsed time delta (seconds) and
// the current pointer. It returns the frame it ran.
func (s *Scene) Advance(delta float64, p Pointer) Frame {
	if delta < 0 {
		delta = 0
	}
	s.elapsed += delta
	f := Frame{Delta: delta, Elapsed: s.elapsed, Index: s.frames, Pointer: p}
	s.frames++
	for _, n := range s.Nodes {
		if n.Updater != nil {
			n.Updater.Update(f, n)
		}
	}
	return f
}

// Elapsed returns the total animated time in seconds.
func (s *Scene) Elapsed() float64 { return s.elapsed }

// Frames returns the number of update phases run.
func (s *Scene) Frames() uint64 { return s.frames }
