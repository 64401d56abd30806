// Package logoscene renders a small decorative 3D scene in pure Go.
//
// # Overview
//
// The scene is a rotating torus-knot logo with a layered, blend-mode
// material. It sits inside a large inverted background sphere, next to a
// transmissive droplet at the origin, and is lit by two point lights, an
// ambient light and a procedural image-based environment. A perspective
// camera with zoom-disabled orbit controls looks at the origin.
//
// The root package holds the shared primitives: [RGBA] colors, the
// [Palette], the [Pixmap] frame buffer and the package logger.
//
// # Architecture
//
//   - geometry: sphere and torus-knot meshes plus a mesh cache
//   - material: layered material stack (Base, Depth, Fresnel), physical
//     transmissive material, flat export material
//   - scene: nodes, transforms, camera, orbit controls, lights,
//     environment presets, per-frame updaters and composition
//   - render: CPU rasterizer with z-buffer, side culling, deferred
//     shading and a screen-space transmission pass
//   - export: GLB export of the flat-material scene variant
//   - config: TOML configuration and variants
//   - cmd/logoscene: windowed viewer and headless frame renderer
//
// # Quick Start
//
//	s, err := scene.Build(scene.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	r := render.New(render.WithWorkers(4))
//	defer r.Close()
//
//	pm := logoscene.NewPixmap(800, 600)
//	s.Advance(1.0/60, scene.Pointer{})
//	if err := r.Render(s, pm); err != nil {
//	    log.Fatal(err)
//	}
//	_ = pm.SavePNG("frame.png")
//
// # Coordinate System
//
// World space is right-handed with Y up. Screen space has the origin at
// the top-left with Y down. Pointer input is given in normalized device
// coordinates with Y up, both axes in [-1, 1].
package logoscene

// Version is the current version of the module.
const Version = "0.1.0"
