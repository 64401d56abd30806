// Package render draws a scene.Scene into a logoscene.Pixmap with a CPU
// rasterizer.
//
// # Pipeline
//
// Each frame runs in three band-parallel passes over the internal
// (pixel ratio scaled) frame:
//
//  1. Opaque pass: vertices are transformed by the node's T·R·S model
//     matrix and the camera, triangles are clipped against the near plane,
//     culled by the material Side (counter-clockwise is front), and
//     rasterized into a G-buffer with a depth test. Every covered pixel is
//     then shaded once.
//  2. Transmission pass: transmissive materials are rasterized against
//     the opaque depth and see the opaque frame through a Backdrop, blurred
//     by roughness.
//  3. Resolve: the frame is resampled to the target size and the optional
//     HUD is drawn on top.
//
// Bands are disjoint row ranges, so no two workers touch the same pixel.
//
// # Usage
//
//	r := render.New(render.WithWorkers(4), render.WithDPR(1, 2))
//	defer r.Close()
//
//	pm := logoscene.NewPixmap(800, 600)
//	if err := r.Render(s, pm); err != nil {
//		return err
//	}
package render
