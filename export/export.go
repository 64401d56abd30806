// Package export writes the visible scene as a binary glTF (GLB) file.
//
// Exported nodes carry their flat material variant instead of the
// layered or transmissive material used on screen, and nodes marked
// ExcludeFromExport (the background) are left out. Exporting only reads
// the scene: it keeps no state between calls and may run any number of
// times.
package export

import (
	"bytes"
	"fmt"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gogpu/logoscene"
	"github.com/gogpu/logoscene/geometry"
	"github.com/gogpu/logoscene/material"
	"github.com/gogpu/logoscene/scene"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// Filename is the name every export is saved under.
const Filename = "scene.glb"

// nodeSnapshot is the export view of one node at snapshot time.
type nodeSnapshot struct {
	name        string
	mesh        *geometry.Mesh // meshes are immutable once built
	flat        material.Flat
	translation mgl64.Vec3
	rotation    mgl64.Quat
	scale       mgl64.Vec3
}

// Snapshot is an immutable copy of the exportable part of a scene.
type Snapshot struct {
	nodes []nodeSnapshot
}

// Take copies the exportable nodes of s. It must run on the goroutine
// that advances s; the result may be encoded anywhere.
func Take(s *scene.Scene) *Snapshot {
	snap := &Snapshot{}
	for _, n := range s.Nodes {
		if n.ExcludeFromExport || n.Mesh == nil {
			continue
		}
		snap.nodes = append(snap.nodes, nodeSnapshot{
			name:        n.Name,
			mesh:        n.Mesh,
			flat:        *material.FlatVariant(n.Material),
			translation: n.Transform.Position,
			rotation:    n.Transform.Rotation.Quat(),
			scale:       n.Transform.Scale,
		})
	}
	return snap
}

// Len returns the number of nodes in the snapshot.
func (s *Snapshot) Len() int { return len(s.nodes) }

// Document builds a glTF document with one scene holding every node.
// Nodes that share a flat color share a material.
func (s *Snapshot) Document() *gltf.Document {
	doc := gltf.NewDocument()
	materials := make(map[string]int)

	for _, n := range s.nodes {
		key := n.flat.Color.Hex()
		mi, ok := materials[key]
		if !ok {
			mi = len(doc.Materials)
			materials[key] = mi
			c := n.flat.Color
			doc.Materials = append(doc.Materials, &gltf.Material{
				Name: "flat " + key,
				PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
					BaseColorFactor: &[4]float64{c.R, c.G, c.B, 1},
					MetallicFactor:  gltf.Float(0),
					RoughnessFactor: gltf.Float(1),
				},
			})
		}

		positions := make([][3]float32, len(n.mesh.Positions))
		for i, p := range n.mesh.Positions {
			positions[i] = [3]float32{float32(p[0]), float32(p[1]), float32(p[2])}
		}
		attrs := map[string]int{gltf.POSITION: modeler.WritePosition(doc, positions)}
		if len(n.mesh.Normals) == len(n.mesh.Positions) {
			normals := make([][3]float32, len(n.mesh.Normals))
			for i, v := range n.mesh.Normals {
				normals[i] = [3]float32{float32(v[0]), float32(v[1]), float32(v[2])}
			}
			attrs[gltf.NORMAL] = modeler.WriteNormal(doc, normals)
		}

		meshName := n.mesh.Name
		if meshName == "" {
			meshName = n.name
		}
		doc.Meshes = append(doc.Meshes, &gltf.Mesh{
			Name: meshName,
			Primitives: []*gltf.Primitive{{
				Attributes: attrs,
				Indices:    gltf.Index(modeler.WriteIndices(doc, n.mesh.Indices)),
				Material:   gltf.Index(mi),
			}},
		})

		q := n.rotation
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name:        n.name,
			Mesh:        gltf.Index(len(doc.Meshes) - 1),
			Translation: n.translation,
			Rotation:    [4]float64{q.V[0], q.V[1], q.V[2], q.W},
			Scale:       n.scale,
		})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
	}
	return doc
}

// Encode returns the snapshot as GLB bytes.
func (s *Snapshot) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := gltf.NewEncoder(&buf)
	enc.AsBinary = true
	if err := enc.Encode(s.Document()); err != nil {
		return nil, fmt.Errorf("export: encode glb: %w", err)
	}
	return buf.Bytes(), nil
}

// Encode snapshots s and returns it as GLB bytes.
func Encode(s *scene.Scene) ([]byte, error) {
	return Take(s).Encode()
}

// Exporter saves GLB snapshots of a scene to a Sink.
type Exporter struct {
	sink Sink

	// saved counts successful saves.
	saved atomic.Uint64
}

// New returns an exporter writing to sink.
func New(sink Sink) *Exporter {
	return &Exporter{sink: sink}
}

// Export snapshots, encodes and saves s, returning any error.
func (e *Exporter) Export(s *scene.Scene) error {
	return e.save(Take(s))
}

// Start snapshots s on the calling goroutine, then encodes and saves it
// in the background. Failures are logged and the save is skipped; they
// never reach the caller. The returned channel is closed when the
// background work is over, whether it succeeded or not.
func (e *Exporter) Start(s *scene.Scene) <-chan struct{} {
	snap := Take(s)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := e.save(snap); err != nil {
			logoscene.Logger().Warn("scene export skipped", "file", Filename, "err", err)
		}
	}()
	return done
}

// Saved returns the number of exports that reached the sink.
func (e *Exporter) Saved() uint64 { return e.saved.Load() }

func (e *Exporter) save(snap *Snapshot) error {
	data, err := snap.Encode()
	if err != nil {
		return err
	}
	if err := e.sink.Save(Filename, data); err != nil {
		return fmt.Errorf("export: save %s: %w", Filename, err)
	}
	e.saved.Add(1)
	logoscene.Logger().Info("scene exported", "file", Filename, "nodes", snap.Len(), "bytes", len(data))
	return nil
}
