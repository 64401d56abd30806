package scene

import (
	"github.com/gogpu/logoscene/geometry"
	"github.com/gogpu/logoscene/material"
)

// Node is a mesh instance in the scene. The scene owns every node;
// only the node's Updater writes to it, once per frame.
type Node struct {
	Name      string
	Mesh      *geometry.Mesh
	Material  material.Material
	Transform Transform

	// ExcludeFromExport keeps the node out of GLB exports.
	ExcludeFromExport bool

	// Updater, if set, runs once per frame.
	Updater Updater
}
