package crust

import (
	"github.com/chazu/cheesemaker/pkg/geom"
	"github.com/chazu/cheesemaker/pkg/mesh"
)

// Generator produces a crust surface for a cloud. Implementations differ
// only in how they pick candidate triangles.
type Generator interface {
	Name() string
	Generate(points geom.Cloud) (*mesh.Surface, Stats)
}

// Compile-time interface checks.
var (
	_ Generator = BruteForce{}
	_ Generator = DelaunaySeeded{}
)

// BruteForce is the Generator form of BruteForceCrust.
type BruteForce struct {
	MaxEdge float64
	Options Options
}

// Name returns "brute".
func (BruteForce) Name() string { return "brute" }

// Generate runs BruteForceCrust.
func (g BruteForce) Generate(points geom.Cloud) (*mesh.Surface, Stats) {
	return BruteForceCrust(points, g.MaxEdge, g.Options)
}

// DelaunaySeeded is the Generator form of DelaunaySeededCrust.
type DelaunaySeeded struct {
	Cells   []geom.Tetra
	MaxEdge float64
	Options Options
}

// Name returns "delaunay".
func (DelaunaySeeded) Name() string { return "delaunay" }

// Generate runs DelaunaySeededCrust over the generator's cells.
func (g DelaunaySeeded) Generate(points geom.Cloud) (*mesh.Surface, Stats) {
	return DelaunaySeededCrust(g.Cells, points, g.MaxEdge, g.Options)
}
