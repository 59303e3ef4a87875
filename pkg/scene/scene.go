// Package scene defines the input model for crust extraction: a point
// cloud, optional tetrahedral cells indexing into it, and per-scene
// settings that override the tuning config.
package scene

import (
	"fmt"

	"github.com/chazu/cheesemaker/pkg/geom"
)

// Method selects the candidate generator.
type Method string

const (
	MethodAuto     Method = "auto"     // delaunay when cells are present, else brute
	MethodBrute    Method = "brute"    // all point triples
	MethodDelaunay Method = "delaunay" // faces of the supplied cells
)

// ParseMethod converts a method name into a Method. The empty string
// means MethodAuto.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case "", MethodAuto:
		return MethodAuto, nil
	case MethodBrute, MethodDelaunay:
		return Method(s), nil
	}
	return "", fmt.Errorf("unknown method %q, expected auto, brute or delaunay", s)
}

// Cell is a tetrahedron given by four indices into Scene.Points.
type Cell [4]int

// Settings are per-scene overrides. Zero values and nil pointers leave
// the configured value in place.
type Settings struct {
	Method      Method   `json:"method,omitempty"`
	MaxEdge     *float64 `json:"maxEdge,omitempty"`
	Mode        string   `json:"mode,omitempty"`
	Offset      string   `json:"offset,omitempty"`
	Distance    *float64 `json:"distance,omitempty"`
	Alpha       *float64 `json:"alpha,omitempty"`
	Enumeration string   `json:"enumeration,omitempty"`
}

// Scene is one crust extraction job.
type Scene struct {
	Name     string     `json:"name,omitempty"`
	Points   geom.Cloud `json:"points"`
	Cells    []Cell     `json:"cells,omitempty"`
	Settings Settings   `json:"settings"`
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{}
}

// AddPoint appends p and returns its index.
func (s *Scene) AddPoint(p geom.Point) int {
	s.Points = append(s.Points, p)
	return len(s.Points) - 1
}

// AddCell appends a cell.
func (s *Scene) AddCell(c Cell) {
	s.Cells = append(s.Cells, c)
}

// Tetrahedra resolves the cells into point tetrahedra in cell order.
func (s *Scene) Tetrahedra() ([]geom.Tetra, error) {
	out := make([]geom.Tetra, 0, len(s.Cells))
	for ci, c := range s.Cells {
		var t geom.Tetra
		for k, idx := range c {
			if idx < 0 || idx >= len(s.Points) {
				return nil, fmt.Errorf("scene: cell %d: point index %d out of range [0,%d)", ci, idx, len(s.Points))
			}
			t[k] = s.Points[idx]
		}
		out = append(out, t)
	}
	return out, nil
}

// ResolveMethod turns m into a concrete method for this scene. MethodAuto
// and the empty method pick delaunay when the scene has cells.
func (s *Scene) ResolveMethod(m Method) Method {
	switch m {
	case MethodBrute, MethodDelaunay:
		return m
	}
	if len(s.Cells) > 0 {
		return MethodDelaunay
	}
	return MethodBrute
}
