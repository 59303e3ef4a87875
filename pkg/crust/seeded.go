package crust

import (
	"github.com/chazu/cheesemaker/pkg/geom"
	"github.com/chazu/cheesemaker/pkg/mesh"
)

// DelaunaySeededCrust tests the faces of the supplied tetrahedral cells
// instead of all point triples. Faces with an edge longer than maxEdge are
// dropped without running the predicate; pass NoEdgeLimit to keep all of
// them. Every other face is tested against the full cloud and appended in
// cell order, then TetraFaces order, when accepted. A face shared by two
// cells is tested, and possibly appended, twice.
//
// Offset points always follow the face normal: an OffsetScale policy is
// run as OffsetVertices, since scaling about the origin ignores the face.
//
// The cells are expected to form a Delaunay tetrahedralization of points;
// this is not checked. Missing cells or points yield an empty surface.
func DelaunaySeededCrust(cells []geom.Tetra, points geom.Cloud, maxEdge float64, opts Options) (*mesh.Surface, Stats) {
	surf := mesh.New()
	if len(cells) == 0 || len(points) == 0 {
		return surf, Stats{}
	}

	pred := NewPredicate(points, seededPolicy(opts.Policy))
	parts := fanOut(len(cells), opts.Workers, func(c int) partial {
		var out partial
		for _, f := range cells[c].Faces() {
			if !edgesFit(f, maxEdge) {
				out.stats.EdgeRejected++
				continue
			}
			out.evaluate(pred, f)
		}
		return out
	})

	tris, stats := merge(parts)
	surf.AppendAll(tris)
	return surf, stats
}

// edgesFit reports whether no edge of t is longer than maxEdge.
func edgesFit(t geom.Triangle, maxEdge float64) bool {
	for _, l := range t.EdgeLengths() {
		if !(l <= maxEdge) {
			return false
		}
	}
	return true
}

// seededPolicy replaces the scale offset with the vertex normal offset.
func seededPolicy(p Policy) Policy {
	if p.Offset == OffsetScale {
		p.Offset = OffsetVertices
	}
	return p
}
