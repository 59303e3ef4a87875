package crust

import (
	"github.com/chazu/cheesemaker/pkg/geom"
	"github.com/chazu/cheesemaker/pkg/mesh"
)

// BruteForceCrust enumerates point triples whose edges are shorter than
// maxEdge, tests each with the empty-sphere predicate and appends the
// accepted ones, in (i, j, k) order, to a new surface.
//
// With EnumerateCombinations each unordered triple is visited once and
// all three edges are filtered. With EnumerateLegacyOrdered every ordered
// triple of distinct points is visited and only the (i,j) and (j,k)
// edges are filtered, so one face can be appended up to six times.
//
// Triples with two equal points are skipped. Fewer than three points
// yield an empty surface.
func BruteForceCrust(points geom.Cloud, maxEdge float64, opts Options) (*mesh.Surface, Stats) {
	surf := mesh.New()
	if len(points) < 3 {
		return surf, Stats{}
	}

	pred := NewPredicate(points, opts.Policy)
	nb := newNeighbors(points, maxEdge, opts.SpatialIndex)

	walk := combinationsFrom
	if opts.Enumeration == EnumerateLegacyOrdered {
		walk = orderedFrom
	}

	parts := fanOut(len(points), opts.Workers, func(i int) partial {
		var out partial
		walk(points, nb, maxEdge, i, func(t geom.Triangle) {
			out.evaluate(pred, t)
		})
		return out
	})

	tris, stats := merge(parts)
	surf.AppendAll(tris)
	return surf, stats
}

// BruteForceCrustXYZ builds the cloud from coordinate lists and runs
// BruteForceCrust. Mismatched list lengths abort before any triangle is
// produced and return an empty surface with the error.
func BruteForceCrustXYZ(xs, ys, zs []float64, maxEdge float64, opts Options) (*mesh.Surface, Stats, error) {
	cloud, err := geom.CloudFromCoordinates(xs, ys, zs)
	if err != nil {
		return mesh.New(), Stats{}, err
	}
	surf, stats := BruteForceCrust(cloud, maxEdge, opts)
	return surf, stats, nil
}

// evaluate counts t and keeps it if the predicate accepts it.
func (out *partial) evaluate(pred *Predicate, t geom.Triangle) {
	if !t.HasDistinctVertices() {
		return
	}
	out.stats.Candidates++
	if t.Degenerate() {
		out.stats.Degenerate++
		return
	}
	if pred.IsCrustFace(t) {
		out.tris = append(out.tris, t)
		out.stats.Accepted++
	}
}

// combinationsFrom emits triples i<j<k with all edges within maxEdge.
func combinationsFrom(pts geom.Cloud, nb *neighbors, maxEdge float64, i int, emit func(geom.Triangle)) {
	cand := nb.of(i)
	for _, j := range cand {
		if j <= i || !within(pts[i], pts[j], maxEdge) {
			continue
		}
		for _, k := range cand {
			if k <= j || !within(pts[i], pts[k], maxEdge) || !within(pts[j], pts[k], maxEdge) {
				continue
			}
			emit(geom.Triangle{pts[i], pts[j], pts[k]})
		}
	}
}

// orderedFrom emits ordered triples (i, j, k) of distinct indices with
// d(i,j) and d(j,k) within maxEdge. The closing edge (k,i) is not checked.
func orderedFrom(pts geom.Cloud, nb *neighbors, maxEdge float64, i int, emit func(geom.Triangle)) {
	for _, j := range nb.of(i) {
		if j == i || !within(pts[i], pts[j], maxEdge) {
			continue
		}
		for _, k := range nb.of(j) {
			if k == i || k == j || !within(pts[j], pts[k], maxEdge) {
				continue
			}
			emit(geom.Triangle{pts[i], pts[j], pts[k]})
		}
	}
}
