package crust

import (
	"math"
	"sort"

	"github.com/chazu/cheesemaker/pkg/geom"
	"gonum.org/v1/gonum/spatial/kdtree"
)

// within is the edge filter shared by every enumeration path.
func within(p, q geom.Point, maxEdge float64) bool {
	return geom.Dist(p, q) < maxEdge
}

// neighbors answers "which points may be closer than maxEdge to i".
// Without an index every other point is a candidate; callers always
// re-check with within, so the index only prunes.
type neighbors struct {
	lists [][]int
	all   []int
}

func newNeighbors(cloud geom.Cloud, maxEdge float64, useIndex bool) *neighbors {
	nb := &neighbors{}
	if useIndex && maxEdge > 0 && !math.IsInf(maxEdge, 1) && len(cloud) > 0 {
		nb.lists = radiusLists(cloud, maxEdge)
		return nb
	}
	nb.all = make([]int, len(cloud))
	for i := range nb.all {
		nb.all[i] = i
	}
	return nb
}

// of returns candidate neighbor indices of i in ascending order. The list
// may contain i itself.
func (nb *neighbors) of(i int) []int {
	if nb.lists != nil {
		return nb.lists[i]
	}
	return nb.all
}

// radiusLists builds, for every point, the ascending indices of the other
// points strictly closer than maxEdge, using a k-d tree.
func radiusLists(cloud geom.Cloud, maxEdge float64) [][]int {
	pts := make(indexedPoints, len(cloud))
	for i, p := range cloud {
		pts[i] = indexedPoint{Point: p, idx: i}
	}
	tree := kdtree.New(pts, false)

	// Slightly widened so rounding in the squared distance never drops a
	// point that within accepts.
	r := maxEdge * (1 + 1e-9)
	lists := make([][]int, len(cloud))
	for i, p := range cloud {
		keep := kdtree.NewDistKeeper(r * r)
		tree.NearestSet(keep, indexedPoint{Point: p, idx: i})

		var list []int
		for _, c := range keep.Heap {
			if c.Comparable == nil {
				continue
			}
			q := c.Comparable.(indexedPoint)
			if q.idx != i && within(p, q.Point, maxEdge) {
				list = append(list, q.idx)
			}
		}
		sort.Ints(list)
		lists[i] = list
	}
	return lists
}

func coord(p geom.Point, d kdtree.Dim) float64 {
	switch d {
	case 0:
		return p.X
	case 1:
		return p.Y
	default:
		return p.Z
	}
}

// indexedPoint is a cloud point that remembers its position in the cloud.
type indexedPoint struct {
	geom.Point
	idx int
}

// Compare returns the signed distance of p from the plane through c
// perpendicular to dimension d.
func (p indexedPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	return coord(p.Point, d) - coord(c.(indexedPoint).Point, d)
}

// Dims returns 3.
func (p indexedPoint) Dims() int { return 3 }

// Distance returns the squared Euclidean distance between p and c.
func (p indexedPoint) Distance(c kdtree.Comparable) float64 {
	return geom.Dist2(p.Point, c.(indexedPoint).Point)
}

type indexedPoints []indexedPoint

func (p indexedPoints) Index(i int) kdtree.Comparable { return p[i] }
func (p indexedPoints) Len() int                      { return len(p) }
func (p indexedPoints) Pivot(d kdtree.Dim) int {
	return plane{Dim: d, indexedPoints: p}.Pivot()
}
func (p indexedPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

// plane sorts indexedPoints along one dimension for pivot selection.
type plane struct {
	kdtree.Dim
	indexedPoints
}

func (p plane) Less(i, j int) bool {
	return coord(p.indexedPoints[i].Point, p.Dim) < coord(p.indexedPoints[j].Point, p.Dim)
}
func (p plane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.indexedPoints = p.indexedPoints[start:end]
	return p
}
func (p plane) Swap(i, j int) {
	p.indexedPoints[i], p.indexedPoints[j] = p.indexedPoints[j], p.indexedPoints[i]
}
