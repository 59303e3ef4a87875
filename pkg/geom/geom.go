// Package geom holds the small set of 3D types the crust extractor works
// on: points, clouds, triangles, tetrahedral cells and spheres.
//
// Points are sdfx vectors so that clouds sampled from sdfx solids and
// clouds read from a scene share one representation.
package geom

import (
	"errors"
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// DefaultCoincidenceEpsilon is the distance under which a cloud point is
// considered to be one of a triangle's own vertices.
const DefaultCoincidenceEpsilon = 0.1

// ErrMismatchedCoordinates is returned when x, y and z coordinate lists
// used to build a cloud do not have the same length.
var ErrMismatchedCoordinates = errors.New("coordinate lists have mismatched lengths")

// Point is a position in 3D space.
type Point = v3.Vec

// Dist returns the Euclidean distance between p and q.
func Dist(p, q Point) float64 {
	return math.Sqrt(Dist2(p, q))
}

// Dist2 returns the squared Euclidean distance between p and q.
func Dist2(p, q Point) float64 {
	d := p.Sub(q)
	return d.Dot(d)
}

// Near reports whether p and q are strictly closer than eps.
func Near(p, q Point, eps float64) bool {
	return Dist2(p, q) < eps*eps
}

// IsFinite reports whether all coordinates of p are finite.
func IsFinite(p Point) bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0) &&
		!math.IsNaN(p.Z) && !math.IsInf(p.Z, 0)
}

// Cloud is an ordered point cloud. Order follows the input and duplicates
// are kept as given.
type Cloud []Point

// CloudFromCoordinates zips three coordinate lists into a cloud. Lists of
// different lengths produce no cloud at all.
func CloudFromCoordinates(xs, ys, zs []float64) (Cloud, error) {
	if len(xs) != len(ys) || len(xs) != len(zs) {
		return nil, fmt.Errorf("geom: x=%d y=%d z=%d: %w", len(xs), len(ys), len(zs), ErrMismatchedCoordinates)
	}
	c := make(Cloud, len(xs))
	for i := range xs {
		c[i] = Point{X: xs[i], Y: ys[i], Z: zs[i]}
	}
	return c, nil
}

// Len returns the number of points.
func (c Cloud) Len() int {
	return len(c)
}

// Contains reports whether p is exactly one of the cloud's points.
func (c Cloud) Contains(p Point) bool {
	for _, q := range c {
		if q == p {
			return true
		}
	}
	return false
}

// Bounds returns the axis-aligned bounding box of the cloud. An empty
// cloud has a zero box.
func (c Cloud) Bounds() sdf.Box3 {
	if len(c) == 0 {
		return sdf.Box3{}
	}
	bb := sdf.Box3{Min: c[0], Max: c[0]}
	for _, p := range c[1:] {
		bb.Min = Point{X: math.Min(bb.Min.X, p.X), Y: math.Min(bb.Min.Y, p.Y), Z: math.Min(bb.Min.Z, p.Z)}
		bb.Max = Point{X: math.Max(bb.Max.X, p.X), Y: math.Max(bb.Max.Y, p.Y), Z: math.Max(bb.Max.Z, p.Z)}
	}
	return bb
}

// Centroid returns the mean of the cloud's points.
func (c Cloud) Centroid() Point {
	var sum Point
	if len(c) == 0 {
		return sum
	}
	for _, p := range c {
		sum = sum.Add(p)
	}
	return sum.MulScalar(1 / float64(len(c)))
}
