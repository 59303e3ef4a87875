// Package sample produces point clouds from sdfx solids. The cloud is the
// vertex set of a marching cubes tessellation, which gives clouds that lie
// on a known surface for demos and tests.
package sample

import (
	"errors"
	"fmt"

	"github.com/chazu/cheesemaker/pkg/geom"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
)

// DefaultCells is the marching cubes resolution along the longest axis.
const DefaultCells = 8

// ErrCells is returned for a non-positive resolution.
var ErrCells = errors.New("cells must be positive")

// Solid samples s with a uniform marching cubes grid of the given
// resolution and returns the distinct vertices in first-seen order.
func Solid(s sdf.SDF3, cells int) (geom.Cloud, error) {
	if cells <= 0 {
		return nil, fmt.Errorf("sample: %d: %w", cells, ErrCells)
	}

	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(s, renderer)

	seen := make(map[geom.Point]struct{}, len(triangles))
	cloud := make(geom.Cloud, 0, len(triangles))
	for _, tri := range triangles {
		for j := 0; j < 3; j++ {
			v := tri[j]
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			cloud = append(cloud, v)
		}
	}
	return cloud, nil
}

// Box samples an axis-aligned box with its minimum corner at the origin.
func Box(size geom.Point, cells int) (geom.Cloud, error) {
	s, err := sdf.Box3D(size, 0)
	if err != nil {
		return nil, fmt.Errorf("sample: box: %w", err)
	}
	m := sdf.Translate3d(size.MulScalar(0.5))
	return Solid(sdf.Transform3D(s, m), cells)
}

// Sphere samples a sphere centered on the origin.
func Sphere(radius float64, cells int) (geom.Cloud, error) {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, fmt.Errorf("sample: sphere: %w", err)
	}
	return Solid(s, cells)
}

// Cylinder samples a Z-aligned cylinder centered on the origin.
func Cylinder(height, radius float64, cells int) (geom.Cloud, error) {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("sample: cylinder: %w", err)
	}
	return Solid(s, cells)
}

// Translate returns a copy of c moved by d.
func Translate(c geom.Cloud, d geom.Point) geom.Cloud {
	out := make(geom.Cloud, len(c))
	for i, p := range c {
		out[i] = p.Add(d)
	}
	return out
}
