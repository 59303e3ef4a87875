package geom

import "math"

// TetraFaces lists the four faces of a tetrahedron as vertex index
// triples. The list is fixed so that callers walking cells visit faces
// in a reproducible order.
var TetraFaces = [4][3]int{
	{0, 1, 2},
	{0, 1, 3},
	{0, 2, 3},
	{1, 2, 3},
}

// Tetra is a tetrahedral cell, typically one simplex of a Delaunay
// tetrahedralization produced elsewhere.
type Tetra [4]Point

// Face returns face i of the cell.
func (c Tetra) Face(i int) Triangle {
	f := TetraFaces[i]
	return Triangle{c[f[0]], c[f[1]], c[f[2]]}
}

// Faces returns the cell's four faces in TetraFaces order.
func (c Tetra) Faces() [4]Triangle {
	var out [4]Triangle
	for i := range TetraFaces {
		out[i] = c.Face(i)
	}
	return out
}

// Volume returns the signed volume of the cell.
func (c Tetra) Volume() float64 {
	a := c[1].Sub(c[0])
	b := c[2].Sub(c[0])
	d := c[3].Sub(c[0])
	return a.Dot(b.Cross(d)) / 6
}

// Flat reports whether the cell has (near) zero volume relative to the
// cube of its longest edge.
func (c Tetra) Flat() bool {
	var longest float64
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			longest = math.Max(longest, Dist(c[i], c[j]))
		}
	}
	if longest == 0 {
		return true
	}
	return math.Abs(c.Volume()) <= 1e-12*longest*longest*longest
}
