package geom

import (
	"fmt"
	"math"
	"sort"
)

// collinearTolerance bounds |ab x ac| relative to |ab|*|ac| below which a
// triangle is treated as collinear.
const collinearTolerance = 1e-12

// Triangle is three points. Winding a -> b -> c defines the normal.
type Triangle [3]Point

// Edge returns the vector from vertex i to vertex (i+1)%3.
func (t Triangle) Edge(i int) Point {
	return t[(i+1)%3].Sub(t[i])
}

// EdgeLengths returns |ab|, |bc| and |ca|.
func (t Triangle) EdgeLengths() [3]float64 {
	return [3]float64{
		Dist(t[0], t[1]),
		Dist(t[1], t[2]),
		Dist(t[2], t[0]),
	}
}

// LongestEdge returns the length of the longest edge.
func (t Triangle) LongestEdge() float64 {
	l := t.EdgeLengths()
	return math.Max(l[0], math.Max(l[1], l[2]))
}

// Centroid returns the average of the three vertices.
func (t Triangle) Centroid() Point {
	return t[0].Add(t[1]).Add(t[2]).MulScalar(1.0 / 3.0)
}

// cross returns (b-a) x (c-a).
func (t Triangle) cross() Point {
	return t[1].Sub(t[0]).Cross(t[2].Sub(t[0]))
}

// Area returns the triangle area.
func (t Triangle) Area() float64 {
	return t.cross().Length() / 2
}

// Degenerate reports whether the vertices are collinear or two of them
// coincide, in which case no unique plane or circumcircle exists.
func (t Triangle) Degenerate() bool {
	ab := t[1].Sub(t[0])
	ac := t[2].Sub(t[0])
	scale := ab.Length() * ac.Length()
	if scale == 0 || t[1] == t[2] {
		return true
	}
	return t.cross().Length() <= collinearTolerance*scale
}

// Normal returns the unit normal of the triangle's plane. ok is false for
// degenerate triangles.
func (t Triangle) Normal() (n Point, ok bool) {
	if t.Degenerate() {
		return Point{}, false
	}
	c := t.cross()
	return c.MulScalar(1 / c.Length()), true
}

// Circumcircle returns the center and radius of the circle through the
// three vertices. ok is false for degenerate triangles.
func (t Triangle) Circumcircle() (center Point, radius float64, ok bool) {
	if t.Degenerate() {
		return Point{}, 0, false
	}
	ab := t[1].Sub(t[0])
	ac := t[2].Sub(t[0])
	n := ab.Cross(ac)
	n2 := n.Dot(n)
	// a + (|ac|^2 (n x ab) + |ab|^2 (ac x n)) / (2|n|^2)
	u := n.Cross(ab).MulScalar(ac.Dot(ac))
	v := ac.Cross(n).MulScalar(ab.Dot(ab))
	off := u.Add(v).MulScalar(1 / (2 * n2))
	return t[0].Add(off), off.Length(), true
}

// HasDistinctVertices reports whether no two vertices are exactly equal.
func (t Triangle) HasDistinctVertices() bool {
	return t[0] != t[1] && t[1] != t[2] && t[2] != t[0]
}

// Key identifies a triangle independent of vertex order and winding.
type Key [3]Point

// Key returns the unoriented identity of t.
func (t Triangle) Key() Key {
	k := Key(t)
	sort.Slice(k[:], func(i, j int) bool { return lessPoint(k[i], k[j]) })
	return k
}

func lessPoint(p, q Point) bool {
	if p.X != q.X {
		return p.X < q.X
	}
	if p.Y != q.Y {
		return p.Y < q.Y
	}
	return p.Z < q.Z
}

func (t Triangle) String() string {
	return fmt.Sprintf("[(%g %g %g) (%g %g %g) (%g %g %g)]",
		t[0].X, t[0].Y, t[0].Z, t[1].X, t[1].Y, t[1].Z, t[2].X, t[2].Y, t[2].Z)
}
