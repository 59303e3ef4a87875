// Package crust decides which triangles of a point cloud lie on its outer
// surface and assembles them into a mesh.Surface.
//
// A triangle is a crust face when a sphere through its three vertices,
// biased to one side of the triangle's plane, contains no other cloud
// point. Candidates come either from brute-force triple enumeration or
// from the faces of a Delaunay tetrahedralization computed elsewhere.
package crust

import (
	"math"

	"github.com/chazu/cheesemaker/pkg/geom"
)

// Pass is the outcome of testing one side of a triangle.
type Pass struct {
	Sphere geom.Sphere
	// Fitted is false when no sphere could be built for this side.
	Fitted bool
	// Empty is true when the sphere was fitted and holds no tested point.
	Empty bool
	// Blocker is the index of the first cloud point found inside the
	// sphere, or -1.
	Blocker int
}

// Verdict holds both passes for one triangle.
type Verdict struct {
	Outward    Pass
	Inward     Pass
	Degenerate bool
}

// Accepted reports whether either side is empty.
func (v Verdict) Accepted() bool {
	return v.Outward.Empty || v.Inward.Empty
}

// Predicate is the empty-sphere test bound to one cloud and policy. It is
// read-only after construction and safe for concurrent use.
type Predicate struct {
	cloud  geom.Cloud
	policy Policy
}

// NewPredicate returns a predicate testing triangles against cloud.
func NewPredicate(cloud geom.Cloud, policy Policy) *Predicate {
	return &Predicate{cloud: cloud, policy: policy}
}

// Policy returns the predicate's policy.
func (p *Predicate) Policy() Policy {
	return p.policy
}

// IsCrustFace reports whether t passes the empty-sphere test against
// cloud under policy. It is a convenience wrapper over Predicate.
func IsCrustFace(t geom.Triangle, cloud geom.Cloud, policy Policy) bool {
	return NewPredicate(cloud, policy).IsCrustFace(t)
}

// IsCrustFace reports whether the outward or the inward sphere of t is
// empty. The inward side is only tested when the outward side fails.
func (p *Predicate) IsCrustFace(t geom.Triangle) bool {
	n, ok := t.Normal()
	if !ok {
		return false
	}
	if s, ok := p.sphere(t, n, 1); ok && p.blocker(t, s) < 0 {
		return true
	}
	if s, ok := p.sphere(t, n, -1); ok && p.blocker(t, s) < 0 {
		return true
	}
	return false
}

// Evaluate runs both passes and reports their spheres. It agrees with
// IsCrustFace and exists for diagnostics and tests.
func (p *Predicate) Evaluate(t geom.Triangle) Verdict {
	v := Verdict{
		Outward: Pass{Blocker: -1},
		Inward:  Pass{Blocker: -1},
	}
	n, ok := t.Normal()
	if !ok {
		v.Degenerate = true
		return v
	}
	v.Outward = p.pass(t, n, 1)
	v.Inward = p.pass(t, n, -1)
	return v
}

func (p *Predicate) pass(t geom.Triangle, n geom.Point, side float64) Pass {
	s, ok := p.sphere(t, n, side)
	if !ok {
		return Pass{Blocker: -1}
	}
	b := p.blocker(t, s)
	return Pass{Sphere: s, Fitted: true, Empty: b < 0, Blocker: b}
}

// sphere builds the test sphere on one side of t. side is +1 for the
// direction of n and -1 for the opposite one.
func (p *Predicate) sphere(t geom.Triangle, n geom.Point, side float64) (geom.Sphere, bool) {
	if p.policy.Mode == ModeAlpha {
		return p.alphaSphere(t, n, side)
	}
	s, err := geom.FitSphere(p.fitPoints(t, n, side))
	if err != nil {
		return geom.Sphere{}, false
	}
	return s, true
}

// fitPoints returns the triangle vertices followed by the synthetic
// offset points for one side.
func (p *Predicate) fitPoints(t geom.Triangle, n geom.Point, side float64) []geom.Point {
	pts := make([]geom.Point, 0, 6)
	pts = append(pts, t[0], t[1], t[2])

	switch p.policy.Offset {
	case OffsetCentroid:
		pts = append(pts, t.Centroid().Add(n.MulScalar(side*p.policy.Distance)))
	case OffsetScale:
		k := p.policy.ScaleFactor
		if side < 0 {
			k = 1 / k
		}
		pts = append(pts, t[0].MulScalar(k))
	default:
		d := n.MulScalar(side * p.policy.Distance)
		for _, v := range t {
			pts = append(pts, v.Add(d))
		}
	}
	return pts
}

// alphaSphere returns the sphere of radius Alpha through t whose center
// lies on the given side. It fails when the circumradius exceeds Alpha.
func (p *Predicate) alphaSphere(t geom.Triangle, n geom.Point, side float64) (geom.Sphere, bool) {
	o, r, ok := t.Circumcircle()
	a := p.policy.Alpha
	if !ok || r > a {
		return geom.Sphere{}, false
	}
	h := math.Sqrt(a*a - r*r)
	return geom.Sphere{Center: o.Add(n.MulScalar(side * h)), Radius: a}, true
}

// blocker returns the index of the first cloud point strictly inside s,
// skipping points that coincide with a vertex of t, or -1.
func (p *Predicate) blocker(t geom.Triangle, s geom.Sphere) int {
	eps := p.policy.CoincidenceEpsilon
	for i, q := range p.cloud {
		if geom.Near(q, t[0], eps) || geom.Near(q, t[1], eps) || geom.Near(q, t[2], eps) {
			continue
		}
		if s.Contains(q) {
			return i
		}
	}
	return -1
}
