package crust

import (
	"testing"

	"github.com/chazu/cheesemaker/pkg/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pt(x, y, z float64) geom.Point { return geom.Point{X: x, Y: y, Z: z} }

// cornerTetra is the unit right-corner tetrahedron.
func cornerTetra() geom.Cloud {
	return geom.Cloud{pt(0, 0, 0), pt(1, 0, 0), pt(0, 1, 0), pt(0, 0, 1)}
}

// unitCube lists the cube corners with index 4z+2y+x.
func unitCube() geom.Cloud {
	return geom.Cloud{
		pt(0, 0, 0), pt(1, 0, 0), pt(0, 1, 0), pt(1, 1, 0),
		pt(0, 0, 1), pt(1, 0, 1), pt(0, 1, 1), pt(1, 1, 1),
	}
}

func withCenter(c geom.Cloud) geom.Cloud {
	out := append(geom.Cloud{}, c...)
	return append(out, pt(0.5, 0.5, 0.5))
}

// onCubeFace reports whether all vertices of t share a coordinate plane of
// the unit cube and no two of them are opposite corners.
func onCubeFace(t geom.Triangle) bool {
	for _, v := range []geom.Point{t[0], t[1], t[2]} {
		for _, w := range []geom.Point{t[0], t[1], t[2]} {
			if v.X != w.X && v.Y != w.Y && v.Z != w.Z {
				return false
			}
		}
	}
	shared := func(f func(geom.Point) float64) bool {
		return f(t[0]) == f(t[1]) && f(t[1]) == f(t[2])
	}
	return shared(func(p geom.Point) float64 { return p.X }) ||
		shared(func(p geom.Point) float64 { return p.Y }) ||
		shared(func(p geom.Point) float64 { return p.Z })
}

func policies() map[string]Policy {
	centroid := DefaultPolicy()
	centroid.Offset = OffsetCentroid
	scale := DefaultPolicy()
	scale.Offset = OffsetScale
	return map[string]Policy{
		"vertices": DefaultPolicy(),
		"centroid": centroid,
		"scale":    scale,
		"alpha":    AlphaPolicy(1),
	}
}

// --- Predicate tests ---

func TestCollinearTrianglesAreRejected(t *testing.T) {
	cloud := geom.Cloud{pt(0, 0, 0), pt(1, 0, 0), pt(2, 0, 0), pt(5, 5, 5)}
	tris := []geom.Triangle{
		{pt(0, 0, 0), pt(1, 0, 0), pt(2, 0, 0)},
		{pt(2, 0, 0), pt(0, 0, 0), pt(1, 0, 0)},
		{pt(1, 1, 1), pt(2, 2, 2), pt(4, 4, 4)},
	}
	for name, pol := range policies() {
		t.Run(name, func(t *testing.T) {
			p := NewPredicate(cloud, pol)
			for _, tri := range tris {
				assert.False(t, p.IsCrustFace(tri), "%v accepted", tri)
				v := p.Evaluate(tri)
				assert.True(t, v.Degenerate)
				assert.False(t, v.Outward.Fitted)
				assert.False(t, v.Inward.Fitted)
				assert.False(t, v.Accepted())
			}
		})
	}
}

func TestEvaluateAgreesWithIsCrustFace(t *testing.T) {
	cloud := withCenter(unitCube())
	for name, pol := range policies() {
		t.Run(name, func(t *testing.T) {
			p := NewPredicate(cloud, pol)
			for i := 0; i < len(cloud); i++ {
				for j := i + 1; j < len(cloud); j++ {
					for k := j + 1; k < len(cloud); k++ {
						tri := geom.Triangle{cloud[i], cloud[j], cloud[k]}
						assert.Equal(t, p.IsCrustFace(tri), p.Evaluate(tri).Accepted(), "triangle %d %d %d", i, j, k)
						assert.Equal(t, p.IsCrustFace(tri), IsCrustFace(tri, cloud, pol))
					}
				}
			}
		})
	}
}

func TestFittedSpheresPassThroughVertices(t *testing.T) {
	cloud := withCenter(unitCube())
	tris := []geom.Triangle{
		{cloud[0], cloud[1], cloud[2]},
		{cloud[1], cloud[2], cloud[4]},
		{cloud[3], cloud[5], cloud[8]},
	}
	for name, pol := range policies() {
		t.Run(name, func(t *testing.T) {
			p := NewPredicate(cloud, pol)
			for _, tri := range tris {
				v := p.Evaluate(tri)
				for _, pass := range []Pass{v.Outward, v.Inward} {
					if !pass.Fitted {
						continue
					}
					assert.InDelta(t, 0, pass.Sphere.Residual([]geom.Point{tri[0], tri[1], tri[2]}), 1e-9)
				}
			}
		})
	}
}

func TestSphereContainingExtraPointBlocksPass(t *testing.T) {
	// With a short offset the inward sphere of a bottom face is empty for
	// the bare cube but holds the center once it is added.
	pol := DefaultPolicy()
	pol.Distance = 0.5
	tri := geom.Triangle{pt(0, 0, 0), pt(1, 0, 0), pt(0, 1, 0)}

	bare := NewPredicate(unitCube(), pol).Evaluate(tri)
	assert.True(t, bare.Outward.Empty)
	assert.True(t, bare.Inward.Empty)

	cloud := withCenter(unitCube())
	v := NewPredicate(cloud, pol).Evaluate(tri)
	require.True(t, v.Outward.Fitted)
	// The normal of this winding is +Z, into the cube.
	assert.Greater(t, v.Outward.Sphere.Center.Z, 0.0)
	assert.False(t, v.Outward.Empty)
	assert.Equal(t, 8, v.Outward.Blocker)
	assert.True(t, v.Outward.Sphere.Contains(cloud[8]))
	assert.True(t, v.Inward.Empty)
	assert.Equal(t, -1, v.Inward.Blocker)
	assert.True(t, v.Accepted())
}

func TestCenterPointNeverInsideAnEmptyPass(t *testing.T) {
	cloud := withCenter(unitCube())
	center := cloud[8]
	p := NewPredicate(cloud, DefaultPolicy())
	for i := 0; i < 8; i++ {
		for j := i + 1; j < 8; j++ {
			for k := j + 1; k < 8; k++ {
				v := p.Evaluate(geom.Triangle{cloud[i], cloud[j], cloud[k]})
				for _, pass := range []Pass{v.Outward, v.Inward} {
					if pass.Fitted && pass.Sphere.Contains(center) {
						assert.False(t, pass.Empty, "triangle %d %d %d", i, j, k)
					}
				}
			}
		}
	}
}

func TestCoincidentPointsAreIgnored(t *testing.T) {
	tri := geom.Triangle{pt(0, 0, 0), pt(1, 0, 0), pt(0, 1, 0)}
	// A jittered copy of a vertex lies inside both spheres but within the
	// coincidence epsilon of the vertex.
	cloud := geom.Cloud{tri[0], tri[1], tri[2], pt(0.01, 0.01, 0.01)}

	pol := DefaultPolicy()
	assert.True(t, IsCrustFace(tri, cloud, pol))

	pol.CoincidenceEpsilon = 0.001
	assert.False(t, IsCrustFace(tri, cloud, pol))
}

func TestAlphaPolicyRadius(t *testing.T) {
	tri := geom.Triangle{pt(0, 0, 0), pt(1, 0, 0), pt(0, 1, 0)}
	cloud := geom.Cloud{tri[0], tri[1], tri[2]}

	v := NewPredicate(cloud, AlphaPolicy(0.5)).Evaluate(tri)
	assert.False(t, v.Outward.Fitted)
	assert.False(t, v.Inward.Fitted)
	assert.False(t, v.Accepted())

	v = NewPredicate(cloud, AlphaPolicy(1)).Evaluate(tri)
	require.True(t, v.Outward.Fitted)
	assert.InDelta(t, 1, v.Outward.Sphere.Radius, 1e-12)
	assert.InDelta(t, 0.5, v.Outward.Sphere.Center.X, 1e-12)
	assert.InDelta(t, 0.5, v.Outward.Sphere.Center.Y, 1e-12)
	assert.InDelta(t, 0.5*1.4142135623730951, v.Outward.Sphere.Center.Z, 1e-12)
	assert.InDelta(t, -v.Outward.Sphere.Center.Z, v.Inward.Sphere.Center.Z, 1e-12)
	assert.True(t, v.Accepted())
}

func TestScaleOffsetAtOrigin(t *testing.T) {
	// Scaling a vertex at the origin reproduces it, leaving four points on
	// one circle.
	pol := DefaultPolicy()
	pol.Offset = OffsetScale
	tri := geom.Triangle{pt(0, 0, 0), pt(1, 0, 0), pt(0, 1, 0)}
	v := NewPredicate(geom.Cloud{tri[0], tri[1], tri[2]}, pol).Evaluate(tri)
	assert.False(t, v.Degenerate)
	assert.False(t, v.Outward.Fitted)
	assert.False(t, v.Inward.Fitted)
	assert.False(t, v.Accepted())
}

// --- Options tests ---

func TestPolicyValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Policy)
		wantErr bool
	}{
		{"default", func(*Policy) {}, false},
		{"centroid", func(p *Policy) { p.Offset = OffsetCentroid }, false},
		{"zero distance", func(p *Policy) { p.Distance = 0 }, true},
		{"negative epsilon", func(p *Policy) { p.CoincidenceEpsilon = -1 }, true},
		{"unit scale", func(p *Policy) { p.Offset = OffsetScale; p.ScaleFactor = 1 }, true},
		{"scale", func(p *Policy) { p.Offset = OffsetScale }, false},
		{"alpha without radius", func(p *Policy) { p.Mode = ModeAlpha }, true},
		{"alpha", func(p *Policy) { p.Mode = ModeAlpha; p.Alpha = 2 }, false},
		{"unknown offset", func(p *Policy) { p.Offset = OffsetKind(9) }, true},
		{"unknown mode", func(p *Policy) { p.Mode = Mode(9) }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultPolicy()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseNames(t *testing.T) {
	m, err := ParseMode("alpha")
	require.NoError(t, err)
	assert.Equal(t, ModeAlpha, m)
	m, err = ParseMode(ModeDualOffset.String())
	require.NoError(t, err)
	assert.Equal(t, ModeDualOffset, m)
	_, err = ParseMode("voronoi")
	assert.Error(t, err)

	for _, k := range []OffsetKind{OffsetVertices, OffsetCentroid, OffsetScale} {
		got, err := ParseOffset(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err = ParseOffset("normal")
	assert.Error(t, err)

	e, err := ParseEnumeration("legacy")
	require.NoError(t, err)
	assert.Equal(t, EnumerateLegacyOrdered, e)
	e, err = ParseEnumeration(EnumerateCombinations.String())
	require.NoError(t, err)
	assert.Equal(t, EnumerateCombinations, e)
	_, err = ParseEnumeration("permutations")
	assert.Error(t, err)
}
