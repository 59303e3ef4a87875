package geom

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrDegenerateFit is returned when a point set does not determine a
// sphere, e.g. when all points are coplanar or collinear.
var ErrDegenerateFit = errors.New("degenerate sphere fit")

const (
	// rankTolerance is the smallest accepted ratio between the smallest
	// and largest singular value of the normalized fit system.
	rankTolerance = 1e-9

	// ContainmentTolerance is the relative band around the sphere surface,
	// as a fraction of the squared radius, inside which a point counts as
	// lying on the sphere and therefore outside it.
	ContainmentTolerance = 1e-9
)

// Sphere is a sphere given by center and radius.
type Sphere struct {
	Center Point
	Radius float64
}

// Contains reports whether p lies strictly inside s. Points on the
// surface, within ContainmentTolerance, are outside.
func (s Sphere) Contains(p Point) bool {
	r2 := s.Radius * s.Radius
	return Dist2(p, s.Center) < r2*(1-ContainmentTolerance)
}

// Residual returns the largest deviation | |p-center| - radius | over pts.
func (s Sphere) Residual(pts []Point) float64 {
	var worst float64
	for _, p := range pts {
		worst = math.Max(worst, math.Abs(Dist(p, s.Center)-s.Radius))
	}
	return worst
}

func (s Sphere) String() string {
	return fmt.Sprintf("sphere(c=(%g %g %g) r=%g)", s.Center.X, s.Center.Y, s.Center.Z, s.Radius)
}

// FitSphere returns the least-squares sphere through pts. At least four
// points spanning 3D space are required; for exactly determined sets the
// sphere passes through every point.
//
// Points are centered and scaled to unit extent before solving
//
//	|q|^2 = 2 c.q + (r^2 - |c|^2)
//
// for (c, r^2 - |c|^2).
func FitSphere(pts []Point) (Sphere, error) {
	if len(pts) < 4 {
		return Sphere{}, fmt.Errorf("geom: %d points: %w", len(pts), ErrDegenerateFit)
	}

	var mean Point
	for _, p := range pts {
		if !IsFinite(p) {
			return Sphere{}, fmt.Errorf("geom: non-finite point: %w", ErrDegenerateFit)
		}
		mean = mean.Add(p)
	}
	mean = mean.MulScalar(1 / float64(len(pts)))

	var scale float64
	for _, p := range pts {
		scale = math.Max(scale, Dist(p, mean))
	}
	if scale == 0 {
		return Sphere{}, fmt.Errorf("geom: coincident points: %w", ErrDegenerateFit)
	}

	a := mat.NewDense(len(pts), 4, nil)
	b := mat.NewVecDense(len(pts), nil)
	for i, p := range pts {
		q := p.Sub(mean).MulScalar(1 / scale)
		a.SetRow(i, []float64{2 * q.X, 2 * q.Y, 2 * q.Z, 1})
		b.SetVec(i, q.Dot(q))
	}

	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDNone) {
		return Sphere{}, fmt.Errorf("geom: svd failed: %w", ErrDegenerateFit)
	}
	sv := svd.Values(nil)
	if sv[0] == 0 || sv[len(sv)-1] <= rankTolerance*sv[0] {
		return Sphere{}, fmt.Errorf("geom: rank deficient system: %w", ErrDegenerateFit)
	}

	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return Sphere{}, fmt.Errorf("geom: %v: %w", err, ErrDegenerateFit)
	}

	c := Point{X: x.AtVec(0), Y: x.AtVec(1), Z: x.AtVec(2)}
	r2 := x.AtVec(3) + c.Dot(c)
	if !(r2 > 0) || math.IsInf(r2, 0) {
		return Sphere{}, fmt.Errorf("geom: squared radius %g: %w", r2, ErrDegenerateFit)
	}

	return Sphere{
		Center: mean.Add(c.MulScalar(scale)),
		Radius: math.Sqrt(r2) * scale,
	}, nil
}
