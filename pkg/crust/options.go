package crust

import (
	"fmt"
	"math"

	"github.com/chazu/cheesemaker/pkg/geom"
)

// NoEdgeLimit disables the max-edge filter.
var NoEdgeLimit = math.Inf(1)

// Default tuning values.
const (
	DefaultOffsetDistance = 1.001
	DefaultScaleFactor    = 1.1
)

// Mode selects how the predicate builds its test spheres.
type Mode int

const (
	// ModeDualOffset fits one sphere per side of the triangle through the
	// vertices and synthetic offset points, and accepts the triangle if
	// either sphere is empty.
	ModeDualOffset Mode = iota
	// ModeAlpha tests the two spheres of a fixed radius passing through
	// the vertices.
	ModeAlpha
)

func (m Mode) String() string {
	switch m {
	case ModeDualOffset:
		return "dual-offset"
	case ModeAlpha:
		return "alpha"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts a mode name into a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "dual-offset", "dual_offset", "offset":
		return ModeDualOffset, nil
	case "alpha":
		return ModeAlpha, nil
	}
	return 0, fmt.Errorf("unknown predicate mode %q, expected dual-offset or alpha", s)
}

// OffsetKind selects the synthetic points used in ModeDualOffset.
type OffsetKind int

const (
	// OffsetVertices shifts all three vertices along the normal (six-point fit).
	OffsetVertices OffsetKind = iota
	// OffsetCentroid shifts the centroid along the normal (four-point fit).
	OffsetCentroid
	// OffsetScale scales the first vertex about the origin (four-point fit).
	OffsetScale
)

func (k OffsetKind) String() string {
	switch k {
	case OffsetVertices:
		return "vertices"
	case OffsetCentroid:
		return "centroid"
	case OffsetScale:
		return "scale"
	default:
		return fmt.Sprintf("OffsetKind(%d)", int(k))
	}
}

// ParseOffset converts an offset name into an OffsetKind.
func ParseOffset(s string) (OffsetKind, error) {
	switch s {
	case "vertices":
		return OffsetVertices, nil
	case "centroid":
		return OffsetCentroid, nil
	case "scale":
		return OffsetScale, nil
	}
	return 0, fmt.Errorf("unknown offset kind %q, expected vertices, centroid or scale", s)
}

// Enumeration selects how the brute-force generator walks point triples.
type Enumeration int

const (
	// EnumerateCombinations visits each unordered triple i<j<k once and
	// requires all three edges to be shorter than the limit.
	EnumerateCombinations Enumeration = iota
	// EnumerateLegacyOrdered visits ordered triples and only filters the
	// (i,j) and (j,k) edges. Permutations of one face are all emitted.
	EnumerateLegacyOrdered
)

func (e Enumeration) String() string {
	switch e {
	case EnumerateCombinations:
		return "combinations"
	case EnumerateLegacyOrdered:
		return "legacy-ordered"
	default:
		return fmt.Sprintf("Enumeration(%d)", int(e))
	}
}

// ParseEnumeration converts an enumeration name into an Enumeration.
func ParseEnumeration(s string) (Enumeration, error) {
	switch s {
	case "combinations":
		return EnumerateCombinations, nil
	case "legacy-ordered", "legacy_ordered", "legacy":
		return EnumerateLegacyOrdered, nil
	}
	return 0, fmt.Errorf("unknown enumeration %q, expected combinations or legacy-ordered", s)
}

// Policy configures the empty-sphere predicate.
type Policy struct {
	Mode   Mode
	Offset OffsetKind

	// Distance is how far offset points are moved along the unit normal.
	Distance float64
	// ScaleFactor is used by OffsetScale.
	ScaleFactor float64
	// Alpha is the sphere radius used by ModeAlpha.
	Alpha float64
	// CoincidenceEpsilon excludes cloud points this close to a vertex.
	CoincidenceEpsilon float64
}

// DefaultPolicy returns the six-point dual-offset policy.
func DefaultPolicy() Policy {
	return Policy{
		Mode:               ModeDualOffset,
		Offset:             OffsetVertices,
		Distance:           DefaultOffsetDistance,
		ScaleFactor:        DefaultScaleFactor,
		CoincidenceEpsilon: geom.DefaultCoincidenceEpsilon,
	}
}

// AlphaPolicy returns a fixed-radius policy with the default coincidence
// epsilon.
func AlphaPolicy(radius float64) Policy {
	p := DefaultPolicy()
	p.Mode = ModeAlpha
	p.Alpha = radius
	return p
}

// Validate checks that the policy's parameters are usable.
func (p Policy) Validate() error {
	if !(p.CoincidenceEpsilon >= 0) {
		return fmt.Errorf("coincidence epsilon must be >= 0, got %g", p.CoincidenceEpsilon)
	}
	switch p.Mode {
	case ModeAlpha:
		if !(p.Alpha > 0) || math.IsInf(p.Alpha, 0) {
			return fmt.Errorf("alpha radius must be positive and finite, got %g", p.Alpha)
		}
	case ModeDualOffset:
		switch p.Offset {
		case OffsetVertices, OffsetCentroid:
			if !(p.Distance > 0) || math.IsInf(p.Distance, 0) {
				return fmt.Errorf("offset distance must be positive and finite, got %g", p.Distance)
			}
		case OffsetScale:
			if !(p.ScaleFactor > 0) || p.ScaleFactor == 1 || math.IsInf(p.ScaleFactor, 0) {
				return fmt.Errorf("scale factor must be positive, finite and != 1, got %g", p.ScaleFactor)
			}
		default:
			return fmt.Errorf("unknown offset kind %v", p.Offset)
		}
	default:
		return fmt.Errorf("unknown predicate mode %v", p.Mode)
	}
	return nil
}

// Options configures a crust run.
type Options struct {
	Policy      Policy
	Enumeration Enumeration

	// Workers > 1 evaluates candidates concurrently. Output order does
	// not depend on the worker count.
	Workers int

	// SpatialIndex answers brute-force neighbor queries with a k-d tree
	// when the edge limit is finite. It never changes the output.
	SpatialIndex bool
}

// DefaultOptions returns single-worker options with the default policy.
func DefaultOptions() Options {
	return Options{
		Policy:       DefaultPolicy(),
		Enumeration:  EnumerateCombinations,
		Workers:      1,
		SpatialIndex: true,
	}
}
