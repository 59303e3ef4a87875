package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/cheesemaker/pkg/crust"
	"github.com/chazu/cheesemaker/pkg/geom"
)

// ValidationSeverity indicates whether a validation finding blocks
// extraction or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks extraction
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// Subject names the part of the scene a finding refers to.
type Subject string

const (
	SubjectScene    Subject = "scene"
	SubjectPoint    Subject = "point"
	SubjectCell     Subject = "cell"
	SubjectSettings Subject = "settings"
)

// ValidationError describes a single validation finding.
type ValidationError struct {
	Subject  Subject            // what kind of element is affected
	Index    int                // point or cell index, -1 if not applicable
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Subject, e.Message)
	}
	return fmt.Sprintf("[%s] %s %d: %s", e.Severity, e.Subject, e.Index, e.Message)
}

// ValidationResult separates blocking errors from advisory warnings.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// OK reports whether there are no blocking errors.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// Err joins the blocking errors into one error, or returns nil.
func (r ValidationResult) Err() error {
	if r.OK() {
		return nil
	}
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// Validate checks s without modifying it.
func Validate(s *Scene) ValidationResult {
	var all []ValidationError
	all = append(all, validatePoints(s)...)
	all = append(all, validateCells(s)...)
	all = append(all, validateSettings(s)...)

	var r ValidationResult
	for _, e := range all {
		if e.Severity == SeverityWarning {
			r.Warnings = append(r.Warnings, e)
		} else {
			r.Errors = append(r.Errors, e)
		}
	}
	return r
}

// validatePoints rejects non-finite coordinates and warns about repeated
// points and clouds too small to hold a triangle.
func validatePoints(s *Scene) []ValidationError {
	var errs []ValidationError

	if len(s.Points) < 3 {
		errs = append(errs, ValidationError{
			Subject:  SubjectScene,
			Index:    -1,
			Message:  fmt.Sprintf("%d points, at least 3 are needed for a surface", len(s.Points)),
			Severity: SeverityWarning,
		})
	}

	seen := make(map[geom.Point]int)
	for i, p := range s.Points {
		if !geom.IsFinite(p) {
			errs = append(errs, ValidationError{
				Subject:  SubjectPoint,
				Index:    i,
				Message:  fmt.Sprintf("non-finite coordinate (%g, %g, %g)", p.X, p.Y, p.Z),
				Severity: SeverityError,
			})
			continue
		}
		if first, ok := seen[p]; ok {
			errs = append(errs, ValidationError{
				Subject:  SubjectPoint,
				Index:    i,
				Message:  fmt.Sprintf("duplicate of point %d", first),
				Severity: SeverityWarning,
			})
			continue
		}
		seen[p] = i
	}

	return errs
}

// validateCells checks that every cell references four distinct existing
// points, and warns about flat cells.
func validateCells(s *Scene) []ValidationError {
	var errs []ValidationError

	for ci, c := range s.Cells {
		valid := true
		for _, idx := range c {
			if idx < 0 || idx >= len(s.Points) {
				errs = append(errs, ValidationError{
					Subject:  SubjectCell,
					Index:    ci,
					Message:  fmt.Sprintf("point index %d out of range [0,%d)", idx, len(s.Points)),
					Severity: SeverityError,
				})
				valid = false
			}
		}
		for a := 0; a < 4; a++ {
			for b := a + 1; b < 4; b++ {
				if c[a] == c[b] {
					errs = append(errs, ValidationError{
						Subject:  SubjectCell,
						Index:    ci,
						Message:  fmt.Sprintf("point index %d repeated", c[a]),
						Severity: SeverityError,
					})
					valid = false
				}
			}
		}
		if !valid {
			continue
		}

		t := geom.Tetra{s.Points[c[0]], s.Points[c[1]], s.Points[c[2]], s.Points[c[3]]}
		if t.Flat() {
			errs = append(errs, ValidationError{
				Subject:  SubjectCell,
				Index:    ci,
				Message:  "cell has zero volume",
				Severity: SeverityWarning,
			})
		}
	}

	return errs
}

// validateSettings checks the per-scene overrides.
func validateSettings(s *Scene) []ValidationError {
	var errs []ValidationError
	bad := func(format string, args ...any) {
		errs = append(errs, ValidationError{
			Subject:  SubjectSettings,
			Index:    -1,
			Message:  fmt.Sprintf(format, args...),
			Severity: SeverityError,
		})
	}

	if _, err := ParseMethod(string(s.Settings.Method)); err != nil {
		bad("%v", err)
	}
	if s.Settings.Method == MethodDelaunay && len(s.Cells) == 0 {
		bad("method delaunay needs at least one cell")
	}
	if s.Settings.Mode != "" {
		if _, err := crust.ParseMode(s.Settings.Mode); err != nil {
			bad("%v", err)
		}
	}
	if s.Settings.Offset != "" {
		if _, err := crust.ParseOffset(s.Settings.Offset); err != nil {
			bad("%v", err)
		}
	}
	if s.Settings.Enumeration != "" {
		if _, err := crust.ParseEnumeration(s.Settings.Enumeration); err != nil {
			bad("%v", err)
		}
	}
	if m := s.Settings.MaxEdge; m != nil && (math.IsNaN(*m) || *m < 0) {
		bad("max-edge must be >= 0, got %g", *m)
	}
	if d := s.Settings.Distance; d != nil && !(*d > 0) {
		bad("distance must be positive, got %g", *d)
	}
	if a := s.Settings.Alpha; a != nil && !(*a > 0) {
		bad("alpha must be positive, got %g", *a)
	}

	return errs
}
