package scene

import (
	"math"
	"strings"
	"testing"

	"github.com/chazu/cheesemaker/pkg/geom"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// buildTetraScene returns a valid scene with the unit corner tetrahedron
// as its only cell.
func buildTetraScene() *Scene {
	s := New()
	s.Name = "tetra"
	s.AddPoint(geom.Point{X: 0, Y: 0, Z: 0})
	s.AddPoint(geom.Point{X: 1, Y: 0, Z: 0})
	s.AddPoint(geom.Point{X: 0, Y: 1, Z: 0})
	s.AddPoint(geom.Point{X: 0, Y: 0, Z: 1})
	s.AddCell(Cell{0, 1, 2, 3})
	return s
}

func hasFinding(errs []ValidationError, substr string) bool {
	for _, e := range errs {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func ptr(f float64) *float64 { return &f }

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestValidate_ValidScene(t *testing.T) {
	r := Validate(buildTetraScene())
	if !r.OK() {
		for _, e := range r.Errors {
			t.Errorf("unexpected validation error: %s", e)
		}
	}
	if len(r.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", r.Warnings)
	}
	if r.Err() != nil {
		t.Errorf("Err() = %v, want nil", r.Err())
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Scene)
		substr string
	}{
		{"index out of range", func(s *Scene) { s.Cells[0][3] = 9 }, "out of range"},
		{"negative index", func(s *Scene) { s.Cells[0][0] = -1 }, "out of range"},
		{"repeated index", func(s *Scene) { s.Cells[0][3] = 1 }, "repeated"},
		{"nan coordinate", func(s *Scene) { s.Points[2].Y = math.NaN() }, "non-finite"},
		{"inf coordinate", func(s *Scene) { s.Points[1].X = math.Inf(1) }, "non-finite"},
		{"negative max edge", func(s *Scene) { s.Settings.MaxEdge = ptr(-1) }, "max-edge"},
		{"nan max edge", func(s *Scene) { s.Settings.MaxEdge = ptr(math.NaN()) }, "max-edge"},
		{"delaunay without cells", func(s *Scene) {
			s.Cells = nil
			s.Settings.Method = MethodDelaunay
		}, "needs at least one cell"},
		{"unknown method", func(s *Scene) { s.Settings.Method = "voronoi" }, "unknown method"},
		{"unknown offset", func(s *Scene) { s.Settings.Offset = "normal" }, "unknown offset"},
		{"unknown mode", func(s *Scene) { s.Settings.Mode = "ball" }, "unknown predicate mode"},
		{"unknown enumeration", func(s *Scene) { s.Settings.Enumeration = "all" }, "unknown enumeration"},
		{"zero distance", func(s *Scene) { s.Settings.Distance = ptr(0) }, "distance"},
		{"negative alpha", func(s *Scene) { s.Settings.Alpha = ptr(-2) }, "alpha"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := buildTetraScene()
			tt.mutate(s)
			r := Validate(s)
			if r.OK() {
				t.Fatal("expected validation errors, got none")
			}
			if !hasFinding(r.Errors, tt.substr) {
				t.Errorf("no error containing %q in %v", tt.substr, r.Errors)
			}
			if r.Err() == nil {
				t.Error("Err() = nil, want error")
			}
		})
	}
}

func TestValidate_Warnings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Scene)
		substr string
	}{
		{"duplicate point", func(s *Scene) { s.AddPoint(geom.Point{X: 1}) }, "duplicate of point 1"},
		{"flat cell", func(s *Scene) {
			s.AddPoint(geom.Point{X: 1, Y: 1})
			s.Cells[0] = Cell{0, 1, 2, 4}
		}, "zero volume"},
		{"too few points", func(s *Scene) {
			s.Points = s.Points[:2]
			s.Cells = nil
		}, "at least 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := buildTetraScene()
			tt.mutate(s)
			r := Validate(s)
			if !r.OK() {
				t.Fatalf("unexpected errors: %v", r.Errors)
			}
			if !hasFinding(r.Warnings, tt.substr) {
				t.Errorf("no warning containing %q in %v", tt.substr, r.Warnings)
			}
			for _, w := range r.Warnings {
				if w.Severity != SeverityWarning {
					t.Errorf("warning %s has severity %s", w, w.Severity)
				}
			}
		})
	}
}

func TestValidationErrorString(t *testing.T) {
	e := ValidationError{Subject: SubjectCell, Index: 2, Message: "bad", Severity: SeverityError}
	if got := e.Error(); got != "[error] cell 2: bad" {
		t.Errorf("Error() = %q", got)
	}
	e = ValidationError{Subject: SubjectSettings, Index: -1, Message: "bad", Severity: SeverityWarning}
	if got := e.Error(); got != "[warning] settings: bad" {
		t.Errorf("Error() = %q", got)
	}
}
