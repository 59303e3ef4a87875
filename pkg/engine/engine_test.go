package engine

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestEvaluateEmptyString(t *testing.T) {
	for _, src := range []string{"", "   \n\t  \n  "} {
		sc, evalErrs, err := NewEngine().Evaluate(src)
		if err != nil {
			t.Fatalf("unexpected fatal error: %v", err)
		}
		if len(evalErrs) > 0 {
			t.Fatalf("unexpected eval errors: %v", evalErrs)
		}
		if sc == nil {
			t.Fatal("expected non-nil scene")
		}
		if len(sc.Points) != 0 {
			t.Errorf("expected empty scene, got %d points", len(sc.Points))
		}
	}
}

func TestEvaluateArithmetic(t *testing.T) {
	sc := mustEval(t, `
(def x 10)
(def y 20)
(+ x y)
`)
	if len(sc.Points) != 0 {
		t.Errorf("expected no points, got %d", len(sc.Points))
	}
}

func TestEvaluateSyntaxError(t *testing.T) {
	mustFail(t, "(+ 1 2")
}

func TestEvaluateUndefinedSymbol(t *testing.T) {
	mustFail(t, "(+ 1 undefined-symbol)")
}

func TestEvaluateSyntaxErrorHasLineInfo(t *testing.T) {
	errs := mustFail(t, "(point 0 0 0)\n(point 1")
	// Line info depends on the zygomys error format.
	t.Logf("line=%d message=%q", errs[0].Line, errs[0].Message)
}

func TestEvalErrorImplementsError(t *testing.T) {
	e := EvalError{Line: 5, Message: "something went wrong"}
	s := e.Error()
	if !strings.Contains(s, "line 5") || !strings.Contains(s, "something went wrong") {
		t.Errorf("Error() = %q", s)
	}

	e2 := EvalError{Message: "no location"}
	if strings.Contains(e2.Error(), "line") {
		t.Errorf("Error() with no line should not contain 'line', got: %s", e2.Error())
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	eng := NewEngine()
	src := `(sample-sphere :radius 1 :cells 5)`
	first, _, err := eng.Evaluate(src)
	if err != nil || first == nil {
		t.Fatalf("first evaluation failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		sc, evalErrs, err := eng.Evaluate(src)
		if err != nil || len(evalErrs) > 0 {
			t.Fatalf("iteration %d: %v %v", i, err, evalErrs)
		}
		if len(sc.Points) != len(first.Points) {
			t.Fatalf("iteration %d: %d points, want %d", i, len(sc.Points), len(first.Points))
		}
		for j := range sc.Points {
			if sc.Points[j] != first.Points[j] {
				t.Fatalf("iteration %d: point %d differs", i, j)
			}
		}
	}
}

func TestWaitWithTimeout(t *testing.T) {
	var mu sync.Mutex
	gen := uint64(1)
	ch := make(chan evalResult) // never sends

	start := time.Now()
	_, _, err := waitWithTimeout(ch, 50*time.Millisecond, 1, &mu, &gen)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Errorf("timeout took %s", time.Since(start))
	}
}

func TestWithTimeout(t *testing.T) {
	eng := NewEngine().WithTimeout(time.Second)
	if eng.timeout != time.Second {
		t.Errorf("timeout = %s, want 1s", eng.timeout)
	}
	eng.WithTimeout(0)
	if eng.timeout != EvalTimeout {
		t.Errorf("timeout = %s, want default %s", eng.timeout, EvalTimeout)
	}
}

func TestEvaluateGenerationDiscardsStale(t *testing.T) {
	var mu sync.Mutex
	gen := uint64(2)

	ch := make(chan evalResult, 1)
	ch <- evalResult{}

	_, _, err := waitWithTimeout(ch, time.Second, 1, &mu, &gen)
	if !errors.Is(err, ErrSuperseded) {
		t.Fatalf("expected ErrSuperseded, got %v", err)
	}
}

func TestParseZygomysError(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		wantLine int
		wantMsg  string
	}{
		{"error on line format", "Error on line 5: unexpected token\n", 5, "unexpected token"},
		{"no line info", "some generic error", 0, "some generic error"},
		{"line format lowercase", "error on line 12: missing paren", 12, "missing paren"},
		{"bare line prefix", "line 3: bad", 3, "bad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := parseZygomysError(errors.New(tt.msg))
			if len(errs) == 0 {
				t.Fatal("expected at least one error")
			}
			e := errs[0]
			if e.Line != tt.wantLine {
				t.Errorf("line = %d, want %d", e.Line, tt.wantLine)
			}
			if !strings.Contains(e.Message, tt.wantMsg) {
				t.Errorf("message = %q, want containing %q", e.Message, tt.wantMsg)
			}
		})
	}
}
