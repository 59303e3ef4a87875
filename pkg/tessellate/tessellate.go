// Package tessellate turns a scene into a crust surface: it validates the
// scene, merges its settings into the tuning config, picks a candidate
// generator and runs it.
package tessellate

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/chazu/cheesemaker/pkg/config"
	"github.com/chazu/cheesemaker/pkg/crust"
	"github.com/chazu/cheesemaker/pkg/mesh"
	"github.com/chazu/cheesemaker/pkg/scene"
)

// ErrNilScene is returned by Run for a nil scene.
var ErrNilScene = errors.New("tessellate: nil scene")

// Result is the outcome of one run.
type Result struct {
	Surface    *mesh.Surface
	Stats      crust.Stats
	Method     scene.Method
	Validation scene.ValidationResult
	Elapsed    time.Duration
}

// Mesh exports the surface, named after the scene.
func (r Result) Mesh(name string) *mesh.Mesh {
	m := r.Surface.Mesh()
	m.PartName = name
	return m
}

// Generator builds the candidate generator for sc under cfg, with the
// scene's own settings taking precedence.
func Generator(sc *scene.Scene, cfg *config.Config) (crust.Generator, error) {
	if cfg == nil {
		cfg = config.Empty()
	}
	eff := cfg.WithSettings(sc.Settings)
	if err := eff.Validate(); err != nil {
		return nil, fmt.Errorf("tessellate: %w", err)
	}
	opts, err := eff.Options()
	if err != nil {
		return nil, fmt.Errorf("tessellate: %w", err)
	}

	switch sc.ResolveMethod(eff.GetMethod()) {
	case scene.MethodDelaunay:
		if len(sc.Cells) == 0 {
			return nil, fmt.Errorf("tessellate: method delaunay needs cells, scene %q has none", sc.Name)
		}
		cells, err := sc.Tetrahedra()
		if err != nil {
			return nil, fmt.Errorf("tessellate: %w", err)
		}
		return crust.DelaunaySeeded{Cells: cells, MaxEdge: eff.GetMaxEdge(), Options: opts}, nil
	default:
		return crust.BruteForce{MaxEdge: eff.GetMaxEdge(), Options: opts}, nil
	}
}

// Run validates sc and extracts its crust. Blocking validation findings
// stop the run before any candidate is tested; the returned Result then
// carries an empty surface and the findings.
func Run(sc *scene.Scene, cfg *config.Config) (Result, error) {
	res := Result{Surface: mesh.New()}
	if sc == nil {
		return res, ErrNilScene
	}

	res.Validation = scene.Validate(sc)
	for _, w := range res.Validation.Warnings {
		log.Printf("tessellate: scene %q: %s", sc.Name, w)
	}
	if err := res.Validation.Err(); err != nil {
		return res, fmt.Errorf("tessellate: scene %q is invalid: %w", sc.Name, err)
	}

	gen, err := Generator(sc, cfg)
	if err != nil {
		return res, err
	}
	res.Method = scene.Method(gen.Name())

	start := time.Now()
	res.Surface, res.Stats = gen.Generate(sc.Points)
	res.Elapsed = time.Since(start)

	log.Printf("tessellate: scene %q method=%s points=%d cells=%d %s elapsed=%s",
		sc.Name, res.Method, len(sc.Points), len(sc.Cells), res.Stats, res.Elapsed)
	return res, nil
}
