package crust

import (
	"github.com/chazu/cheesemaker/pkg/geom"
	"golang.org/x/sync/errgroup"
)

// partial is one work unit's output: accepted triangles in visit order.
type partial struct {
	tris  []geom.Triangle
	stats Stats
}

// fanOut runs fn for every unit in [0, n) using at most workers
// goroutines. Results are indexed by unit, so concatenating them yields
// the same order as a sequential loop.
func fanOut(n, workers int, fn func(unit int) partial) []partial {
	out := make([]partial, n)
	if workers <= 1 || n <= 1 {
		for i := 0; i < n; i++ {
			out[i] = fn(i)
		}
		return out
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			out[i] = fn(i)
			return nil
		})
	}
	_ = g.Wait() // units never fail
	return out
}

// merge concatenates partials in unit order.
func merge(parts []partial) ([]geom.Triangle, Stats) {
	var (
		tris  []geom.Triangle
		stats Stats
	)
	for _, p := range parts {
		tris = append(tris, p.tris...)
		stats = stats.Add(p.stats)
	}
	return tris, stats
}
