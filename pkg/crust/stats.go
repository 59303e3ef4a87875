package crust

import "fmt"

// Stats counts what a generator did with its candidates.
type Stats struct {
	// Candidates is the number of triangles handed to the predicate or
	// found degenerate before it.
	Candidates int
	// EdgeRejected counts Delaunay faces dropped by the edge limit. The
	// brute-force generator never materializes filtered triples.
	EdgeRejected int
	// Degenerate counts collinear candidates.
	Degenerate int
	// Accepted is the number of triangles appended to the surface.
	Accepted int
}

// Add returns the field-wise sum of s and o.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Candidates:   s.Candidates + o.Candidates,
		EdgeRejected: s.EdgeRejected + o.EdgeRejected,
		Degenerate:   s.Degenerate + o.Degenerate,
		Accepted:     s.Accepted + o.Accepted,
	}
}

func (s Stats) String() string {
	return fmt.Sprintf("candidates=%d edge_rejected=%d degenerate=%d accepted=%d",
		s.Candidates, s.EdgeRejected, s.Degenerate, s.Accepted)
}
