// Package mesh holds the crust output: an append-only Surface of accepted
// triangles and the flat Mesh form handed to renderers.
package mesh

import "github.com/chazu/cheesemaker/pkg/geom"

// Surface is an append-only list of accepted triangles. It performs no
// welding, deduplication or orientation fixing; the same face may appear
// several times.
type Surface struct {
	tris []geom.Triangle
}

// New returns an empty surface.
func New() *Surface {
	return &Surface{}
}

// Append adds t to the end of the surface and returns the surface.
func (s *Surface) Append(t geom.Triangle) *Surface {
	s.tris = append(s.tris, t)
	return s
}

// AppendAll adds ts in order.
func (s *Surface) AppendAll(ts []geom.Triangle) *Surface {
	s.tris = append(s.tris, ts...)
	return s
}

// Len returns the number of triangles, duplicates included.
func (s *Surface) Len() int {
	if s == nil {
		return 0
	}
	return len(s.tris)
}

// IsEmpty returns true if the surface has no triangles.
func (s *Surface) IsEmpty() bool {
	return s.Len() == 0
}

// At returns triangle i.
func (s *Surface) At(i int) geom.Triangle {
	return s.tris[i]
}

// Triangles returns a copy of the surface's triangles in append order.
func (s *Surface) Triangles() []geom.Triangle {
	if s == nil {
		return nil
	}
	out := make([]geom.Triangle, len(s.tris))
	copy(out, s.tris)
	return out
}

// UniqueCount returns the number of distinct unoriented triangles.
func (s *Surface) UniqueCount() int {
	seen := make(map[geom.Key]struct{}, s.Len())
	for _, t := range s.Triangles() {
		seen[t.Key()] = struct{}{}
	}
	return len(seen)
}

// Mesh is a triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	PartName string    `json:"partName"` // which scene produced this mesh
}

// Mesh flattens the surface. Every triangle gets its own three vertices
// carrying the face normal, so shared corners are not merged.
func (s *Surface) Mesh() *Mesh {
	n := s.Len()
	m := &Mesh{
		Vertices: make([]float32, 0, n*9),
		Normals:  make([]float32, 0, n*9),
		Indices:  make([]uint32, 0, n*3),
	}
	for i, tri := range s.Triangles() {
		nv, _ := tri.Normal()
		nx, ny, nz := float32(nv.X), float32(nv.Y), float32(nv.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			m.Vertices = append(m.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
			m.Normals = append(m.Normals, nx, ny, nz)
			m.Indices = append(m.Indices, uint32(i*3+j))
		}
	}
	return m
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}
