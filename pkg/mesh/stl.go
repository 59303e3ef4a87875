package mesh

import (
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
)

// SaveSTL writes the surface as a binary STL file. Duplicate faces are
// written as-is.
func (s *Surface) SaveSTL(path string) error {
	tris := make([]*sdf.Triangle3, 0, s.Len())
	for _, t := range s.Triangles() {
		t3 := sdf.Triangle3(t)
		tris = append(tris, &t3)
	}
	return render.SaveSTL(path, tris)
}
