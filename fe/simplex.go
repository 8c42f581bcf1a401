package fe

import (
	"fmt"

	"github.com/notargets/FEMKernel/refcell"
)

// SimplexP is the Lagrange simplex element of degree 1 or 2 on the unit
// triangle or tetrahedron, expressed through barycentric coordinates.
// Degree-1 dofs sit on the vertices; degree 2 adds one dof per edge
// midpoint.
type SimplexP struct {
	dim    int
	degree int
	shape  refcell.Type

	// lambda_k = a[k] + b[k].x, the barycentric coordinates
	a []float64
	b [][]float64

	// dof layout: vertex dofs then edge dofs (pairs of vertex indices)
	edges   [][2]int
	support [][]float64
}

// NewSimplexP builds the degree-p simplex element in dimension dim.
func NewSimplexP(dim, degree int) *SimplexP {
	if dim < 2 || dim > 3 {
		panic(fmt.Sprintf("fe: SimplexP dimension %d out of range", dim))
	}
	if degree < 1 || degree > 2 {
		panic(fmt.Sprintf("fe: SimplexP degree %d not implemented", degree))
	}
	s := &SimplexP{dim: dim, degree: degree}
	nv := dim + 1
	// lambda_0 = 1 - sum x_d, lambda_{d+1} = x_d
	s.a = make([]float64, nv)
	s.b = make([][]float64, nv)
	s.a[0] = 1
	s.b[0] = make([]float64, dim)
	for d := 0; d < dim; d++ {
		s.b[0][d] = -1
	}
	for k := 1; k < nv; k++ {
		s.b[k] = make([]float64, dim)
		s.b[k][k-1] = 1
	}
	if dim == 2 {
		s.shape = refcell.Triangle
		s.edges = [][2]int{{0, 1}, {0, 2}, {1, 2}}
	} else {
		s.shape = refcell.Tetrahedron
		s.edges = [][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}
	}

	verts := s.shape.Vertices()
	for _, v := range verts {
		s.support = append(s.support, v)
	}
	if degree == 2 {
		for _, e := range s.edges {
			mid := make([]float64, dim)
			for d := 0; d < dim; d++ {
				mid[d] = 0.5 * (verts[e[0]][d] + verts[e[1]][d])
			}
			s.support = append(s.support, mid)
		}
	}
	return s
}

func (s *SimplexP) Name() string                { return fmt.Sprintf("SimplexP%d", s.degree) }
func (s *SimplexP) ReferenceCell() refcell.Type { return s.shape }
func (s *SimplexP) Degree() int                 { return s.degree }
func (s *SimplexP) NComponents() int            { return 1 }
func (s *SimplexP) ComponentIndex(int) int      { return 0 }
func (s *SimplexP) SupportPoints() [][]float64  { return s.support }

func (s *SimplexP) NDofsPerCell() int { return len(s.support) }

func (s *SimplexP) lambda(k int, p []float64) float64 {
	v := s.a[k]
	for d := 0; d < s.dim; d++ {
		v += s.b[k][d] * p[d]
	}
	return v
}

func (s *SimplexP) ShapeValue(i int, p []float64) float64 {
	nv := s.dim + 1
	if s.degree == 1 {
		return s.lambda(i, p)
	}
	if i < nv {
		l := s.lambda(i, p)
		return l * (2*l - 1)
	}
	e := s.edges[i-nv]
	return 4 * s.lambda(e[0], p) * s.lambda(e[1], p)
}

func (s *SimplexP) ShapeGradient(i int, p []float64) []float64 {
	nv := s.dim + 1
	g := make([]float64, s.dim)
	if s.degree == 1 {
		copy(g, s.b[i])
		return g
	}
	if i < nv {
		l := s.lambda(i, p)
		for d := 0; d < s.dim; d++ {
			g[d] = (4*l - 1) * s.b[i][d]
		}
		return g
	}
	e := s.edges[i-nv]
	l0, l1 := s.lambda(e[0], p), s.lambda(e[1], p)
	for d := 0; d < s.dim; d++ {
		g[d] = 4 * (l0*s.b[e[1]][d] + l1*s.b[e[0]][d])
	}
	return g
}

func (s *SimplexP) ShapeHessian(i int, p []float64) []float64 {
	nv := s.dim + 1
	h := make([]float64, s.dim*s.dim)
	if s.degree == 1 {
		return h
	}
	if i < nv {
		for a := 0; a < s.dim; a++ {
			for b := 0; b < s.dim; b++ {
				h[a*s.dim+b] = 4 * s.b[i][a] * s.b[i][b]
			}
		}
		return h
	}
	e := s.edges[i-nv]
	for a := 0; a < s.dim; a++ {
		for b := 0; b < s.dim; b++ {
			h[a*s.dim+b] = 4 * (s.b[e[0]][a]*s.b[e[1]][b] + s.b[e[1]][a]*s.b[e[0]][b])
		}
	}
	return h
}

func (s *SimplexP) ShapeThirdDerivative(i int, p []float64) []float64 {
	// degree <= 2: all third derivatives vanish
	return make([]float64, s.dim*s.dim*s.dim)
}
