package fe

import (
	"fmt"

	"github.com/notargets/FEMKernel/quadrature"
	"github.com/notargets/FEMKernel/refcell"
)

// Q is the continuous tensor-product Lagrange element of arbitrary
// degree on [0,1]^dim, with Gauss-Lobatto support points. Dofs are
// numbered lexicographically with the x index running fastest.
type Q struct {
	dim     int
	degree  int
	basis   *lagrange1D
	shape   refcell.Type
	support [][]float64
}

// NewQ builds the degree-p Lagrange element in dimension dim (1-3).
func NewQ(dim, degree int) *Q {
	if dim < 1 || dim > 3 {
		panic(fmt.Sprintf("fe: Q element dimension %d out of range", dim))
	}
	if degree < 1 {
		panic(fmt.Sprintf("fe: Q element degree %d out of range", degree))
	}
	var shape refcell.Type
	switch dim {
	case 1:
		shape = refcell.Line
	case 2:
		shape = refcell.Quadrilateral
	case 3:
		shape = refcell.Hexahedron
	}
	q := &Q{
		dim:    dim,
		degree: degree,
		basis:  newLagrange1D(quadrature.GaussLobattoPoints(degree)),
		shape:  shape,
	}
	for i := 0; i < q.NDofsPerCell(); i++ {
		idx := q.multiIndex(i)
		p := make([]float64, dim)
		for d := 0; d < dim; d++ {
			p[d] = q.basis.nodes[idx[d]]
		}
		q.support = append(q.support, p)
	}
	return q
}

func (q *Q) Name() string                { return fmt.Sprintf("Q%d", q.degree) }
func (q *Q) ReferenceCell() refcell.Type { return q.shape }
func (q *Q) Degree() int                 { return q.degree }
func (q *Q) NComponents() int            { return 1 }
func (q *Q) ComponentIndex(int) int      { return 0 }
func (q *Q) SupportPoints() [][]float64  { return q.support }

func (q *Q) NDofsPerCell() int {
	n := 1
	for d := 0; d < q.dim; d++ {
		n *= q.basis.n()
	}
	return n
}

func (q *Q) multiIndex(i int) [3]int {
	n1 := q.basis.n()
	var idx [3]int
	for d := 0; d < q.dim; d++ {
		idx[d] = i % n1
		i /= n1
	}
	return idx
}

// shapeDeriv evaluates the mixed partial derivative with per-axis
// orders of dof i at p.
func (q *Q) shapeDeriv(i int, p []float64, orders [3]int) float64 {
	idx := q.multiIndex(i)
	v := 1.0
	for d := 0; d < q.dim; d++ {
		v *= q.basis.value(idx[d], p[d], orders[d])
	}
	return v
}

func (q *Q) ShapeValue(i int, p []float64) float64 {
	return q.shapeDeriv(i, p, [3]int{})
}

func (q *Q) ShapeGradient(i int, p []float64) []float64 {
	g := make([]float64, q.dim)
	for a := 0; a < q.dim; a++ {
		var orders [3]int
		orders[a] = 1
		g[a] = q.shapeDeriv(i, p, orders)
	}
	return g
}

func (q *Q) ShapeHessian(i int, p []float64) []float64 {
	h := make([]float64, q.dim*q.dim)
	for a := 0; a < q.dim; a++ {
		for b := a; b < q.dim; b++ {
			var orders [3]int
			orders[a]++
			orders[b]++
			v := q.shapeDeriv(i, p, orders)
			h[a*q.dim+b] = v
			h[b*q.dim+a] = v
		}
	}
	return h
}

func (q *Q) ShapeThirdDerivative(i int, p []float64) []float64 {
	d := q.dim
	t := make([]float64, d*d*d)
	for a := 0; a < d; a++ {
		for b := a; b < d; b++ {
			for c := b; c < d; c++ {
				var orders [3]int
				orders[a]++
				orders[b]++
				orders[c]++
				v := q.shapeDeriv(i, p, orders)
				// fill all permutations of (a,b,c)
				for _, ijk := range permute3(a, b, c) {
					t[ijk[0]*d*d+ijk[1]*d+ijk[2]] = v
				}
			}
		}
	}
	return t
}

func permute3(a, b, c int) [][3]int {
	perms := [][3]int{
		{a, b, c}, {a, c, b}, {b, a, c}, {b, c, a}, {c, a, b}, {c, b, a},
	}
	return perms
}
