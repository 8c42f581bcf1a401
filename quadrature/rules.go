// Package quadrature builds the per-shape quadrature rules used by the
// evaluation engine: tensor-product Gauss rules on lines, quadrilaterals
// and hexahedra, and conical-product Gauss-Jacobi rules on the simplex,
// wedge and pyramid shapes.
package quadrature

import (
	"fmt"

	"github.com/notargets/FEMKernel/refcell"
)

// Rule is an immutable ordered sequence of (point, weight) pairs over a
// reference cell.
type Rule struct {
	shape   refcell.Type
	points  [][]float64
	weights []float64
}

// Shape returns the reference cell the rule integrates over.
func (r *Rule) Shape() refcell.Type { return r.shape }

// Len returns the number of quadrature points.
func (r *Rule) Len() int { return len(r.weights) }

// Point returns the reference coordinates of quadrature point q.
func (r *Rule) Point(q int) []float64 { return r.points[q] }

// Weight returns the weight of quadrature point q.
func (r *Rule) Weight(q int) float64 { return r.weights[q] }

// NewGaussLine builds the n-point Gauss rule on the unit interval.
func NewGaussLine(n int) *Rule {
	t, wt := gaussJacobi(0, 0, n)
	pts := make([][]float64, n)
	w := make([]float64, n)
	for i := 0; i < n; i++ {
		pts[i] = []float64{0.5 * (t[i] + 1)}
		w[i] = 0.5 * wt[i]
	}
	return &Rule{shape: refcell.Line, points: pts, weights: w}
}

// NewGauss builds the n^dim tensor-product Gauss rule on [0,1]^dim.
func NewGauss(dim, n int) *Rule {
	line := NewGaussLine(n)
	switch dim {
	case 1:
		return line
	case 2:
		r := &Rule{shape: refcell.Quadrilateral}
		for j := 0; j < n; j++ {
			for i := 0; i < n; i++ {
				r.points = append(r.points,
					[]float64{line.points[i][0], line.points[j][0]})
				r.weights = append(r.weights, line.weights[i]*line.weights[j])
			}
		}
		return r
	case 3:
		r := &Rule{shape: refcell.Hexahedron}
		for k := 0; k < n; k++ {
			for j := 0; j < n; j++ {
				for i := 0; i < n; i++ {
					r.points = append(r.points, []float64{
						line.points[i][0], line.points[j][0], line.points[k][0]})
					r.weights = append(r.weights,
						line.weights[i]*line.weights[j]*line.weights[k])
				}
			}
		}
		return r
	}
	panic(fmt.Sprintf("quadrature: unsupported dimension %d", dim))
}

// NewGaussSimplex builds a conical-product Gauss rule on the unit
// triangle (dim 2) or tetrahedron (dim 3). The collapsed directions use
// Gauss-Jacobi rules whose weights absorb the cone volume factors, so
// the rule is exact for polynomials of total degree 2n-1.
func NewGaussSimplex(dim, n int) *Rule {
	xi, wxi := shifted(gaussJacobi(0, 0, n))
	eta, weta := shifted(gaussJacobi(1, 0, n))
	for i := range weta {
		weta[i] *= 0.5 // (1-t) = 2(1-eta) under the shift
	}
	switch dim {
	case 2:
		r := &Rule{shape: refcell.Triangle}
		for j := 0; j < n; j++ {
			for i := 0; i < n; i++ {
				x := xi[i] * (1 - eta[j])
				y := eta[j]
				r.points = append(r.points, []float64{x, y})
				r.weights = append(r.weights, wxi[i]*weta[j])
			}
		}
		return r
	case 3:
		zeta, wzeta := shifted(gaussJacobi(2, 0, n))
		for i := range wzeta {
			wzeta[i] *= 0.25 // (1-t)^2 = 4(1-zeta)^2 under the shift
		}
		r := &Rule{shape: refcell.Tetrahedron}
		for k := 0; k < n; k++ {
			for j := 0; j < n; j++ {
				for i := 0; i < n; i++ {
					z := zeta[k]
					y := eta[j] * (1 - z)
					x := xi[i] * (1 - eta[j]) * (1 - z)
					r.points = append(r.points, []float64{x, y, z})
					r.weights = append(r.weights, wxi[i]*weta[j]*wzeta[k])
				}
			}
		}
		return r
	}
	panic(fmt.Sprintf("quadrature: no simplex rule in dimension %d", dim))
}

// NewGaussWedge builds the product of a triangle rule and a line rule.
func NewGaussWedge(n int) *Rule {
	tri := NewGaussSimplex(2, n)
	line := NewGaussLine(n)
	r := &Rule{shape: refcell.Wedge}
	for k := 0; k < line.Len(); k++ {
		for q := 0; q < tri.Len(); q++ {
			p := tri.Point(q)
			r.points = append(r.points, []float64{p[0], p[1], line.points[k][0]})
			r.weights = append(r.weights, tri.weights[q]*line.weights[k])
		}
	}
	return r
}

// NewGaussPyramid builds a conical-product rule on the pyramid with base
// [-1,1]^2 and apex (0,0,1). The height direction uses the Gauss-Jacobi
// (2,0) rule to absorb the (1-z)^2 cross-section area.
func NewGaussPyramid(n int) *Rule {
	xi, wxi := gaussJacobi(0, 0, n)
	zeta, wzeta := shifted(gaussJacobi(2, 0, n))
	for i := range wzeta {
		wzeta[i] *= 0.25
	}
	r := &Rule{shape: refcell.Pyramid}
	for k := 0; k < n; k++ {
		for j := 0; j < n; j++ {
			for i := 0; i < n; i++ {
				z := zeta[k]
				x := xi[i] * (1 - z)
				y := xi[j] * (1 - z)
				r.points = append(r.points, []float64{x, y, z})
				r.weights = append(r.weights, wxi[i]*wxi[j]*wzeta[k])
			}
		}
	}
	return r
}

// ForShape returns the rule family matching the shape: tensor-product
// Gauss for line, quadrilateral and hexahedron, shape-specific rules for
// the rest. The mapping is a fixed lookup.
func ForShape(shape refcell.Type, n int) *Rule {
	switch shape {
	case refcell.Line:
		return NewGaussLine(n)
	case refcell.Quadrilateral:
		return NewGauss(2, n)
	case refcell.Hexahedron:
		return NewGauss(3, n)
	case refcell.Triangle:
		return NewGaussSimplex(2, n)
	case refcell.Tetrahedron:
		return NewGaussSimplex(3, n)
	case refcell.Wedge:
		return NewGaussWedge(n)
	case refcell.Pyramid:
		return NewGaussPyramid(n)
	}
	panic(fmt.Sprintf("quadrature: unknown shape %v", shape))
}

// shifted maps a rule on [-1,1] to [0,1].
func shifted(x, w []float64) ([]float64, []float64) {
	xs := make([]float64, len(x))
	ws := make([]float64, len(w))
	for i := range x {
		xs[i] = 0.5 * (x[i] + 1)
		ws[i] = 0.5 * w[i]
	}
	return xs, ws
}
