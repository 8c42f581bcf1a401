package fe

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// lagrange1D is a nodal Lagrange basis on [0,1] stored as monomial
// coefficients. The coefficients are obtained by inverting the
// Vandermonde matrix of the node set, the same nodal-basis construction
// route the reference operators use.
type lagrange1D struct {
	nodes []float64
	coeff *mat.Dense // row i holds the monomial coefficients of basis i
}

func newLagrange1D(nodes []float64) *lagrange1D {
	n := len(nodes)
	V := mat.NewDense(n, n, nil)
	for j := 0; j < n; j++ {
		xk := 1.0
		for k := 0; k < n; k++ {
			V.Set(j, k, xk)
			xk *= nodes[j]
		}
	}
	var Vinv mat.Dense
	if err := Vinv.Inverse(V); err != nil {
		panic(fmt.Sprintf("fe: Vandermonde inversion failed: %v", err))
	}
	coeff := mat.DenseCopyOf(Vinv.T())
	out := &lagrange1D{coeff: coeff}
	out.nodes = append(out.nodes, nodes...)
	return out
}

func (l *lagrange1D) n() int { return len(l.nodes) }

// value evaluates the deriv-th derivative of basis function i at x.
func (l *lagrange1D) value(i int, x float64, deriv int) float64 {
	n := l.n()
	if deriv >= n {
		return 0
	}
	// Horner on the differentiated coefficients, highest power first.
	var v float64
	for k := n - 1; k >= deriv; k-- {
		c := l.coeff.At(i, k)
		fac := 1.0
		for d := 0; d < deriv; d++ {
			fac *= float64(k - d)
		}
		v = v*x + c*fac
	}
	return v
}
