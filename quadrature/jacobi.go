package quadrature

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// gaussJacobi computes the n-point Gauss-Jacobi rule for the weight
// (1-x)^alpha (1+x)^beta on [-1,1]. Points are the eigenvalues of the
// symmetric tridiagonal Jacobi matrix, weights come from the first row of
// its eigenvectors scaled by the zeroth moment.
func gaussJacobi(alpha, beta float64, n int) (x, w []float64) {
	if n < 1 {
		panic("quadrature: rule needs at least one point")
	}
	N := n - 1
	if N == 0 {
		return []float64{-(alpha - beta) / (alpha + beta + 2.)},
			[]float64{moment0(alpha, beta)}
	}

	h1 := make([]float64, N+1)
	for i := 0; i < N+1; i++ {
		h1[i] = 2*float64(i) + alpha + beta
	}

	// main diagonal: -(b^2-a^2)/((2i+a+b)*(2i+a+b+2))
	d0 := make([]float64, N+1)
	fac := beta*beta - alpha*alpha
	for i := 0; i < N+1; i++ {
		d0[i] = fac / (h1[i] * (h1[i] + 2.))
	}
	if alpha+beta < 10*1.e-16 {
		d0[0] = 0.
	}

	// first superdiagonal
	d1 := make([]float64, N)
	for i := 0; i < N; i++ {
		ip1 := float64(i + 1)
		val := h1[i]
		d1[i] = 2.0 / (val + 2.0) * math.Sqrt(
			ip1*(ip1+alpha+beta)*(ip1+alpha)*(ip1+beta)/(val+1)/(val+3),
		)
	}

	JJ := newSymTriDiagonal(d0, d1)

	var eig mat.EigenSym
	if ok := eig.Factorize(JJ, true); !ok {
		panic("quadrature: eigenvalue decomposition failed")
	}
	x = eig.Values(nil)

	VVr := mat.NewDense(len(x), len(x), nil)
	eig.VectorsTo(VVr)
	w = make([]float64, len(x))
	copy(w, VVr.RawRowView(0))
	for i := range w {
		w[i] *= w[i] * moment0(alpha, beta)
	}
	return x, w
}

// moment0 is the integral of the Jacobi weight over [-1,1].
func moment0(alpha, beta float64) float64 {
	ab1 := alpha + beta + 1.
	a1 := alpha + 1.
	b1 := beta + 1.
	return math.Gamma(a1) * math.Gamma(b1) * math.Pow(2, ab1) / ab1 / math.Gamma(ab1)
}

func newSymTriDiagonal(d0, d1 []float64) *mat.SymDense {
	n := len(d0)
	dd := make([]float64, n*n)
	for i := 0; i < n; i++ {
		dd[i+i*n] = d0[i]
		if i < n-1 {
			dd[i+1+i*n] = d1[i]
		}
	}
	return mat.NewSymDense(n, dd)
}

// GaussLobattoPoints returns the p+1 Gauss-Lobatto points on [0,1],
// the zeros of (1-x^2) P'_p(x) shifted to the unit interval. They serve
// as support points for the Lagrange element families.
func GaussLobattoPoints(p int) []float64 {
	if p < 1 {
		panic("quadrature: Gauss-Lobatto needs degree >= 1")
	}
	x := make([]float64, p+1)
	x[0] = 0
	x[p] = 1
	if p > 1 {
		xint, _ := gaussJacobi(1, 1, p-1)
		for i, xi := range xint {
			x[i+1] = 0.5 * (xi + 1)
		}
	}
	return x
}
