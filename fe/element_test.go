package fe

import (
	"math"
	"testing"

	"github.com/notargets/FEMKernel/refcell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// interior sample points per shape, away from faces and the pyramid apex
func samplePoints(shape refcell.Type) [][]float64 {
	switch shape {
	case refcell.Line:
		return [][]float64{{0.3}, {0.71}}
	case refcell.Triangle:
		return [][]float64{{0.2, 0.3}, {0.55, 0.15}}
	case refcell.Quadrilateral:
		return [][]float64{{0.2, 0.3}, {0.85, 0.6}}
	case refcell.Tetrahedron:
		return [][]float64{{0.2, 0.3, 0.1}, {0.15, 0.25, 0.35}}
	case refcell.Pyramid:
		return [][]float64{{0.2, -0.3, 0.4}, {-0.1, 0.2, 0.15}}
	case refcell.Wedge:
		return [][]float64{{0.2, 0.3, 0.4}, {0.1, 0.5, 0.8}}
	case refcell.Hexahedron:
		return [][]float64{{0.2, 0.3, 0.4}, {0.7, 0.15, 0.9}}
	}
	panic("no sample points")
}

func allElements() []Element {
	return []Element{
		NewQ(1, 1), NewQ(1, 2), NewQ(1, 3),
		NewQ(2, 1), NewQ(2, 2), NewQ(2, 3),
		NewQ(3, 1), NewQ(3, 2),
		NewSimplexP(2, 1), NewSimplexP(2, 2),
		NewSimplexP(3, 1), NewSimplexP(3, 2),
		NewWedgeP(1),
		NewPyramidP(1),
	}
}

func TestPartitionOfUnity(t *testing.T) {
	for _, el := range allElements() {
		dim := el.ReferenceCell().Dim()
		for _, p := range samplePoints(el.ReferenceCell()) {
			var sum float64
			gsum := make([]float64, dim)
			hsum := make([]float64, dim*dim)
			for i := 0; i < el.NDofsPerCell(); i++ {
				sum += el.ShapeValue(i, p)
				for d, g := range el.ShapeGradient(i, p) {
					gsum[d] += g
				}
				for d, h := range el.ShapeHessian(i, p) {
					hsum[d] += h
				}
			}
			assert.InDeltaf(t, 1., sum, 1.e-12, "%s at %v", el.Name(), p)
			for d := 0; d < dim; d++ {
				assert.InDeltaf(t, 0., gsum[d], 1.e-12, "%s grad at %v", el.Name(), p)
			}
			for d := 0; d < dim*dim; d++ {
				assert.InDeltaf(t, 0., hsum[d], 1.e-11, "%s hess at %v", el.Name(), p)
			}
		}
	}
}

func TestNodalProperty(t *testing.T) {
	for _, el := range allElements() {
		support := el.SupportPoints()
		require.Len(t, support, el.NDofsPerCell(), el.Name())
		if el.NComponents() != 1 {
			continue
		}
		for i := 0; i < el.NDofsPerCell(); i++ {
			for j, p := range support {
				want := 0.
				if i == j {
					want = 1
				}
				assert.InDeltaf(t, want, el.ShapeValue(i, p), 1.e-11,
					"%s phi_%d at node %d", el.Name(), i, j)
			}
		}
	}
}

// fdCheckGradient compares analytic derivatives against central
// differences of the next lower order.
func fdCheckGradient(t *testing.T, el Element, i int, p []float64) {
	t.Helper()
	const h = 1.e-5
	dim := el.ReferenceCell().Dim()
	g := el.ShapeGradient(i, p)
	for d := 0; d < dim; d++ {
		pp := append([]float64(nil), p...)
		pm := append([]float64(nil), p...)
		pp[d] += h
		pm[d] -= h
		fd := (el.ShapeValue(i, pp) - el.ShapeValue(i, pm)) / (2 * h)
		assert.InDeltaf(t, fd, g[d], 1.e-6, "%s dof %d d/dx_%d at %v",
			el.Name(), i, d, p)
	}
}

func fdCheckHessian(t *testing.T, el Element, i int, p []float64) {
	t.Helper()
	const h = 1.e-5
	dim := el.ReferenceCell().Dim()
	hess := el.ShapeHessian(i, p)
	for d := 0; d < dim; d++ {
		pp := append([]float64(nil), p...)
		pm := append([]float64(nil), p...)
		pp[d] += h
		pm[d] -= h
		gp := el.ShapeGradient(i, pp)
		gm := el.ShapeGradient(i, pm)
		for e := 0; e < dim; e++ {
			fd := (gp[e] - gm[e]) / (2 * h)
			assert.InDeltaf(t, fd, hess[e*dim+d], 1.e-5,
				"%s dof %d d2/dx_%d dx_%d at %v", el.Name(), i, e, d, p)
		}
	}
}

func fdCheckThird(t *testing.T, el Element, i int, p []float64) {
	t.Helper()
	const h = 1.e-4
	dim := el.ReferenceCell().Dim()
	third := el.ShapeThirdDerivative(i, p)
	for d := 0; d < dim; d++ {
		pp := append([]float64(nil), p...)
		pm := append([]float64(nil), p...)
		pp[d] += h
		pm[d] -= h
		hp := el.ShapeHessian(i, pp)
		hm := el.ShapeHessian(i, pm)
		for ab := 0; ab < dim*dim; ab++ {
			fd := (hp[ab] - hm[ab]) / (2 * h)
			assert.InDeltaf(t, fd, third[ab*dim+d], 1.e-4,
				"%s dof %d third [%d,%d] at %v", el.Name(), i, ab, d, p)
		}
	}
}

func TestDerivativesMatchFiniteDifferences(t *testing.T) {
	for _, el := range allElements() {
		for _, p := range samplePoints(el.ReferenceCell()) {
			for i := 0; i < el.NDofsPerCell(); i++ {
				fdCheckGradient(t, el, i, p)
				fdCheckHessian(t, el, i, p)
				fdCheckThird(t, el, i, p)
			}
		}
	}
}

func TestHessianSymmetry(t *testing.T) {
	for _, el := range allElements() {
		dim := el.ReferenceCell().Dim()
		for _, p := range samplePoints(el.ReferenceCell()) {
			for i := 0; i < el.NDofsPerCell(); i++ {
				h := el.ShapeHessian(i, p)
				for a := 0; a < dim; a++ {
					for b := a + 1; b < dim; b++ {
						assert.InDeltaf(t, h[a*dim+b], h[b*dim+a], 1.e-12,
							"%s dof %d at %v", el.Name(), i, p)
					}
				}
			}
		}
	}
}

func TestQReproducesPolynomials(t *testing.T) {
	// interpolating a tensor-degree-p polynomial at the support points
	// must reproduce it exactly
	el := NewQ(2, 3)
	f := func(p []float64) float64 {
		x, y := p[0], p[1]
		return 1 + 2*x - y + x*x*y + x*x*x - 0.5*y*y*y + x*y*y
	}
	support := el.SupportPoints()
	coeffs := make([]float64, el.NDofsPerCell())
	for i, sp := range support {
		coeffs[i] = f(sp)
	}
	for _, p := range [][]float64{{0.3, 0.7}, {0.11, 0.93}, {0.5, 0.5}} {
		var got float64
		for i, c := range coeffs {
			got += c * el.ShapeValue(i, p)
		}
		assert.InDeltaf(t, f(p), got, 1.e-12, "at %v", p)
	}
}

func TestSimplexP2ReproducesQuadratics(t *testing.T) {
	el := NewSimplexP(3, 2)
	f := func(p []float64) float64 {
		x, y, z := p[0], p[1], p[2]
		return 2 - x + 3*y + z + x*y - z*z + 0.5*x*x
	}
	support := el.SupportPoints()
	coeffs := make([]float64, el.NDofsPerCell())
	for i, sp := range support {
		coeffs[i] = f(sp)
	}
	for _, p := range samplePoints(refcell.Tetrahedron) {
		var got float64
		for i, c := range coeffs {
			got += c * el.ShapeValue(i, p)
		}
		assert.InDeltaf(t, f(p), got, 1.e-12, "at %v", p)
	}
}

func TestPyramidApexIsFinite(t *testing.T) {
	el := NewPyramidP(1)
	apex := []float64{0, 0, 1}
	for i := 0; i < 5; i++ {
		v := el.ShapeValue(i, apex)
		assert.Falsef(t, math.IsNaN(v) || math.IsInf(v, 0), "dof %d", i)
	}
	assert.InDelta(t, 1., el.ShapeValue(4, apex), 1.e-14)
}

func TestSystemComponentLayout(t *testing.T) {
	base := NewQ(2, 2)
	sys := NewSystem(base, 2)
	nb := base.NDofsPerCell()
	assert.Equal(t, 2*nb, sys.NDofsPerCell())
	assert.Equal(t, 2, sys.NComponents())
	for i := 0; i < sys.NDofsPerCell(); i++ {
		assert.Equal(t, i/nb, sys.ComponentIndex(i))
	}
	p := []float64{0.4, 0.6}
	for i := 0; i < nb; i++ {
		assert.Equal(t, base.ShapeValue(i, p), sys.ShapeValue(i, p))
		assert.Equal(t, base.ShapeValue(i, p), sys.ShapeValue(nb+i, p))
	}
	assert.Panics(t, func() { NewSystem(sys, 2) })
}
