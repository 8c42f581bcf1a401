package fe

import (
	"fmt"

	"github.com/notargets/FEMKernel/refcell"
)

// WedgeP is the linear Lagrange element on the unit wedge (triangular
// prism): the product of the linear triangle basis in (x,y) and the
// linear line basis in z. Dofs 0-2 sit on the bottom triangle, 3-5 on
// the top.
type WedgeP struct {
	tri     *SimplexP
	support [][]float64
}

// NewWedgeP builds the degree-1 wedge element.
func NewWedgeP(degree int) *WedgeP {
	if degree != 1 {
		panic(fmt.Sprintf("fe: WedgeP degree %d not implemented", degree))
	}
	w := &WedgeP{tri: NewSimplexP(2, 1)}
	w.support = refcell.Wedge.Vertices()
	return w
}

func (w *WedgeP) Name() string                { return "WedgeP1" }
func (w *WedgeP) ReferenceCell() refcell.Type { return refcell.Wedge }
func (w *WedgeP) Degree() int                 { return 1 }
func (w *WedgeP) NDofsPerCell() int           { return 6 }
func (w *WedgeP) NComponents() int            { return 1 }
func (w *WedgeP) ComponentIndex(int) int      { return 0 }
func (w *WedgeP) SupportPoints() [][]float64  { return w.support }

// split maps dof i to its triangle dof and the z-factor with the
// requested z-derivative order.
func (w *WedgeP) zFactor(i, dz int, z float64) (tri int, f float64) {
	tri = i % 3
	top := i >= 3
	switch dz {
	case 0:
		if top {
			f = z
		} else {
			f = 1 - z
		}
	case 1:
		if top {
			f = 1
		} else {
			f = -1
		}
	default:
		f = 0
	}
	return tri, f
}

func (w *WedgeP) ShapeValue(i int, p []float64) float64 {
	tri, f := w.zFactor(i, 0, p[2])
	return w.tri.ShapeValue(tri, p[:2]) * f
}

func (w *WedgeP) ShapeGradient(i int, p []float64) []float64 {
	tri, f0 := w.zFactor(i, 0, p[2])
	_, f1 := w.zFactor(i, 1, p[2])
	tv := w.tri.ShapeValue(tri, p[:2])
	tg := w.tri.ShapeGradient(tri, p[:2])
	return []float64{tg[0] * f0, tg[1] * f0, tv * f1}
}

func (w *WedgeP) ShapeHessian(i int, p []float64) []float64 {
	// the triangle factor is affine and the z factor linear, so only
	// the xz and yz mixed entries survive
	tri, _ := w.zFactor(i, 0, p[2])
	_, f1 := w.zFactor(i, 1, p[2])
	tg := w.tri.ShapeGradient(tri, p[:2])
	h := make([]float64, 9)
	h[0*3+2] = tg[0] * f1
	h[2*3+0] = tg[0] * f1
	h[1*3+2] = tg[1] * f1
	h[2*3+1] = tg[1] * f1
	return h
}

func (w *WedgeP) ShapeThirdDerivative(i int, p []float64) []float64 {
	return make([]float64, 27)
}
