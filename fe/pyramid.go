package fe

import (
	"fmt"
	"math"

	"github.com/notargets/FEMKernel/refcell"
)

// PyramidP is the linear element on the reference pyramid (base [-1,1]^2
// at z=0, apex (0,0,1)). The base shape functions are rational: they
// carry the term xyz/(1-z) required for a conforming linear pyramid
// basis, so derivatives grow unbounded toward the apex.
type PyramidP struct {
	support [][]float64
}

// vertex sign patterns of the base shape functions
var pyrSX = [4]float64{-1, 1, -1, 1}
var pyrSY = [4]float64{-1, -1, 1, 1}

// NewPyramidP builds the degree-1 pyramid element.
func NewPyramidP(degree int) *PyramidP {
	if degree != 1 {
		panic(fmt.Sprintf("fe: PyramidP degree %d not implemented", degree))
	}
	return &PyramidP{support: refcell.Pyramid.Vertices()}
}

func (p *PyramidP) Name() string                { return "PyramidP1" }
func (p *PyramidP) ReferenceCell() refcell.Type { return refcell.Pyramid }
func (p *PyramidP) Degree() int                 { return 1 }
func (p *PyramidP) NDofsPerCell() int           { return 5 }
func (p *PyramidP) NComponents() int            { return 1 }
func (p *PyramidP) ComponentIndex(int) int      { return 0 }
func (p *PyramidP) SupportPoints() [][]float64  { return p.support }

// invz guards the apex singularity; at z=1 the rational term and all its
// derivatives are evaluated as zero (their limit along the apex).
func invz(z float64) (float64, bool) {
	if math.Abs(1-z) < 1e-14 {
		return 0, false
	}
	return 1 / (1 - z), true
}

func (p *PyramidP) ShapeValue(i int, pt []float64) float64 {
	x, y, z := pt[0], pt[1], pt[2]
	if i == 4 {
		return z
	}
	var ratio float64
	if iz, ok := invz(z); ok {
		ratio = x * y * z * iz
	}
	s := pyrSX[i] * pyrSY[i]
	return 0.25 * ((1+pyrSX[i]*x)*(1+pyrSY[i]*y) - z + s*ratio)
}

func (p *PyramidP) ShapeGradient(i int, pt []float64) []float64 {
	x, y, z := pt[0], pt[1], pt[2]
	if i == 4 {
		return []float64{0, 0, 1}
	}
	var rx, ry, rz float64
	if iz, ok := invz(z); ok {
		rx = y * z * iz
		ry = x * z * iz
		rz = x * y * iz * iz
	}
	s := pyrSX[i] * pyrSY[i]
	return []float64{
		0.25 * (pyrSX[i]*(1+pyrSY[i]*y) + s*rx),
		0.25 * (pyrSY[i]*(1+pyrSX[i]*x) + s*ry),
		0.25 * (-1 + s*rz),
	}
}

func (p *PyramidP) ShapeHessian(i int, pt []float64) []float64 {
	h := make([]float64, 9)
	if i == 4 {
		return h
	}
	x, y, z := pt[0], pt[1], pt[2]
	var rxy, rxz, ryz, rzz float64
	if iz, ok := invz(z); ok {
		rxy = z * iz
		rxz = y * iz * iz
		ryz = x * iz * iz
		rzz = 2 * x * y * iz * iz * iz
	}
	s := pyrSX[i] * pyrSY[i]
	h[0*3+1] = 0.25 * (pyrSX[i]*pyrSY[i] + s*rxy)
	h[1*3+0] = h[0*3+1]
	h[0*3+2] = 0.25 * s * rxz
	h[2*3+0] = h[0*3+2]
	h[1*3+2] = 0.25 * s * ryz
	h[2*3+1] = h[1*3+2]
	h[2*3+2] = 0.25 * s * rzz
	return h
}

func (p *PyramidP) ShapeThirdDerivative(i int, pt []float64) []float64 {
	t := make([]float64, 27)
	if i == 4 {
		return t
	}
	x, y, z := pt[0], pt[1], pt[2]
	var rxyz, rxzz, ryzz, rzzz float64
	if iz, ok := invz(z); ok {
		rxyz = iz * iz
		rxzz = 2 * y * iz * iz * iz
		ryzz = 2 * x * iz * iz * iz
		rzzz = 6 * x * y * iz * iz * iz * iz
	}
	s := pyrSX[i] * pyrSY[i]
	set3 := func(a, b, c int, v float64) {
		for _, ijk := range permute3(a, b, c) {
			t[ijk[0]*9+ijk[1]*3+ijk[2]] = v
		}
	}
	set3(0, 1, 2, 0.25*s*rxyz)
	set3(0, 2, 2, 0.25*s*rxzz)
	set3(1, 2, 2, 0.25*s*ryzz)
	set3(2, 2, 2, 0.25*s*rzzz)
	return t
}
