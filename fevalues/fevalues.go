package fevalues

import (
	"fmt"

	"github.com/notargets/FEMKernel/fe"
	"github.com/notargets/FEMKernel/mesh"
	"github.com/notargets/FEMKernel/quadrature"
	"github.com/sirupsen/logrus"
)

// FEValues evaluates one element against one quadrature rule. The
// reference-space shape tables are computed once at construction; Reinit
// recomputes only the cell geometry and the pushed-forward derivatives.
type FEValues struct {
	el    fe.Element
	geom  fe.Element
	quad  *quadrature.Rule
	flags UpdateFlags
	dim   int

	// reference tables, [q][i]
	refValues [][]float64
	refGrads  [][][]float64
	refHess   [][][]float64
	refThird  [][][]float64

	// per-cell state, valid after Reinit
	cell      *mesh.Cell
	jxw       []float64
	qpoints   [][]float64
	physGrads [][][]float64
	physHess  [][][]float64
	physThird [][][]float64
}

// NewFEValues builds an evaluator for the element and rule. The rule
// must live on the element's reference cell.
func NewFEValues(el fe.Element, quad *quadrature.Rule, flags UpdateFlags) *FEValues {
	if quad.Shape() != el.ReferenceCell() {
		panic(fmt.Sprintf("fevalues: rule on %v does not match element on %v",
			quad.Shape(), el.ReferenceCell()))
	}
	fv := &FEValues{
		el:    el,
		geom:  GeometryElement(el.ReferenceCell()),
		quad:  quad,
		flags: flags,
		dim:   el.ReferenceCell().Dim(),
	}
	fv.tabulate()
	return fv
}

func (fv *FEValues) tabulate() {
	nq := fv.quad.Len()
	nd := fv.el.NDofsPerCell()
	points := make([][]float64, nq)
	for q := 0; q < nq; q++ {
		points[q] = fv.quad.Point(q)
	}
	fv.tabulateAt(points, nq, nd)
	logrus.WithFields(logrus.Fields{
		"element": fv.el.Name(),
		"nq":      nq,
		"ndofs":   nd,
	}).Debug("tabulated shape functions")
}

// tabulateAt fills the reference tables at the given points. Face
// evaluators reuse it with embedded face points.
func (fv *FEValues) tabulateAt(points [][]float64, nq, nd int) {
	if fv.flags.has(UpdateValues) {
		fv.refValues = make([][]float64, nq)
		for q := 0; q < nq; q++ {
			fv.refValues[q] = make([]float64, nd)
			for i := 0; i < nd; i++ {
				fv.refValues[q][i] = fv.el.ShapeValue(i, points[q])
			}
		}
	}
	need := func(f UpdateFlags) bool { return fv.flags.has(f) }
	if need(UpdateGradients) || need(UpdateHessians) || need(Update3rdDerivatives) {
		fv.refGrads = make([][][]float64, nq)
		for q := 0; q < nq; q++ {
			fv.refGrads[q] = make([][]float64, nd)
			for i := 0; i < nd; i++ {
				fv.refGrads[q][i] = fv.el.ShapeGradient(i, points[q])
			}
		}
	}
	if need(UpdateHessians) || need(Update3rdDerivatives) {
		fv.refHess = make([][][]float64, nq)
		for q := 0; q < nq; q++ {
			fv.refHess[q] = make([][]float64, nd)
			for i := 0; i < nd; i++ {
				fv.refHess[q][i] = fv.el.ShapeHessian(i, points[q])
			}
		}
	}
	if need(Update3rdDerivatives) {
		fv.refThird = make([][][]float64, nq)
		for q := 0; q < nq; q++ {
			fv.refThird[q] = make([][]float64, nd)
			for i := 0; i < nd; i++ {
				fv.refThird[q][i] = fv.el.ShapeThirdDerivative(i, points[q])
			}
		}
	}
}

// mappingOrder returns the derivative depth Reinit needs from the
// geometric mapping.
func (fv *FEValues) mappingOrder() int {
	switch {
	case fv.flags.has(Update3rdDerivatives):
		return 3
	case fv.flags.has(UpdateHessians):
		return 2
	default:
		return 1
	}
}

// Reinit recomputes the per-cell quantities for the given cell.
func (fv *FEValues) Reinit(cell *mesh.Cell) error {
	if cell.Shape() != fv.el.ReferenceCell() {
		return fmt.Errorf("fevalues: cell shape %v does not match element on %v",
			cell.Shape(), fv.el.ReferenceCell())
	}
	nq := fv.quad.Len()
	nd := fv.el.NDofsPerCell()
	verts := cellVertices(cell)
	order := fv.mappingOrder()

	fv.cell = cell
	fv.jxw = make([]float64, nq)
	if fv.flags.has(UpdateQuadraturePoints) {
		fv.qpoints = make([][]float64, nq)
	}
	if fv.flags.has(UpdateGradients) {
		fv.physGrads = make([][][]float64, nq)
	}
	if fv.flags.has(UpdateHessians) {
		fv.physHess = make([][][]float64, nq)
	}
	if fv.flags.has(Update3rdDerivatives) {
		fv.physThird = make([][][]float64, nq)
	}

	for q := 0; q < nq; q++ {
		p := fv.quad.Point(q)
		md, err := computeMapping(fv.geom, verts, p, order)
		if err != nil {
			return fmt.Errorf("cell %d, point %d: %w", cell.Index(), q, err)
		}
		fv.jxw[q] = md.det * fv.quad.Weight(q)
		if fv.flags.has(UpdateQuadraturePoints) {
			fv.qpoints[q] = mapPoint(fv.geom, verts, p, fv.dim)
		}
		if fv.flags.has(UpdateGradients) {
			fv.physGrads[q] = make([][]float64, nd)
			for i := 0; i < nd; i++ {
				fv.physGrads[q][i] = md.pushGradient(fv.refGrads[q][i])
			}
		}
		if fv.flags.has(UpdateHessians) {
			fv.physHess[q] = make([][]float64, nd)
			for i := 0; i < nd; i++ {
				fv.physHess[q][i] = md.pushHessian(fv.refGrads[q][i], fv.refHess[q][i])
			}
		}
		if fv.flags.has(Update3rdDerivatives) {
			fv.physThird[q] = make([][]float64, nd)
			for i := 0; i < nd; i++ {
				fv.physThird[q][i] = md.pushThird(
					fv.refGrads[q][i], fv.refHess[q][i], fv.refThird[q][i])
			}
		}
	}
	return nil
}

func cellVertices(cell *mesh.Cell) [][]float64 {
	verts := make([][]float64, cell.NVertices())
	for v := range verts {
		verts[v] = cell.Vertex(v)
	}
	return verts
}

// mapPoint evaluates the geometric mapping at a reference point.
func mapPoint(geom fe.Element, verts [][]float64, p []float64, dim int) []float64 {
	x := make([]float64, dim)
	for v := range verts {
		phi := geom.ShapeValue(v, p)
		for d := 0; d < dim; d++ {
			x[d] += phi * verts[v][d]
		}
	}
	return x
}

// Element returns the element being evaluated.
func (fv *FEValues) Element() fe.Element { return fv.el }

// Quadrature returns the rule in use.
func (fv *FEValues) Quadrature() *quadrature.Rule { return fv.quad }

// NQuadraturePoints returns the number of quadrature points.
func (fv *FEValues) NQuadraturePoints() int { return fv.quad.Len() }

// DofsPerCell returns the number of dofs of the element.
func (fv *FEValues) DofsPerCell() int { return fv.el.NDofsPerCell() }

// Cell returns the cell of the last Reinit.
func (fv *FEValues) Cell() *mesh.Cell {
	fv.checkReinit()
	return fv.cell
}

func (fv *FEValues) checkReinit() {
	if fv.cell == nil {
		panic("fevalues: Reinit has not been called")
	}
}

func (fv *FEValues) checkFlag(f UpdateFlags, name string) {
	if !fv.flags.has(f) {
		panic(fmt.Sprintf("fevalues: %s requested but the corresponding update flag is not set", name))
	}
}

// JxW returns the quadrature weight at q scaled by the Jacobian
// determinant.
func (fv *FEValues) JxW(q int) float64 {
	fv.checkReinit()
	fv.checkFlag(UpdateJxW, "JxW")
	return fv.jxw[q]
}

// QuadraturePoint returns the physical location of quadrature point q.
func (fv *FEValues) QuadraturePoint(q int) []float64 {
	fv.checkReinit()
	fv.checkFlag(UpdateQuadraturePoints, "QuadraturePoint")
	return fv.qpoints[q]
}

// ShapeValue returns shape function i at quadrature point q.
func (fv *FEValues) ShapeValue(i, q int) float64 {
	fv.checkFlag(UpdateValues, "ShapeValue")
	return fv.refValues[q][i]
}

// ShapeGradient returns the physical gradient of shape function i at q.
func (fv *FEValues) ShapeGradient(i, q int) []float64 {
	fv.checkReinit()
	fv.checkFlag(UpdateGradients, "ShapeGradient")
	return fv.physGrads[q][i]
}

// ShapeHessian returns the physical Hessian of shape function i at q,
// flat row-major dim*dim.
func (fv *FEValues) ShapeHessian(i, q int) []float64 {
	fv.checkReinit()
	fv.checkFlag(UpdateHessians, "ShapeHessian")
	return fv.physHess[q][i]
}

// ShapeThirdDerivative returns the physical third derivative tensor of
// shape function i at q, flat dim^3.
func (fv *FEValues) ShapeThirdDerivative(i, q int) []float64 {
	fv.checkReinit()
	fv.checkFlag(Update3rdDerivatives, "ShapeThirdDerivative")
	return fv.physThird[q][i]
}
