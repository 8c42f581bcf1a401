package fevalues

import (
	"fmt"
	"math"

	"github.com/notargets/FEMKernel/fe"
	"github.com/notargets/FEMKernel/mesh"
	"github.com/notargets/FEMKernel/quadrature"
	"github.com/notargets/FEMKernel/refcell"
)

// FEFaceValues evaluates an element on one face of a cell against a
// quadrature rule of codimension one. Faces are only defined for the
// tensor-product shapes. Reference tables are built lazily per face and
// cached, since the face embedding does not depend on the cell.
type FEFaceValues struct {
	el    fe.Element
	geom  fe.Element
	quad  *quadrature.Rule
	flags UpdateFlags
	dim   int

	tables map[int]*faceTables

	// per-Reinit state
	cell      *mesh.Cell
	face      int
	jxw       []float64
	qpoints   [][]float64
	normals   [][]float64
	physGrads [][][]float64
	physHess  [][][]float64
}

type faceTables struct {
	points    [][]float64 // face rule points embedded in cell coordinates
	refValues [][]float64
	refGrads  [][][]float64
	refHess   [][][]float64
}

// NewFEFaceValues builds a face evaluator. The rule must live on the
// element's face shape: a line rule for quadrilaterals, a quadrilateral
// rule for hexahedra.
func NewFEFaceValues(el fe.Element, quad *quadrature.Rule, flags UpdateFlags) *FEFaceValues {
	dim := el.ReferenceCell().Dim()
	if quad.Shape().Dim() != dim-1 {
		panic(fmt.Sprintf("fevalues: face rule on %v has codimension %d, want 1",
			quad.Shape(), dim-quad.Shape().Dim()))
	}
	switch el.ReferenceCell() {
	case refcell.Quadrilateral, refcell.Hexahedron:
	default:
		panic(fmt.Sprintf("fevalues: face evaluation not implemented for %v",
			el.ReferenceCell()))
	}
	return &FEFaceValues{
		el:     el,
		geom:   GeometryElement(el.ReferenceCell()),
		quad:   quad,
		flags:  flags,
		dim:    dim,
		tables: make(map[int]*faceTables),
	}
}

// embedFacePoint lifts a face rule point into cell reference
// coordinates. Face f fixes axis f/2 at f%2; the remaining axes take
// the face parameters in increasing order.
func embedFacePoint(dim, face int, u []float64) []float64 {
	p := make([]float64, dim)
	p[face/2] = float64(face % 2)
	k := 0
	for d := 0; d < dim; d++ {
		if d == face/2 {
			continue
		}
		p[d] = u[k]
		k++
	}
	return p
}

func (ff *FEFaceValues) faceTables(face int) *faceTables {
	if t, ok := ff.tables[face]; ok {
		return t
	}
	nq := ff.quad.Len()
	nd := ff.el.NDofsPerCell()
	t := &faceTables{points: make([][]float64, nq)}
	for q := 0; q < nq; q++ {
		t.points[q] = embedFacePoint(ff.dim, face, ff.quad.Point(q))
	}
	if ff.flags.has(UpdateValues) {
		t.refValues = make([][]float64, nq)
		for q := 0; q < nq; q++ {
			t.refValues[q] = make([]float64, nd)
			for i := 0; i < nd; i++ {
				t.refValues[q][i] = ff.el.ShapeValue(i, t.points[q])
			}
		}
	}
	if ff.flags.has(UpdateGradients) || ff.flags.has(UpdateHessians) {
		t.refGrads = make([][][]float64, nq)
		for q := 0; q < nq; q++ {
			t.refGrads[q] = make([][]float64, nd)
			for i := 0; i < nd; i++ {
				t.refGrads[q][i] = ff.el.ShapeGradient(i, t.points[q])
			}
		}
	}
	if ff.flags.has(UpdateHessians) {
		t.refHess = make([][][]float64, nq)
		for q := 0; q < nq; q++ {
			t.refHess[q] = make([][]float64, nd)
			for i := 0; i < nd; i++ {
				t.refHess[q][i] = ff.el.ShapeHessian(i, t.points[q])
			}
		}
	}
	ff.tables[face] = t
	return t
}

// Reinit recomputes the per-face quantities for the given cell face.
// The surface weight is det(J) |J^-T n| w, the outward normal the
// normalized pushforward of the reference face normal.
func (ff *FEFaceValues) Reinit(cell *mesh.Cell, face int) error {
	if cell.Shape() != ff.el.ReferenceCell() {
		return fmt.Errorf("fevalues: cell shape %v does not match element on %v",
			cell.Shape(), ff.el.ReferenceCell())
	}
	if face < 0 || face >= cell.Shape().NFaces() {
		return fmt.Errorf("fevalues: %v has no face %d", cell.Shape(), face)
	}
	t := ff.faceTables(face)
	nq := ff.quad.Len()
	nd := ff.el.NDofsPerCell()
	verts := cellVertices(cell)
	nref := cell.Shape().FaceNormal(face)

	ff.cell = cell
	ff.face = face
	ff.jxw = make([]float64, nq)
	ff.normals = make([][]float64, nq)
	if ff.flags.has(UpdateQuadraturePoints) {
		ff.qpoints = make([][]float64, nq)
	}
	if ff.flags.has(UpdateGradients) {
		ff.physGrads = make([][][]float64, nq)
	}
	if ff.flags.has(UpdateHessians) {
		ff.physHess = make([][][]float64, nq)
	}
	order := 1
	if ff.flags.has(UpdateHessians) {
		order = 2
	}

	for q := 0; q < nq; q++ {
		md, err := computeMapping(ff.geom, verts, t.points[q], order)
		if err != nil {
			return fmt.Errorf("cell %d, face %d, point %d: %w",
				cell.Index(), face, q, err)
		}
		// n_i = A_{ai} nref_a, then normalize; its magnitude carries
		// the surface area scaling
		n := make([]float64, ff.dim)
		var mag float64
		for i := 0; i < ff.dim; i++ {
			for a := 0; a < ff.dim; a++ {
				n[i] += md.inv[a*ff.dim+i] * nref[a]
			}
			mag += n[i] * n[i]
		}
		mag = math.Sqrt(mag)
		for i := range n {
			n[i] /= mag
		}
		ff.normals[q] = n
		ff.jxw[q] = md.det * mag * ff.quad.Weight(q)
		if ff.flags.has(UpdateQuadraturePoints) {
			ff.qpoints[q] = mapPoint(ff.geom, verts, t.points[q], ff.dim)
		}
		if ff.flags.has(UpdateGradients) {
			ff.physGrads[q] = make([][]float64, nd)
			for i := 0; i < nd; i++ {
				ff.physGrads[q][i] = md.pushGradient(t.refGrads[q][i])
			}
		}
		if ff.flags.has(UpdateHessians) {
			ff.physHess[q] = make([][]float64, nd)
			for i := 0; i < nd; i++ {
				ff.physHess[q][i] = md.pushHessian(t.refGrads[q][i], t.refHess[q][i])
			}
		}
	}
	return nil
}

// NQuadraturePoints returns the number of face quadrature points.
func (ff *FEFaceValues) NQuadraturePoints() int { return ff.quad.Len() }

// DofsPerCell returns the number of dofs of the element.
func (ff *FEFaceValues) DofsPerCell() int { return ff.el.NDofsPerCell() }

func (ff *FEFaceValues) checkReinit() {
	if ff.cell == nil {
		panic("fevalues: Reinit has not been called")
	}
}

// JxW returns the surface quadrature weight at q.
func (ff *FEFaceValues) JxW(q int) float64 {
	ff.checkReinit()
	return ff.jxw[q]
}

// NormalVector returns the outward unit normal at face point q.
func (ff *FEFaceValues) NormalVector(q int) []float64 {
	ff.checkReinit()
	return ff.normals[q]
}

// QuadraturePoint returns the physical location of face point q.
func (ff *FEFaceValues) QuadraturePoint(q int) []float64 {
	ff.checkReinit()
	if !ff.flags.has(UpdateQuadraturePoints) {
		panic("fevalues: QuadraturePoint requested but the corresponding update flag is not set")
	}
	return ff.qpoints[q]
}

// ShapeValue returns shape function i at face point q.
func (ff *FEFaceValues) ShapeValue(i, q int) float64 {
	ff.checkReinit()
	if !ff.flags.has(UpdateValues) {
		panic("fevalues: ShapeValue requested but the corresponding update flag is not set")
	}
	return ff.tables[ff.face].refValues[q][i]
}

// ShapeGradient returns the physical gradient of shape function i at
// face point q.
func (ff *FEFaceValues) ShapeGradient(i, q int) []float64 {
	ff.checkReinit()
	if !ff.flags.has(UpdateGradients) {
		panic("fevalues: ShapeGradient requested but the corresponding update flag is not set")
	}
	return ff.physGrads[q][i]
}

// ShapeHessian returns the physical Hessian of shape function i at
// face point q, flat row-major dim*dim.
func (ff *FEFaceValues) ShapeHessian(i, q int) []float64 {
	ff.checkReinit()
	if !ff.flags.has(UpdateHessians) {
		panic("fevalues: ShapeHessian requested but the corresponding update flag is not set")
	}
	return ff.physHess[q][i]
}
