package fevalues

import (
	"github.com/notargets/FEMKernel/fe"
	"github.com/notargets/FEMKernel/mesh"
)

// Interpolate fills a global dof vector, in cell-local numbering, with
// the nodal values of f. For a multi-component element, f returns one
// value per component at the physical point; each dof samples the
// component it belongs to at its support point.
func Interpolate(m *mesh.Mesh, el fe.Element, f func(x []float64) []float64) []float64 {
	nd := el.NDofsPerCell()
	dim := m.Dim()
	geom := GeometryElement(m.Shape())
	support := el.SupportPoints()
	global := make([]float64, m.NCells()*nd)
	for _, cell := range m.Cells() {
		verts := cellVertices(cell)
		off := cell.Index() * nd
		for i := 0; i < nd; i++ {
			x := mapPoint(geom, verts, support[i], dim)
			global[off+i] = f(x)[el.ComponentIndex(i)]
		}
	}
	return global
}
