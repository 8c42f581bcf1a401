package mesh

import (
	"fmt"
	"math"
	"sort"

	"github.com/notargets/FEMKernel/fe"
	"github.com/notargets/FEMKernel/refcell"
	"github.com/sirupsen/logrus"
)

// RefineGlobal splits every quadrilateral into 4 and every hexahedron
// into 8 children, n times. New vertices whose parent vertices all lie
// on the boundary sphere are projected back onto it, so refined hyper
// ball meshes stay curved.
func (m *Mesh) RefineGlobal(n int) {
	if m.shape != refcell.Quadrilateral && m.shape != refcell.Hexahedron {
		panic(fmt.Sprintf("mesh: refinement not implemented for %v", m.shape))
	}
	for i := 0; i < n; i++ {
		m.refineOnce()
	}
	logrus.WithFields(logrus.Fields{
		"cells":    m.NCells(),
		"vertices": m.NVertices(),
	}).Debug("refined mesh")
}

func (m *Mesh) refineOnce() {
	dim := m.Dim()
	geom := fe.NewQ(dim, 1)

	newVerts := append([][]float64{}, m.vertices...)
	// key: sorted parent vertex ids of the interpolated point
	index := make(map[string]int)
	for i := range m.vertices {
		index[fmt.Sprint([]int{i})] = i
	}

	onSphere := func(v []float64) bool {
		if m.boundaryRadius == 0 {
			return false
		}
		var r2 float64
		for d := 0; d < dim; d++ {
			dv := v[d] - m.boundaryCenter[d]
			r2 += dv * dv
		}
		return math.Abs(math.Sqrt(r2)-m.boundaryRadius) < 1e-10*m.boundaryRadius
	}

	// gridPoint interpolates the cell at parameters i/2 per axis and
	// dedups through the shared-parent key.
	gridPoint := func(c *Cell, gi [3]int) int {
		// parent corners involved: those matching the fixed axes
		var parents []int
		nv := c.NVertices()
		for v := 0; v < nv; v++ {
			match := true
			for d := 0; d < dim; d++ {
				bit := (v >> d) & 1
				if gi[d] != 1 && gi[d]/2 != bit {
					match = false
					break
				}
			}
			if match {
				parents = append(parents, c.vertices[v])
			}
		}
		sort.Ints(parents)
		key := fmt.Sprint(parents)
		if id, ok := index[key]; ok {
			return id
		}

		p := make([]float64, dim)
		for d := 0; d < dim; d++ {
			p[d] = float64(gi[d]) / 2
		}
		x := make([]float64, dim)
		for v := 0; v < nv; v++ {
			phi := geom.ShapeValue(v, p)
			for d := 0; d < dim; d++ {
				x[d] += phi * c.Vertex(v)[d]
			}
		}

		if len(parents) > 1 {
			all := true
			for _, pid := range parents {
				if !onSphere(newVerts[pid]) {
					all = false
					break
				}
			}
			if all {
				var r float64
				for d := 0; d < dim; d++ {
					dv := x[d] - m.boundaryCenter[d]
					r += dv * dv
				}
				r = math.Sqrt(r)
				for d := 0; d < dim; d++ {
					x[d] = m.boundaryCenter[d] +
						(x[d]-m.boundaryCenter[d])*m.boundaryRadius/r
				}
			}
		}

		id := len(newVerts)
		newVerts = append(newVerts, x)
		index[key] = id
		return id
	}

	var newCells [][]int
	nChildren := 1 << dim
	for _, c := range m.cells {
		for child := 0; child < nChildren; child++ {
			var ci [3]int
			for d := 0; d < dim; d++ {
				ci[d] = (child >> d) & 1
			}
			verts := make([]int, c.NVertices())
			for v := 0; v < c.NVertices(); v++ {
				var gi [3]int
				for d := 0; d < dim; d++ {
					gi[d] = ci[d] + (v>>d)&1
				}
				verts[v] = gridPoint(c, gi)
			}
			newCells = append(newCells, verts)
		}
	}

	m.vertices = newVerts
	m.cells = nil
	m.neighbors = nil
	for i, cv := range newCells {
		m.cells = append(m.cells, &Cell{mesh: m, index: i, vertices: cv})
	}
}
