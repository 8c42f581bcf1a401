package mesh

import (
	"math"
	"testing"

	"github.com/notargets/FEMKernel/refcell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceCellMesh(t *testing.T) {
	for _, shape := range []refcell.Type{
		refcell.Line, refcell.Triangle, refcell.Quadrilateral,
		refcell.Tetrahedron, refcell.Pyramid, refcell.Wedge,
		refcell.Hexahedron,
	} {
		m := NewReferenceCell(shape)
		assert.Equal(t, 1, m.NCells())
		assert.Equal(t, shape.NVertices(), m.NVertices())
		c := m.BeginActive()
		for v := 0; v < c.NVertices(); v++ {
			assert.Equal(t, shape.Vertex(v), c.Vertex(v))
		}
	}
}

func TestHyperCube(t *testing.T) {
	m := NewHyperCube(3, -1, 2)
	require.Equal(t, 1, m.NCells())
	c := m.BeginActive()
	assert.Equal(t, []float64{-1, -1, -1}, c.Vertex(0))
	assert.Equal(t, []float64{2, 2, 2}, c.Vertex(7))
	assert.Panics(t, func() { NewHyperCube(2, 1, 1) })
}

func cellJacobianSign(c *Cell) float64 {
	// determinant of the edge vectors at vertex 0; positive for a
	// correctly oriented cell
	dim := c.mesh.Dim()
	v0 := c.Vertex(0)
	e := make([][]float64, dim)
	for d := 0; d < dim; d++ {
		e[d] = make([]float64, dim)
		for k := 0; k < dim; k++ {
			e[d][k] = c.Vertex(1<<d)[k] - v0[k]
		}
	}
	if dim == 2 {
		return e[0][0]*e[1][1] - e[0][1]*e[1][0]
	}
	return e[0][0]*(e[1][1]*e[2][2]-e[1][2]*e[2][1]) -
		e[0][1]*(e[1][0]*e[2][2]-e[1][2]*e[2][0]) +
		e[0][2]*(e[1][0]*e[2][1]-e[1][1]*e[2][0])
}

func TestHyperBall2D(t *testing.T) {
	m := NewHyperBall(2, 1.0)
	assert.Equal(t, 5, m.NCells())
	assert.Equal(t, 8, m.NVertices())
	// outer vertices on the circle
	for i := 0; i < 4; i++ {
		v := m.Vertex(i)
		assert.InDelta(t, 1.0, math.Hypot(v[0], v[1]), 1.e-14)
	}
	for _, c := range m.Cells() {
		assert.Greaterf(t, cellJacobianSign(c), 0.0, "cell %d inverted", c.Index())
	}
}

func TestHyperBall3D(t *testing.T) {
	m := NewHyperBall(3, 2.0)
	assert.Equal(t, 7, m.NCells())
	assert.Equal(t, 16, m.NVertices())
	for i := 0; i < 8; i++ {
		v := m.Vertex(i)
		r := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
		assert.InDeltaf(t, 2.0, r, 1.e-14, "outer vertex %d", i)
	}
	for _, c := range m.Cells() {
		assert.Greaterf(t, cellJacobianSign(c), 0.0, "cell %d inverted", c.Index())
	}
}

func TestNeighborsAreSymmetric(t *testing.T) {
	m := NewHyperBall(2, 1.0)
	interior := 0
	for _, c := range m.Cells() {
		for f := 0; f < m.Shape().NFaces(); f++ {
			n := c.Neighbor(f)
			if n == nil {
				continue
			}
			interior++
			back := false
			for g := 0; g < m.Shape().NFaces(); g++ {
				if nb := n.Neighbor(g); nb != nil && nb.Index() == c.Index() {
					back = true
				}
			}
			assert.Truef(t, back, "cell %d face %d not mirrored", c.Index(), f)
		}
	}
	// 8 shared faces, each seen from both sides
	assert.Equal(t, 16, interior)
}

func TestRefineGlobal2D(t *testing.T) {
	m := NewHyperBall(2, 1.0)
	m.RefineGlobal(1)
	assert.Equal(t, 20, m.NCells())
	for _, c := range m.Cells() {
		assert.Greaterf(t, cellJacobianSign(c), 0.0, "cell %d inverted", c.Index())
	}
	// boundary midpoints were projected back onto the circle: every
	// vertex at radius > 0.9 must sit on it exactly
	onCircle := 0
	for i := 0; i < m.NVertices(); i++ {
		v := m.Vertex(i)
		r := math.Hypot(v[0], v[1])
		if r > 0.9 {
			assert.InDeltaf(t, 1.0, r, 1.e-12, "vertex %d off the circle", i)
			onCircle++
		}
	}
	assert.Equal(t, 8, onCircle)
}

func TestRefineGlobalCube(t *testing.T) {
	m := NewHyperCube(3, 0, 1)
	m.RefineGlobal(2)
	assert.Equal(t, 64, m.NCells())
	assert.Equal(t, 125, m.NVertices())
	// child cells tile the cube: total measure 1
	var vol float64
	for _, c := range m.Cells() {
		vol += cellJacobianSign(c)
	}
	assert.InDelta(t, 1.0, vol, 1.e-12)
}

func TestRefineUnsupportedShapePanics(t *testing.T) {
	m := NewReferenceCell(refcell.Tetrahedron)
	assert.Panics(t, func() { m.RefineGlobal(1) })
}
