package mesh

import (
	"fmt"
	"math"

	"github.com/notargets/FEMKernel/refcell"
	"github.com/sirupsen/logrus"
)

// NewReferenceCell builds a one-cell triangulation of the reference cell
// itself, so the geometric mapping is the identity.
func NewReferenceCell(shape refcell.Type) *Mesh {
	verts := shape.Vertices()
	cell := make([]int, shape.NVertices())
	for i := range cell {
		cell[i] = i
	}
	m := newMesh(shape, verts, [][]int{cell})
	logrus.WithFields(logrus.Fields{
		"shape": shape.String(),
	}).Debug("generated reference cell mesh")
	return m
}

// NewHyperCube builds a one-cell mesh of [left,right]^dim.
func NewHyperCube(dim int, left, right float64) *Mesh {
	if right <= left {
		panic(fmt.Sprintf("mesh: hyper cube bounds [%g,%g] inverted", left, right))
	}
	var shape refcell.Type
	switch dim {
	case 1:
		shape = refcell.Line
	case 2:
		shape = refcell.Quadrilateral
	case 3:
		shape = refcell.Hexahedron
	default:
		panic(fmt.Sprintf("mesh: hyper cube dimension %d out of range", dim))
	}
	ref := shape.Vertices()
	verts := make([][]float64, len(ref))
	for i, rv := range ref {
		v := make([]float64, dim)
		for d := 0; d < dim; d++ {
			v[d] = left + (right-left)*rv[d]
		}
		verts[i] = v
	}
	cell := make([]int, len(verts))
	for i := range cell {
		cell[i] = i
	}
	return newMesh(shape, verts, [][]int{cell})
}

// NewHyperBall builds the coarse quadrilateral/hexahedral mesh of a ball
// of the given radius centered at the origin: a central cube surrounded
// by one shell cell per cube face, with the outer vertices on the
// sphere. The inner cube is shrunk to equilibrate cell sizes.
func NewHyperBall(dim int, radius float64) *Mesh {
	if radius <= 0 {
		panic(fmt.Sprintf("mesh: hyper ball radius %g out of range", radius))
	}
	var m *Mesh
	switch dim {
	case 2:
		m = hyperBall2D(radius)
	case 3:
		m = hyperBall3D(radius)
	default:
		panic(fmt.Sprintf("mesh: hyper ball dimension %d out of range", dim))
	}
	m.boundaryCenter = make([]float64, dim)
	m.boundaryRadius = radius
	logrus.WithFields(logrus.Fields{
		"dim":    dim,
		"radius": radius,
		"cells":  m.NCells(),
	}).Debug("generated hyper ball mesh")
	return m
}

func hyperBall2D(radius float64) *Mesh {
	b := radius / math.Sqrt2
	a := 1. / (1. + math.Sqrt2) // inner square shrink factor
	// vertices 0-3: outer corners on the circle, 4-7: inner square,
	// both in (-,-),(+,-),(-,+),(+,+) order
	verts := [][]float64{
		{-b, -b}, {b, -b}, {-b, b}, {b, b},
		{-a * b, -a * b}, {a * b, -a * b}, {-a * b, a * b}, {a * b, a * b},
	}
	cells := [][]int{
		{4, 5, 6, 7}, // center
		{0, 1, 4, 5}, // bottom
		{6, 7, 2, 3}, // top
		{0, 4, 2, 6}, // left
		{5, 1, 7, 3}, // right
	}
	return newMesh(refcell.Quadrilateral, verts, cells)
}

func hyperBall3D(radius float64) *Mesh {
	b := radius / math.Sqrt(3)
	a := 1. / (1. + math.Sqrt(3))
	// vertices 0-7: outer cube corners on the sphere, 8-15: inner cube,
	// both in hexahedron vertex order (x fastest)
	var verts [][]float64
	for _, s := range []float64{1, a} {
		for _, z := range []float64{-1, 1} {
			for _, y := range []float64{-1, 1} {
				for _, x := range []float64{-1, 1} {
					verts = append(verts, []float64{s * b * x, s * b * y, s * b * z})
				}
			}
		}
	}
	in := func(x, y, z int) int { return 8 + x + 2*y + 4*z }
	out := func(x, y, z int) int { return x + 2*y + 4*z }
	cells := [][]int{
		// center cube
		{in(0, 0, 0), in(1, 0, 0), in(0, 1, 0), in(1, 1, 0),
			in(0, 0, 1), in(1, 0, 1), in(0, 1, 1), in(1, 1, 1)},
		// +z shell: params (x, y, outward)
		{in(0, 0, 1), in(1, 0, 1), in(0, 1, 1), in(1, 1, 1),
			out(0, 0, 1), out(1, 0, 1), out(0, 1, 1), out(1, 1, 1)},
		// -z shell: params (x, y, inward)
		{out(0, 0, 0), out(1, 0, 0), out(0, 1, 0), out(1, 1, 0),
			in(0, 0, 0), in(1, 0, 0), in(0, 1, 0), in(1, 1, 0)},
		// +x shell: params (y, z, outward)
		{in(1, 0, 0), in(1, 1, 0), in(1, 0, 1), in(1, 1, 1),
			out(1, 0, 0), out(1, 1, 0), out(1, 0, 1), out(1, 1, 1)},
		// -x shell: params (z, y, outward)
		{in(0, 0, 0), in(0, 0, 1), in(0, 1, 0), in(0, 1, 1),
			out(0, 0, 0), out(0, 0, 1), out(0, 1, 0), out(0, 1, 1)},
		// +y shell: params (z, x, outward)
		{in(0, 1, 0), in(0, 1, 1), in(1, 1, 0), in(1, 1, 1),
			out(0, 1, 0), out(0, 1, 1), out(1, 1, 0), out(1, 1, 1)},
		// -y shell: params (x, z, outward)
		{in(0, 0, 0), in(1, 0, 0), in(0, 0, 1), in(1, 0, 1),
			out(0, 0, 0), out(1, 0, 0), out(0, 0, 1), out(1, 0, 1)},
	}
	return newMesh(refcell.Hexahedron, verts, cells)
}
