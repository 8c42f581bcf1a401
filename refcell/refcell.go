// Package refcell describes the canonical reference cells used by the
// finite element and quadrature packages: their topology, vertex layout
// and closed-form geometric constants.
package refcell

import "fmt"

// Type identifies a reference cell shape.
type Type uint8

const (
	Line Type = iota
	Triangle
	Quadrilateral
	Tetrahedron
	Pyramid
	Wedge
	Hexahedron
)

func (t Type) String() string {
	switch t {
	case Line:
		return "Line"
	case Triangle:
		return "Triangle"
	case Quadrilateral:
		return "Quadrilateral"
	case Tetrahedron:
		return "Tetrahedron"
	case Pyramid:
		return "Pyramid"
	case Wedge:
		return "Wedge"
	case Hexahedron:
		return "Hexahedron"
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// Dim returns the intrinsic dimension of the shape.
func (t Type) Dim() int {
	switch t {
	case Line:
		return 1
	case Triangle, Quadrilateral:
		return 2
	default:
		return 3
	}
}

// Reference vertex coordinates. Lines, simplices and wedges live on the
// unit cell with vertices on the coordinate axes; quadrilaterals and
// hexahedra on [0,1]^d with the x index running fastest; the pyramid has
// base [-1,1]^2 at z=0 and apex (0,0,1).
var vertexTable = map[Type][][]float64{
	Line: {{0}, {1}},
	Triangle: {
		{0, 0}, {1, 0}, {0, 1},
	},
	Quadrilateral: {
		{0, 0}, {1, 0}, {0, 1}, {1, 1},
	},
	Tetrahedron: {
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1},
	},
	Pyramid: {
		{-1, -1, 0}, {1, -1, 0}, {-1, 1, 0}, {1, 1, 0}, {0, 0, 1},
	},
	Wedge: {
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0},
		{0, 0, 1}, {1, 0, 1}, {0, 1, 1},
	},
	Hexahedron: {
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0},
		{0, 0, 1}, {1, 0, 1}, {0, 1, 1}, {1, 1, 1},
	},
}

// NVertices returns the number of vertices of the shape.
func (t Type) NVertices() int { return len(vertexTable[t]) }

// Vertex returns the reference coordinates of vertex v.
func (t Type) Vertex(v int) []float64 {
	verts := vertexTable[t]
	if v < 0 || v >= len(verts) {
		panic(fmt.Sprintf("refcell: %v has no vertex %d", t, v))
	}
	out := make([]float64, len(verts[v]))
	copy(out, verts[v])
	return out
}

// Vertices returns the reference coordinates of all vertices.
func (t Type) Vertices() [][]float64 {
	verts := vertexTable[t]
	out := make([][]float64, len(verts))
	for i := range verts {
		out[i] = t.Vertex(i)
	}
	return out
}

// Barycenter returns the centroid of the reference cell as a closed-form
// constant. It serves as the correctness oracle for quadrature-integrated
// barycenters.
func (t Type) Barycenter() []float64 {
	switch t {
	case Line:
		return []float64{0.5}
	case Triangle:
		return []float64{1. / 3., 1. / 3.}
	case Quadrilateral:
		return []float64{0.5, 0.5}
	case Tetrahedron:
		return []float64{0.25, 0.25, 0.25}
	case Pyramid:
		return []float64{0, 0, 0.25}
	case Wedge:
		return []float64{1. / 3., 1. / 3., 0.5}
	case Hexahedron:
		return []float64{0.5, 0.5, 0.5}
	}
	panic(fmt.Sprintf("refcell: unknown shape %v", t))
}

// Volume returns the measure of the reference cell.
func (t Type) Volume() float64 {
	switch t {
	case Line, Quadrilateral, Hexahedron:
		return 1
	case Triangle, Wedge:
		return 0.5
	case Tetrahedron:
		return 1. / 6.
	case Pyramid:
		return 4. / 3.
	}
	panic(fmt.Sprintf("refcell: unknown shape %v", t))
}

// NFaces returns the number of codimension-one faces.
func (t Type) NFaces() int {
	switch t {
	case Line:
		return 2
	case Triangle:
		return 3
	case Quadrilateral, Tetrahedron:
		return 4
	case Pyramid, Wedge:
		return 5
	case Hexahedron:
		return 6
	}
	panic(fmt.Sprintf("refcell: unknown shape %v", t))
}

// Face vertex tables for the tensor-product shapes, in the local vertex
// numbering of the face shape. Faces are ordered coordinate-wise: low x,
// high x, low y, high y, low z, high z.
var faceVertexTable = map[Type][][]int{
	Quadrilateral: {
		{0, 2}, {1, 3}, {0, 1}, {2, 3},
	},
	Hexahedron: {
		{0, 2, 4, 6}, {1, 3, 5, 7},
		{0, 1, 4, 5}, {2, 3, 6, 7},
		{0, 1, 2, 3}, {4, 5, 6, 7},
	},
}

// FaceVertices returns the cell-local vertex indices of face f. Only the
// tensor-product shapes carry face tables; the evaluation engine limits
// face integration to those.
func (t Type) FaceVertices(f int) []int {
	faces, ok := faceVertexTable[t]
	if !ok {
		panic(fmt.Sprintf("refcell: no face table for %v", t))
	}
	if f < 0 || f >= len(faces) {
		panic(fmt.Sprintf("refcell: %v has no face %d", t, f))
	}
	out := make([]int, len(faces[f]))
	copy(out, faces[f])
	return out
}

// FaceNormal returns the outward unit normal of face f in reference
// coordinates, for the tensor-product shapes.
func (t Type) FaceNormal(f int) []float64 {
	if _, ok := faceVertexTable[t]; !ok {
		panic(fmt.Sprintf("refcell: no face normals for %v", t))
	}
	dim := t.Dim()
	if f < 0 || f >= 2*dim {
		panic(fmt.Sprintf("refcell: %v has no face %d", t, f))
	}
	n := make([]float64, dim)
	if f%2 == 0 {
		n[f/2] = -1
	} else {
		n[f/2] = 1
	}
	return n
}
