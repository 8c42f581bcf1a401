// Package mesh provides the triangulation substrate consumed by the
// evaluation engine: cells with vertices and face neighbors, active-cell
// iteration, generators for single reference cells, hyper cubes and
// hyper balls, and global refinement with boundary projection onto the
// sphere.
package mesh

import (
	"fmt"
	"sort"

	"github.com/notargets/FEMKernel/refcell"
)

// Mesh is a single-shape triangulation in spacedim = dim space.
type Mesh struct {
	shape    refcell.Type
	vertices [][]float64
	cells    []*Cell

	// sphere the boundary vertices live on; radius 0 disables
	// projection during refinement
	boundaryCenter []float64
	boundaryRadius float64

	neighbors [][]int // lazily built, [cell][face], -1 on the boundary
}

// Cell is one mesh cell. Vertices follow the reference cell ordering.
type Cell struct {
	mesh     *Mesh
	index    int
	vertices []int
}

// Index returns the cell's position in the active cell ordering.
func (c *Cell) Index() int { return c.index }

// NVertices returns the vertex count of the cell shape.
func (c *Cell) NVertices() int { return len(c.vertices) }

// VertexIndex returns the mesh-global index of cell vertex v.
func (c *Cell) VertexIndex(v int) int { return c.vertices[v] }

// Vertex returns the coordinates of cell vertex v.
func (c *Cell) Vertex(v int) []float64 { return c.mesh.vertices[c.vertices[v]] }

// Shape returns the cell's reference cell type.
func (c *Cell) Shape() refcell.Type { return c.mesh.shape }

// Neighbor returns the cell across face f, or nil on the boundary.
func (c *Cell) Neighbor(f int) *Cell {
	c.mesh.buildNeighbors()
	n := c.mesh.neighbors[c.index][f]
	if n < 0 {
		return nil
	}
	return c.mesh.cells[n]
}

// Shape returns the common reference cell type of all cells.
func (m *Mesh) Shape() refcell.Type { return m.shape }

// Dim returns the intrinsic (and spatial) dimension.
func (m *Mesh) Dim() int { return m.shape.Dim() }

// NVertices returns the number of mesh vertices.
func (m *Mesh) NVertices() int { return len(m.vertices) }

// NCells returns the number of active cells.
func (m *Mesh) NCells() int { return len(m.cells) }

// Vertex returns the coordinates of mesh vertex i.
func (m *Mesh) Vertex(i int) []float64 { return m.vertices[i] }

// Cells returns the active cells in iteration order.
func (m *Mesh) Cells() []*Cell { return m.cells }

// BeginActive returns the first active cell.
func (m *Mesh) BeginActive() *Cell {
	if len(m.cells) == 0 {
		panic("mesh: empty triangulation")
	}
	return m.cells[0]
}

func newMesh(shape refcell.Type, vertices [][]float64, cellVertices [][]int) *Mesh {
	m := &Mesh{shape: shape, vertices: vertices}
	for i, cv := range cellVertices {
		if len(cv) != shape.NVertices() {
			panic(fmt.Sprintf("mesh: cell %d has %d vertices, %v needs %d",
				i, len(cv), shape, shape.NVertices()))
		}
		m.cells = append(m.cells, &Cell{mesh: m, index: i, vertices: cv})
	}
	return m
}

// buildNeighbors matches cells across shared faces by their sorted face
// vertex sets.
func (m *Mesh) buildNeighbors() {
	if m.neighbors != nil {
		return
	}
	nf := m.shape.NFaces()
	m.neighbors = make([][]int, len(m.cells))
	type cellFace struct{ cell, face int }
	seen := make(map[string]cellFace)
	for ci, c := range m.cells {
		m.neighbors[ci] = make([]int, nf)
		for f := 0; f < nf; f++ {
			m.neighbors[ci][f] = -1
			fv := m.shape.FaceVertices(f)
			ids := make([]int, len(fv))
			for i, v := range fv {
				ids[i] = c.vertices[v]
			}
			sort.Ints(ids)
			key := fmt.Sprint(ids)
			if other, ok := seen[key]; ok {
				m.neighbors[ci][f] = other.cell
				m.neighbors[other.cell][other.face] = ci
			} else {
				seen[key] = cellFace{ci, f}
			}
		}
	}
}
