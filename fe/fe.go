// Package fe implements the finite element families: tensor-product
// Lagrange elements on lines, quadrilaterals and hexahedra, Lagrange
// simplex elements, linear wedge and pyramid elements, and a System
// element composing a scalar base into vector or tensor valued fields.
//
// Elements expose shape function values and reference-space derivatives
// up to third order through a capability interface selected once per
// element instance; the evaluation engine never re-dispatches per
// quadrature point.
package fe

import "github.com/notargets/FEMKernel/refcell"

// Element describes a finite element on a reference cell. Derivative
// tensors are returned as flat slices: gradients have length dim,
// Hessians dim*dim in row-major layout, third derivatives dim^3.
type Element interface {
	Name() string
	ReferenceCell() refcell.Type
	Degree() int

	NDofsPerCell() int
	NComponents() int
	// ComponentIndex returns the vector component that dof i
	// contributes to. Scalar elements always return 0.
	ComponentIndex(i int) int

	ShapeValue(i int, p []float64) float64
	ShapeGradient(i int, p []float64) []float64
	ShapeHessian(i int, p []float64) []float64
	ShapeThirdDerivative(i int, p []float64) []float64

	// SupportPoints returns the reference-space node of each dof, used
	// for nodal interpolation.
	SupportPoints() [][]float64
}
