package fe

import (
	"fmt"

	"github.com/notargets/FEMKernel/refcell"
)

// System composes a scalar base element into a vector or tensor valued
// element with the given number of components. Dofs are numbered in
// component blocks: dof i belongs to component i / base.NDofsPerCell()
// and reuses base dof i % base.NDofsPerCell(). Each shape function is
// nonzero in exactly one component; the evaluation engine's extractors
// select and reshape the blocks.
type System struct {
	base         Element
	multiplicity int
}

// NewSystem builds a multi-component element from a scalar base.
func NewSystem(base Element, multiplicity int) *System {
	if base.NComponents() != 1 {
		panic("fe: System requires a scalar base element")
	}
	if multiplicity < 1 {
		panic(fmt.Sprintf("fe: System multiplicity %d out of range", multiplicity))
	}
	return &System{base: base, multiplicity: multiplicity}
}

func (s *System) Name() string {
	return fmt.Sprintf("System(%s^%d)", s.base.Name(), s.multiplicity)
}

func (s *System) Base() Element               { return s.base }
func (s *System) ReferenceCell() refcell.Type { return s.base.ReferenceCell() }
func (s *System) Degree() int                 { return s.base.Degree() }
func (s *System) NComponents() int            { return s.multiplicity }
func (s *System) NDofsPerCell() int           { return s.multiplicity * s.base.NDofsPerCell() }

func (s *System) ComponentIndex(i int) int { return i / s.base.NDofsPerCell() }

func (s *System) baseDof(i int) int { return i % s.base.NDofsPerCell() }

func (s *System) ShapeValue(i int, p []float64) float64 {
	return s.base.ShapeValue(s.baseDof(i), p)
}

func (s *System) ShapeGradient(i int, p []float64) []float64 {
	return s.base.ShapeGradient(s.baseDof(i), p)
}

func (s *System) ShapeHessian(i int, p []float64) []float64 {
	return s.base.ShapeHessian(s.baseDof(i), p)
}

func (s *System) ShapeThirdDerivative(i int, p []float64) []float64 {
	return s.base.ShapeThirdDerivative(s.baseDof(i), p)
}

func (s *System) SupportPoints() [][]float64 {
	base := s.base.SupportPoints()
	out := make([][]float64, 0, s.NDofsPerCell())
	for c := 0; c < s.multiplicity; c++ {
		out = append(out, base...)
	}
	return out
}
