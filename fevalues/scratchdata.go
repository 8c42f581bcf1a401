package fevalues

import (
	"fmt"

	"github.com/notargets/FEMKernel/fe"
	"github.com/notargets/FEMKernel/mesh"
	"github.com/notargets/FEMKernel/quadrature"
)

// ScratchData bundles a FEValues with named local solution caches, the
// per-cell workspace an assembly loop carries around. Global vectors use
// the cell-local dof numbering: dof i of cell c lives at index
// c*DofsPerCell+i.
type ScratchData struct {
	fv     *FEValues
	local  map[string][]float64
	nq, nd int
}

// NewScratchData builds the workspace for the element and rule.
func NewScratchData(el fe.Element, quad *quadrature.Rule, flags UpdateFlags) *ScratchData {
	fv := NewFEValues(el, quad, flags)
	return &ScratchData{
		fv:    fv,
		local: make(map[string][]float64),
		nq:    fv.NQuadraturePoints(),
		nd:    fv.DofsPerCell(),
	}
}

// FEValues returns the wrapped evaluator.
func (sd *ScratchData) FEValues() *FEValues { return sd.fv }

// Reinit moves the workspace to a cell. Previously extracted local dof
// values are dropped.
func (sd *ScratchData) Reinit(cell *mesh.Cell) error {
	if err := sd.fv.Reinit(cell); err != nil {
		return err
	}
	for k := range sd.local {
		delete(sd.local, k)
	}
	return nil
}

// ExtractLocalDofValues caches the slice of the global vector belonging
// to the current cell under the given name.
func (sd *ScratchData) ExtractLocalDofValues(name string, global []float64) {
	cell := sd.fv.Cell()
	off := cell.Index() * sd.nd
	if off+sd.nd > len(global) {
		panic(fmt.Sprintf("fevalues: global vector of length %d too short for cell %d",
			len(global), cell.Index()))
	}
	local := make([]float64, sd.nd)
	copy(local, global[off:off+sd.nd])
	sd.local[name] = local
}

func (sd *ScratchData) localDofs(name string) []float64 {
	local, ok := sd.local[name]
	if !ok {
		panic(fmt.Sprintf("fevalues: no local dof values named %q; call ExtractLocalDofValues first", name))
	}
	return local
}

// ValuesScalar returns the named solution's selected component at each
// quadrature point.
func (sd *ScratchData) ValuesScalar(name string, e Scalar) []float64 {
	local := sd.localDofs(name)
	view := sd.fv.ScalarView(e)
	out := make([]float64, sd.nq)
	for q := 0; q < sd.nq; q++ {
		for i := 0; i < sd.nd; i++ {
			out[q] += local[i] * view.Value(i, q)
		}
	}
	return out
}

// GradientsScalar returns the physical gradient of the selected
// component at each quadrature point.
func (sd *ScratchData) GradientsScalar(name string, e Scalar) [][]float64 {
	local := sd.localDofs(name)
	view := sd.fv.ScalarView(e)
	dim := sd.fv.dim
	out := make([][]float64, sd.nq)
	for q := 0; q < sd.nq; q++ {
		out[q] = make([]float64, dim)
		for i := 0; i < sd.nd; i++ {
			if local[i] == 0 {
				continue
			}
			g := view.Gradient(i, q)
			for d := 0; d < dim; d++ {
				out[q][d] += local[i] * g[d]
			}
		}
	}
	return out
}

// HessiansScalar returns the physical Hessian of the selected
// component at each quadrature point, flat row-major dim*dim.
func (sd *ScratchData) HessiansScalar(name string, e Scalar) [][]float64 {
	local := sd.localDofs(name)
	view := sd.fv.ScalarView(e)
	dim := sd.fv.dim
	out := make([][]float64, sd.nq)
	for q := 0; q < sd.nq; q++ {
		out[q] = make([]float64, dim*dim)
		for i := 0; i < sd.nd; i++ {
			if local[i] == 0 {
				continue
			}
			for d, h := range view.Hessian(i, q) {
				out[q][d] += local[i] * h
			}
		}
	}
	return out
}

// ThirdDerivativesScalar returns the physical third derivative tensor
// of the selected component at each quadrature point, flat dim^3.
func (sd *ScratchData) ThirdDerivativesScalar(name string, e Scalar) [][]float64 {
	local := sd.localDofs(name)
	view := sd.fv.ScalarView(e)
	dim := sd.fv.dim
	out := make([][]float64, sd.nq)
	for q := 0; q < sd.nq; q++ {
		out[q] = make([]float64, dim*dim*dim)
		for i := 0; i < sd.nd; i++ {
			if local[i] == 0 {
				continue
			}
			for d, v := range view.ThirdDerivative(i, q) {
				out[q][d] += local[i] * v
			}
		}
	}
	return out
}

// ValuesVector returns the vector-valued solution at each quadrature
// point.
func (sd *ScratchData) ValuesVector(name string, e Vector) [][]float64 {
	local := sd.localDofs(name)
	dim := sd.fv.dim
	out := make([][]float64, sd.nq)
	for q := 0; q < sd.nq; q++ {
		out[q] = make([]float64, dim)
		for i := 0; i < sd.nd; i++ {
			c := sd.fv.el.ComponentIndex(i) - e.FirstComponent
			if c < 0 || c >= dim || local[i] == 0 {
				continue
			}
			out[q][c] += local[i] * sd.fv.ShapeValue(i, q)
		}
	}
	return out
}

// GradientsVector returns the gradient tensor of the vector-valued
// solution at each quadrature point, flat row-major dim*dim.
func (sd *ScratchData) GradientsVector(name string, e Vector) [][]float64 {
	local := sd.localDofs(name)
	dim := sd.fv.dim
	out := make([][]float64, sd.nq)
	for q := 0; q < sd.nq; q++ {
		out[q] = make([]float64, dim*dim)
		for i := 0; i < sd.nd; i++ {
			c := sd.fv.el.ComponentIndex(i) - e.FirstComponent
			if c < 0 || c >= dim || local[i] == 0 {
				continue
			}
			g := sd.fv.ShapeGradient(i, q)
			for d := 0; d < dim; d++ {
				out[q][c*dim+d] += local[i] * g[d]
			}
		}
	}
	return out
}

// DivergencesVector returns the divergence of the vector-valued
// solution at each quadrature point.
func (sd *ScratchData) DivergencesVector(name string, e Vector) []float64 {
	local := sd.localDofs(name)
	dim := sd.fv.dim
	out := make([]float64, sd.nq)
	for q := 0; q < sd.nq; q++ {
		for i := 0; i < sd.nd; i++ {
			c := sd.fv.el.ComponentIndex(i) - e.FirstComponent
			if c < 0 || c >= dim || local[i] == 0 {
				continue
			}
			out[q] += local[i] * sd.fv.ShapeGradient(i, q)[c]
		}
	}
	return out
}

// ValuesTensor returns the rank-2 tensor solution at each quadrature
// point, flat row-major dim*dim.
func (sd *ScratchData) ValuesTensor(name string, e Tensor) [][]float64 {
	local := sd.localDofs(name)
	dim := sd.fv.dim
	out := make([][]float64, sd.nq)
	for q := 0; q < sd.nq; q++ {
		out[q] = make([]float64, dim*dim)
		for i := 0; i < sd.nd; i++ {
			c := sd.fv.el.ComponentIndex(i) - e.FirstComponent
			if c < 0 || c >= dim*dim || local[i] == 0 {
				continue
			}
			out[q][c] += local[i] * sd.fv.ShapeValue(i, q)
		}
	}
	return out
}

// GradientsTensor returns the gradient of the tensor solution at each
// quadrature point, flat: out[(i*dim+j)*dim+d] = d T_ij / dx_d.
func (sd *ScratchData) GradientsTensor(name string, e Tensor) [][]float64 {
	local := sd.localDofs(name)
	dim := sd.fv.dim
	out := make([][]float64, sd.nq)
	for q := 0; q < sd.nq; q++ {
		out[q] = make([]float64, dim*dim*dim)
		for i := 0; i < sd.nd; i++ {
			c := sd.fv.el.ComponentIndex(i) - e.FirstComponent
			if c < 0 || c >= dim*dim || local[i] == 0 {
				continue
			}
			g := sd.fv.ShapeGradient(i, q)
			for d := 0; d < dim; d++ {
				out[q][c*dim+d] += local[i] * g[d]
			}
		}
	}
	return out
}

// DivergencesTensor returns the divergence of the tensor solution at
// each quadrature point: out[q][i] = sum_j d T_ij / dx_j.
func (sd *ScratchData) DivergencesTensor(name string, e Tensor) [][]float64 {
	local := sd.localDofs(name)
	dim := sd.fv.dim
	out := make([][]float64, sd.nq)
	for q := 0; q < sd.nq; q++ {
		out[q] = make([]float64, dim)
		for i := 0; i < sd.nd; i++ {
			c := sd.fv.el.ComponentIndex(i) - e.FirstComponent
			if c < 0 || c >= dim*dim || local[i] == 0 {
				continue
			}
			row, col := c/dim, c%dim
			out[q][row] += local[i] * sd.fv.ShapeGradient(i, q)[col]
		}
	}
	return out
}
