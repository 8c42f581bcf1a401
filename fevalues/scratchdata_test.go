package fevalues

import (
	"testing"

	"github.com/notargets/FEMKernel/fe"
	"github.com/notargets/FEMKernel/mesh"
	"github.com/notargets/FEMKernel/quadrature"
	"github.com/notargets/FEMKernel/refcell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScratchDataScalarField(t *testing.T) {
	m := mesh.NewHyperCube(2, 0, 1)
	m.RefineGlobal(1)
	el := fe.NewQ(2, 2)
	quad := quadrature.ForShape(refcell.Quadrilateral, 3)
	sd := NewScratchData(el, quad,
		UpdateValues|UpdateGradients|UpdateQuadraturePoints|UpdateJxW)

	f := func(x []float64) []float64 {
		return []float64{x[0]*x[0] + 3*x[0]*x[1]}
	}
	u := Interpolate(m, el, f)

	for _, c := range m.Cells() {
		require.NoError(t, sd.Reinit(c))
		sd.ExtractLocalDofValues("u", u)
		vals := sd.ValuesScalar("u", Scalar{Component: 0})
		grads := sd.GradientsScalar("u", Scalar{Component: 0})
		for q := 0; q < sd.FEValues().NQuadraturePoints(); q++ {
			x := sd.FEValues().QuadraturePoint(q)
			assert.InDeltaf(t, x[0]*x[0]+3*x[0]*x[1], vals[q], 1.e-12,
				"cell %d point %d", c.Index(), q)
			assert.InDeltaSlicef(t, []float64{2*x[0] + 3*x[1], 3 * x[0]}, grads[q],
				1.e-12, "cell %d point %d", c.Index(), q)
		}
	}
}

func TestScratchDataScalarHessiansAndThirds(t *testing.T) {
	m := mesh.NewHyperCube(2, 0, 2)
	el := fe.NewQ(2, 3)
	quad := quadrature.ForShape(refcell.Quadrilateral, 4)
	sd := NewScratchData(el, quad,
		UpdateValues|UpdateGradients|UpdateHessians|Update3rdDerivatives|
			UpdateQuadraturePoints|UpdateJxW)

	// f = x^3 + x^2 y + 2 y^2
	u := Interpolate(m, el, func(x []float64) []float64 {
		return []float64{x[0]*x[0]*x[0] + x[0]*x[0]*x[1] + 2*x[1]*x[1]}
	})

	c := m.BeginActive()
	require.NoError(t, sd.Reinit(c))
	sd.ExtractLocalDofValues("u", u)
	ext := Scalar{Component: 0}
	hess := sd.HessiansScalar("u", ext)
	thirds := sd.ThirdDerivativesScalar("u", ext)
	for q := 0; q < sd.FEValues().NQuadraturePoints(); q++ {
		x := sd.FEValues().QuadraturePoint(q)
		assert.InDeltaSlicef(t, []float64{
			6*x[0] + 2*x[1], 2 * x[0],
			2 * x[0], 4,
		}, hess[q], 1.e-11, "point %d", q)
		// d3f/dx3 = 6, d3f/dx2dy = 2 in all index orders, rest zero
		assert.InDeltaSlicef(t, []float64{
			6, 2, 2, 0,
			2, 0, 0, 0,
		}, thirds[q], 1.e-10, "point %d", q)
	}
}

func TestScratchDataVectorField(t *testing.T) {
	m := mesh.NewHyperCube(2, 0, 2)
	el := fe.NewSystem(fe.NewQ(2, 2), 2)
	quad := quadrature.ForShape(refcell.Quadrilateral, 3)
	sd := NewScratchData(el, quad,
		UpdateValues|UpdateGradients|UpdateQuadraturePoints|UpdateJxW)

	// F = (x^2, x y)
	u := Interpolate(m, el, func(x []float64) []float64 {
		return []float64{x[0] * x[0], x[0] * x[1]}
	})

	c := m.BeginActive()
	require.NoError(t, sd.Reinit(c))
	sd.ExtractLocalDofValues("sol", u)
	ext := Vector{FirstComponent: 0}
	vals := sd.ValuesVector("sol", ext)
	grads := sd.GradientsVector("sol", ext)
	divs := sd.DivergencesVector("sol", ext)
	for q := 0; q < sd.FEValues().NQuadraturePoints(); q++ {
		x := sd.FEValues().QuadraturePoint(q)
		assert.InDeltaSlicef(t, []float64{x[0] * x[0], x[0] * x[1]}, vals[q],
			1.e-12, "point %d", q)
		assert.InDeltaSlicef(t, []float64{2 * x[0], 0, x[1], x[0]}, grads[q],
			1.e-12, "point %d", q)
		assert.InDeltaf(t, 3*x[0], divs[q], 1.e-12, "point %d", q)
	}
}

func TestScratchDataTensorField(t *testing.T) {
	m := mesh.NewHyperCube(2, 0, 1)
	el := fe.NewSystem(fe.NewQ(2, 2), 4)
	quad := quadrature.ForShape(refcell.Quadrilateral, 3)
	sd := NewScratchData(el, quad,
		UpdateValues|UpdateGradients|UpdateQuadraturePoints|UpdateJxW)

	// T = [[x^2, x y], [y, x + y^2]], row major
	u := Interpolate(m, el, func(x []float64) []float64 {
		return []float64{
			x[0] * x[0], x[0] * x[1],
			x[1], x[0] + x[1]*x[1],
		}
	})

	c := m.BeginActive()
	require.NoError(t, sd.Reinit(c))
	sd.ExtractLocalDofValues("T", u)
	ext := Tensor{FirstComponent: 0}
	vals := sd.ValuesTensor("T", ext)
	divs := sd.DivergencesTensor("T", ext)
	grads := sd.GradientsTensor("T", ext)
	for q := 0; q < sd.FEValues().NQuadraturePoints(); q++ {
		x := sd.FEValues().QuadraturePoint(q)
		assert.InDeltaSlicef(t, []float64{
			x[0] * x[0], x[0] * x[1],
			x[1], x[0] + x[1]*x[1],
		}, vals[q], 1.e-12, "point %d", q)
		// (div T)_i = d T_ij / dx_j
		assert.InDeltaSlicef(t, []float64{
			2*x[0] + x[0],
			0 + 2*x[1],
		}, divs[q], 1.e-12, "point %d", q)
		// spot-check dT_01/dx_0 = y and dT_11/dx_1 = 2 y
		assert.InDelta(t, x[1], grads[q][1*2+0], 1.e-12)
		assert.InDelta(t, 2*x[1], grads[q][3*2+1], 1.e-12)
	}
}

func TestScratchDataDropsLocalValuesOnReinit(t *testing.T) {
	m := mesh.NewHyperCube(2, 0, 1)
	m.RefineGlobal(1)
	el := fe.NewQ(2, 1)
	sd := NewScratchData(el, quadrature.ForShape(refcell.Quadrilateral, 2),
		UpdateValues|UpdateJxW)
	u := make([]float64, m.NCells()*el.NDofsPerCell())
	require.NoError(t, sd.Reinit(m.Cells()[0]))
	sd.ExtractLocalDofValues("u", u)
	require.NoError(t, sd.Reinit(m.Cells()[1]))
	assert.Panics(t, func() { sd.ValuesScalar("u", Scalar{Component: 0}) })
}

func TestExtractLocalDofValuesChecksLength(t *testing.T) {
	m := mesh.NewHyperCube(2, 0, 1)
	el := fe.NewQ(2, 1)
	sd := NewScratchData(el, quadrature.ForShape(refcell.Quadrilateral, 2),
		UpdateValues|UpdateJxW)
	require.NoError(t, sd.Reinit(m.BeginActive()))
	assert.Panics(t, func() { sd.ExtractLocalDofValues("u", make([]float64, 2)) })
}
