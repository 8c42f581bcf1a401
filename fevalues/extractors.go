package fevalues

import "fmt"

// Extractors name a slice of the components of a vector-valued element:
// a single scalar component, dim consecutive components forming a
// vector, or dim*dim consecutive components forming a rank-2 tensor in
// row-major order. Views obtained through them reinterpret the shape
// functions of a FEValues accordingly.

// Scalar selects one component.
type Scalar struct{ Component int }

// Vector selects dim consecutive components starting at FirstComponent.
type Vector struct{ FirstComponent int }

// Tensor selects dim*dim consecutive components starting at
// FirstComponent.
type Tensor struct{ FirstComponent int }

// ScalarView evaluates one component of the element.
type ScalarView struct {
	fv *FEValues
	c  int
}

// ScalarView returns the view selected by the extractor.
func (fv *FEValues) ScalarView(e Scalar) ScalarView {
	if e.Component < 0 || e.Component >= fv.el.NComponents() {
		panic(fmt.Sprintf("fevalues: component %d out of range for %s",
			e.Component, fv.el.Name()))
	}
	return ScalarView{fv: fv, c: e.Component}
}

// Value returns the selected component of shape function i at q. Shape
// functions of other components are zero.
func (v ScalarView) Value(i, q int) float64 {
	if v.fv.el.ComponentIndex(i) != v.c {
		return 0
	}
	return v.fv.ShapeValue(i, q)
}

// Gradient returns the physical gradient of the selected component of
// shape function i at q.
func (v ScalarView) Gradient(i, q int) []float64 {
	if v.fv.el.ComponentIndex(i) != v.c {
		return make([]float64, v.fv.dim)
	}
	return v.fv.ShapeGradient(i, q)
}

// Hessian returns the physical Hessian of the selected component of
// shape function i at q, flat row-major dim*dim.
func (v ScalarView) Hessian(i, q int) []float64 {
	if v.fv.el.ComponentIndex(i) != v.c {
		return make([]float64, v.fv.dim*v.fv.dim)
	}
	return v.fv.ShapeHessian(i, q)
}

// ThirdDerivative returns the physical third derivative tensor of the
// selected component of shape function i at q, flat dim^3.
func (v ScalarView) ThirdDerivative(i, q int) []float64 {
	d := v.fv.dim
	if v.fv.el.ComponentIndex(i) != v.c {
		return make([]float64, d*d*d)
	}
	return v.fv.ShapeThirdDerivative(i, q)
}

// VectorView evaluates dim consecutive components as a vector field.
type VectorView struct {
	fv    *FEValues
	first int
}

// VectorView returns the view selected by the extractor.
func (fv *FEValues) VectorView(e Vector) VectorView {
	if e.FirstComponent < 0 || e.FirstComponent+fv.dim > fv.el.NComponents() {
		panic(fmt.Sprintf("fevalues: vector at component %d out of range for %s",
			e.FirstComponent, fv.el.Name()))
	}
	return VectorView{fv: fv, first: e.FirstComponent}
}

// Value returns the vector value of shape function i at q: zero except
// in the component slot dof i belongs to.
func (v VectorView) Value(i, q int) []float64 {
	out := make([]float64, v.fv.dim)
	c := v.fv.el.ComponentIndex(i) - v.first
	if c >= 0 && c < v.fv.dim {
		out[c] = v.fv.ShapeValue(i, q)
	}
	return out
}

// Divergence returns the divergence of shape function i at q.
func (v VectorView) Divergence(i, q int) float64 {
	c := v.fv.el.ComponentIndex(i) - v.first
	if c < 0 || c >= v.fv.dim {
		return 0
	}
	return v.fv.ShapeGradient(i, q)[c]
}

// Gradient returns the gradient tensor of shape function i at q, flat
// row-major: out[c*dim+d] = d(phi_c)/dx_d.
func (v VectorView) Gradient(i, q int) []float64 {
	dim := v.fv.dim
	out := make([]float64, dim*dim)
	c := v.fv.el.ComponentIndex(i) - v.first
	if c >= 0 && c < dim {
		g := v.fv.ShapeGradient(i, q)
		copy(out[c*dim:(c+1)*dim], g)
	}
	return out
}
