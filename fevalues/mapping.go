// Package fevalues evaluates finite elements on mesh cells: shape
// function values and derivatives mapped to physical coordinates,
// quadrature weights scaled by the Jacobian determinant, and outward
// normals on faces. FEValues caches the reference tables once and
// recomputes only the per-cell geometry on Reinit.
package fevalues

import (
	"fmt"

	"github.com/notargets/FEMKernel/fe"
	"github.com/notargets/FEMKernel/refcell"
)

// GeometryElement returns the degree-1 element that carries the
// vertex-based geometric mapping for the given shape.
func GeometryElement(shape refcell.Type) fe.Element {
	switch shape {
	case refcell.Line:
		return fe.NewQ(1, 1)
	case refcell.Quadrilateral:
		return fe.NewQ(2, 1)
	case refcell.Hexahedron:
		return fe.NewQ(3, 1)
	case refcell.Triangle:
		return fe.NewSimplexP(2, 1)
	case refcell.Tetrahedron:
		return fe.NewSimplexP(3, 1)
	case refcell.Wedge:
		return fe.NewWedgeP(1)
	case refcell.Pyramid:
		return fe.NewPyramidP(1)
	}
	panic(fmt.Sprintf("fevalues: unknown reference cell %v", shape))
}

// mappingData holds the geometry of the cell mapping at a single
// reference point. All tensors are stored flat, row-major, with the
// reference index first where both appear.
type mappingData struct {
	dim int
	det float64

	jac []float64 // J[i*dim+a]     = dx_i / dxi_a
	inv []float64 // A[a*dim+i]     = dxi_a / dx_i
	// derivatives of the inverse map, used by the chain rule for
	// second and third physical derivatives
	inv2 []float64 // B[(a*dim+i)*dim+j]          = d2 xi_a / dx_i dx_j
	inv3 []float64 // C[((a*dim+i)*dim+j)*dim+k]  = d3 xi_a / dx_i dx_j dx_k
}

// computeMapping evaluates the cell mapping x(xi) = sum_v x_v phi_v(xi)
// at the reference point p. order selects how deep the inverse-map
// derivatives are carried: 1 gives J and A, 2 adds B, 3 adds C.
func computeMapping(geom fe.Element, verts [][]float64, p []float64, order int) (*mappingData, error) {
	dim := geom.ReferenceCell().Dim()
	nv := geom.NDofsPerCell()

	md := &mappingData{
		dim: dim,
		jac: make([]float64, dim*dim),
		inv: make([]float64, dim*dim),
	}

	// J_{ia} and, if needed, the mapping's own higher reference
	// derivatives K2_{iab}, K3_{iabc}
	var k2, k3 []float64
	if order >= 2 {
		k2 = make([]float64, dim*dim*dim)
	}
	if order >= 3 {
		k3 = make([]float64, dim*dim*dim*dim)
	}
	for v := 0; v < nv; v++ {
		g := geom.ShapeGradient(v, p)
		x := verts[v]
		for i := 0; i < dim; i++ {
			for a := 0; a < dim; a++ {
				md.jac[i*dim+a] += x[i] * g[a]
			}
		}
		if order >= 2 {
			h := geom.ShapeHessian(v, p)
			for i := 0; i < dim; i++ {
				for ab := 0; ab < dim*dim; ab++ {
					k2[i*dim*dim+ab] += x[i] * h[ab]
				}
			}
		}
		if order >= 3 {
			t := geom.ShapeThirdDerivative(v, p)
			for i := 0; i < dim; i++ {
				for abc := 0; abc < dim*dim*dim; abc++ {
					k3[i*dim*dim*dim+abc] += x[i] * t[abc]
				}
			}
		}
	}

	if err := invert(dim, md.jac, md.inv, &md.det); err != nil {
		return nil, err
	}
	if order < 2 {
		return md, nil
	}

	// dA_{aic} = d A_{ai} / dxi_c = - A_{aj} K2_{jbc} A_{bi}
	A := md.inv
	dA := make([]float64, dim*dim*dim)
	for a := 0; a < dim; a++ {
		for i := 0; i < dim; i++ {
			for c := 0; c < dim; c++ {
				var s float64
				for j := 0; j < dim; j++ {
					for b := 0; b < dim; b++ {
						s += A[a*dim+j] * k2[(j*dim+b)*dim+c] * A[b*dim+i]
					}
				}
				dA[(a*dim+i)*dim+c] = -s
			}
		}
	}

	// B_{aij} = d2 xi_a / dx_i dx_j = dA_{aic} A_{cj}
	md.inv2 = make([]float64, dim*dim*dim)
	for a := 0; a < dim; a++ {
		for i := 0; i < dim; i++ {
			for j := 0; j < dim; j++ {
				var s float64
				for c := 0; c < dim; c++ {
					s += dA[(a*dim+i)*dim+c] * A[c*dim+j]
				}
				md.inv2[(a*dim+i)*dim+j] = s
			}
		}
	}
	if order < 3 {
		return md, nil
	}

	// ddA_{aicd} = d dA_{aic} / dxi_d, by the product rule over the
	// three factors of dA
	ddA := make([]float64, dim*dim*dim*dim)
	for a := 0; a < dim; a++ {
		for i := 0; i < dim; i++ {
			for c := 0; c < dim; c++ {
				for d := 0; d < dim; d++ {
					var s float64
					for j := 0; j < dim; j++ {
						for b := 0; b < dim; b++ {
							s += dA[(a*dim+j)*dim+d] * k2[(j*dim+b)*dim+c] * A[b*dim+i]
							s += A[a*dim+j] * k3[((j*dim+b)*dim+c)*dim+d] * A[b*dim+i]
							s += A[a*dim+j] * k2[(j*dim+b)*dim+c] * dA[(b*dim+i)*dim+d]
						}
					}
					ddA[((a*dim+i)*dim+c)*dim+d] = -s
				}
			}
		}
	}

	// C_{aijk} = d B_{aij} / dxi_d * A_{dk}
	md.inv3 = make([]float64, dim*dim*dim*dim)
	for a := 0; a < dim; a++ {
		for i := 0; i < dim; i++ {
			for j := 0; j < dim; j++ {
				for k := 0; k < dim; k++ {
					var s float64
					for d := 0; d < dim; d++ {
						var dB float64
						for c := 0; c < dim; c++ {
							dB += ddA[((a*dim+i)*dim+c)*dim+d]*A[c*dim+j] +
								dA[(a*dim+i)*dim+c]*dA[(c*dim+j)*dim+d]
						}
						s += dB * A[d*dim+k]
					}
					md.inv3[((a*dim+i)*dim+j)*dim+k] = s
				}
			}
		}
	}
	return md, nil
}

// invert fills inv with the inverse of the dim x dim matrix m (row
// major) and det with its determinant. Cofactor formulas, same as the
// geometric factor setup for curved elements.
func invert(dim int, m, inv []float64, det *float64) error {
	switch dim {
	case 1:
		*det = m[0]
		if *det == 0 {
			return fmt.Errorf("fevalues: singular mapping Jacobian")
		}
		inv[0] = 1 / m[0]
	case 2:
		*det = m[0]*m[3] - m[1]*m[2]
		if *det == 0 {
			return fmt.Errorf("fevalues: singular mapping Jacobian")
		}
		d := 1 / *det
		inv[0] = m[3] * d
		inv[1] = -m[1] * d
		inv[2] = -m[2] * d
		inv[3] = m[0] * d
	case 3:
		c0 := m[4]*m[8] - m[5]*m[7]
		c1 := m[5]*m[6] - m[3]*m[8]
		c2 := m[3]*m[7] - m[4]*m[6]
		*det = m[0]*c0 + m[1]*c1 + m[2]*c2
		if *det == 0 {
			return fmt.Errorf("fevalues: singular mapping Jacobian")
		}
		d := 1 / *det
		inv[0] = c0 * d
		inv[1] = (m[2]*m[7] - m[1]*m[8]) * d
		inv[2] = (m[1]*m[5] - m[2]*m[4]) * d
		inv[3] = c1 * d
		inv[4] = (m[0]*m[8] - m[2]*m[6]) * d
		inv[5] = (m[2]*m[3] - m[0]*m[5]) * d
		inv[6] = c2 * d
		inv[7] = (m[1]*m[6] - m[0]*m[7]) * d
		inv[8] = (m[0]*m[4] - m[1]*m[3]) * d
	default:
		return fmt.Errorf("fevalues: dimension %d out of range", dim)
	}
	return nil
}

// pushGradient maps a reference gradient to physical coordinates:
// g_i = gRef_a A_{ai}.
func (md *mappingData) pushGradient(gRef []float64) []float64 {
	dim := md.dim
	g := make([]float64, dim)
	for i := 0; i < dim; i++ {
		var s float64
		for a := 0; a < dim; a++ {
			s += gRef[a] * md.inv[a*dim+i]
		}
		g[i] = s
	}
	return g
}

// pushHessian maps reference first and second derivatives to the
// physical Hessian: H_ij = hRef_ab A_{ai} A_{bj} + gRef_a B_{aij}.
func (md *mappingData) pushHessian(gRef, hRef []float64) []float64 {
	dim := md.dim
	h := make([]float64, dim*dim)
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			var s float64
			for a := 0; a < dim; a++ {
				for b := 0; b < dim; b++ {
					s += hRef[a*dim+b] * md.inv[a*dim+i] * md.inv[b*dim+j]
				}
				s += gRef[a] * md.inv2[(a*dim+i)*dim+j]
			}
			h[i*dim+j] = s
		}
	}
	return h
}

// pushThird maps reference derivatives up to third order to the
// physical third derivative tensor.
func (md *mappingData) pushThird(gRef, hRef, tRef []float64) []float64 {
	dim := md.dim
	A := md.inv
	B := md.inv2
	C := md.inv3
	out := make([]float64, dim*dim*dim)
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			for k := 0; k < dim; k++ {
				var s float64
				for a := 0; a < dim; a++ {
					for b := 0; b < dim; b++ {
						for c := 0; c < dim; c++ {
							s += tRef[(a*dim+b)*dim+c] * A[a*dim+i] * A[b*dim+j] * A[c*dim+k]
						}
						s += hRef[a*dim+b] * (B[(a*dim+i)*dim+j]*A[b*dim+k] +
							B[(a*dim+i)*dim+k]*A[b*dim+j] +
							A[a*dim+i]*B[(b*dim+j)*dim+k])
					}
					s += gRef[a] * C[((a*dim+i)*dim+j)*dim+k]
				}
				out[(i*dim+j)*dim+k] = s
			}
		}
	}
	return out
}
