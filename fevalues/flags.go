package fevalues

// UpdateFlags selects the quantities a FEValues object computes on
// Reinit. Requesting only what an assembly loop needs keeps the cache
// small.
type UpdateFlags uint16

const (
	UpdateValues UpdateFlags = 1 << iota
	UpdateGradients
	UpdateHessians
	Update3rdDerivatives
	UpdateQuadraturePoints
	UpdateJxW
	UpdateNormalVectors
)

func (f UpdateFlags) has(g UpdateFlags) bool { return f&g != 0 }
