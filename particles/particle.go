package particles

import "fmt"

// Particle is a point attached to a mesh cell: a physical location, the
// reference-cell coordinates within its cell, an id, and an optional
// block of properties stored in a PropertyPool. The particle itself
// stays small; all property data lives in the pool's arena.
type Particle struct {
	location    []float64
	refLocation []float64
	id          uint64

	pool   *PropertyPool
	handle Handle
}

// NewParticle creates a particle at the given physical and reference
// locations. No properties are allocated until Properties is called on
// a particle with a pool.
func NewParticle(location, refLocation []float64, id uint64) *Particle {
	return &Particle{
		location:    append([]float64(nil), location...),
		refLocation: append([]float64(nil), refLocation...),
		id:          id,
		handle:      InvalidHandle,
	}
}

// Location returns the physical coordinates.
func (pt *Particle) Location() []float64 { return pt.location }

// SetLocation replaces the physical coordinates.
func (pt *Particle) SetLocation(x []float64) {
	pt.location = append(pt.location[:0], x...)
}

// ReferenceLocation returns the reference-cell coordinates.
func (pt *Particle) ReferenceLocation() []float64 { return pt.refLocation }

// SetReferenceLocation replaces the reference-cell coordinates.
func (pt *Particle) SetReferenceLocation(p []float64) {
	pt.refLocation = append(pt.refLocation[:0], p...)
}

// ID returns the particle id.
func (pt *Particle) ID() uint64 { return pt.id }

// SetID replaces the particle id.
func (pt *Particle) SetID(id uint64) { pt.id = id }

// SetPropertyPool moves the particle's properties to a new pool. Values
// already stored are copied over before the old slot is released. The
// pools must agree on the slot width.
func (pt *Particle) SetPropertyPool(pool *PropertyPool) {
	if pt.pool != nil && pt.handle != InvalidHandle {
		if pool.NPropertiesPerSlot() != pt.pool.NPropertiesPerSlot() {
			panic(fmt.Sprintf("particles: pool widths %d and %d differ",
				pt.pool.NPropertiesPerSlot(), pool.NPropertiesPerSlot()))
		}
		old := pt.pool.Properties(pt.handle)
		h := pool.Allocate()
		copy(pool.Properties(h), old)
		pt.pool.Deallocate(pt.handle)
		pt.handle = h
	}
	pt.pool = pool
}

// HasProperties reports whether the particle holds an allocated
// property slot.
func (pt *Particle) HasProperties() bool { return pt.handle != InvalidHandle }

// Properties returns the particle's property block, allocating it on
// first access. The particle must have a pool.
func (pt *Particle) Properties() []float64 {
	if pt.pool == nil {
		panic("particles: particle has no property pool")
	}
	if pt.handle == InvalidHandle {
		pt.handle = pt.pool.Allocate()
	}
	return pt.pool.Properties(pt.handle)
}

// SetProperties copies the given values into the particle's block. The
// length must match the pool's slot width.
func (pt *Particle) SetProperties(vals []float64) {
	props := pt.Properties()
	if len(vals) != len(props) {
		panic(fmt.Sprintf("particles: %d property values for slot width %d",
			len(vals), len(props)))
	}
	copy(props, vals)
}

// Clone returns an independent copy of the particle. Properties, if
// allocated, are copied into a fresh slot of the same pool.
func (pt *Particle) Clone() *Particle {
	out := NewParticle(pt.location, pt.refLocation, pt.id)
	out.pool = pt.pool
	if pt.handle != InvalidHandle {
		out.handle = pt.pool.Allocate()
		copy(pt.pool.Properties(out.handle), pt.pool.Properties(pt.handle))
	}
	return out
}

// TransferFrom moves the contents of other into the particle. The
// property slot changes owner: other is left without properties and
// keeps its pool.
func (pt *Particle) TransferFrom(other *Particle) {
	pt.Free()
	pt.location = append(pt.location[:0], other.location...)
	pt.refLocation = append(pt.refLocation[:0], other.refLocation...)
	pt.id = other.id
	pt.pool = other.pool
	pt.handle = other.handle
	other.handle = InvalidHandle
}

// Free releases the particle's property slot, if any.
func (pt *Particle) Free() {
	if pt.handle != InvalidHandle {
		pt.pool.Deallocate(pt.handle)
		pt.handle = InvalidHandle
	}
}
