// Package particles implements mesh-attached particles: points with
// reference coordinates, ids and a fixed-width block of float
// properties held in a shared arena, plus a little-endian wire codec
// for transferring and checkpointing them.
package particles

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Handle refers to one property slot in a PropertyPool.
type Handle int32

// InvalidHandle marks a particle without allocated properties.
const InvalidHandle Handle = -1

// PropertyPool owns the property storage of a particle population: a
// handle-based arena of fixed-width float64 slots. Slots freed by
// deallocation are recycled most-recently-freed first.
type PropertyPool struct {
	nProps    int
	arena     []float64
	allocated []bool
	freeList  []Handle
}

// NewPropertyPool builds a pool whose slots hold nProps values each.
// nProps zero is allowed; such a pool hands out handles with empty
// property blocks.
func NewPropertyPool(nProps int) *PropertyPool {
	if nProps < 0 {
		panic(fmt.Sprintf("particles: negative property count %d", nProps))
	}
	return &PropertyPool{nProps: nProps}
}

// NPropertiesPerSlot returns the width of each slot.
func (p *PropertyPool) NPropertiesPerSlot() int { return p.nProps }

// NRegisteredSlots returns the number of live handles.
func (p *PropertyPool) NRegisteredSlots() int {
	return len(p.allocated) - len(p.freeList)
}

// Allocate reserves a zeroed slot and returns its handle.
func (p *PropertyPool) Allocate() Handle {
	if n := len(p.freeList); n > 0 {
		h := p.freeList[n-1]
		p.freeList = p.freeList[:n-1]
		p.allocated[h] = true
		props := p.Properties(h)
		for i := range props {
			props[i] = 0
		}
		return h
	}
	h := Handle(len(p.allocated))
	p.allocated = append(p.allocated, true)
	p.arena = append(p.arena, make([]float64, p.nProps)...)
	if len(p.allocated)&(len(p.allocated)-1) == 0 {
		logrus.WithFields(logrus.Fields{
			"slots": len(p.allocated),
			"width": p.nProps,
		}).Debug("property pool grew")
	}
	return h
}

// Deallocate returns a slot to the pool. The handle must be live.
func (p *PropertyPool) Deallocate(h Handle) {
	p.check(h)
	p.allocated[h] = false
	p.freeList = append(p.freeList, h)
}

// Properties returns the slot of h as a mutable slice backed by the
// arena.
func (p *PropertyPool) Properties(h Handle) []float64 {
	p.check(h)
	off := int(h) * p.nProps
	return p.arena[off : off+p.nProps : off+p.nProps]
}

// Clear drops all slots. Outstanding handles become invalid.
func (p *PropertyPool) Clear() {
	p.arena = p.arena[:0]
	p.allocated = p.allocated[:0]
	p.freeList = p.freeList[:0]
}

func (p *PropertyPool) check(h Handle) {
	if h == InvalidHandle {
		panic("particles: use of InvalidHandle")
	}
	if int(h) < 0 || int(h) >= len(p.allocated) {
		panic(fmt.Sprintf("particles: handle %d out of range [0,%d)", h, len(p.allocated)))
	}
	if !p.allocated[h] {
		panic(fmt.Sprintf("particles: handle %d is not allocated", h))
	}
}
