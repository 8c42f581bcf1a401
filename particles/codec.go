package particles

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// IDWidth selects the serialized width of particle ids.
type IDWidth int

const (
	ID32 IDWidth = 4
	ID64 IDWidth = 8
)

// Codec reads and writes the wire form of particles: the id, the
// physical location, the reference location and the property block,
// little endian, in that order. Both sides must agree on the schema;
// nothing of it is carried in the per-particle data.
type Codec struct {
	Dim      int
	Spacedim int
	IDWidth  IDWidth
}

// SerializedSizeInBytes returns the wire size of one particle with the
// given number of properties.
func (c Codec) SerializedSizeInBytes(nProps int) int {
	return int(c.IDWidth) + 8*(c.Spacedim+c.Dim+nProps)
}

// WriteData appends the wire form of the particle to buf and returns
// the extended slice. A particle without allocated properties writes a
// zero block of the pool's slot width; with no pool it writes none.
func (c Codec) WriteData(pt *Particle, buf []byte) []byte {
	switch c.IDWidth {
	case ID32:
		buf = binary.LittleEndian.AppendUint32(buf, uint32(pt.id))
	case ID64:
		buf = binary.LittleEndian.AppendUint64(buf, pt.id)
	default:
		panic(fmt.Sprintf("particles: id width %d out of range", c.IDWidth))
	}
	for _, v := range pt.location {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
	}
	for _, v := range pt.refLocation {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
	}
	if pt.pool != nil {
		if pt.handle != InvalidHandle {
			for _, v := range pt.pool.Properties(pt.handle) {
				buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
			}
		} else {
			for i := 0; i < pt.pool.NPropertiesPerSlot(); i++ {
				buf = binary.LittleEndian.AppendUint64(buf, 0)
			}
		}
	}
	return buf
}

// ReadParticle decodes one particle from data, allocating its
// properties in pool (which may be nil for property-free particles).
// It returns the particle and the remaining bytes.
func (c Codec) ReadParticle(data []byte, pool *PropertyPool) (*Particle, []byte, error) {
	nProps := 0
	if pool != nil {
		nProps = pool.NPropertiesPerSlot()
	}
	need := c.SerializedSizeInBytes(nProps)
	if len(data) < need {
		return nil, data, fmt.Errorf("particles: %d bytes of data, particle needs %d",
			len(data), need)
	}
	pt := &Particle{
		location:    make([]float64, c.Spacedim),
		refLocation: make([]float64, c.Dim),
		pool:        pool,
		handle:      InvalidHandle,
	}
	rest, err := c.UpdateParticleData(pt, data)
	if err != nil {
		return nil, data, err
	}
	return pt, rest, nil
}

// UpdateParticleData overwrites the particle's id, locations and
// properties from data and returns the remaining bytes. The particle's
// dimensions and property width define how much is consumed.
func (c Codec) UpdateParticleData(pt *Particle, data []byte) ([]byte, error) {
	nProps := 0
	if pt.pool != nil {
		nProps = pt.pool.NPropertiesPerSlot()
	}
	need := c.SerializedSizeInBytes(nProps)
	if len(data) < need {
		return data, fmt.Errorf("particles: %d bytes of data, particle needs %d",
			len(data), need)
	}
	switch c.IDWidth {
	case ID32:
		pt.id = uint64(binary.LittleEndian.Uint32(data))
	case ID64:
		pt.id = binary.LittleEndian.Uint64(data)
	default:
		return data, fmt.Errorf("particles: id width %d out of range", c.IDWidth)
	}
	off := int(c.IDWidth)
	read := func() float64 {
		v := math.Float64frombits(binary.LittleEndian.Uint64(data[off:]))
		off += 8
		return v
	}
	if len(pt.location) != c.Spacedim || len(pt.refLocation) != c.Dim {
		return data, fmt.Errorf("particles: particle is %d/%d dimensional, codec is %d/%d",
			len(pt.location), len(pt.refLocation), c.Spacedim, c.Dim)
	}
	for i := range pt.location {
		pt.location[i] = read()
	}
	for i := range pt.refLocation {
		pt.refLocation[i] = read()
	}
	if nProps > 0 {
		props := pt.Properties()
		for i := range props {
			props[i] = read()
		}
	}
	return data[need:], nil
}

// Save writes a particle collection to w: the property width and the
// particle count, then each particle in wire form.
func (c Codec) Save(w io.Writer, pts []*Particle, pool *PropertyPool) error {
	nProps := 0
	if pool != nil {
		nProps = pool.NPropertiesPerSlot()
	}
	var hdr [12]byte
	binary.LittleEndian.PutUint32(hdr[0:], uint32(nProps))
	binary.LittleEndian.PutUint64(hdr[4:], uint64(len(pts)))
	if _, err := w.Write(hdr[:]); err != nil {
		return fmt.Errorf("particles: writing header: %w", err)
	}
	buf := make([]byte, 0, c.SerializedSizeInBytes(nProps))
	for _, pt := range pts {
		buf = c.WriteData(pt, buf[:0])
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("particles: writing particle %d: %w", pt.id, err)
		}
	}
	return nil
}

// Load reads a collection written by Save, allocating properties in
// pool. The pool's slot width must match the stored one.
func (c Codec) Load(r io.Reader, pool *PropertyPool) ([]*Particle, error) {
	var hdr [12]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("particles: reading header: %w", err)
	}
	nProps := int(binary.LittleEndian.Uint32(hdr[0:]))
	count := binary.LittleEndian.Uint64(hdr[4:])
	poolProps := 0
	if pool != nil {
		poolProps = pool.NPropertiesPerSlot()
	}
	if nProps != poolProps {
		return nil, fmt.Errorf("particles: stored particles have %d properties, pool holds %d",
			nProps, poolProps)
	}
	size := c.SerializedSizeInBytes(nProps)
	buf := make([]byte, size)
	pts := make([]*Particle, 0, count)
	for i := uint64(0); i < count; i++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("particles: reading particle %d of %d: %w", i, count, err)
		}
		pt, _, err := c.ReadParticle(buf, pool)
		if err != nil {
			return nil, err
		}
		pts = append(pts, pt)
	}
	return pts, nil
}
