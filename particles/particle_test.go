package particles

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolAllocateAndRecycle(t *testing.T) {
	pool := NewPropertyPool(3)
	assert.Equal(t, 3, pool.NPropertiesPerSlot())
	assert.Equal(t, 0, pool.NRegisteredSlots())

	h1 := pool.Allocate()
	h2 := pool.Allocate()
	assert.Equal(t, 2, pool.NRegisteredSlots())
	assert.NotEqual(t, h1, h2)

	copy(pool.Properties(h1), []float64{1, 2, 3})
	pool.Deallocate(h1)
	assert.Equal(t, 1, pool.NRegisteredSlots())

	// most recently freed slot comes back first, zeroed
	h3 := pool.Allocate()
	assert.Equal(t, h1, h3)
	assert.Equal(t, []float64{0, 0, 0}, pool.Properties(h3))
}

func TestPoolPanicsOnMisuse(t *testing.T) {
	pool := NewPropertyPool(2)
	h := pool.Allocate()
	pool.Deallocate(h)
	assert.Panics(t, func() { pool.Properties(h) })
	assert.Panics(t, func() { pool.Deallocate(h) })
	assert.Panics(t, func() { pool.Properties(InvalidHandle) })
	assert.Panics(t, func() { NewPropertyPool(-1) })
}

func TestPoolClear(t *testing.T) {
	pool := NewPropertyPool(2)
	pool.Allocate()
	pool.Allocate()
	pool.Clear()
	assert.Equal(t, 0, pool.NRegisteredSlots())
}

func TestParticleProperties(t *testing.T) {
	pool := NewPropertyPool(2)
	pt := NewParticle([]float64{1, 2}, []float64{0.5, 0.5}, 7)
	assert.False(t, pt.HasProperties())
	assert.Panics(t, func() { pt.Properties() })

	pt.SetPropertyPool(pool)
	assert.False(t, pt.HasProperties()) // still lazy
	pt.SetProperties([]float64{4, 5})
	assert.True(t, pt.HasProperties())
	assert.Equal(t, []float64{4, 5}, pt.Properties())
	assert.Equal(t, 1, pool.NRegisteredSlots())

	assert.Panics(t, func() { pt.SetProperties([]float64{1}) })
}

func TestCloneIsIndependent(t *testing.T) {
	pool := NewPropertyPool(2)
	pt := NewParticle([]float64{1, 2}, []float64{0.25, 0.75}, 3)
	pt.SetPropertyPool(pool)
	pt.SetProperties([]float64{10, 20})

	dup := pt.Clone()
	assert.Equal(t, uint64(3), dup.ID())
	assert.Empty(t, cmp.Diff(pt.Location(), dup.Location()))
	assert.Empty(t, cmp.Diff(pt.Properties(), dup.Properties()))
	assert.Equal(t, 2, pool.NRegisteredSlots())

	dup.Properties()[0] = 99
	dup.Location()[0] = -1
	assert.Equal(t, []float64{10, 20}, pt.Properties())
	assert.Equal(t, float64(-1), dup.Location()[0])
	assert.Equal(t, float64(1), pt.Location()[0])
}

func TestTransferFromMovesTheSlot(t *testing.T) {
	pool := NewPropertyPool(2)
	src := NewParticle([]float64{1, 1}, []float64{0.1, 0.1}, 1)
	src.SetPropertyPool(pool)
	src.SetProperties([]float64{5, 6})

	dst := NewParticle([]float64{0, 0}, []float64{0, 0}, 0)
	dst.TransferFrom(src)

	assert.Equal(t, uint64(1), dst.ID())
	assert.Equal(t, []float64{1, 1}, dst.Location())
	assert.Equal(t, []float64{5, 6}, dst.Properties())
	assert.False(t, src.HasProperties())
	// no copy happened: still one live slot
	assert.Equal(t, 1, pool.NRegisteredSlots())
}

func TestSetPropertyPoolMigrates(t *testing.T) {
	oldPool := NewPropertyPool(2)
	newPool := NewPropertyPool(2)
	pt := NewParticle([]float64{0, 0}, []float64{0, 0}, 0)
	pt.SetPropertyPool(oldPool)
	pt.SetProperties([]float64{1, 2})

	pt.SetPropertyPool(newPool)
	assert.Equal(t, 0, oldPool.NRegisteredSlots())
	assert.Equal(t, 1, newPool.NRegisteredSlots())
	assert.Equal(t, []float64{1, 2}, pt.Properties())

	require.Panics(t, func() { pt.SetPropertyPool(NewPropertyPool(3)) })
}

func TestFreeReleasesTheSlot(t *testing.T) {
	pool := NewPropertyPool(1)
	pt := NewParticle([]float64{0}, []float64{0}, 0)
	pt.SetPropertyPool(pool)
	pt.Properties()
	require.Equal(t, 1, pool.NRegisteredSlots())
	pt.Free()
	assert.Equal(t, 0, pool.NRegisteredSlots())
	pt.Free() // idempotent
}
