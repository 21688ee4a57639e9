package terrain

import (
	"testing"

	"github.com/annel0/seabed-terrain/internal/config"
	"github.com/annel0/seabed-terrain/internal/vec"
	"github.com/stretchr/testify/assert"
)

func defaultLOD() *LODSelector {
	return NewLODSelector(config.LODConfig{
		BaseResolution: 32,
		Tiers: []config.LODTier{
			{Distance: 3, Resolution: 16},
			{Distance: 6, Resolution: 8},
		},
	})
}

func TestLODResolutionTiers(t *testing.T) {
	lod := defaultLOD()

	assert.Equal(t, 32, lod.Resolution(vec.Vec2{X: 0, Y: 0}))
	// Граница не включается: дистанция ровно 3 остаётся базовой
	assert.Equal(t, 32, lod.Resolution(vec.Vec2{X: 3, Y: 0}))
	assert.Equal(t, 16, lod.Resolution(vec.Vec2{X: 4, Y: 0}))
	assert.Equal(t, 16, lod.Resolution(vec.Vec2{X: 6, Y: 0}))
	assert.Equal(t, 8, lod.Resolution(vec.Vec2{X: 7, Y: 0}))
	assert.Equal(t, 8, lod.Resolution(vec.Vec2{X: -100, Y: 50}))
}

func TestLODResolutionDiagonal(t *testing.T) {
	lod := defaultLOD()
	// (5, 5): дистанция ~7.07 > 6
	assert.Equal(t, 8, lod.Resolution(vec.Vec2{X: 5, Y: 5}))
	// (2, 2): дистанция ~2.83 <= 3
	assert.Equal(t, 32, lod.Resolution(vec.Vec2{X: 2, Y: 2}))
}

func TestLODResolutionNonIncreasing(t *testing.T) {
	lod := defaultLOD()
	prev := lod.Resolution(vec.Vec2{X: 0, Y: 0})
	for d := 1; d <= 20; d++ {
		res := lod.Resolution(vec.Vec2{X: d, Y: 0})
		assert.LessOrEqual(t, res, prev, "разрешение не должно расти с удалением (d=%d)", d)
		prev = res
	}
}

func TestLODUnsortedTiers(t *testing.T) {
	// Конструктор сортирует ступени сам
	lod := NewLODSelector(config.LODConfig{
		BaseResolution: 32,
		Tiers: []config.LODTier{
			{Distance: 6, Resolution: 8},
			{Distance: 3, Resolution: 16},
		},
	})
	assert.Equal(t, 16, lod.Resolution(vec.Vec2{X: 4, Y: 0}))
	assert.Equal(t, 8, lod.Resolution(vec.Vec2{X: 7, Y: 0}))
}
