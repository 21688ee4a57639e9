package biome

import (
	"testing"

	"github.com/annel0/seabed-terrain/internal/noise"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskColorSource(t *testing.T) {
	sand := Color{R: 0.9, G: 0.85, B: 0.5, A: 1}
	rock := Color{R: 0.4, G: 0.4, B: 0.4, A: 1}
	// Специально в обратном порядке: конструктор обязан отсортировать
	entries := []MaskEntry{
		{ID: "rock", Color: rock, Threshold: 1.0},
		{ID: "sand", Color: sand, Threshold: 0.5},
	}

	low := NewMaskColorSource(noise.ConstantField{Value: 0.3}, entries)
	assert.True(t, low.GetBiomeColor(0, 0).Equals(sand))

	high := NewMaskColorSource(noise.ConstantField{Value: 0.8}, entries)
	assert.True(t, high.GetBiomeColor(0, 0).Equals(rock))

	empty := NewMaskColorSource(noise.ConstantField{Value: 0.5}, nil)
	assert.True(t, empty.GetBiomeColor(0, 0).Equals(White))
}

func TestPaletteWeightSourceExactMatch(t *testing.T) {
	sand := Color{R: 0.9, G: 0.85, B: 0.5, A: 1}
	src := NewPaletteWeightSource(map[ID]Color{"sand": sand}, 0)

	w := src.GetBiomeWeights(sand)
	require.Contains(t, w, ID("sand"))
	assert.InDelta(t, 1.0, w["sand"], 1e-12)
}

func TestPaletteWeightSourceFarColorExcluded(t *testing.T) {
	src := NewPaletteWeightSource(map[ID]Color{
		"sand": {R: 1, G: 1, B: 1, A: 1},
	}, 0.6)

	// Чёрный далеко за пределами радиуса — биом не получает веса
	w := src.GetBiomeWeights(Color{R: 0, G: 0, B: 0, A: 1})
	assert.Empty(t, w)
}

func TestPaletteWeightSourceFalloff(t *testing.T) {
	base := Color{R: 0.5, G: 0.5, B: 0.5, A: 1}
	src := NewPaletteWeightSource(map[ID]Color{"rock": base}, 0.6)

	near := src.GetBiomeWeights(Color{R: 0.5, G: 0.5, B: 0.6, A: 1})
	far := src.GetBiomeWeights(Color{R: 0.5, G: 0.5, B: 0.9, A: 1})
	require.Contains(t, near, ID("rock"))
	require.Contains(t, far, ID("rock"))
	assert.Greater(t, near["rock"], far["rock"])
}
