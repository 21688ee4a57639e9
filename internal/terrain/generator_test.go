package terrain

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/annel0/seabed-terrain/internal/biome"
	"github.com/annel0/seabed-terrain/internal/config"
	"github.com/annel0/seabed-terrain/internal/noise"
	"github.com/annel0/seabed-terrain/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubColorSource struct {
	color biome.Color
}

func (s stubColorSource) GetBiomeColor(worldX, worldY float64) biome.Color { return s.color }

type stubWeightSource struct {
	weights biome.WeightMap
}

func (s stubWeightSource) GetBiomeWeights(color biome.Color) biome.WeightMap { return s.weights }

func testTerrainConfig() config.TerrainConfig {
	return config.TerrainConfig{
		ChunkSize:        4,
		HeightMultiplier: 2.0,
		Bake:             config.BakeConfig{Width: 8, Height: 8, PollIntervalMS: 1, TimeoutSeconds: 10},
		LOD:              config.LODConfig{BaseResolution: 4},
		Biomes: []config.BiomeDef{
			{ID: "sand", Color: [4]float32{0.9, 0.85, 0.5, 1.0}, MaskThreshold: 1.0},
		},
	}
}

func newTestGenerator(t *testing.T) *Generator {
	t.Helper()
	sand := biome.Color{R: 0.9, G: 0.85, B: 0.5, A: 1}
	gen, err := NewGenerator(testTerrainConfig(), map[string]noise.Definition{},
		stubColorSource{color: sand},
		stubWeightSource{weights: biome.WeightMap{"sand": 1.0}})
	require.NoError(t, err)

	gen.Initialize()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, gen.Scheduler().WaitReady(ctx))
	return gen
}

func TestNewGeneratorRejectsInvalidChunkSize(t *testing.T) {
	cfg := testTerrainConfig()
	cfg.ChunkSize = 0
	_, err := NewGenerator(cfg, map[string]noise.Definition{}, stubColorSource{}, stubWeightSource{})
	assert.Error(t, err)
}

func TestGeneratorInitializeBakesAllFields(t *testing.T) {
	gen := newTestGenerator(t)
	// Биом + служебные поля blend/boss/section
	assert.Equal(t, 4, gen.Images().Len())
	for _, key := range []string{"sand", BlendFieldKey, BossFieldKey, SectionFieldKey} {
		_, ok := gen.Images().Get(key)
		assert.True(t, ok, "поле '%s' должно быть запечено", key)
	}
}

func TestGenerateChunkPipeline(t *testing.T) {
	gen := newTestGenerator(t)
	coord := vec.Vec2{X: 0, Y: 0}

	data := gen.GenerateBiomeData(coord)
	require.NotNil(t, data)
	assert.Len(t, data.Colors, 16)

	result, err := gen.GenerateChunk(context.Background(), coord, data)
	require.NoError(t, err)
	assert.Equal(t, coord, result.Coord)
	assert.Equal(t, 4, result.Resolution)
	require.NotNil(t, result.Mesh)
	require.NotNil(t, result.BlendMap)
	require.NotNil(t, result.HeightMap)

	// Пустые описания шума деградируют до постоянного поля 1.0:
	// высота каждой вершины 1.0 * множитель 2.0
	for _, v := range result.Mesh.Vertices {
		assert.InDelta(t, 2.0, v.Y, 1e-9)
	}

	// Карты кешируются по координате
	again, err := gen.GenerateChunk(context.Background(), coord, data)
	require.NoError(t, err)
	assert.Same(t, result.BlendMap, again.BlendMap)
	assert.Same(t, result.HeightMap, again.HeightMap)
}

func TestGeneratorCleanupChunkCaches(t *testing.T) {
	gen := newTestGenerator(t)

	for _, coord := range []vec.Vec2{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 3, Y: 3}} {
		data := gen.GenerateBiomeData(coord)
		_, err := gen.GenerateChunk(context.Background(), coord, data)
		require.NoError(t, err)
	}
	assert.Equal(t, 6, gen.ArtifactCount())

	removed := gen.CleanupChunkCaches(vec.Vec2{X: 0, Y: 0}, vec.Vec2{X: 2, Y: 2})
	assert.Equal(t, 2, removed)
	assert.Equal(t, 4, gen.ArtifactCount())
}

func TestGenerateChunkConcurrent(t *testing.T) {
	// REST-сервер обслуживает каждый запрос своей горутиной: генерация
	// разных чанков должна переживать конкурентные обращения к кешу карт
	gen := newTestGenerator(t)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			coord := vec.Vec2{X: i, Y: -i}
			data := gen.GenerateBiomeData(coord)
			_, err := gen.GenerateChunk(context.Background(), coord, data)
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	// 8 чанков, по две карты на каждый
	assert.Equal(t, 16, gen.ArtifactCount())
}

func TestGeneratorHeightAt(t *testing.T) {
	gen := newTestGenerator(t)
	data := gen.GenerateBiomeData(vec.Vec2{X: 0, Y: 0})

	// Постоянные поля: шум биома 1.0, blend 1.0
	assert.InDelta(t, 1.0, gen.HeightAt(1, 1, data), 1e-9)
}
