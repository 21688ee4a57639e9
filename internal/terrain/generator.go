package terrain

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/annel0/seabed-terrain/internal/biome"
	"github.com/annel0/seabed-terrain/internal/config"
	"github.com/annel0/seabed-terrain/internal/logging"
	"github.com/annel0/seabed-terrain/internal/noise"
	"github.com/annel0/seabed-terrain/internal/vec"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ChunkResult — всё, что конвейер производит для одного чанка
type ChunkResult struct {
	Coord      vec.Vec2
	Resolution int
	Mesh       *MeshBuffer
	BlendMap   *image.NRGBA
	HeightMap  *image.Gray
}

// Generator связывает конвейер генерации чанков: запекание шума,
// смешивание высот, выбор LOD, построение сетки и кеш карт.
// Сервисы биомов внедряются интерфейсами при конструировании.
type Generator struct {
	chunkSize int
	bake      config.BakeConfig

	fields    map[string]noise.Field
	images    *noise.ImageCache
	scheduler *noise.BakeScheduler
	blender   *HeightBlender
	lod       *LODSelector
	mesh      *MeshBuilder
	artifacts *ArtifactCache

	colors  biome.ColorSource
	weights biome.WeightSource

	tracer trace.Tracer
}

// NewGenerator создаёт генератор. defs — загруженные описания полей шума;
// отсутствующие описания деградируют до постоянного поля. При ненулевом
// мастер-сиде все сиды полей детерминированно перегенерируются.
func NewGenerator(cfg config.TerrainConfig, defs map[string]noise.Definition,
	colors biome.ColorSource, weights biome.WeightSource) (*Generator, error) {

	if cfg.ChunkSize <= 0 {
		return nil, fmt.Errorf("невалидный размер чанка: %d", cfg.ChunkSize)
	}

	if cfg.Seed != 0 {
		noise.ReseedDefinitions(defs, cfg.Seed)
		logging.Info("Сиды полей шума перегенерированы от мастер-сида %d", cfg.Seed)
	}

	fields := make(map[string]noise.Field)
	for _, b := range cfg.Biomes {
		fields[b.ID] = noise.FieldOrDefault(defs, b.ID)
	}
	for _, key := range []string{BlendFieldKey, BossFieldKey, SectionFieldKey} {
		fields[key] = noise.FieldOrDefault(defs, key)
	}

	images := noise.NewImageCache()
	scheduler := noise.NewBakeScheduler(images, cfg.Bake.PollInterval(), cfg.Bake.Timeout())
	blender := NewHeightBlender(images)
	lod := NewLODSelector(cfg.LOD)

	return &Generator{
		chunkSize: cfg.ChunkSize,
		bake:      cfg.Bake,
		fields:    fields,
		images:    images,
		scheduler: scheduler,
		blender:   blender,
		lod:       lod,
		mesh:      NewMeshBuilder(cfg.ChunkSize, cfg.HeightMultiplier, blender, lod),
		artifacts: NewArtifactCache(cfg.ChunkSize, blender),
		colors:    colors,
		weights:   weights,
		tracer:    otel.Tracer("terrain"),
	}, nil
}

// Initialize ставит все поля шума в очередь запекания. Цикл опроса
// запускается отдельно (Scheduler().Run); до промоции растров смеситель
// отдаёт нейтральные вклады.
func (g *Generator) Initialize() {
	for key, field := range g.fields {
		g.scheduler.Schedule(key, field, g.bake.Width, g.bake.Height)
	}
	logging.Info("Генератор инициализирован: чанк %dx%d, полей шума: %d",
		g.chunkSize, g.chunkSize, len(g.fields))
}

// Scheduler возвращает планировщик запекания для запуска цикла опроса
func (g *Generator) Scheduler() *noise.BakeScheduler {
	return g.scheduler
}

// Images возвращает кеш запечённых растров шума
func (g *Generator) Images() *noise.ImageCache {
	return g.images
}

// ChunkSize возвращает размер чанка в мировых единицах
func (g *Generator) ChunkSize() int {
	return g.chunkSize
}

// HeightAt возвращает высоту точки по предвычисленным данным чанка
func (g *Generator) HeightAt(worldX, worldY float64, data *biome.ChunkData) float64 {
	return g.blender.HeightAt(worldX, worldY, data)
}

// ArtifactCount возвращает число карт чанков в кеше
func (g *Generator) ArtifactCount() int {
	return g.artifacts.Len()
}

// GenerateBiomeData предвычисляет цвета и веса биомов для чанка,
// опрашивая внедрённые сервисы биомов по каждой локальной позиции
func (g *Generator) GenerateBiomeData(coord vec.Vec2) *biome.ChunkData {
	return biome.GenerateChunkData(coord.X, coord.Y, g.chunkSize, g.colors, g.weights)
}

// GenerateChunk строит сетку и обе карты чанка. Карты кешируются по
// координате; повторный вызов с теми же данными возвращает их из кеша.
func (g *Generator) GenerateChunk(ctx context.Context, coord vec.Vec2, data *biome.ChunkData) (*ChunkResult, error) {
	_, span := g.tracer.Start(ctx, "terrain.generate_chunk",
		trace.WithAttributes(
			attribute.Int("chunk.x", coord.X),
			attribute.Int("chunk.y", coord.Y),
		))
	defer span.End()

	start := time.Now()

	resolution := g.lod.Resolution(coord)
	mesh := g.mesh.BuildWithResolution(coord, data, resolution)

	blendMap := g.artifacts.GetOrCreateBlendMap(coord, data)
	heightMap := g.artifacts.GetOrCreateHeightMap(coord, data)
	if blendMap == nil || heightMap == nil {
		return nil, fmt.Errorf("не удалось создать карты чанка (%d,%d): невалидный размер чанка", coord.X, coord.Y)
	}

	elapsed := time.Since(start)
	chunksGeneratedTotal.Inc()
	chunkGenerationSeconds.Observe(elapsed.Seconds())
	span.SetAttributes(attribute.Int("chunk.resolution", resolution))
	logging.LogChunkGenerated(coord.X, coord.Y, resolution, elapsed)

	return &ChunkResult{
		Coord:      coord,
		Resolution: resolution,
		Mesh:       mesh,
		BlendMap:   blendMap,
		HeightMap:  heightMap,
	}, nil
}

// CleanupChunkCaches вытесняет карты чанков вне активного окна
// [min, max]. Вызывается драйвером окна обзора при движении наблюдателя.
func (g *Generator) CleanupChunkCaches(min, max vec.Vec2) int {
	removed := g.artifacts.Evict(min, max)
	artifactEvictionsTotal.Add(float64(removed))
	return removed
}
