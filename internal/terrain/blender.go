package terrain

import (
	"github.com/annel0/seabed-terrain/internal/biome"
	"github.com/annel0/seabed-terrain/internal/noise"
	"github.com/annel0/seabed-terrain/internal/vec"
)

// Пороговые значения смешивания
const (
	// MinBiomeWeight — вес ниже этого порога не участвует в смешивании
	MinBiomeWeight = 0.001
	// minTotalWeight — суммарный вес, ниже которого высота считается нулевой
	minTotalWeight = 1e-6
)

// Ключи служебных полей шума в кеше растров. Биомные растры хранятся
// под именем биома.
const (
	BlendFieldKey = "blend"
	BossFieldKey  = "boss"
	// Секционное поле загружается и запекается, но выбранная политика
	// смешивания его не использует (см. DESIGN.md)
	SectionFieldKey = "section"
)

// HeightBlender вычисляет высоту точки как взвешенное среднее шумов биомов,
// модулированное общим полем blend-шума. Модуляция добавляет общий
// высокочастотный сигнал, чтобы границы биомов не выглядели плоскими.
type HeightBlender struct {
	images *noise.ImageCache
}

// NewHeightBlender создаёт смеситель высот поверх кеша растров
func NewHeightBlender(images *noise.ImageCache) *HeightBlender {
	return &HeightBlender{images: images}
}

// Height возвращает высоту для мировой позиции.
//
// Политика краевых случаев:
//   - босс-зона полностью переопределяет смешивание;
//   - биом без запечённого растра не участвует ни в числителе, ни в знаменателе;
//   - суммарный вес < 1e-6 даёт высоту 0.0 (политика "нет данных", не ошибка).
//
// Деление на суммарный вес делает результат инвариантным к абсолютной
// величине входных весов.
func (hb *HeightBlender) Height(worldX, worldY float64, color biome.Color, weights biome.WeightMap) float64 {
	if biome.IsBossArea(color) {
		return hb.images.SampleOr(BossFieldKey, worldX, worldY, 1.0)
	}

	blendFactor := hb.images.SampleOr(BlendFieldKey, worldX, worldY, 1.0)

	var weightedSum, totalWeight float64
	for id, weight := range weights {
		if weight < MinBiomeWeight {
			continue
		}
		img, ok := hb.images.Get(string(id))
		if !ok {
			// растр ещё не запечён — биом ничего не вносит
			continue
		}
		biomeNoise := img.At(worldX, worldY)
		weightedSum += weight * biomeNoise * blendFactor
		totalWeight += weight
	}

	if totalWeight < minTotalWeight {
		return 0.0
	}
	return weightedSum / totalWeight
}

// HeightAt возвращает высоту по предвычисленным данным чанка: мировая
// позиция заворачивается в локальную [0, chunkSize) перед выборкой
// цвета и весов. Незаданный размер чанка выводится из экстентов данных;
// заворачивание по нулевому размеру — деление на ноль.
func (hb *HeightBlender) HeightAt(worldX, worldY float64, data *biome.ChunkData) float64 {
	size := data.ChunkSize
	if size <= 0 {
		size = data.DeriveChunkSize()
		if size <= 0 {
			return 0.0
		}
	}
	local := vec.Vec2{
		X: noise.WrapIndex(int(worldX), size),
		Y: noise.WrapIndex(int(worldY), size),
	}

	color := data.ColorAt(local)
	weights, ok := data.WeightsAt(local)
	if !ok && !biome.IsBossArea(color) {
		// отсутствие предвычисленных весов — нулевой вклад
		return 0.0
	}
	return hb.Height(worldX, worldY, color, weights)
}
