package biome

import (
	"math"
	"sort"

	"github.com/annel0/seabed-terrain/internal/noise"
)

// Референсные реализации внешних сервисов биомов. Ядро генерации видит
// только интерфейсы ColorSource/WeightSource; эти реализации использует
// cmd/server и тесты.

// MaskEntry связывает биом с верхней границей значения маски-шума
type MaskEntry struct {
	ID        ID
	Color     Color
	Threshold float64
}

// MaskColorSource классифицирует мировую позицию по значению маски-шума:
// берётся первый биом, чей порог не меньше значения маски.
type MaskColorSource struct {
	mask    noise.Field
	entries []MaskEntry
}

// NewMaskColorSource создаёт классификатор. Записи сортируются по порогу.
func NewMaskColorSource(mask noise.Field, entries []MaskEntry) *MaskColorSource {
	sorted := make([]MaskEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Threshold < sorted[j].Threshold })
	return &MaskColorSource{mask: mask, entries: sorted}
}

// GetBiomeColor возвращает цвет биома для мировой позиции
func (s *MaskColorSource) GetBiomeColor(worldX, worldY float64) Color {
	if len(s.entries) == 0 {
		return White
	}
	v := s.mask.Sample(worldX, worldY)
	for _, e := range s.entries {
		if v <= e.Threshold {
			return e.Color
		}
	}
	return s.entries[len(s.entries)-1].Color
}

// PaletteWeightSource вычисляет веса биомов по близости цвета позиции
// к зарегистрированному цвету биома: вес спадает линейно до нуля на
// расстоянии radius в RGB-пространстве.
type PaletteWeightSource struct {
	palette map[ID]Color
	radius  float64
}

// NewPaletteWeightSource создаёт сервис весов. radius <= 0 заменяется на 0.6.
func NewPaletteWeightSource(palette map[ID]Color, radius float64) *PaletteWeightSource {
	if radius <= 0 {
		radius = 0.6
	}
	return &PaletteWeightSource{palette: palette, radius: radius}
}

// GetBiomeWeights возвращает неотрицательные веса биомов для цвета.
// Веса не нормализуются: потребитель делит на их сумму сам.
func (s *PaletteWeightSource) GetBiomeWeights(color Color) WeightMap {
	weights := make(WeightMap, len(s.palette))
	for id, c := range s.palette {
		d := colorDistance(color, c)
		w := 1.0 - d/s.radius
		if w > 0 {
			weights[id] = w
		}
	}
	return weights
}

// colorDistance — евклидово расстояние в RGB (альфа не участвует)
func colorDistance(a, b Color) float64 {
	dr := float64(a.R - b.R)
	dg := float64(a.G - b.G)
	db := float64(a.B - b.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}
