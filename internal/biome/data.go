package biome

import (
	"github.com/annel0/seabed-terrain/internal/vec"
)

// ChunkData хранит предвычисленные цвета и веса биомов для одного чанка:
// типизированные отображения локальная позиция -> цвет / карта весов.
type ChunkData struct {
	ChunkSize int
	Colors    map[vec.Vec2]Color
	Weights   map[vec.Vec2]WeightMap
}

// GenerateChunkData предвычисляет цвета и веса для каждой локальной позиции
// чанка (cx, cy), опрашивая внешние сервисы биомов.
func GenerateChunkData(cx, cy, chunkSize int, colors ColorSource, weights WeightSource) *ChunkData {
	data := &ChunkData{
		ChunkSize: chunkSize,
		Colors:    make(map[vec.Vec2]Color, chunkSize*chunkSize),
		Weights:   make(map[vec.Vec2]WeightMap, chunkSize*chunkSize),
	}

	for y := 0; y < chunkSize; y++ {
		for x := 0; x < chunkSize; x++ {
			worldX := float64(cx*chunkSize + x)
			worldY := float64(cy*chunkSize + y)
			local := vec.Vec2{X: x, Y: y}

			color := colors.GetBiomeColor(worldX, worldY)
			data.Colors[local] = color
			data.Weights[local] = weights.GetBiomeWeights(color)
		}
	}
	return data
}

// ColorAt возвращает цвет для локальной позиции; при отсутствии данных — белый
func (d *ChunkData) ColorAt(local vec.Vec2) Color {
	if c, ok := d.Colors[local]; ok {
		return c
	}
	return White
}

// WeightsAt возвращает карту весов для локальной позиции.
// Отсутствие данных трактуется как нулевые веса, не как ошибка.
func (d *ChunkData) WeightsAt(local vec.Vec2) (WeightMap, bool) {
	w, ok := d.Weights[local]
	return w, ok
}

// DeriveChunkSize выводит размер чанка из экстентов данных.
// Используется, когда сконфигурированный размер невалиден.
func (d *ChunkData) DeriveChunkSize() int {
	maxX, maxY := 0, 0
	for pos := range d.Colors {
		if pos.X+1 > maxX {
			maxX = pos.X + 1
		}
		if pos.Y+1 > maxY {
			maxY = pos.Y + 1
		}
	}
	if maxX > maxY {
		return maxX
	}
	return maxY
}
