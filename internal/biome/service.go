package biome

// ColorSource классифицирует мировую позицию в цвет биома.
// Внешний сервис; ядро генерации получает его при конструировании
// и трактует результат как непрозрачный вход.
type ColorSource interface {
	GetBiomeColor(worldX, worldY float64) Color
}

// WeightSource преобразует цвет биома в карту весов.
// Внешний сервис; ядро не пытается восстановить отображение, только потребляет.
type WeightSource interface {
	GetBiomeWeights(color Color) WeightMap
}
