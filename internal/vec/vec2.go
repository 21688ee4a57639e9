package vec

import "math"

// Vec2 представляет целочисленные 2D координаты (координаты чанка или
// локальная позиция внутри чанка)
type Vec2 struct {
	X, Y int
}

// ToChunkCoords преобразует мировые координаты в координаты чанка указанного размера
func (v Vec2) ToChunkCoords(chunkSize int) Vec2 {
	return Vec2{X: floorDiv(v.X, chunkSize), Y: floorDiv(v.Y, chunkSize)}
}

// LocalInChunk возвращает локальные координаты внутри чанка, всегда в [0, chunkSize)
func (v Vec2) LocalInChunk(chunkSize int) Vec2 {
	return Vec2{X: Mod(v.X, chunkSize), Y: Mod(v.Y, chunkSize)}
}

// WorldOffset возвращает мировое смещение чанка с данными координатами
func (v Vec2) WorldOffset(chunkSize int) Vec2Float {
	return Vec2Float{X: float64(v.X * chunkSize), Y: float64(v.Y * chunkSize)}
}

// DistanceToOrigin возвращает евклидово расстояние до начала координат в единицах чанков
func (v Vec2) DistanceToOrigin() float64 {
	return math.Sqrt(float64(v.X*v.X + v.Y*v.Y))
}

// DistanceTo вычисляет расстояние до другой точки
func (v Vec2) DistanceTo(other Vec2) float64 {
	dx := float64(v.X - other.X)
	dy := float64(v.Y - other.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// InRect проверяет, лежит ли точка внутри прямоугольника [min, max] (включительно)
func (v Vec2) InRect(min, max Vec2) bool {
	return v.X >= min.X && v.X <= max.X && v.Y >= min.Y && v.Y <= max.Y
}

// Mod возвращает неотрицательный остаток от деления, в том числе для отрицательных a
func Mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

// floorDiv делит с округлением вниз (обычное деление в Go округляет к нулю)
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
