package noise

import (
	"github.com/aquilax/go-perlin"
)

// Field представляет детерминированное скалярное 2D поле шума.
// Значения нормализованы в [0, 1].
type Field interface {
	Sample(x, y float64) float64
}

// PerlinField — поле на основе шума Перлина.
type PerlinField struct {
	noise     *perlin.Perlin
	frequency float64
}

// NewPerlinField создаёт поле Перлина.
// alpha — сглаживание, beta — частотный множитель октав, n — число октав.
func NewPerlinField(alpha, beta float64, n int32, seed int64, frequency float64) *PerlinField {
	if frequency <= 0 {
		frequency = 1.0
	}
	return &PerlinField{
		noise:     perlin.NewPerlin(alpha, beta, n, seed),
		frequency: frequency,
	}
}

// Sample возвращает значение шума в точке, приведённое из [-1, 1] к [0, 1]
func (f *PerlinField) Sample(x, y float64) float64 {
	n := f.noise.Noise2D(x*f.frequency, y*f.frequency)
	return (n + 1.0) / 2.0
}

// ConstantField — постоянное поле. Запасной вариант при отсутствии ассета шума:
// генерация деградирует до плоского вклада вместо ошибки.
type ConstantField struct {
	Value float64
}

// Sample возвращает одно и то же значение для любой точки
func (f ConstantField) Sample(x, y float64) float64 {
	return f.Value
}
