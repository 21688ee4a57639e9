package biome

// ID — символьное имя биома ("corral", "sand", "rock", "kelp", "lavarock").
// Строковый тип, а не enum: внешний сервис биомов может регистрировать новые.
type ID string

// Color — цвет-классификатор биома в RGBA, компоненты в [0, 1].
type Color struct {
	R, G, B, A float32
}

// BossAreaColor — зарезервированный цвет-маркер босс-зоны.
// Позиция этого цвета полностью обходит смешивание биомов.
var BossAreaColor = Color{R: 1, G: 0, B: 0, A: 1}

// White — цвет по умолчанию при отсутствии данных
var White = Color{R: 1, G: 1, B: 1, A: 1}

// Equals проверяет точное равенство цветов
func (c Color) Equals(other Color) bool {
	return c.R == other.R && c.G == other.G && c.B == other.B && c.A == other.A
}

// IsBossArea сообщает, помечает ли цвет босс-зону
func IsBossArea(c Color) bool {
	return c.Equals(BossAreaColor)
}

// WeightMap — неотрицательные веса биомов для одной позиции.
// Веса не обязаны суммироваться к единице.
type WeightMap map[ID]float64

// Total возвращает сумму весов
func (w WeightMap) Total() float64 {
	total := 0.0
	for _, v := range w {
		total += v
	}
	return total
}

// Scaled возвращает копию карты весов, умноженной на множитель
func (w WeightMap) Scaled(factor float64) WeightMap {
	out := make(WeightMap, len(w))
	for id, v := range w {
		out[id] = v * factor
	}
	return out
}
