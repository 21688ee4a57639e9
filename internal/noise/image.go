package noise

// BakedImage — однократно сгенерированный растр значений шума.
// После помещения в кеш растр неизменяем; все последующие выборки
// идут из него вместо повторного вычисления поля.
type BakedImage struct {
	width   int
	height  int
	samples []float64
}

// NewBakedImage создаёт растр из готовых значений. len(samples) должен
// равняться width*height (строки подряд).
func NewBakedImage(width, height int, samples []float64) *BakedImage {
	if width <= 0 || height <= 0 || len(samples) != width*height {
		return nil
	}
	return &BakedImage{width: width, height: height, samples: samples}
}

// Width возвращает ширину растра
func (img *BakedImage) Width() int { return img.width }

// Height возвращает высоту растра
func (img *BakedImage) Height() int { return img.height }

// At возвращает значение для мировой позиции. Координаты заворачиваются,
// поэтому индекс всегда определён и неотрицателен, в том числе для
// отрицательных мировых координат; поле тайлится с периодом (width, height).
func (img *BakedImage) At(worldX, worldY float64) float64 {
	sx := WrapIndex(int(worldX), img.width)
	sy := WrapIndex(int(worldY), img.height)
	return img.samples[sy*img.width+sx]
}

// WrapIndex приводит координату к диапазону [0, size)
func WrapIndex(v, size int) int {
	return ((v % size) + size) % size
}

// RenderTileable запекает поле в растр width x height, бесшовно тайлящийся
// по краям: четыре смещённые копии поля смешиваются билинейно по позиции,
// так что строка 0 продолжает строку height-1 и аналогично по X.
func RenderTileable(f Field, width, height int) *BakedImage {
	samples := make([]float64, width*height)
	for y := 0; y < height; y++ {
		fy := float64(y) / float64(height)
		for x := 0; x < width; x++ {
			fx := float64(x) / float64(width)

			v00 := f.Sample(float64(x), float64(y))
			v10 := f.Sample(float64(x-width), float64(y))
			v01 := f.Sample(float64(x), float64(y-height))
			v11 := f.Sample(float64(x-width), float64(y-height))

			samples[y*width+x] = v00*(1-fx)*(1-fy) +
				v10*fx*(1-fy) +
				v01*(1-fx)*fy +
				v11*fx*fy
		}
	}
	return &BakedImage{width: width, height: height, samples: samples}
}
