package terrain

import (
	"image"
	"image/color"
	"sync"

	"github.com/annel0/seabed-terrain/internal/biome"
	"github.com/annel0/seabed-terrain/internal/logging"
	"github.com/annel0/seabed-terrain/internal/vec"
)

// ArtifactCache хранит сгенерированные карты чанков по координатам:
// карту смешивания биомов (RGB — цвет биома, альфа — фактор смешивания)
// и карту высот (оттенки серого). Записи создаются лениво при первом
// запросе и живут до явного вытеснения прямоугольным окном — другого
// механизма ограничения памяти нет.
//
// Запросы чанков приходят конкурентно (по горутине на HTTP-запрос);
// растеризация идёт вне блокировки, поэтому одновременные запросы одного
// чанка могут продублировать работу, но в кеш попадает ровно одна карта.
type ArtifactCache struct {
	chunkSize int
	blender   *HeightBlender

	mu         sync.RWMutex
	blendMaps  map[vec.Vec2]*image.NRGBA
	heightMaps map[vec.Vec2]*image.Gray
}

// NewArtifactCache создаёт пустой кеш карт чанков
func NewArtifactCache(chunkSize int, blender *HeightBlender) *ArtifactCache {
	return &ArtifactCache{
		chunkSize:  chunkSize,
		blender:    blender,
		blendMaps:  make(map[vec.Vec2]*image.NRGBA),
		heightMaps: make(map[vec.Vec2]*image.Gray),
	}
}

// GetOrCreateBlendMap возвращает карту смешивания чанка, растеризуя её
// при первом запросе: для каждого пикселя RGB — цвет биома, альфа —
// фактор blend-шума. Возвращает nil при невалидном размере чанка.
func (ac *ArtifactCache) GetOrCreateBlendMap(coord vec.Vec2, data *biome.ChunkData) *image.NRGBA {
	ac.mu.RLock()
	img, ok := ac.blendMaps[coord]
	ac.mu.RUnlock()
	if ok {
		return img
	}

	size := ac.effectiveChunkSize(data)
	if size <= 0 {
		logging.Error("Невалидный размер чанка %d, карта смешивания для (%d,%d) не создана",
			size, coord.X, coord.Y)
		return nil
	}

	img = image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := data.ColorAt(vec.Vec2{X: x, Y: y})

			worldX := float64(coord.X*size + x)
			worldY := float64(coord.Y*size + y)
			blend := ac.blender.images.SampleOr(BlendFieldKey, worldX, worldY, 1.0)

			img.SetNRGBA(x, y, color.NRGBA{
				R: floatToByte(float64(c.R)),
				G: floatToByte(float64(c.G)),
				B: floatToByte(float64(c.B)),
				A: floatToByte(blend),
			})
		}
	}

	ac.mu.Lock()
	if existing, ok := ac.blendMaps[coord]; ok {
		ac.mu.Unlock()
		return existing
	}
	ac.blendMaps[coord] = img
	entries := ac.lenLocked()
	ac.mu.Unlock()

	artifactCacheEntries.Set(float64(entries))
	return img
}

// GetOrCreateHeightMap возвращает карту высот чанка, растеризуя выход
// смесителя в оттенки серого при первом запросе. Возвращает nil при
// невалидном размере чанка.
func (ac *ArtifactCache) GetOrCreateHeightMap(coord vec.Vec2, data *biome.ChunkData) *image.Gray {
	ac.mu.RLock()
	img, ok := ac.heightMaps[coord]
	ac.mu.RUnlock()
	if ok {
		return img
	}

	size := ac.effectiveChunkSize(data)
	if size <= 0 {
		logging.Error("Невалидный размер чанка %d, карта высот для (%d,%d) не создана",
			size, coord.X, coord.Y)
		return nil
	}

	img = image.NewGray(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			worldX := float64(coord.X*size + x)
			worldY := float64(coord.Y*size + y)
			height := ac.blender.HeightAt(worldX, worldY, data)
			img.SetGray(x, y, color.Gray{Y: floatToByte(height)})
		}
	}

	ac.mu.Lock()
	if existing, ok := ac.heightMaps[coord]; ok {
		ac.mu.Unlock()
		return existing
	}
	ac.heightMaps[coord] = img
	entries := ac.lenLocked()
	ac.mu.Unlock()

	artifactCacheEntries.Set(float64(entries))
	return img
}

// Evict удаляет все карты чанков вне прямоугольника [min, max]
// (границы включительно). Возвращает число удалённых записей.
func (ac *ArtifactCache) Evict(min, max vec.Vec2) int {
	ac.mu.Lock()
	removed := 0
	for coord := range ac.blendMaps {
		if !coord.InRect(min, max) {
			delete(ac.blendMaps, coord)
			removed++
		}
	}
	for coord := range ac.heightMaps {
		if !coord.InRect(min, max) {
			delete(ac.heightMaps, coord)
			removed++
		}
	}
	entries := ac.lenLocked()
	ac.mu.Unlock()

	artifactCacheEntries.Set(float64(entries))
	if removed > 0 {
		logging.Debug("Вытеснено %d карт чанков вне окна (%d,%d)-(%d,%d)",
			removed, min.X, min.Y, max.X, max.Y)
	}
	return removed
}

// Len возвращает суммарное число записей в кеше
func (ac *ArtifactCache) Len() int {
	ac.mu.RLock()
	defer ac.mu.RUnlock()
	return ac.lenLocked()
}

func (ac *ArtifactCache) lenLocked() int {
	return len(ac.blendMaps) + len(ac.heightMaps)
}

// effectiveChunkSize возвращает сконфигурированный размер чанка, а при
// невалидном — выводит его из экстентов данных биомов
func (ac *ArtifactCache) effectiveChunkSize(data *biome.ChunkData) int {
	if ac.chunkSize > 0 {
		return ac.chunkSize
	}
	derived := data.DeriveChunkSize()
	if derived > 0 {
		logging.Warn("Размер чанка не задан, выведен из данных биомов: %d", derived)
	}
	return derived
}

// floatToByte переводит значение [0, 1] в байт с насыщением
func floatToByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255.0 + 0.5)
}
