package noise

import "sync"

// ImageCache хранит запечённые растры шума по идентификатору поля
// (имя биома или служебный ключ). Записи создаются однократно при промоции
// из планировщика запекания и далее не меняются.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]*BakedImage
}

// NewImageCache создаёт пустой кеш растров
func NewImageCache() *ImageCache {
	return &ImageCache{images: make(map[string]*BakedImage)}
}

// Get возвращает растр по ключу. Отсутствие записи — валидное состояние
// "ещё не запечено", не ошибка.
func (c *ImageCache) Get(key string) (*BakedImage, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	img, ok := c.images[key]
	return img, ok
}

// Put помещает растр в кеш. Уже существующая запись не перезаписывается:
// запечённый растр неизменяем.
func (c *ImageCache) Put(key string, img *BakedImage) bool {
	if img == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.images[key]; exists {
		return false
	}
	c.images[key] = img
	return true
}

// SampleOr возвращает значение растра для мировой позиции или fallback,
// если растр ещё не запечён
func (c *ImageCache) SampleOr(key string, worldX, worldY, fallback float64) float64 {
	img, ok := c.Get(key)
	if !ok {
		return fallback
	}
	return img.At(worldX, worldY)
}

// Len возвращает число запечённых растров
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Keys возвращает список ключей запечённых растров
func (c *ImageCache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.images))
	for k := range c.images {
		keys = append(keys, k)
	}
	return keys
}
