package noise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageCachePutOnce(t *testing.T) {
	cache := NewImageCache()
	first := RenderTileable(ConstantField{Value: 0.3}, 4, 4)
	second := RenderTileable(ConstantField{Value: 0.9}, 4, 4)

	assert.True(t, cache.Put("sand", first))
	// Повторная запись не перезаписывает неизменяемый растр
	assert.False(t, cache.Put("sand", second))

	got, ok := cache.Get("sand")
	require.True(t, ok)
	assert.Same(t, first, got)
	assert.Equal(t, 1, cache.Len())
}

func TestImageCachePutNil(t *testing.T) {
	cache := NewImageCache()
	assert.False(t, cache.Put("sand", nil))
	assert.Equal(t, 0, cache.Len())
}

func TestImageCacheSampleOr(t *testing.T) {
	cache := NewImageCache()
	// Отсутствие растра — валидное состояние, берётся fallback
	assert.Equal(t, 1.0, cache.SampleOr("blend", 3, 3, 1.0))

	cache.Put("blend", RenderTileable(ConstantField{Value: 0.25}, 4, 4))
	assert.InDelta(t, 0.25, cache.SampleOr("blend", 3, 3, 1.0), 1e-12)
}

func TestImageCacheKeys(t *testing.T) {
	cache := NewImageCache()
	cache.Put("a", RenderTileable(ConstantField{Value: 1}, 2, 2))
	cache.Put("b", RenderTileable(ConstantField{Value: 1}, 2, 2))
	assert.ElementsMatch(t, []string{"a", "b"}, cache.Keys())
}
