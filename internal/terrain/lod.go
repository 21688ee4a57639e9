package terrain

import (
	"sort"

	"github.com/annel0/seabed-terrain/internal/config"
	"github.com/annel0/seabed-terrain/internal/vec"
)

// LODSelector выбирает разрешение сетки чанка (число квадов на сторону)
// как ступенчатую функцию удаления от начала координат в единицах чанков.
// Чем дальше чанк, тем грубее сетка; функция не возрастает.
type LODSelector struct {
	base  int
	tiers []config.LODTier
}

// NewLODSelector создаёт селектор по конфигурации. Ступени сортируются
// по дистанции; значения валидируются при загрузке конфига.
func NewLODSelector(cfg config.LODConfig) *LODSelector {
	tiers := make([]config.LODTier, len(cfg.Tiers))
	copy(tiers, cfg.Tiers)
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].Distance < tiers[j].Distance })
	return &LODSelector{base: cfg.BaseResolution, tiers: tiers}
}

// Resolution возвращает разрешение сетки для координат чанка
func (l *LODSelector) Resolution(coord vec.Vec2) int {
	d := coord.DistanceToOrigin()
	res := l.base
	for _, tier := range l.tiers {
		if d > tier.Distance {
			res = tier.Resolution
		}
	}
	return res
}
