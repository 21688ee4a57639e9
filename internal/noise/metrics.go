package noise

import "github.com/prometheus/client_golang/prometheus"

// Метрики запекания шума:
// * terrain_bake_promotions_total — растры, перенесённые в кеш
// * terrain_bake_timeouts_total — задачи, отброшенные по таймауту
// * terrain_bake_pending_tasks — задачи в ожидании
var (
	bakePromotionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "terrain",
		Name:      "bake_promotions_total",
		Help:      "Число запечённых растров шума, перенесённых в кеш.",
	})
	bakeTimeoutsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "terrain",
		Name:      "bake_timeouts_total",
		Help:      "Число задач запекания, отброшенных по таймауту.",
	})
	bakePendingTasks = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "terrain",
		Name:      "bake_pending_tasks",
		Help:      "Текущее число незавершённых задач запекания.",
	})
)

func init() {
	prometheus.MustRegister(bakePromotionsTotal, bakeTimeoutsTotal, bakePendingTasks)
}
