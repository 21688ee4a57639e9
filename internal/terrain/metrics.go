package terrain

import "github.com/prometheus/client_golang/prometheus"

// Метрики конвейера генерации:
// * terrain_chunks_generated_total — построенные чанки
// * terrain_chunk_generation_seconds — длительность генерации чанка
// * terrain_artifact_cache_entries — записи в кеше карт чанков
// * terrain_artifact_evictions_total — вытесненные карты
var (
	chunksGeneratedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "terrain",
		Name:      "chunks_generated_total",
		Help:      "Общее число сгенерированных чанков.",
	})
	chunkGenerationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "terrain",
		Name:      "chunk_generation_seconds",
		Help:      "Длительность генерации одного чанка.",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2},
	})
	artifactCacheEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "terrain",
		Name:      "artifact_cache_entries",
		Help:      "Текущее число карт чанков в кеше.",
	})
	artifactEvictionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "terrain",
		Name:      "artifact_evictions_total",
		Help:      "Общее число карт чанков, вытесненных из кеша.",
	})
)

func init() {
	prometheus.MustRegister(
		chunksGeneratedTotal,
		chunkGenerationSeconds,
		artifactCacheEntries,
		artifactEvictionsTotal,
	)
}
