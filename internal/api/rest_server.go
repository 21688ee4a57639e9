package api

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"image/png"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/annel0/seabed-terrain/internal/logging"
	"github.com/annel0/seabed-terrain/internal/middleware"
	"github.com/annel0/seabed-terrain/internal/terrain"
	"github.com/annel0/seabed-terrain/internal/vec"
	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/zstd"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// RestServer — HTTP-поверхность генератора: отдаёт карты и сетки чанков
// потребителю (привязка материалов/рендера) и принимает команды окна
// обзора (вытеснение кеша).
type RestServer struct {
	engine  *gin.Engine
	srv     *http.Server
	gen     *terrain.Generator
	metrics *ServerMetrics
	zenc    *zstd.Encoder
}

// NewRestServer создаёт REST сервер поверх генератора
func NewRestServer(gen *terrain.Generator, serviceName string) (*RestServer, error) {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(otelgin.Middleware(serviceName))

	pm := middleware.NewPrometheusMiddleware("terrain_api")
	engine.Use(pm.Handler())
	pm.RegisterMetricsEndpoint(engine)

	zenc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("не удалось создать zstd-энкодер: %w", err)
	}

	rs := &RestServer{
		engine:  engine,
		gen:     gen,
		metrics: NewServerMetrics(),
		zenc:    zenc,
	}
	rs.registerRoutes()
	return rs, nil
}

func (rs *RestServer) registerRoutes() {
	apiGroup := rs.engine.Group("/api")
	{
		apiGroup.GET("/status", rs.handleStatus)
		apiGroup.GET("/chunks/:cx/:cy", rs.handleChunk)
		apiGroup.GET("/chunks/:cx/:cy/blendmap.png", rs.handleBlendMap)
		apiGroup.GET("/chunks/:cx/:cy/heightmap.png", rs.handleHeightMap)
		apiGroup.GET("/chunks/:cx/:cy/heights.bin", rs.handleHeightsRaw)
		apiGroup.POST("/evict", rs.handleEvict)
	}
}

// Start запускает HTTP сервер в фоне
func (rs *RestServer) Start(port int) error {
	rs.srv = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: rs.engine,
	}
	go func() {
		if err := rs.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Error("REST сервер завершился с ошибкой: %v", err)
		}
	}()
	logging.Info("🌊 REST API генератора запущен на :%d", port)
	return nil
}

// Stop останавливает HTTP сервер с ожиданием активных запросов
func (rs *RestServer) Stop(ctx context.Context) error {
	if rs.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return rs.srv.Shutdown(ctx)
}

// parseChunkCoord извлекает координаты чанка из параметров маршрута
func parseChunkCoord(c *gin.Context) (vec.Vec2, bool) {
	cx, errX := strconv.Atoi(c.Param("cx"))
	cy, errY := strconv.Atoi(c.Param("cy"))
	if errX != nil || errY != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "координаты чанка должны быть целыми числами"})
		return vec.Vec2{}, false
	}
	return vec.Vec2{X: cx, Y: cy}, true
}

// generate строит чанк для запроса (данные биомов вычисляются на месте)
func (rs *RestServer) generate(c *gin.Context, coord vec.Vec2) (*terrain.ChunkResult, bool) {
	data := rs.gen.GenerateBiomeData(coord)
	result, err := rs.gen.GenerateChunk(c.Request.Context(), coord, data)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	return result, true
}

// handleChunk отдаёт сводку по сетке чанка
func (rs *RestServer) handleChunk(c *gin.Context) {
	coord, ok := parseChunkCoord(c)
	if !ok {
		return
	}
	result, ok := rs.generate(c, coord)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"coord":      gin.H{"x": coord.X, "y": coord.Y},
		"resolution": result.Resolution,
		"vertices":   len(result.Mesh.Vertices),
		"indices":    len(result.Mesh.Indices),
		"triangles":  len(result.Mesh.Indices) / 3,
	})
}

// handleBlendMap отдаёт карту смешивания биомов чанка как PNG
func (rs *RestServer) handleBlendMap(c *gin.Context) {
	coord, ok := parseChunkCoord(c)
	if !ok {
		return
	}
	result, ok := rs.generate(c, coord)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, result.BlendMap); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// handleHeightMap отдаёт карту высот чанка как PNG
func (rs *RestServer) handleHeightMap(c *gin.Context) {
	coord, ok := parseChunkCoord(c)
	if !ok {
		return
	}
	result, ok := rs.generate(c, coord)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, result.HeightMap); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// handleHeightsRaw отдаёт сырой растр высот чанка (float32 LE, строки
// подряд), сжатый zstd. Точнее PNG: без квантования в байт.
func (rs *RestServer) handleHeightsRaw(c *gin.Context) {
	coord, ok := parseChunkCoord(c)
	if !ok {
		return
	}

	size := rs.gen.ChunkSize()
	data := rs.gen.GenerateBiomeData(coord)

	raw := make([]byte, 0, size*size*4)
	var scratch [4]byte
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			worldX := float64(coord.X*size + x)
			worldY := float64(coord.Y*size + y)
			h := float32(rs.gen.HeightAt(worldX, worldY, data))
			binary.LittleEndian.PutUint32(scratch[:], math.Float32bits(h))
			raw = append(raw, scratch[:]...)
		}
	}

	compressed := rs.zenc.EncodeAll(raw, nil)
	c.Header("X-Chunk-Size", strconv.Itoa(size))
	c.Data(http.StatusOK, "application/zstd", compressed)
}

// evictRequest — тело запроса вытеснения: активное окно обзора
type evictRequest struct {
	Min struct {
		X int `json:"x"`
		Y int `json:"y"`
	} `json:"min"`
	Max struct {
		X int `json:"x"`
		Y int `json:"y"`
	} `json:"max"`
}

// handleEvict вытесняет карты чанков вне переданного окна
func (rs *RestServer) handleEvict(c *gin.Context) {
	var req evictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	removed := rs.gen.CleanupChunkCaches(
		vec.Vec2{X: req.Min.X, Y: req.Min.Y},
		vec.Vec2{X: req.Max.X, Y: req.Max.Y},
	)
	c.JSON(http.StatusOK, gin.H{"evicted": removed})
}

// handleStatus отдаёт состояние сервиса
func (rs *RestServer) handleStatus(c *gin.Context) {
	cpuUsage, _ := rs.metrics.GetCPUUsage()
	c.JSON(http.StatusOK, gin.H{
		"uptime":        rs.metrics.GetUptime(),
		"memory_mb":     rs.metrics.GetMemoryUsage(),
		"cpu_percent":   cpuUsage,
		"goroutines":    rs.metrics.Goroutines(),
		"chunk_size":    rs.gen.ChunkSize(),
		"baked_images":  rs.gen.Images().Len(),
		"pending_bakes": rs.gen.Scheduler().PendingCount(),
		"artifacts":     rs.gen.ArtifactCount(),
	})
}
