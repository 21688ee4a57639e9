package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/annel0/seabed-terrain/internal/api"
	"github.com/annel0/seabed-terrain/internal/biome"
	"github.com/annel0/seabed-terrain/internal/config"
	"github.com/annel0/seabed-terrain/internal/logging"
	"github.com/annel0/seabed-terrain/internal/noise"
	"github.com/annel0/seabed-terrain/internal/observability"
	"github.com/annel0/seabed-terrain/internal/terrain"
)

func main() {
	configPath := flag.String("config", "", "путь к YAML конфигурации (иначе ENV TERRAIN_CONFIG)")
	flag.Parse()

	// Инициализируем систему логирования
	if err := logging.InitDefaultLogger("terrain"); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()

	logging.Info("🌊 Запуск сервиса генерации морского дна...")

	// === КОНФИГУРАЦИЯ ===
	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Error("❌ Ошибка загрузки конфигурации: %v", err)
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}
	logging.Info("📡 Конфигурация: чанк=%d, REST=:%d, биомов=%d",
		cfg.Terrain.ChunkSize, cfg.Server.GetRESTPort(), len(cfg.Terrain.Biomes))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// === ТЕЛЕМЕТРИЯ ===
	if cfg.Telemetry.Enabled {
		shutdown, err := observability.InitTelemetry(ctx, cfg.Telemetry.ServiceName)
		if err != nil {
			logging.Warn("Телеметрия не инициализирована: %v", err)
		} else {
			defer shutdown(context.Background())
		}
	}

	// === АССЕТЫ ШУМА ===
	// Ошибка загрузки не фатальна: отсутствующие поля деградируют
	// до постоянного шума
	defs, err := noise.LoadDefinitions(cfg.Terrain.NoiseAssets)
	if err != nil {
		logging.Warn("Описания шума не загружены (%v), используются поля по умолчанию", err)
		defs = make(map[string]noise.Definition)
	}

	// === СЕРВИСЫ БИОМОВ ===
	// Референсные реализации; ядро видит только интерфейсы
	maskField := noise.FieldOrDefault(defs, "mask")
	entries := make([]biome.MaskEntry, 0, len(cfg.Terrain.Biomes))
	palette := make(map[biome.ID]biome.Color, len(cfg.Terrain.Biomes))
	for _, b := range cfg.Terrain.Biomes {
		c := biome.Color{R: b.Color[0], G: b.Color[1], B: b.Color[2], A: b.Color[3]}
		entries = append(entries, biome.MaskEntry{
			ID:        biome.ID(b.ID),
			Color:     c,
			Threshold: b.MaskThreshold,
		})
		palette[biome.ID(b.ID)] = c
	}
	colors := biome.NewMaskColorSource(maskField, entries)
	weights := biome.NewPaletteWeightSource(palette, 0)

	// === ГЕНЕРАТОР ===
	gen, err := terrain.NewGenerator(cfg.Terrain, defs, colors, weights)
	if err != nil {
		logging.Error("❌ Ошибка создания генератора: %v", err)
		log.Fatalf("❌ Ошибка создания генератора: %v", err)
	}
	gen.Initialize()

	// Цикл опроса запекания крутится до остановки сервиса
	go gen.Scheduler().Run(ctx)

	// === REST API ===
	restServer, err := api.NewRestServer(gen, cfg.Telemetry.ServiceName)
	if err != nil {
		logging.Error("❌ Ошибка создания REST сервера: %v", err)
		log.Fatalf("❌ Ошибка создания REST сервера: %v", err)
	}
	if err := restServer.Start(cfg.Server.GetRESTPort()); err != nil {
		logging.Error("❌ Ошибка запуска REST сервера: %v", err)
		log.Fatalf("❌ Ошибка запуска REST сервера: %v", err)
	}

	logging.Info("✅ Сервис запущен. Ctrl+C для остановки.")
	<-ctx.Done()

	logging.Info("🛑 Остановка сервиса...")
	if err := restServer.Stop(context.Background()); err != nil {
		logging.Error("Ошибка остановки REST сервера: %v", err)
	}
	logging.Info("✅ Сервис остановлен")
}
