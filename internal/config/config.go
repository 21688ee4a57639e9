package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации сервиса генерации террейна.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Terrain   TerrainConfig   `yaml:"terrain"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig — сетевые параметры. Метрики Prometheus отдаются на
// REST-порту (/metrics), отдельного листенера нет.
type ServerConfig struct {
	RESTPort int `yaml:"rest_port"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

// TerrainConfig описывает параметры синтеза чанков.
type TerrainConfig struct {
	ChunkSize        int     `yaml:"chunk_size"`
	HeightMultiplier float64 `yaml:"height_multiplier"`
	// Мастер-сид: если != 0, сиды всех полей шума детерминированно
	// перегенерируются от него при инициализации
	Seed        int64      `yaml:"seed"`
	NoiseAssets string     `yaml:"noise_assets"`
	Bake        BakeConfig `yaml:"bake"`
	LOD         LODConfig  `yaml:"lod"`
	Biomes      []BiomeDef `yaml:"biomes"`
}

// BakeConfig — параметры запекания полей шума в растры.
type BakeConfig struct {
	Width          int `yaml:"width"`
	Height         int `yaml:"height"`
	PollIntervalMS int `yaml:"poll_interval_ms"`
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// PollInterval возвращает интервал опроса планировщика запекания
func (b BakeConfig) PollInterval() time.Duration {
	if b.PollIntervalMS <= 0 {
		return 100 * time.Millisecond
	}
	return time.Duration(b.PollIntervalMS) * time.Millisecond
}

// Timeout возвращает предельное время ожидания одного запекания
func (b BakeConfig) Timeout() time.Duration {
	if b.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// LODConfig — ступенчатая функция разрешения сетки от удаления чанка.
type LODConfig struct {
	BaseResolution int       `yaml:"base_resolution"`
	Tiers          []LODTier `yaml:"tiers"`
}

// LODTier: на дистанции строго больше Distance разрешение падает до Resolution.
type LODTier struct {
	Distance   float64 `yaml:"distance"`
	Resolution int     `yaml:"resolution"`
}

// BiomeDef связывает биом с его цветом-классификатором и полем шума.
// Цвет задаётся как [r, g, b, a] в диапазоне 0..1.
type BiomeDef struct {
	ID    string     `yaml:"id"`
	Color [4]float32 `yaml:"color"`
	// Верхняя граница значения маски-шума, до которой позиция относится
	// к этому биому (для референсного классификатора)
	MaskThreshold float64 `yaml:"mask_threshold"`
}

// GetRESTPort возвращает REST порт с приоритетом: config -> env -> default
func (s *ServerConfig) GetRESTPort() int {
	return getPortWithEnvFallback(s.RESTPort, "TERRAIN_REST_PORT", 8090)
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	if configPort > 0 {
		return configPort
	}
	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}
	return defaultPort
}

// Default возвращает конфигурацию с параметрами референсного деплоя:
// чанк 32x32, растры шума 256x256, опрос запекания каждые 100 мс,
// LOD-ступени 3 -> 16 и 6 -> 8.
func Default() *Config {
	return &Config{
		Server: ServerConfig{},
		Terrain: TerrainConfig{
			ChunkSize:        32,
			HeightMultiplier: 10.0,
			NoiseAssets:      "assets/noise.yaml",
			Bake: BakeConfig{
				Width:          256,
				Height:         256,
				PollIntervalMS: 100,
				TimeoutSeconds: 30,
			},
			LOD: LODConfig{
				BaseResolution: 32,
				Tiers: []LODTier{
					{Distance: 3, Resolution: 16},
					{Distance: 6, Resolution: 8},
				},
			},
			Biomes: []BiomeDef{
				{ID: "corral", Color: [4]float32{1.0, 0.5, 0.5, 1.0}, MaskThreshold: 0.2},
				{ID: "sand", Color: [4]float32{0.9, 0.85, 0.5, 1.0}, MaskThreshold: 0.4},
				{ID: "rock", Color: [4]float32{0.4, 0.4, 0.4, 1.0}, MaskThreshold: 0.6},
				{ID: "kelp", Color: [4]float32{0.2, 0.7, 0.3, 1.0}, MaskThreshold: 0.8},
				{ID: "lavarock", Color: [4]float32{0.9, 0.4, 0.1, 1.0}, MaskThreshold: 1.0},
			},
		},
		Telemetry: TelemetryConfig{ServiceName: "seabed-terrain"},
	}
}

// Load читает YAML файл конфигурации поверх значений по умолчанию.
// Если path == "", пытается прочитать путь из ENV TERRAIN_CONFIG;
// если и его нет — возвращает конфигурацию по умолчанию.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("TERRAIN_CONFIG")
	}

	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать конфиг %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("не удалось разобрать конфиг %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет инварианты конфигурации.
func (c *Config) Validate() error {
	t := c.Terrain
	if t.ChunkSize <= 0 {
		return fmt.Errorf("terrain.chunk_size должен быть > 0, получено %d", t.ChunkSize)
	}
	if t.Bake.Width <= 0 || t.Bake.Height <= 0 {
		return fmt.Errorf("terrain.bake: размеры растра должны быть > 0 (%dx%d)", t.Bake.Width, t.Bake.Height)
	}
	if t.LOD.BaseResolution <= 0 {
		return fmt.Errorf("terrain.lod.base_resolution должен быть > 0")
	}

	// Ступени LOD: дистанции строго возрастают, разрешение не возрастает
	prevDist := 0.0
	prevRes := t.LOD.BaseResolution
	for i, tier := range t.LOD.Tiers {
		if tier.Distance <= prevDist {
			return fmt.Errorf("terrain.lod.tiers[%d]: дистанции должны возрастать", i)
		}
		if tier.Resolution <= 0 || tier.Resolution > prevRes {
			return fmt.Errorf("terrain.lod.tiers[%d]: разрешение должно убывать (получено %d после %d)",
				i, tier.Resolution, prevRes)
		}
		prevDist = tier.Distance
		prevRes = tier.Resolution
	}

	for i, b := range t.Biomes {
		if b.ID == "" {
			return fmt.Errorf("terrain.biomes[%d]: пустой id", i)
		}
	}
	return nil
}
