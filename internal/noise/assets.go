package noise

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"os"

	"github.com/annel0/seabed-terrain/internal/logging"
	"gopkg.in/yaml.v3"
)

// Definition описывает параметры одного поля шума (аналог ресурса
// с настройками FastNoiseLite в движке).
type Definition struct {
	Seed      int64   `yaml:"seed"`
	Alpha     float64 `yaml:"alpha"`
	Beta      float64 `yaml:"beta"`
	Octaves   int32   `yaml:"octaves"`
	Frequency float64 `yaml:"frequency"`
}

// withDefaults подставляет параметры по умолчанию вместо нулевых
func (d Definition) withDefaults() Definition {
	if d.Alpha <= 0 {
		d.Alpha = 2.0
	}
	if d.Beta <= 0 {
		d.Beta = 2.0
	}
	if d.Octaves <= 0 {
		d.Octaves = 3
	}
	if d.Frequency <= 0 {
		d.Frequency = 0.05
	}
	return d
}

// NewField создаёт поле Перлина по описанию
func (d Definition) NewField() Field {
	d = d.withDefaults()
	return NewPerlinField(d.Alpha, d.Beta, d.Octaves, d.Seed, d.Frequency)
}

// assetFile — формат YAML файла с определениями полей шума
type assetFile struct {
	Fields map[string]Definition `yaml:"fields"`
}

// LoadDefinitions читает YAML файл с набором определений полей шума.
// Ошибка чтения не фатальна для вызывающего: отсутствующие поля
// деградируют до постоянного шума (см. FieldOrDefault).
func LoadDefinitions(path string) (map[string]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать описания шума %s: %w", path, err)
	}
	var af assetFile
	if err := yaml.Unmarshal(data, &af); err != nil {
		return nil, fmt.Errorf("не удалось разобрать описания шума %s: %w", path, err)
	}
	if len(af.Fields) == 0 {
		return nil, fmt.Errorf("файл %s не содержит ни одного поля шума", path)
	}
	return af.Fields, nil
}

// ReseedDefinitions детерминированно перегенерирует сиды всех полей от
// мастер-сида, сохраняя остальные параметры. Порядок ключей не важен:
// новый сид зависит только от мастер-сида и имени поля.
func ReseedDefinitions(defs map[string]Definition, masterSeed int64) {
	for key, def := range defs {
		h := fnv.New64a()
		h.Write([]byte(key))
		rng := rand.New(rand.NewSource(masterSeed ^ int64(h.Sum64())))
		def.Seed = rng.Int63()
		defs[key] = def
	}
}

// FieldOrDefault возвращает поле по ключу или постоянное поле-заглушку,
// если определение отсутствует (ассет не загрузился)
func FieldOrDefault(defs map[string]Definition, key string) Field {
	def, ok := defs[key]
	if !ok {
		logging.Warn("Описание шума '%s' не найдено, используется постоянное поле", key)
		return ConstantField{Value: 1.0}
	}
	return def.NewField()
}
