package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"vision-match/internal/domain/entity"
)

// Бэкенды построения гистограммы.
const (
	HistogramNative = "native"
	HistogramGoCV   = "gocv"
)

type Config struct {
	TelegramToken string         `yaml:"-"`
	CandidateDir  string         `yaml:"candidate_dir"`
	LogLevel      string         `yaml:"log_level"`
	Match         MatchConfig    `yaml:"match"`
	Detector      DetectorConfig `yaml:"detector"`
}

// MatchConfig параметры сравнения сигнатур
type MatchConfig struct {
	Bins      string  `yaml:"bins"`      // корзины H,S,V, например "8,8,8"
	Threshold float64 `yaml:"threshold"` // минимальное сходство для совпадения
	Metric    string  `yaml:"metric"`    // correl, intersect, chisqr, bhattacharyya
	Norm      string  `yaml:"norm"`      // l2 или l1
	Workers   int     `yaml:"workers"`   // число параллельно обрабатываемых кадров
	Histogram string  `yaml:"histogram"` // native или gocv
}

// DetectorConfig параметры HOG-детектора
type DetectorConfig struct {
	Stride         int     `yaml:"stride"`          // шаг окна
	Padding        int     `yaml:"padding"`         // отступ вокруг окна
	Scale          float64 `yaml:"scale"`           // коэффициент пирамиды
	HitThreshold   float64 `yaml:"hit_threshold"`   // порог SVM
	FinalThreshold float64 `yaml:"final_threshold"` // порог группировки окон
	MaxSide        int     `yaml:"max_side"`        // 0 — не уменьшать кадр
}

// Default возвращает конфигурацию по умолчанию.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Match: MatchConfig{
			Bins:      entity.DefaultBins.String(),
			Threshold: 0.8,
			Metric:    "correl",
			Norm:      "l2",
			Workers:   1,
			Histogram: HistogramNative,
		},
		Detector: DetectorConfig{
			Stride:         4,
			Padding:        8,
			Scale:          1.05,
			FinalThreshold: 2,
		},
	}
}

// LoadFile читает YAML-файл поверх значений по умолчанию, затем переменные окружения.
// Пустой path — только окружение.
func LoadFile(path string) (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.TelegramToken = envString("TELEGRAM_TOKEN", c.TelegramToken)
	c.CandidateDir = envString("CANDIDATE_DIR", c.CandidateDir)
	c.LogLevel = envString("LOG_LEVEL", c.LogLevel)

	c.Match.Bins = envString("MATCH_BINS", c.Match.Bins)
	c.Match.Threshold = envFloat("MATCH_THRESHOLD", c.Match.Threshold)
	c.Match.Metric = envString("MATCH_METRIC", c.Match.Metric)
	c.Match.Norm = envString("MATCH_NORM", c.Match.Norm)
	c.Match.Workers = envInt("MATCH_WORKERS", c.Match.Workers)
	c.Match.Histogram = envString("HISTOGRAM_BACKEND", c.Match.Histogram)

	c.Detector.Stride = envInt("DETECTOR_STRIDE", c.Detector.Stride)
	c.Detector.Padding = envInt("DETECTOR_PADDING", c.Detector.Padding)
	c.Detector.Scale = envFloat("DETECTOR_SCALE", c.Detector.Scale)
	c.Detector.MaxSide = envInt("DETECTOR_MAX_SIDE", c.Detector.MaxSide)
}

// Validate проверяет значения, которые не зависят от выбранных алгоритмов.
func (c *Config) Validate() error {
	var errs []error

	if _, err := entity.ParseBins(c.Match.Bins); err != nil {
		errs = append(errs, err)
	}
	if math.IsNaN(c.Match.Threshold) || math.IsInf(c.Match.Threshold, 0) {
		errs = append(errs, fmt.Errorf("invalid threshold %v", c.Match.Threshold))
	}
	if c.Match.Workers < 1 {
		errs = append(errs, fmt.Errorf("invalid workers %d: must be at least 1", c.Match.Workers))
	}
	if c.Match.Histogram != HistogramNative && c.Match.Histogram != HistogramGoCV {
		errs = append(errs, fmt.Errorf("unknown histogram backend %q", c.Match.Histogram))
	}
	if c.Detector.Stride <= 0 {
		errs = append(errs, fmt.Errorf("invalid detector stride %d", c.Detector.Stride))
	}
	if c.Detector.Padding < 0 {
		errs = append(errs, fmt.Errorf("invalid detector padding %d", c.Detector.Padding))
	}
	if c.Detector.Scale <= 1 {
		errs = append(errs, fmt.Errorf("invalid detector scale %v: must be greater than 1", c.Detector.Scale))
	}
	if c.Detector.MaxSide < 0 {
		errs = append(errs, fmt.Errorf("invalid detector max side %d", c.Detector.MaxSide))
	}

	return errors.Join(errs...)
}

func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

// envInt читает целое число из окружения, при ошибке оставляет значение по умолчанию.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return defaultVal
}

func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return defaultVal
}
