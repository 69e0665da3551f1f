package container

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"vision-match/config"
	app "vision-match/internal/application"
	"vision-match/internal/domain/entity"
	"vision-match/internal/domain/port"
	"vision-match/internal/infrastructure/storage"
	"vision-match/internal/infrastructure/vision"
)

type Container struct {
	Sessions      *app.SessionService
	SearchService *app.SearchService
	Pipeline      *app.MatchPipeline
}

func New(cfg *config.Config, store port.SessionStore, log logrus.FieldLogger) (*Container, error) {
	pipeline, err := NewPipeline(cfg, app.WithLogger(log))
	if err != nil {
		return nil, err
	}

	sessions := app.NewSessionService(store)
	searchService := app.NewSearchService(sessions, storage.NewFileLoader(), pipeline, cfg.CandidateDir)

	return &Container{
		Sessions:      sessions,
		SearchService: searchService,
		Pipeline:      pipeline,
	}, nil
}

// NewPipeline собирает конвейер поиска из конфигурации.
// Без тега gocv детектора людей нет, и сборка конвейера завершается ошибкой.
func NewPipeline(cfg *config.Config, opts ...app.Option) (*app.MatchPipeline, error) {
	pipelineCfg, err := PipelineConfig(cfg)
	if err != nil {
		return nil, err
	}
	if !vision.Enabled {
		return nil, fmt.Errorf("person detector: %w", vision.ErrGoCVDisabled)
	}

	return app.NewMatchPipeline(
		pipelineCfg,
		storage.NewFileLoader(),
		storage.NewDirSource(),
		vision.NewHOGDetector(DetectorOptions(cfg)),
		histogram(cfg.Match.Histogram),
		opts...,
	)
}

// PipelineConfig переводит настройки в параметры конвейера.
func PipelineConfig(cfg *config.Config) (app.PipelineConfig, error) {
	bins, err := entity.ParseBins(cfg.Match.Bins)
	if err != nil {
		return app.PipelineConfig{}, err
	}
	metric, err := app.ParseMetric(cfg.Match.Metric)
	if err != nil {
		return app.PipelineConfig{}, err
	}
	norm, err := app.ParseNormalization(cfg.Match.Norm)
	if err != nil {
		return app.PipelineConfig{}, err
	}

	return app.PipelineConfig{
		Bins:          bins,
		Threshold:     cfg.Match.Threshold,
		Metric:        metric,
		Normalization: norm,
		Workers:       cfg.Match.Workers,
	}, nil
}

// DetectorOptions переводит настройки в параметры HOG-детектора.
func DetectorOptions(cfg *config.Config) vision.DetectorOptions {
	return vision.DetectorOptions{
		Stride:         cfg.Detector.Stride,
		Padding:        cfg.Detector.Padding,
		Scale:          cfg.Detector.Scale,
		HitThreshold:   cfg.Detector.HitThreshold,
		FinalThreshold: cfg.Detector.FinalThreshold,
		MaxSide:        cfg.Detector.MaxSide,
	}
}

func histogram(backend string) port.HistogramComputer {
	if backend == config.HistogramGoCV {
		return vision.NewGoCVHistogram()
	}
	return vision.NewNativeHistogram()
}
