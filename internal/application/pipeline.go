package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"vision-match/internal/domain/entity"
	"vision-match/internal/domain/port"
)

// DefaultThreshold минимальное сходство корреляции, при котором кандидат считается совпадением.
const DefaultThreshold = 0.8

// PipelineConfig параметры поиска.
type PipelineConfig struct {
	Bins          entity.Bins
	Threshold     float64 // кандидат совпал, если оценка строго больше порога
	Metric        Metric
	Normalization Normalization
	Workers       int // 1 — последовательная обработка
}

// DefaultPipelineConfig возвращает параметры по умолчанию.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Bins:          entity.DefaultBins,
		Threshold:     DefaultThreshold,
		Metric:        MetricCorrelation,
		Normalization: NormL2,
		Workers:       1,
	}
}

// Validate проверяет параметры.
func (c PipelineConfig) Validate() error {
	if err := c.Bins.Validate(); err != nil {
		return err
	}
	if _, err := ParseMetric(string(c.Metric)); err != nil {
		return err
	}
	if _, err := ParseNormalization(string(c.Normalization)); err != nil {
		return err
	}
	if math.IsNaN(c.Threshold) || math.IsInf(c.Threshold, 0) {
		return fmt.Errorf("invalid threshold %v", c.Threshold)
	}
	if c.Workers < 1 {
		return fmt.Errorf("invalid workers %d: must be at least 1", c.Workers)
	}
	return nil
}

// MatchPipeline ищет в каталоге кадры, похожие на эталон.
// Сбой одного кандидата не прерывает прогон.
type MatchPipeline struct {
	cfg        PipelineConfig
	loader     port.ImageLoader
	source     port.CandidateSource
	regions    *RegionDetector
	signatures *SignatureExtractor
	scorer     *SimilarityScorer
	log        logrus.FieldLogger
	start      func(total int)
	progress   func(path string)
}

// Option настраивает MatchPipeline.
type Option func(*MatchPipeline)

// WithLogger задаёт логгер для диагностических сообщений.
func WithLogger(log logrus.FieldLogger) Option {
	return func(p *MatchPipeline) {
		p.log = log
	}
}

// WithProgress вызывает fn после обработки каждого кандидата.
// При Workers > 1 fn вызывается из разных горутин.
func WithProgress(fn func(path string)) Option {
	return func(p *MatchPipeline) {
		p.progress = fn
	}
}

// WithStart вызывает fn с числом кандидатов перед началом обработки.
func WithStart(fn func(total int)) Option {
	return func(p *MatchPipeline) {
		p.start = fn
	}
}

// NewMatchPipeline собирает конвейер из внешних возможностей.
func NewMatchPipeline(
	cfg PipelineConfig,
	loader port.ImageLoader,
	source port.CandidateSource,
	detector port.PersonDetector,
	histogram port.HistogramComputer,
	opts ...Option,
) (*MatchPipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if loader == nil || source == nil {
		return nil, errors.New("image loader and candidate source are required")
	}

	scorer, err := NewSimilarityScorer(cfg.Metric)
	if err != nil {
		return nil, err
	}

	p := &MatchPipeline{
		cfg:    cfg,
		loader: loader,
		source: source,
		scorer: scorer,
		log:    logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = logrus.StandardLogger()
	}
	p.regions = NewRegionDetector(detector, p.log)
	p.signatures = NewSignatureExtractor(histogram, cfg.Bins, cfg.Normalization)

	return p, nil
}

// Config параметры конвейера.
func (p *MatchPipeline) Config() PipelineConfig {
	return p.cfg
}

// WithThreshold возвращает копию конвейера с другим порогом совпадения.
func (p *MatchPipeline) WithThreshold(threshold float64) (*MatchPipeline, error) {
	if math.IsNaN(threshold) || math.IsInf(threshold, 0) {
		return nil, fmt.Errorf("invalid threshold %v", threshold)
	}
	c := *p
	c.cfg.Threshold = threshold
	return &c, nil
}

// Run сравнивает кадры каталога candidateDir с эталоном из referencePath.
//
// Результат никогда не nil. Если эталон или каталог недоступны, результат пуст,
// а ошибка имеет тип *entity.SetupError. Ошибки отдельных кандидатов попадают
// в MatchResult.Skipped. При отмене ctx возвращается частичный результат и ctx.Err().
func (p *MatchPipeline) Run(ctx context.Context, candidateDir, referencePath string) (*entity.MatchResult, error) {
	log := p.runLogger(candidateDir, referencePath)

	ref, err := p.loader.Load(ctx, referencePath)
	if err != nil {
		log.WithError(err).Warn("cannot load reference image")
		return entity.NewMatchResult(), &entity.SetupError{Stage: entity.StageLoad, Path: referencePath, Err: err}
	}
	return p.run(ctx, log, candidateDir, referencePath, ref)
}

// RunImage как Run, но с уже декодированным эталоном.
func (p *MatchPipeline) RunImage(ctx context.Context, candidateDir string, ref image.Image) (*entity.MatchResult, error) {
	const label = "reference"
	return p.run(ctx, p.runLogger(candidateDir, label), candidateDir, label, ref)
}

func (p *MatchPipeline) runLogger(candidateDir, reference string) logrus.FieldLogger {
	return p.log.WithFields(logrus.Fields{
		"run_id":     uuid.NewString(),
		"reference":  reference,
		"candidates": candidateDir,
	})
}

func (p *MatchPipeline) run(ctx context.Context, log logrus.FieldLogger, candidateDir, refLabel string, ref image.Image) (*entity.MatchResult, error) {
	refSig, err := p.reference(ctx, log, refLabel, ref)
	if err != nil {
		return entity.NewMatchResult(), err
	}

	paths, err := p.source.List(ctx, candidateDir)
	if err != nil {
		log.WithError(err).Warn("cannot list candidate directory")
		return entity.NewMatchResult(), &entity.SetupError{Stage: entity.StageList, Path: candidateDir, Err: err}
	}
	if len(paths) == 0 {
		log.Info("no candidate images found")
		return entity.NewMatchResult(), nil
	}

	log.WithField("count", len(paths)).Info("scanning candidates")
	if p.start != nil {
		p.start(len(paths))
	}
	outcomes, scanErr := p.scan(ctx, log, refSig, paths)
	result := collect(outcomes)

	log.WithFields(logrus.Fields{
		"scanned": result.Scanned,
		"matched": len(result.Matches),
		"skipped": len(result.Skipped),
	}).Info("scan finished")

	return result, scanErr
}

// reference вычисляет сигнатуру эталона. Без неё сравнивать не с чем.
func (p *MatchPipeline) reference(ctx context.Context, log logrus.FieldLogger, label string, img image.Image) (entity.Signature, error) {
	region, err := p.regions.Locate(ctx, img)
	if err != nil {
		log.WithError(err).Warn("cannot detect person in reference image")
		return entity.Signature{}, &entity.SetupError{Stage: entity.StageDetect, Path: label, Err: err}
	}

	sig, err := p.signatures.Compute(img, region)
	if err != nil {
		log.WithError(err).Warn("cannot compute reference signature")
		return entity.Signature{}, &entity.SetupError{Stage: entity.StageExtract, Path: label, Err: err}
	}

	log.WithFields(logrus.Fields{"region": region, "area": region.Area()}).Debug("reference signature ready")
	return sig, nil
}

// outcome итог обработки одного кандидата.
type outcome struct {
	done  bool
	match *entity.Match
	skip  *entity.ItemError
}

func (p *MatchPipeline) scan(ctx context.Context, log logrus.FieldLogger, ref entity.Signature, paths []string) ([]outcome, error) {
	outcomes := make([]outcome, len(paths))

	if p.cfg.Workers <= 1 {
		for i, path := range paths {
			if err := ctx.Err(); err != nil {
				return outcomes, err
			}
			outcomes[i] = p.evaluate(ctx, log, ref, path)
			p.tick(path)
		}
		return outcomes, ctx.Err()
	}

	// Каждый кандидат пишет только в свою ячейку, порядок восстанавливается по индексу.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Workers)
	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = p.evaluate(gctx, log, ref, path)
			p.tick(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return outcomes, err
	}
	return outcomes, ctx.Err()
}

func (p *MatchPipeline) tick(path string) {
	if p.progress != nil {
		p.progress(path)
	}
}

// evaluate обрабатывает одного кандидата. Паника внутри шага превращается в пропуск.
func (p *MatchPipeline) evaluate(ctx context.Context, log logrus.FieldLogger, ref entity.Signature, path string) (out outcome) {
	entry := log.WithField("path", path)
	stage := entity.StageLoad

	defer func() {
		if r := recover(); r != nil {
			out = p.skip(entry, stage, path, fmt.Errorf("panic: %v", r))
		}
	}()

	entry.Debug("reading candidate")
	img, err := p.loader.Load(ctx, path)
	if err != nil {
		if ctx.Err() != nil {
			return outcome{}
		}
		return p.skip(entry, stage, path, err)
	}

	stage = entity.StageDetect
	region, err := p.regions.Locate(ctx, img)
	if err != nil {
		if ctx.Err() != nil {
			return outcome{}
		}
		return p.skip(entry, stage, path, err)
	}

	stage = entity.StageExtract
	sig, err := p.signatures.Compute(img, region)
	if err != nil {
		return p.skip(entry, stage, path, err)
	}

	score := p.scorer.Score(ref, sig)
	entry = entry.WithField("score", score)
	if score > p.cfg.Threshold {
		entry.Info("match found")
		return outcome{done: true, match: &entity.Match{Path: path, Score: score, Region: region}}
	}

	entry.Debug("below threshold")
	return outcome{done: true}
}

func (p *MatchPipeline) skip(entry logrus.FieldLogger, stage entity.Stage, path string, err error) outcome {
	itemErr := &entity.ItemError{Stage: stage, Path: path, Err: err}

	// Кадр без человека — штатная ситуация, битый файл — нет.
	if itemErr.Expected() {
		entry.WithError(err).Info("candidate skipped")
	} else {
		entry.WithError(err).WithField("stage", stage).Warn("candidate skipped")
	}
	return outcome{done: true, skip: itemErr}
}

func collect(outcomes []outcome) *entity.MatchResult {
	result := entity.NewMatchResult()
	for _, o := range outcomes {
		if !o.done {
			continue
		}
		result.Scanned++
		if o.match != nil {
			result.Matches = append(result.Matches, *o.match)
		}
		if o.skip != nil {
			result.Skipped = append(result.Skipped, *o.skip)
		}
	}
	return result
}
