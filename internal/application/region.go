package app

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/sirupsen/logrus"

	"vision-match/internal/domain/entity"
	"vision-match/internal/domain/port"
)

// RegionDetector выбирает одну область с человеком из ответа детектора.
// Берётся первая область в порядке детектора, собственного ранжирования нет.
type RegionDetector struct {
	detector port.PersonDetector
	log      logrus.FieldLogger
}

// NewRegionDetector создаёт обёртку над детектором людей.
func NewRegionDetector(detector port.PersonDetector, log logrus.FieldLogger) *RegionDetector {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &RegionDetector{detector: detector, log: log}
}

// Detect возвращает область с человеком или false, если её нет.
func (d *RegionDetector) Detect(ctx context.Context, img image.Image) (entity.Region, bool) {
	region, err := d.Locate(ctx, img)
	if err != nil {
		if errors.Is(err, entity.ErrNoRegion) {
			d.log.WithError(err).Debug("no region")
		} else {
			d.log.WithError(err).Warn("person detector failed")
		}
		return entity.Region{}, false
	}
	return region, true
}

// Locate как Detect, но объясняет причину отсутствия области.
// Отсутствие человека оборачивает entity.ErrNoRegion, сбой самого детектора нет.
func (d *RegionDetector) Locate(ctx context.Context, img image.Image) (entity.Region, error) {
	if img == nil || img.Bounds().Empty() {
		return entity.Region{}, fmt.Errorf("%w: empty image", entity.ErrNoRegion)
	}
	if d.detector == nil {
		return entity.Region{}, errors.New("person detector is not configured")
	}

	regions, err := d.detector.Detect(ctx, img)
	if err != nil {
		return entity.Region{}, fmt.Errorf("detect person: %w", err)
	}
	if len(regions) == 0 {
		return entity.Region{}, entity.ErrNoRegion
	}

	region := regions[0].Clip(img.Bounds())
	if region.Empty() {
		return entity.Region{}, fmt.Errorf("%w: first region %+v is outside the image", entity.ErrNoRegion, regions[0])
	}
	return region, nil
}
