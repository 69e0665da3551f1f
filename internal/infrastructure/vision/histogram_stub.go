//go:build !gocv
// +build !gocv

package vision

import (
	"image"

	"vision-match/internal/domain/entity"
	"vision-match/internal/domain/port"
)

// GoCVHistogram заглушка построителя гистограмм (без OpenCV).
type GoCVHistogram struct{}

// NewGoCVHistogram создаёт заглушку.
func NewGoCVHistogram() *GoCVHistogram {
	return &GoCVHistogram{}
}

// Histogram возвращает ошибку, если сборка без тега gocv.
func (GoCVHistogram) Histogram(img image.Image, region entity.Region, bins entity.Bins) ([]float64, error) {
	_ = img
	_ = region
	_ = bins
	return nil, ErrGoCVDisabled
}

var _ port.HistogramComputer = (*GoCVHistogram)(nil)
