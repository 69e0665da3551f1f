//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"image"

	"vision-match/internal/domain/entity"
	"vision-match/internal/domain/port"
)

// Enabled сообщает, собран ли пакет с OpenCV.
const Enabled = false

// HOGDetector детектор-заглушка (без OpenCV).
type HOGDetector struct {
	Options DetectorOptions
}

// NewHOGDetector создаёт детектор-заглушку.
func NewHOGDetector(opts DetectorOptions) *HOGDetector {
	return &HOGDetector{Options: opts}
}

// Detect возвращает ошибку, если сборка без тега gocv.
func (d *HOGDetector) Detect(ctx context.Context, img image.Image) ([]entity.Region, error) {
	_ = ctx
	_ = img
	return nil, ErrGoCVDisabled
}

var _ port.PersonDetector = (*HOGDetector)(nil)
