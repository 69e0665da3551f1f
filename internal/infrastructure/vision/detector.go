//go:build gocv
// +build gocv

package vision

import (
	"context"
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"vision-match/internal/domain/entity"
	"vision-match/internal/domain/port"
)

// Enabled сообщает, собран ли пакет с OpenCV.
const Enabled = true

// HOGDetector ищет людей HOG-дескриптором со стандартным SVM OpenCV.
type HOGDetector struct {
	Options DetectorOptions
}

// NewHOGDetector создаёт детектор с заданными параметрами сканирования.
func NewHOGDetector(opts DetectorOptions) *HOGDetector {
	return &HOGDetector{Options: opts}
}

// Detect возвращает прямоугольники в порядке, в котором их отдаёт OpenCV.
// Дескриптор создаётся на каждый вызов, поэтому детектор безопасен для горутин.
func (d *HOGDetector) Detect(ctx context.Context, img image.Image) ([]entity.Region, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if img == nil || img.Bounds().Empty() {
		return nil, errors.New("empty image")
	}

	// Крупные кадры уменьшаем, найденные рамки возвращаем в исходный масштаб.
	scaled, scale := Fit(img, d.Options.MaxSide)

	mat, err := gocv.ImageToMatRGB(scaled)
	if err != nil {
		return nil, fmt.Errorf("convert image: %w", err)
	}
	defer mat.Close()
	if mat.Empty() {
		return nil, errors.New("empty image")
	}

	hog := gocv.NewHOGDescriptor()
	defer hog.Close()

	people := gocv.HOGDefaultPeopleDetector()
	defer people.Close()
	if err := hog.SetSVMDetector(people); err != nil {
		return nil, fmt.Errorf("set svm detector: %w", err)
	}

	rects := hog.DetectMultiScaleWithParams(
		mat,
		d.Options.HitThreshold,
		image.Pt(d.Options.Stride, d.Options.Stride),
		image.Pt(d.Options.Padding, d.Options.Padding),
		d.Options.Scale,
		d.Options.FinalThreshold,
		false,
	)

	origin := img.Bounds().Min
	regions := make([]entity.Region, 0, len(rects))
	for _, r := range rects {
		regions = append(regions, Unscale(r, scale, origin))
	}
	return regions, nil
}

// Проверка реализации интерфейса
var _ port.PersonDetector = (*HOGDetector)(nil)
