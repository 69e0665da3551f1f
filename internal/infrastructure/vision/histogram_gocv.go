//go:build gocv
// +build gocv

package vision

import (
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"vision-match/internal/domain/entity"
	"vision-match/internal/domain/port"
)

// GoCVHistogram строит HSV-гистограмму через cv::calcHist.
type GoCVHistogram struct{}

// NewGoCVHistogram создаёт построитель гистограмм на OpenCV.
func NewGoCVHistogram() *GoCVHistogram {
	return &GoCVHistogram{}
}

// Histogram возвращает ненормализованную гистограмму области, развёрнутую по H, S, V.
func (GoCVHistogram) Histogram(img image.Image, region entity.Region, bins entity.Bins) ([]float64, error) {
	if img == nil {
		return nil, errors.New("nil image")
	}
	if err := bins.Validate(); err != nil {
		return nil, err
	}
	region = region.Clip(img.Bounds())
	if region.Empty() {
		return nil, errEmptyRegion
	}

	bgr, err := gocv.ImageToMatRGB(Crop(img, region))
	if err != nil {
		return nil, fmt.Errorf("convert region: %w", err)
	}
	defer bgr.Close()

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(bgr, &hsv, gocv.ColorBGRToHSV)

	mask := gocv.NewMat()
	defer mask.Close()

	hist := gocv.NewMat()
	defer hist.Close()
	gocv.CalcHist(
		[]gocv.Mat{hsv},
		[]int{0, 1, 2},
		mask,
		&hist,
		[]int{bins[0], bins[1], bins[2]},
		[]float64{0, HueRange, 0, SatRange, 0, ValueRange},
		false,
	)

	data, err := hist.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("read histogram: %w", err)
	}
	if len(data) != bins.Total() {
		return nil, fmt.Errorf("histogram has %d bins, want %d", len(data), bins.Total())
	}

	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = float64(v)
	}
	return out, nil
}

// Проверка реализации интерфейса
var _ port.HistogramComputer = (*GoCVHistogram)(nil)
