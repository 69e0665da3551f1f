package vision

import (
	"errors"
	"image"

	"vision-match/internal/domain/entity"
	"vision-match/internal/domain/port"
)

var errEmptyRegion = errors.New("empty region")

// NativeHistogram строит совместную HSV-гистограмму без OpenCV.
type NativeHistogram struct{}

// NewNativeHistogram создаёт построитель гистограмм на чистом Go.
func NewNativeHistogram() *NativeHistogram {
	return &NativeHistogram{}
}

// Histogram считает пиксели области по корзинам H×S×V на полных диапазонах каналов.
func (NativeHistogram) Histogram(img image.Image, region entity.Region, bins entity.Bins) ([]float64, error) {
	if img == nil {
		return nil, errors.New("nil image")
	}
	if err := bins.Validate(); err != nil {
		return nil, err
	}

	rect := region.Rect().Intersect(img.Bounds())
	if rect.Empty() {
		return nil, errEmptyRegion
	}

	hist := make([]float64, bins.Total())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			h, s, v := HSV(rgbAt(img, x, y))
			hb := int(h) * bins[0] / HueRange
			sb := int(s) * bins[1] / SatRange
			vb := int(v) * bins[2] / ValueRange
			hist[bins.Index(hb, sb, vb)]++
		}
	}
	return hist, nil
}

// Проверка реализации интерфейса
var _ port.HistogramComputer = (*NativeHistogram)(nil)
