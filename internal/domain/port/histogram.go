package port

import (
	"image"

	"vision-match/internal/domain/entity"
)

// HistogramComputer интерфейс построения цветовой гистограммы
type HistogramComputer interface {
	// Histogram строит совместную HSV-гистограмму области без нормализации.
	// Длина результата равна bins.Total(), порядок корзин задаётся entity.Bins.Index.
	Histogram(img image.Image, region entity.Region, bins entity.Bins) ([]float64, error)
}
