package port

import (
	"context"
	"image"

	"vision-match/internal/domain/entity"
)

// PersonDetector интерфейс детектора людей
type PersonDetector interface {
	// Detect возвращает найденные области в собственном порядке детектора.
	// Пустой список без ошибки означает, что человека на изображении нет.
	Detect(ctx context.Context, img image.Image) ([]entity.Region, error)
}
