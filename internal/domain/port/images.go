package port

import (
	"context"
	"image"
)

// ImageLoader интерфейс загрузки изображений
type ImageLoader interface {
	// Load читает и декодирует изображение по пути
	Load(ctx context.Context, path string) (image.Image, error)
}

// CandidateSource интерфейс источника кандидатов
type CandidateSource interface {
	// List возвращает отсортированный список путей к изображениям.
	// Ошибка означает, что источник отсутствует или недоступен.
	List(ctx context.Context, source string) ([]string, error)
}

// ImageDecoder интерфейс декодирования изображений из памяти
type ImageDecoder interface {
	// Decode декодирует байты изображения
	Decode(data []byte) (image.Image, error)
}
