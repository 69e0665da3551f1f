package port

import (
	"context"

	"vision-match/internal/domain/entity"
)

// SessionStore хранилище сессий пользователей бота
type SessionStore interface {
	// Get возвращает копию сессии, создаёт новую если не найдена
	Get(ctx context.Context, userID, chatID int64) (*entity.Session, error)

	// Save сохраняет сессию целиком
	Save(ctx context.Context, session *entity.Session) error

	// Update атомарно применяет fn к сессии и сохраняет результат.
	// Если fn вернула ошибку, сессия не меняется.
	Update(ctx context.Context, userID, chatID int64, fn func(*entity.Session) error) (*entity.Session, error)
}
