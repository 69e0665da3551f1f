package app

import (
	"context"
	"time"

	"vision-match/internal/domain/entity"
	"vision-match/internal/domain/port"
)

type SessionService struct {
	store port.SessionStore
	now   func() time.Time
}

func NewSessionService(store port.SessionStore) *SessionService {
	return &SessionService{store: store, now: time.Now}
}

func (s *SessionService) Get(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	return s.store.Get(ctx, userID, chatID)
}

// BeginSearch переводит пользователя в ожидание эталонного фото.
func (s *SessionService) BeginSearch(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	return s.store.Update(ctx, userID, chatID, func(session *entity.Session) error {
		return session.Await(s.now())
	})
}

// Cancel сбрасывает ожидание. Идущий поиск не прерывается.
func (s *SessionService) Cancel(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	return s.store.Update(ctx, userID, chatID, func(session *entity.Session) error {
		if !session.Busy() {
			session.Reset(s.now())
		}
		return nil
	})
}

// SetThreshold сохраняет личный порог пользователя.
func (s *SessionService) SetThreshold(ctx context.Context, userID, chatID int64, threshold float64) (*entity.Session, error) {
	return s.store.Update(ctx, userID, chatID, func(session *entity.Session) error {
		return session.SetThreshold(threshold)
	})
}

// Start отмечает начало поиска. Возвращает entity.ErrSearchInProgress, если поиск уже идёт.
func (s *SessionService) Start(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	return s.store.Update(ctx, userID, chatID, func(session *entity.Session) error {
		return session.Start(s.now())
	})
}

// Finish завершает поиск и запоминает его итог.
func (s *SessionService) Finish(ctx context.Context, userID, chatID int64, result *entity.MatchResult, threshold float64) error {
	_, err := s.store.Update(ctx, userID, chatID, func(session *entity.Session) error {
		session.Finish(result, threshold, s.now())
		return nil
	})
	return err
}
