package storage

import (
	"context"
	"errors"
	"sync"

	"vision-match/internal/domain/entity"
	"vision-match/internal/domain/port"
)

// MemorySessionStore in-memory хранилище сессий.
// Наружу отдаются только копии, поэтому сессию нельзя изменить в обход Update.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[int64]*entity.Session
}

// NewMemorySessionStore создаёт новое in-memory хранилище
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[int64]*entity.Session),
	}
}

// Get возвращает копию сессии, создаёт новую если не найдена
func (s *MemorySessionStore) Get(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return clone(s.load(userID, chatID)), nil
}

// Save сохраняет сессию целиком
func (s *MemorySessionStore) Save(ctx context.Context, session *entity.Session) error {
	if session == nil {
		return errors.New("nil session")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.sessions[session.UserID] = clone(session)
	s.mu.Unlock()

	return nil
}

// Update атомарно применяет fn к копии сессии и сохраняет её, если fn не вернула ошибку
func (s *MemorySessionStore) Update(ctx context.Context, userID, chatID int64, fn func(*entity.Session) error) (*entity.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session := clone(s.load(userID, chatID))
	if err := fn(session); err != nil {
		return nil, err
	}
	s.sessions[userID] = session

	return clone(session), nil
}

// Len число известных сессий
func (s *MemorySessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *MemorySessionStore) load(userID, chatID int64) *entity.Session {
	session, ok := s.sessions[userID]
	if !ok {
		session = entity.NewSession(userID, chatID)
		s.sessions[userID] = session
	}
	return session
}

func clone(session *entity.Session) *entity.Session {
	c := *session
	if session.Last != nil {
		last := *session.Last
		c.Last = &last
	}
	return &c
}

// Проверка реализации интерфейса
var _ port.SessionStore = (*MemorySessionStore)(nil)
