package entity

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// SessionState состояние диалога с пользователем бота
type SessionState string

const (
	StateIdle              SessionState = "idle"               // Ничего не ждём
	StateAwaitingReference SessionState = "awaiting_reference" // Ждём эталонное фото
	StateSearching         SessionState = "searching"          // Идёт поиск по каталогу
)

var (
	// ErrSearchInProgress пользователь прислал новый запрос, пока идёт поиск.
	ErrSearchInProgress = errors.New("search is already in progress")
	// ErrNotAwaitingReference фото пришло без команды /find.
	ErrNotAwaitingReference = errors.New("reference photo was not requested")
)

// SearchSummary краткий итог последнего поиска пользователя.
type SearchSummary struct {
	At        time.Time
	Threshold float64
	Scanned   int
	Matched   int
	Skipped   int
}

// Session диалог пользователя с ботом
type Session struct {
	UserID    int64
	ChatID    int64
	State     SessionState
	Threshold float64 // 0 — порог из конфигурации
	Last      *SearchSummary
	UpdatedAt time.Time
}

// NewSession создаёт сессию в состоянии ожидания
func NewSession(userID, chatID int64) *Session {
	return &Session{
		UserID: userID,
		ChatID: chatID,
		State:  StateIdle,
	}
}

// Awaiting сообщает, что бот ждёт эталонное фото
func (s *Session) Awaiting() bool {
	return s.State == StateAwaitingReference
}

// Busy сообщает, что по сессии уже идёт поиск
func (s *Session) Busy() bool {
	return s.State == StateSearching
}

// Await переводит сессию в ожидание эталона
func (s *Session) Await(now time.Time) error {
	if s.Busy() {
		return ErrSearchInProgress
	}
	s.touch(StateAwaitingReference, now)
	return nil
}

// Start отмечает начало поиска. Поиск возможен только после Await.
func (s *Session) Start(now time.Time) error {
	if s.Busy() {
		return ErrSearchInProgress
	}
	if !s.Awaiting() {
		return ErrNotAwaitingReference
	}
	s.touch(StateSearching, now)
	return nil
}

// Finish завершает поиск. result может быть nil, если поиск не состоялся.
func (s *Session) Finish(result *MatchResult, threshold float64, now time.Time) {
	if result != nil {
		s.Last = &SearchSummary{
			At:        now,
			Threshold: threshold,
			Scanned:   result.Scanned,
			Matched:   len(result.Matches),
			Skipped:   len(result.Skipped),
		}
	}
	s.touch(StateIdle, now)
}

// Reset возвращает сессию в исходное состояние, настройки сохраняются
func (s *Session) Reset(now time.Time) {
	s.touch(StateIdle, now)
}

// SetThreshold задаёт личный порог. 0 сбрасывает его к значению из конфигурации.
func (s *Session) SetThreshold(threshold float64) error {
	if math.IsNaN(threshold) || math.IsInf(threshold, 0) || threshold < 0 {
		return fmt.Errorf("invalid threshold %v", threshold)
	}
	s.Threshold = threshold
	return nil
}

// ThresholdOr возвращает личный порог или fallback, если он не задан
func (s *Session) ThresholdOr(fallback float64) float64 {
	if s.Threshold > 0 {
		return s.Threshold
	}
	return fallback
}

func (s *Session) touch(state SessionState, now time.Time) {
	s.State = state
	s.UpdatedAt = now
}
