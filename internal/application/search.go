package app

import (
	"context"
	"errors"

	"vision-match/internal/domain/entity"
	"vision-match/internal/domain/port"
)

// SearchService ведёт пользователя бота от эталонного фото до списка совпадений.
type SearchService struct {
	sessions     *SessionService
	decoder      port.ImageDecoder
	pipeline     *MatchPipeline
	candidateDir string
}

// NewSearchService создаёт сервис поиска по каталогу candidateDir.
func NewSearchService(sessions *SessionService, decoder port.ImageDecoder, pipeline *MatchPipeline, candidateDir string) *SearchService {
	return &SearchService{
		sessions:     sessions,
		decoder:      decoder,
		pipeline:     pipeline,
		candidateDir: candidateDir,
	}
}

// CandidateDir каталог, по которому идёт поиск.
func (s *SearchService) CandidateDir() string {
	return s.candidateDir
}

// DefaultThreshold порог, который действует без личной настройки пользователя.
func (s *SearchService) DefaultThreshold() float64 {
	if s.pipeline == nil {
		return DefaultThreshold
	}
	return s.pipeline.Config().Threshold
}

// Search ищет в каталоге кадры, похожие на человека с фото, с порогом пользователя.
// Фото принимается только после BeginSearch, иначе entity.ErrNotAwaitingReference.
// Пока поиск идёт, повторный запрос того же пользователя отклоняется с entity.ErrSearchInProgress.
func (s *SearchService) Search(ctx context.Context, userID, chatID int64, photo []byte) (*entity.MatchResult, error) {
	if s.pipeline == nil || s.decoder == nil {
		return nil, errors.New("matcher is not configured")
	}
	if s.candidateDir == "" {
		return nil, errors.New("candidate directory is not configured")
	}

	session, err := s.sessions.Start(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	threshold := session.ThresholdOr(s.DefaultThreshold())

	var summary *entity.MatchResult
	defer func() {
		// Сессия освобождается при любом исходе, даже если ctx уже отменён.
		_ = s.sessions.Finish(context.WithoutCancel(ctx), userID, chatID, summary, threshold)
	}()

	ref, err := s.decoder.Decode(photo)
	if err != nil {
		return nil, err
	}
	pipeline, err := s.pipeline.WithThreshold(threshold)
	if err != nil {
		return nil, err
	}

	result, err := pipeline.RunImage(ctx, s.candidateDir, ref)
	if err == nil {
		summary = result
	}
	return result, err
}
