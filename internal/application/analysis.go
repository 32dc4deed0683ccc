package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"lens-bot/internal/domain/entity"
	"lens-bot/internal/domain/port"
)

// ErrAnalysisPending по этой сессии уже идёт запрос анализа.
// Второй запрос отклоняется здесь, на вызывающей стороне: сам клиент
// распознавания запросы не дедуплицирует.
var ErrAnalysisPending = errors.New("analysis is already in progress")

// AnalysisService гонит снимок по конвейеру: кодирование, запрос, сверка.
type AnalysisService struct {
	sessions *SessionService
	captures *CaptureService
	encoder  port.ImageEncoder
	analyzer port.ImageAnalyzer
}

func NewAnalysisService(sessions *SessionService, captures *CaptureService, encoder port.ImageEncoder, analyzer port.ImageAnalyzer) *AnalysisService {
	return &AnalysisService{
		sessions: sessions,
		captures: captures,
		encoder:  encoder,
		analyzer: analyzer,
	}
}

// Analyze отправляет снимок из превью на распознавание и возвращает итог сверки.
// При сетевой ошибке сессия остаётся в превью, чтобы пользователь мог повторить.
// Поздний результат по уже заменённому снимку отбрасывается: обе ссылки nil.
func (s *AnalysisService) Analyze(ctx context.Context, session *entity.Session) (*entity.DisplayResult, error) {
	if session.State != entity.StatePreviewing || session.Image == nil {
		return nil, ErrNoPreview
	}
	if session.Analyzing {
		return nil, ErrAnalysisPending
	}

	session.Analyzing = true
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	defer func() {
		session.Analyzing = false
		if err := s.sessions.Save(ctx, session); err != nil {
			log.Warn().Err(err).Msg("failed to clear analysis flag")
		}
	}()

	sourceURI := session.Image.URI

	encoded, err := s.encoder.Encode(ctx, session.Image)
	if err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}

	result, err := s.analyzer.Analyze(ctx, encoded)
	if err != nil {
		// Сессия не трогается: снимок остаётся в превью для повторной попытки.
		return nil, fmt.Errorf("analyze image: %w", err)
	}

	// Защита от устаревшего ответа: пока шёл запрос, снимок могли заменить.
	if session.Image == nil || session.Image.URI != sourceURI {
		log.Info().Str("uri", sourceURI).Msg("stale analysis result discarded")
		return nil, nil
	}

	display := Reconcile(result, sourceURI)

	// Успешный показ завершает передачу снимка по конвейеру.
	if err := s.captures.Release(ctx, session); err != nil {
		return nil, err
	}
	return &display, nil
}
