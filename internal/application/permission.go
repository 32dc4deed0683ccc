package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"lens-bot/internal/domain/entity"
	"lens-bot/internal/domain/port"
)

// PermissionService нормализует ответы платформы о доступе к камере.
// Ошибки платформы не выходят наружу: сервис всегда возвращает статус.
type PermissionService struct {
	gate port.PermissionGate
}

func NewPermissionService(gate port.PermissionGate) *PermissionService {
	return &PermissionService{gate: gate}
}

// Status возвращает текущий статус доступа без запроса к пользователю.
// Сбой платформы трактуется как «ещё не спрашивали».
func (s *PermissionService) Status(ctx context.Context) entity.PermissionState {
	state, err := s.gate.Status(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("permission status query failed")
		return entity.PermissionNotDetermined
	}
	return state
}

// Request запрашивает доступ к камере и возвращает итоговый статус.
// Сбой платформы трактуется как отказ, чтобы не зациклить пользователя
// на бесконечных повторных запросах.
func (s *PermissionService) Request(ctx context.Context) entity.PermissionState {
	state, err := s.gate.Request(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("permission request failed")
		return entity.PermissionDenied
	}
	return state
}

// MicrophoneStatus возвращает справочный статус доступа к микрофону.
// Съёмка фото от микрофона не зависит, статус только пишется в лог.
func (s *PermissionService) MicrophoneStatus(ctx context.Context) entity.PermissionState {
	state, err := s.gate.MicrophoneStatus(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("microphone status query failed")
		return entity.PermissionNotDetermined
	}
	return state
}
