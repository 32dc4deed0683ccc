package port

import (
	"context"

	"lens-bot/internal/domain/entity"
)

// PermissionGate интерфейс доступа к разрешениям платформы
type PermissionGate interface {
	// Status возвращает текущий статус доступа к камере без запроса к пользователю
	Status(ctx context.Context) (entity.PermissionState, error)

	// Request запрашивает доступ к камере и возвращает итоговый статус
	Request(ctx context.Context) (entity.PermissionState, error)

	// MicrophoneStatus возвращает статус доступа к микрофону.
	// Статус справочный: съёмка фото от него не зависит.
	MicrophoneStatus(ctx context.Context) (entity.PermissionState, error)
}
