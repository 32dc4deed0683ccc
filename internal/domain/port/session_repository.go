package port

import (
	"context"

	"lens-bot/internal/domain/entity"
)

// SessionRepository интерфейс хранилища сессий съёмки
type SessionRepository interface {
	// Get возвращает сессию по ID пользователя, создаёт новую если не найдена
	Get(ctx context.Context, userID, chatID int64) (*entity.Session, error)

	// Save сохраняет сессию
	Save(ctx context.Context, session *entity.Session) error
}
