package storage

import (
	"context"
	"sync"

	"lens-bot/internal/domain/entity"
	"lens-bot/internal/domain/port"
)

// MemorySessionRepository in-memory хранилище сессий съёмки.
// Снимки и состояния живут только в памяти процесса и не переживают перезапуск.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[int64]*entity.Session
}

// NewMemorySessionRepository создаёт новое in-memory хранилище
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[int64]*entity.Session),
	}
}

// Get возвращает сессию по ID пользователя, создаёт новую если не найдена
func (r *MemorySessionRepository) Get(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	r.mu.RLock()
	session, exists := r.sessions[userID]
	r.mu.RUnlock()

	if exists {
		return session, nil
	}

	// Создаём новую сессию в закрытом состоянии
	newSession := entity.NewSession(userID, chatID)

	r.mu.Lock()
	r.sessions[userID] = newSession
	r.mu.Unlock()

	return newSession, nil
}

// Save сохраняет сессию
func (r *MemorySessionRepository) Save(ctx context.Context, session *entity.Session) error {
	r.mu.Lock()
	r.sessions[session.UserID] = session
	r.mu.Unlock()

	return nil
}

// Проверка реализации интерфейса
var _ port.SessionRepository = (*MemorySessionRepository)(nil)
