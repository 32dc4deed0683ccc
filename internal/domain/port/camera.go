package port

import (
	"context"
	"errors"

	"lens-bot/internal/domain/entity"
)

// ErrNoDevice камера для выбранного положения не найдена.
// Это не запрет доступа: отсутствие железа, состояние терминальное.
var ErrNoDevice = errors.New("camera device is not available")

// Camera интерфейс устройства камеры
type Camera interface {
	// Resolve проверяет, что для положения есть устройство
	Resolve(position entity.DevicePosition) error

	// Capture снимает один кадр и возвращает ссылку на файл снимка
	Capture(ctx context.Context, position entity.DevicePosition) (*entity.CapturedImage, error)
}
