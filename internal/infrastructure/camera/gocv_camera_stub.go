//go:build !gocv
// +build !gocv

package camera

import (
	"context"

	"lens-bot/internal/domain/entity"
	"lens-bot/internal/domain/port"
)

type GoCVCamera struct {
	backIndex  int
	frontIndex int
}

// NewGoCVCamera создаёт камеру-заглушку (без OpenCV).
func NewGoCVCamera(backIndex, frontIndex int) (*GoCVCamera, error) {
	return &GoCVCamera{
		backIndex:  backIndex,
		frontIndex: frontIndex,
	}, nil
}

// Resolve возвращает отсутствие устройства, если сборка без тега gocv.
func (c *GoCVCamera) Resolve(position entity.DevicePosition) error {
	_ = position
	return port.ErrNoDevice
}

// Capture возвращает отсутствие устройства, если сборка без тега gocv.
func (c *GoCVCamera) Capture(ctx context.Context, position entity.DevicePosition) (*entity.CapturedImage, error) {
	_ = ctx
	_ = position
	return nil, port.ErrNoDevice
}

// Проверка реализации интерфейса
var _ port.Camera = (*GoCVCamera)(nil)
