package permission

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"syscall"

	"lens-bot/internal/domain/entity"
	"lens-bot/internal/domain/port"
)

// DeviceGate проверяет доступ к камере по узлу устройства.
// Статус не кэшируется: каждый запуск процесса спрашивает систему заново.
type DeviceGate struct {
	cameraPath     string
	microphonePath string
}

// NewDeviceGate создаёт проверку доступа для узла камеры.
func NewDeviceGate(cameraPath string) *DeviceGate {
	return &DeviceGate{
		cameraPath:     cameraPath,
		microphonePath: "/dev/snd",
	}
}

// Status возвращает статус доступа к камере без побочных эффектов для пользователя.
func (g *DeviceGate) Status(ctx context.Context) (entity.PermissionState, error) {
	return g.probe(g.cameraPath)
}

// Request пытается открыть устройство камеры и возвращает итоговый статус.
// Сбой проверки отдаётся наружу как ошибка: прикладной слой трактует её как отказ.
func (g *DeviceGate) Request(ctx context.Context) (entity.PermissionState, error) {
	return g.probe(g.cameraPath)
}

// MicrophoneStatus возвращает справочный статус доступа к микрофону.
func (g *DeviceGate) MicrophoneStatus(ctx context.Context) (entity.PermissionState, error) {
	return g.probe(g.microphonePath)
}

// probe определяет статус по возможности открыть узел устройства.
// Узла нет — пользователя ещё не о чем спрашивать; нет прав — доступ запрещён.
func (g *DeviceGate) probe(path string) (entity.PermissionState, error) {
	f, err := os.Open(path)
	if err == nil {
		f.Close()
		return entity.PermissionGranted, nil
	}

	switch {
	case errors.Is(err, fs.ErrNotExist):
		return entity.PermissionNotDetermined, nil
	case errors.Is(err, fs.ErrPermission):
		return entity.PermissionDenied, nil
	case errors.Is(err, syscall.EBUSY):
		// Устройство занято другим процессом: повторный запрос не поможет.
		return entity.PermissionRestricted, nil
	default:
		return entity.PermissionNotDetermined, err
	}
}

// Проверка реализации интерфейса
var _ port.PermissionGate = (*DeviceGate)(nil)
