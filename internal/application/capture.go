package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"lens-bot/internal/domain/entity"
	"lens-bot/internal/domain/port"
)

var (
	// ErrNotReady камера не готова: нет доступа, нет устройства или снимок уже в превью.
	ErrNotReady = errors.New("camera is not ready")

	// ErrBusy операция запрещена во время съёмки кадра.
	ErrBusy = errors.New("capture is in progress")

	// ErrNoPreview нет снимка, с которым можно работать.
	ErrNoPreview = errors.New("no captured image to act on")

	// ErrCaptureFailed съёмка кадра не удалась, камера вернулась в готовность.
	ErrCaptureFailed = errors.New("capture failed")
)

// CaptureService управляет сессией съёмки: доступом, выбором камеры и снимками.
type CaptureService struct {
	sessions    *SessionService
	permissions *PermissionService
	camera      port.Camera
}

func NewCaptureService(sessions *SessionService, permissions *PermissionService, camera port.Camera) *CaptureService {
	return &CaptureService{
		sessions:    sessions,
		permissions: permissions,
		camera:      camera,
	}
}

// Session возвращает сессию чата, создавая новую при первом обращении.
func (s *CaptureService) Session(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	return s.sessions.Get(ctx, userID, chatID)
}

// Refresh пересматривает закрытое состояние сессии: при выданном доступе
// и найденном устройстве камера переходит в готовность. Превью и съёмку
// Refresh не трогает.
func (s *CaptureService) Refresh(ctx context.Context, session *entity.Session) (entity.CaptureState, error) {
	switch session.State {
	case entity.StateCapturing, entity.StatePreviewing:
		return session.State, nil
	}

	state := s.resolveState(ctx, session.Position)
	session.SetState(state)
	if err := s.sessions.Save(ctx, session); err != nil {
		return session.State, err
	}
	return state, nil
}

// RequestAccess запрашивает доступ к камере и пересматривает состояние сессии.
func (s *CaptureService) RequestAccess(ctx context.Context, session *entity.Session) (entity.PermissionState, error) {
	perm := s.permissions.Request(ctx)
	if _, err := s.Refresh(ctx, session); err != nil {
		return perm, err
	}
	return perm, nil
}

// Shot снимает один кадр. Камера вызывается только из состояния готовности:
// любой другой статус доступа оставляет сессию закрытой.
func (s *CaptureService) Shot(ctx context.Context, session *entity.Session) (*entity.CapturedImage, error) {
	if session.State != entity.StateIdle {
		return nil, ErrNotReady
	}

	session.SetState(entity.StateCapturing)
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	image, err := s.camera.Capture(ctx, session.Position)
	if err != nil {
		// Сбой железа не фатален: предупреждаем и возвращаем камеру в готовность.
		log.Warn().Err(err).Str("position", string(session.Position)).Msg("capture failed")
		session.SetState(entity.StateIdle)
		if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
			return nil, saveErr
		}
		return nil, fmt.Errorf("%w: %v", ErrCaptureFailed, err)
	}

	session.Image = image
	session.SetState(entity.StatePreviewing)
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return image, nil
}

// Adopt принимает выбранное пользователем изображение и переводит сессию в превью.
// Для выбранного фото доступ к камере не нужен.
func (s *CaptureService) Adopt(ctx context.Context, session *entity.Session, image *entity.CapturedImage) error {
	if session.State == entity.StateCapturing {
		return ErrBusy
	}
	session.Image = image
	session.SetState(entity.StatePreviewing)
	return s.sessions.Save(ctx, session)
}

// Discard отбрасывает снимок из превью и возвращает сессию в исходное состояние.
func (s *CaptureService) Discard(ctx context.Context, session *entity.Session) error {
	if session.State != entity.StatePreviewing || session.Image == nil {
		return ErrNoPreview
	}
	removeImageFile(session.Image)
	return s.Release(ctx, session)
}

// Release завершает работу со снимком: ссылка отдана дальше по конвейеру,
// сессия пересматривается заново.
func (s *CaptureService) Release(ctx context.Context, session *entity.Session) error {
	session.Image = nil
	session.SetState(s.resolveState(ctx, session.Position))
	return s.sessions.Save(ctx, session)
}

// SwitchCamera переключает заднюю и фронтальную камеру.
// Переключение доступно только в готовности и превью.
func (s *CaptureService) SwitchCamera(ctx context.Context, session *entity.Session) (entity.DevicePosition, error) {
	if !session.CanToggle() {
		return session.Position, ErrBusy
	}

	next := session.Position.Opposite()
	if err := s.camera.Resolve(next); err != nil {
		return session.Position, fmt.Errorf("switch camera: %w", err)
	}

	session.Position = next
	if err := s.sessions.Save(ctx, session); err != nil {
		return session.Position, err
	}
	return next, nil
}

// ToggleTorch переключает вспышку и возвращает новое состояние.
func (s *CaptureService) ToggleTorch(ctx context.Context, session *entity.Session) (bool, error) {
	if !session.CanToggle() {
		return session.Torch, ErrBusy
	}

	session.Torch = !session.Torch
	if err := s.sessions.Save(ctx, session); err != nil {
		return session.Torch, err
	}
	return session.Torch, nil
}

// resolveState определяет состояние камеры по статусу доступа и наличию устройства.
// Отсутствие устройства — отдельное терминальное состояние, не запрет доступа.
func (s *CaptureService) resolveState(ctx context.Context, position entity.DevicePosition) entity.CaptureState {
	if !s.permissions.Status(ctx).Granted() {
		return entity.StateGated
	}
	if err := s.camera.Resolve(position); err != nil {
		log.Warn().Err(err).Str("position", string(position)).Msg("camera device is not available")
		return entity.StateUnavailable
	}
	return entity.StateIdle
}

// removeImageFile удаляет файл отброшенного снимка.
// Ошибка удаления не мешает работе, только пишется в лог.
func removeImageFile(image *entity.CapturedImage) {
	path := strings.TrimPrefix(image.URI, "file://")
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("path", path).Msg("failed to remove discarded image")
	}
}
