package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"lens-bot/internal/domain/entity"
	"lens-bot/internal/domain/port"
	"lens-bot/internal/infrastructure/storage"
)

// fakeGate управляемый шлюз доступа для тестов.
type fakeGate struct {
	status     entity.PermissionState
	request    entity.PermissionState
	statusErr  error
	requestErr error
}

func (g *fakeGate) Status(ctx context.Context) (entity.PermissionState, error) {
	return g.status, g.statusErr
}

func (g *fakeGate) Request(ctx context.Context) (entity.PermissionState, error) {
	if g.requestErr != nil {
		return "", g.requestErr
	}
	// Ответ на запрос становится текущим статусом, как на реальной платформе.
	g.status = g.request
	return g.request, nil
}

func (g *fakeGate) MicrophoneStatus(ctx context.Context) (entity.PermissionState, error) {
	return entity.PermissionNotDetermined, nil
}

// fakeCamera камера для тестов: считает вызовы Capture.
type fakeCamera struct {
	resolveErr error
	captureErr error
	captures   int
	image      *entity.CapturedImage
}

func (c *fakeCamera) Resolve(position entity.DevicePosition) error {
	return c.resolveErr
}

func (c *fakeCamera) Capture(ctx context.Context, position entity.DevicePosition) (*entity.CapturedImage, error) {
	c.captures++
	if c.captureErr != nil {
		return nil, c.captureErr
	}
	if c.image != nil {
		return c.image, nil
	}
	return &entity.CapturedImage{URI: "file://shot.jpg"}, nil
}

func newCaptureService(gate *fakeGate, camera *fakeCamera) (*CaptureService, *SessionService) {
	sessions := NewSessionService(storage.NewMemorySessionRepository())
	permissions := NewPermissionService(gate)
	return NewCaptureService(sessions, permissions, camera), sessions
}

func TestCaptureService_GatedNeverCaptures(t *testing.T) {
	// Для любого статуса кроме granted камера не вызывается вовсе.
	states := []entity.PermissionState{
		entity.PermissionNotDetermined,
		entity.PermissionDenied,
		entity.PermissionRestricted,
	}

	for _, state := range states {
		gate := &fakeGate{status: state}
		camera := &fakeCamera{}
		svc, _ := newCaptureService(gate, camera)
		ctx := context.Background()

		session, err := svc.Session(ctx, 1, 10)
		require.NoError(t, err)

		got, err := svc.Refresh(ctx, session)
		require.NoError(t, err)
		require.Equal(t, entity.StateGated, got)

		_, err = svc.Shot(ctx, session)
		require.ErrorIs(t, err, ErrNotReady)
		require.Equal(t, 0, camera.captures, "state %s", state)
	}
}

func TestCaptureService_GrantTransitionsToIdle(t *testing.T) {
	gate := &fakeGate{status: entity.PermissionNotDetermined, request: entity.PermissionGranted}
	camera := &fakeCamera{}
	svc, _ := newCaptureService(gate, camera)
	ctx := context.Background()

	session, err := svc.Session(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateGated, session.State)

	perm, err := svc.RequestAccess(ctx, session)
	require.NoError(t, err)
	require.Equal(t, entity.PermissionGranted, perm)
	require.Equal(t, entity.StateIdle, session.State)
}

func TestCaptureService_UnavailableWithoutDevice(t *testing.T) {
	// Доступ выдан, но устройства нет: это терминальное состояние, не запрет.
	gate := &fakeGate{status: entity.PermissionGranted}
	camera := &fakeCamera{resolveErr: port.ErrNoDevice}
	svc, _ := newCaptureService(gate, camera)
	ctx := context.Background()

	session, err := svc.Session(ctx, 1, 10)
	require.NoError(t, err)

	got, err := svc.Refresh(ctx, session)
	require.NoError(t, err)
	require.Equal(t, entity.StateUnavailable, got)

	_, err = svc.Shot(ctx, session)
	require.ErrorIs(t, err, ErrNotReady)
	require.Equal(t, 0, camera.captures)
}

func TestCaptureService_ShotMovesToPreviewing(t *testing.T) {
	gate := &fakeGate{status: entity.PermissionGranted}
	camera := &fakeCamera{image: &entity.CapturedImage{URI: "file://photo1.jpg", Width: 640, Height: 480}}
	svc, _ := newCaptureService(gate, camera)
	ctx := context.Background()

	session, err := svc.Session(ctx, 1, 10)
	require.NoError(t, err)
	_, err = svc.Refresh(ctx, session)
	require.NoError(t, err)

	image, err := svc.Shot(ctx, session)
	require.NoError(t, err)
	require.Equal(t, "file://photo1.jpg", image.URI)
	require.Equal(t, entity.StatePreviewing, session.State)
	require.Equal(t, image, session.Image)
}

func TestCaptureService_CaptureFailureReturnsToIdle(t *testing.T) {
	gate := &fakeGate{status: entity.PermissionGranted}
	camera := &fakeCamera{captureErr: errors.New("hardware glitch")}
	svc, _ := newCaptureService(gate, camera)
	ctx := context.Background()

	session, err := svc.Session(ctx, 1, 10)
	require.NoError(t, err)
	_, err = svc.Refresh(ctx, session)
	require.NoError(t, err)

	_, err = svc.Shot(ctx, session)
	require.ErrorIs(t, err, ErrCaptureFailed)
	// Камера снова готова, автоповтора нет.
	require.Equal(t, entity.StateIdle, session.State)
	require.Nil(t, session.Image)
	require.Equal(t, 1, camera.captures)
}

func TestCaptureService_TogglesBlockedWhileCapturing(t *testing.T) {
	gate := &fakeGate{status: entity.PermissionGranted}
	camera := &fakeCamera{}
	svc, _ := newCaptureService(gate, camera)
	ctx := context.Background()

	session, err := svc.Session(ctx, 1, 10)
	require.NoError(t, err)
	session.SetState(entity.StateCapturing)

	_, err = svc.SwitchCamera(ctx, session)
	require.ErrorIs(t, err, ErrBusy)

	_, err = svc.ToggleTorch(ctx, session)
	require.ErrorIs(t, err, ErrBusy)
}

func TestCaptureService_SwitchCamera(t *testing.T) {
	gate := &fakeGate{status: entity.PermissionGranted}
	camera := &fakeCamera{}
	svc, _ := newCaptureService(gate, camera)
	ctx := context.Background()

	session, err := svc.Session(ctx, 1, 10)
	require.NoError(t, err)
	_, err = svc.Refresh(ctx, session)
	require.NoError(t, err)

	position, err := svc.SwitchCamera(ctx, session)
	require.NoError(t, err)
	require.Equal(t, entity.PositionFront, position)

	position, err = svc.SwitchCamera(ctx, session)
	require.NoError(t, err)
	require.Equal(t, entity.PositionBack, position)
}

func TestCaptureService_SwitchCameraWithoutDeviceKeepsPosition(t *testing.T) {
	gate := &fakeGate{status: entity.PermissionGranted}
	camera := &fakeCamera{}
	svc, _ := newCaptureService(gate, camera)
	ctx := context.Background()

	session, err := svc.Session(ctx, 1, 10)
	require.NoError(t, err)
	_, err = svc.Refresh(ctx, session)
	require.NoError(t, err)

	camera.resolveErr = port.ErrNoDevice
	_, err = svc.SwitchCamera(ctx, session)
	require.ErrorIs(t, err, port.ErrNoDevice)
	require.Equal(t, entity.PositionBack, session.Position)
}

func TestCaptureService_ToggleTorch(t *testing.T) {
	gate := &fakeGate{status: entity.PermissionGranted}
	camera := &fakeCamera{}
	svc, _ := newCaptureService(gate, camera)
	ctx := context.Background()

	session, err := svc.Session(ctx, 1, 10)
	require.NoError(t, err)
	_, err = svc.Refresh(ctx, session)
	require.NoError(t, err)

	on, err := svc.ToggleTorch(ctx, session)
	require.NoError(t, err)
	require.True(t, on)

	on, err = svc.ToggleTorch(ctx, session)
	require.NoError(t, err)
	require.False(t, on)
}

func TestCaptureService_DiscardReturnsToIdle(t *testing.T) {
	gate := &fakeGate{status: entity.PermissionGranted}
	camera := &fakeCamera{}
	svc, _ := newCaptureService(gate, camera)
	ctx := context.Background()

	session, err := svc.Session(ctx, 1, 10)
	require.NoError(t, err)
	_, err = svc.Refresh(ctx, session)
	require.NoError(t, err)

	_, err = svc.Shot(ctx, session)
	require.NoError(t, err)

	require.NoError(t, svc.Discard(ctx, session))
	require.Equal(t, entity.StateIdle, session.State)
	require.Nil(t, session.Image)
}

func TestCaptureService_DiscardWithoutPreview(t *testing.T) {
	gate := &fakeGate{status: entity.PermissionGranted}
	camera := &fakeCamera{}
	svc, _ := newCaptureService(gate, camera)
	ctx := context.Background()

	session, err := svc.Session(ctx, 1, 10)
	require.NoError(t, err)

	require.ErrorIs(t, svc.Discard(ctx, session), ErrNoPreview)
}

func TestCaptureService_AdoptFromGated(t *testing.T) {
	// Выбранное фото не требует доступа к камере: превью доступно даже из gated.
	gate := &fakeGate{status: entity.PermissionDenied}
	camera := &fakeCamera{}
	svc, _ := newCaptureService(gate, camera)
	ctx := context.Background()

	session, err := svc.Session(ctx, 1, 10)
	require.NoError(t, err)

	image := &entity.CapturedImage{URI: "file://picked.jpg"}
	require.NoError(t, svc.Adopt(ctx, session, image))
	require.Equal(t, entity.StatePreviewing, session.State)
	require.Equal(t, image, session.Image)
}
