//go:build gocv
// +build gocv

package camera

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"lens-bot/internal/domain/entity"
	"lens-bot/internal/domain/port"
)

// warmupFrames сколько кадров пропустить, пока камера подстраивает экспозицию.
const warmupFrames = 5

type GoCVCamera struct {
	backIndex  int
	frontIndex int
	tempDir    string
}

// NewGoCVCamera создаёт камеру на базе OpenCV с индексами устройств.
func NewGoCVCamera(backIndex, frontIndex int) (*GoCVCamera, error) {
	tempDir := filepath.Join(os.TempDir(), "lens-bot")
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}

	return &GoCVCamera{
		backIndex:  backIndex,
		frontIndex: frontIndex,
		tempDir:    tempDir,
	}, nil
}

// Resolve проверяет, что устройство для положения открывается.
func (c *GoCVCamera) Resolve(position entity.DevicePosition) error {
	capture, err := gocv.OpenVideoCapture(c.deviceIndex(position))
	if err != nil {
		return fmt.Errorf("%w: %v", port.ErrNoDevice, err)
	}
	defer capture.Close()

	if !capture.IsOpened() {
		return port.ErrNoDevice
	}
	return nil
}

// Capture снимает один кадр и сохраняет его в JPEG-файл.
func (c *GoCVCamera) Capture(ctx context.Context, position entity.DevicePosition) (*entity.CapturedImage, error) {
	capture, err := gocv.OpenVideoCapture(c.deviceIndex(position))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", port.ErrNoDevice, err)
	}
	defer capture.Close()

	img := gocv.NewMat()
	defer img.Close()

	// Первые кадры после открытия обычно тёмные, пропускаем их.
	for i := 0; i <= warmupFrames; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if ok := capture.Read(&img); !ok {
			return nil, errors.New("camera returned no frame")
		}
	}
	if img.Empty() {
		return nil, errors.New("camera returned an empty frame")
	}

	encoded, err := gocv.IMEncode(gocv.JPEGFileExt, img)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer encoded.Close()

	path := filepath.Join(c.tempDir, fmt.Sprintf("shot_%s.jpg", uuid.New().String()))
	if err := os.WriteFile(path, encoded.GetBytes(), 0o644); err != nil {
		return nil, fmt.Errorf("write frame: %w", err)
	}

	return &entity.CapturedImage{
		URI:    "file://" + path,
		Width:  img.Cols(),
		Height: img.Rows(),
	}, nil
}

// deviceIndex возвращает индекс устройства для положения камеры.
func (c *GoCVCamera) deviceIndex(position entity.DevicePosition) int {
	if position == entity.PositionFront {
		return c.frontIndex
	}
	return c.backIndex
}

// Проверка реализации интерфейса
var _ port.Camera = (*GoCVCamera)(nil)
