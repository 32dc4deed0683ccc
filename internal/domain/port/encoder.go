package port

import (
	"context"
	"errors"

	"lens-bot/internal/domain/entity"
)

// ErrEncoding изображение не удалось прочитать или закодировать.
// Ошибка исправима: пользователю предлагается повторить попытку.
var ErrEncoding = errors.New("image encoding failed")

// ImageEncoder интерфейс кодировщика изображений
type ImageEncoder interface {
	// Encode читает байты по ссылке снимка и возвращает Base64 без data-URI префикса
	Encode(ctx context.Context, image *entity.CapturedImage) (entity.EncodedImage, error)
}
