package port

import (
	"context"
	"errors"

	"lens-bot/internal/domain/entity"
)

var (
	// ErrNetwork запрос к сервису распознавания не дошёл или истёк по таймауту.
	// Ошибка исправима: пользователь может повторить попытку.
	ErrNetwork = errors.New("vision service is unreachable")

	// ErrAuth сервис отверг ключ API.
	// Повтор не поможет: нужна перенастройка, а не кнопка «попробовать ещё раз».
	ErrAuth = errors.New("vision service rejected credentials")
)

// ImageAnalyzer интерфейс сервиса распознавания изображений
type ImageAnalyzer interface {
	// Analyze отправляет закодированное изображение и возвращает нормализованный результат.
	// Один вызов — один сетевой запрос: повторы и сериализация на совести вызывающего.
	Analyze(ctx context.Context, image entity.EncodedImage) (*entity.AnalysisResult, error)
}
