package app

import (
	"lens-bot/internal/domain/entity"
)

// Reconcile выбирает категорию для показа пользователю.
// Объекты всегда важнее меток: выбор фиксированный, а не взвешенный,
// даже если меток больше. Текст проходит насквозь и в выборе не участвует.
func Reconcile(result *entity.AnalysisResult, sourceURI string) entity.DisplayResult {
	switch {
	case len(result.Objects) > 0:
		return entity.DisplayResult{
			Mode:      entity.ModeObjects,
			Items:     result.Objects,
			Text:      result.Text,
			SourceURI: sourceURI,
		}
	case len(result.Labels) > 0:
		return entity.DisplayResult{
			Mode:      entity.ModeLabels,
			Items:     result.Labels,
			Text:      result.Text,
			SourceURI: sourceURI,
		}
	default:
		return entity.DisplayResult{
			Mode:      entity.ModeEmpty,
			Items:     []string{},
			Text:      result.Text,
			SourceURI: sourceURI,
		}
	}
}
