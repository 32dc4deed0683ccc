package entity

// AnalysisResult нормализованный ответ сервиса распознавания.
// Отсутствующие категории всегда приходят пустыми срезами, а не nil-ошибками.
type AnalysisResult struct {
	Objects []string // Распознанные объекты, по убыванию уверенности
	Labels  []string // Общие метки изображения, по убыванию уверенности
	Text    string   // Распознанный текст (может быть пустым)
}

// DisplayMode какая категория показывается пользователю
type DisplayMode string

const (
	ModeObjects DisplayMode = "objects" // Показываем объекты
	ModeLabels  DisplayMode = "labels"  // Показываем метки
	ModeEmpty   DisplayMode = "empty"   // Ничего не распознано
)

// DisplayResult итог сверки результата для показа пользователю.
type DisplayResult struct {
	Mode      DisplayMode // Выбранная категория
	Items     []string    // Элементы выбранной категории
	Text      string      // Распознанный текст, не участвует в выборе категории
	SourceURI string      // URI снимка, по которому получен результат
}
