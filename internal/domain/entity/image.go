package entity

// CapturedImage ссылка на снятое или выбранное изображение.
// Владелец всегда один: ссылка передаётся по конвейеру дальше, а не копируется.
type CapturedImage struct {
	URI    string // file:// ссылка на файл снимка
	Width  int    // ширина в пикселях (0 если неизвестна)
	Height int    // высота в пикселях (0 если неизвестна)
}

// EncodedImage изображение в Base64 без data-URI префикса.
// Живёт один запрос анализа и нигде не кэшируется.
type EncodedImage string
