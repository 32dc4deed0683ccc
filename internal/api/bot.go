package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	app "lens-bot/internal/application"
	"lens-bot/internal/container"
	"lens-bot/internal/domain/entity"
	"lens-bot/internal/domain/port"
)

const (
	msgStart = `👋 Привет! Я бот для распознавания объектов на фотографиях.

📸 Отправьте мне фото — я назову объекты, метки и текст на нём.
📷 Или снимите кадр подключённой камерой командой /shot.

📋 Команды:
/shot — снять кадр камерой
/switch — переключить камеру (задняя/фронтальная)
/torch — включить или выключить вспышку
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте фото или снимите кадр командой /shot
2️⃣ Подтвердите снимок командой /confirm
3️⃣ Получите список распознанных объектов

📋 Команды:
/shot — снять кадр
/confirm — отправить снимок на распознавание
/retake — переснять кадр
/switch — переключить камеру
/torch — вспышка
/cancel — отменить операцию`

	msgGated         = "🔒 Нет доступа к камере. Отправьте /shot ещё раз, чтобы запросить доступ."
	msgDenied        = "🚫 Доступ к камере запрещён. Разрешите доступ в настройках системы и повторите /shot."
	msgRestricted    = "⛔ Доступ к камере ограничен системой. Запрос доступа здесь не поможет."
	msgUnavailable   = "📵 Камера не найдена. Снять кадр не получится, но вы можете прислать фото."
	msgPreviewHint   = "👀 Снимок готов. /confirm — распознать, /retake — переснять."
	msgCaptureFailed = "⚠️ Не удалось снять кадр. Камера снова готова, попробуйте /shot ещё раз."
	msgNoPreview     = "🤷 Сейчас нет снимка. Снимите кадр командой /shot или пришлите фото."
	msgBusy          = "⏳ Камера занята, дождитесь завершения съёмки."
	msgPending       = "⏳ Уже обрабатываю снимок, дождитесь результата."
	msgDiscarded     = "🗑 Снимок отброшен. Камера готова к новой съёмке."
	msgCancelled     = "❌ Операция отменена."
	msgEncodeFailed  = "⚠️ Не удалось прочитать снимок. Попробуйте ещё раз."
	msgNetworkError  = "🌐 Сервис распознавания недоступен. Попробуйте /confirm ещё раз."
	msgAuthError     = "🔑 Сервис отверг ключ API. Проверьте настройку VISION_API_KEY — повторная попытка не поможет."
	msgEmptyResult   = "🔍 Ничего узнаваемого не нашлось. Попробуйте другой ракурс или другое фото."
	msgSendPhoto     = "📸 Пришлите фото или снимите кадр командой /shot."
	msgUnknown       = "❓ Неизвестная команда. Используйте /help для справки."
	msgPhotoFailed   = "⚠️ Не удалось получить фото. Попробуйте отправить его ещё раз."
)

// Bot представляет Telegram-бота
type Bot struct {
	api      *tgbotapi.BotAPI
	services *container.Container
	tempDir  string
}

// NewBot создаёт нового бота
func NewBot(token string, services *container.Container) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	tempDir := filepath.Join(os.TempDir(), "lens-bot")
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}

	log.Info().Str("account", api.Self.UserName).Msg("authorized")

	return &Bot{
		api:      api,
		services: services,
		tempDir:  tempDir,
	}, nil
}

// Run запускает основной цикл обработки сообщений
func (b *Bot) Run() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	ctx := context.Background()

	for update := range updates {
		if update.Message == nil {
			continue
		}

		b.handleMessage(ctx, update.Message)
	}

	return nil
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	session, err := b.services.CaptureService.Session(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get session")
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg, session)
		return
	}

	// Обработка фото
	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg, session)
		return
	}

	// Текстовое сообщение (не команда)
	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, session *entity.Session) {
	switch msg.Command() {
	case "start":
		if _, err := b.services.CaptureService.Refresh(ctx, session); err != nil {
			log.Error().Err(err).Msg("failed to refresh session")
		}
		b.sendMessage(msg.Chat.ID, msgStart)

	case "help":
		b.sendMessage(msg.Chat.ID, msgHelp)

	case "shot":
		b.handleShot(ctx, msg.Chat.ID, session)

	case "confirm":
		b.handleConfirm(ctx, msg.Chat.ID, session)

	case "retake":
		b.handleRetake(ctx, msg.Chat.ID, session)

	case "switch":
		b.handleSwitch(ctx, msg.Chat.ID, session)

	case "torch":
		b.handleTorch(ctx, msg.Chat.ID, session)

	case "cancel":
		b.handleCancel(ctx, msg.Chat.ID, session)

	default:
		b.sendMessage(msg.Chat.ID, msgUnknown)
	}
}

// handleShot снимает кадр камерой. Из закрытого состояния команда сначала
// явно запрашивает доступ: это единственный путь к разрешению камеры.
func (b *Bot) handleShot(ctx context.Context, chatID int64, session *entity.Session) {
	if session.State == entity.StateGated {
		perm, err := b.services.CaptureService.RequestAccess(ctx, session)
		if err != nil {
			log.Error().Err(err).Msg("failed to request camera access")
			return
		}
		switch {
		case perm == entity.PermissionRestricted:
			b.sendMessage(chatID, msgRestricted)
			return
		case !perm.Granted():
			b.sendMessage(chatID, msgDenied)
			return
		}
	}

	switch session.State {
	case entity.StateUnavailable:
		b.sendMessage(chatID, msgUnavailable)
		return
	case entity.StatePreviewing:
		b.sendMessage(chatID, msgPreviewHint)
		return
	}

	image, err := b.services.CaptureService.Shot(ctx, session)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrCaptureFailed):
			b.sendMessage(chatID, msgCaptureFailed)
		case errors.Is(err, app.ErrNotReady):
			b.sendMessage(chatID, msgGated)
		default:
			log.Error().Err(err).Msg("shot failed")
		}
		return
	}

	b.sendPhotoPreview(chatID, image)
	b.sendMessage(chatID, msgPreviewHint)
}

// handleConfirm отправляет снимок из превью на распознавание
func (b *Bot) handleConfirm(ctx context.Context, chatID int64, session *entity.Session) {
	result, err := b.services.AnalysisService.Analyze(ctx, session)
	if err != nil {
		b.sendMessage(chatID, analysisErrorMessage(err))
		return
	}
	if result == nil {
		// Устаревший результат уже отброшен, показывать нечего.
		return
	}

	b.sendMessage(chatID, formatResult(result))
}

// handleRetake отбрасывает снимок из превью
func (b *Bot) handleRetake(ctx context.Context, chatID int64, session *entity.Session) {
	if err := b.services.CaptureService.Discard(ctx, session); err != nil {
		b.sendMessage(chatID, msgNoPreview)
		return
	}
	b.sendMessage(chatID, msgDiscarded)
}

// handleSwitch переключает заднюю и фронтальную камеру
func (b *Bot) handleSwitch(ctx context.Context, chatID int64, session *entity.Session) {
	position, err := b.services.CaptureService.SwitchCamera(ctx, session)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrBusy):
			b.sendMessage(chatID, msgBusy)
		case errors.Is(err, port.ErrNoDevice):
			b.sendMessage(chatID, msgUnavailable)
		default:
			log.Error().Err(err).Msg("switch camera failed")
		}
		return
	}

	if position == entity.PositionFront {
		b.sendMessage(chatID, "🤳 Включена фронтальная камера.")
	} else {
		b.sendMessage(chatID, "📷 Включена задняя камера.")
	}
}

// handleTorch переключает вспышку
func (b *Bot) handleTorch(ctx context.Context, chatID int64, session *entity.Session) {
	on, err := b.services.CaptureService.ToggleTorch(ctx, session)
	if err != nil {
		b.sendMessage(chatID, msgBusy)
		return
	}

	if on {
		b.sendMessage(chatID, "🔦 Вспышка включена.")
	} else {
		b.sendMessage(chatID, "🌑 Вспышка выключена.")
	}
}

// handleCancel отменяет текущую операцию
func (b *Bot) handleCancel(ctx context.Context, chatID int64, session *entity.Session) {
	if session.State == entity.StatePreviewing {
		if err := b.services.CaptureService.Discard(ctx, session); err != nil {
			log.Warn().Err(err).Msg("discard on cancel failed")
		}
	}
	b.sendMessage(chatID, msgCancelled)
}

// handlePhoto обрабатывает присланное фото: это путь «выбрать из галереи».
// Распознавание запускается явно, сразу после принятия снимка.
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message, session *entity.Session) {
	if session.Analyzing {
		b.sendMessage(msg.Chat.ID, msgPending)
		return
	}

	// Получаем файл с максимальным разрешением
	photo := msg.Photo[len(msg.Photo)-1]

	image, err := b.downloadPhoto(photo)
	if err != nil {
		log.Error().Err(err).Msg("failed to download photo")
		b.sendMessage(msg.Chat.ID, msgPhotoFailed)
		return
	}

	if err := b.services.CaptureService.Adopt(ctx, session, image); err != nil {
		b.sendMessage(msg.Chat.ID, msgBusy)
		return
	}

	b.sendMessage(msg.Chat.ID, "⏳ Распознаю изображение...")
	b.handleConfirm(ctx, msg.Chat.ID, session)
}

// downloadPhoto скачивает фото из Telegram во временный файл
func (b *Bot) downloadPhoto(photo tgbotapi.PhotoSize) (*entity.CapturedImage, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: photo.FileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	fileURL := file.Link(b.api.Token)

	resp, err := http.Get(fileURL)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	path := filepath.Join(b.tempDir, fmt.Sprintf("photo_%s.jpg", uuid.New().String()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("write file: %w", err)
	}

	return &entity.CapturedImage{
		URI:    "file://" + path,
		Width:  photo.Width,
		Height: photo.Height,
	}, nil
}

// sendPhotoPreview отправляет превью снимка в чат
func (b *Bot) sendPhotoPreview(chatID int64, image *entity.CapturedImage) {
	path := strings.TrimPrefix(image.URI, "file://")
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FilePath(path))
	if _, err := b.api.Send(photo); err != nil {
		log.Error().Err(err).Msg("failed to send preview")
	}
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Error().Err(err).Msg("failed to send message")
	}
}

// analysisErrorMessage подбирает сообщение пользователю по классу ошибки.
// Сетевые ошибки и ошибки кодирования исправимы, отказ по ключу — нет.
func analysisErrorMessage(err error) string {
	switch {
	case errors.Is(err, app.ErrAnalysisPending):
		return msgPending
	case errors.Is(err, app.ErrNoPreview):
		return msgNoPreview
	case errors.Is(err, port.ErrAuth):
		return msgAuthError
	case errors.Is(err, port.ErrNetwork):
		return msgNetworkError
	case errors.Is(err, port.ErrEncoding):
		return msgEncodeFailed
	default:
		log.Error().Err(err).Msg("analysis failed")
		return msgNetworkError
	}
}

// formatResult собирает текст ответа по итогу сверки
func formatResult(result *entity.DisplayResult) string {
	var sb strings.Builder

	switch result.Mode {
	case entity.ModeObjects:
		sb.WriteString("📦 Объекты на снимке:\n")
		for _, item := range result.Items {
			sb.WriteString("• " + item + "\n")
		}
	case entity.ModeLabels:
		sb.WriteString("🏷 Похоже на:\n")
		for _, item := range result.Items {
			sb.WriteString("• " + item + "\n")
		}
	default:
		sb.WriteString(msgEmptyResult)
	}

	if result.Text != "" {
		sb.WriteString("\n📝 Текст на снимке:\n" + result.Text)
	}

	return strings.TrimRight(sb.String(), "\n")
}
