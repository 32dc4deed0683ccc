package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"lens-bot/config"
	telegram "lens-bot/internal/api"
	"lens-bot/internal/container"
	"lens-bot/internal/infrastructure/camera"
	"lens-bot/internal/infrastructure/encoding"
	"lens-bot/internal/infrastructure/permission"
	"lens-bot/internal/infrastructure/storage"
	"lens-bot/internal/infrastructure/vision"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	initLogger(cfg.LogLevel)

	if cfg.TelegramToken == "" {
		log.Fatal().Msg("TELEGRAM_TOKEN is required")
	}
	if cfg.VisionAPIKey == "" {
		log.Fatal().Msg("VISION_API_KEY is required")
	}

	// Создаём хранилище сессий
	sessionRepo := storage.NewMemorySessionRepository()

	// Инфраструктура: доступ, камера, кодировщик, распознавание
	gate := permission.NewDeviceGate(cfg.CameraDevicePath)
	cam, err := camera.NewGoCVCamera(cfg.BackCameraIndex, cfg.FrontCameraIndex)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create camera")
	}
	encoder := encoding.NewBase64Encoder()
	analyzer := vision.NewGoogleClient(cfg.VisionAPIKey, cfg.VisionEndpoint)

	// Собираем сервисы приложения
	appContainer := container.New(sessionRepo, gate, cam, encoder, analyzer)

	// Статус микрофона справочный: на съёмку фото не влияет
	mic := appContainer.PermissionService.MicrophoneStatus(context.Background())
	log.Info().Str("microphone", string(mic)).Msg("microphone permission (advisory)")

	// Создаём бота
	bot, err := telegram.NewBot(cfg.TelegramToken, appContainer)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create bot")
	}

	log.Info().Msg("bot is running")
	if err := bot.Run(); err != nil {
		log.Fatal().Err(err).Msg("bot error")
	}
}

// initLogger настраивает глобальный логгер по уровню из конфигурации.
func initLogger(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}
