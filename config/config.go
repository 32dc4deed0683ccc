package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string

	// Настройки Google Cloud Vision
	VisionAPIKey   string
	VisionEndpoint string

	// Индексы камер: задняя и фронтальная
	BackCameraIndex  int
	FrontCameraIndex int
	// Путь к устройству камеры для проверки доступа
	CameraDevicePath string

	LogLevel string
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken:    os.Getenv("TELEGRAM_TOKEN"),
		VisionAPIKey:     os.Getenv("VISION_API_KEY"),
		VisionEndpoint:   getEnv("VISION_ENDPOINT", "https://vision.googleapis.com"),
		BackCameraIndex:  getEnvInt("BACK_CAMERA_INDEX", 0),
		FrontCameraIndex: getEnvInt("FRONT_CAMERA_INDEX", 1),
		CameraDevicePath: getEnv("CAMERA_DEVICE_PATH", "/dev/video0"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// getEnv возвращает значение переменной окружения или значение по умолчанию.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt возвращает числовое значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
