package encoding

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"lens-bot/internal/domain/entity"
	"lens-bot/internal/domain/port"
)

const (
	// maxImageSize предел размера изображения, защита от бесконечной загрузки.
	maxImageSize = 10 << 20

	downloadTimeout = 30 * time.Second
	maxRedirects    = 3
)

// Base64Encoder читает байты снимка по ссылке и кодирует их в Base64.
// Результат одноразовый: уходит в запрос анализа и нигде не оседает.
type Base64Encoder struct {
	httpClient *http.Client
}

// NewBase64Encoder создаёт кодировщик с ограниченным HTTP-клиентом.
func NewBase64Encoder() *Base64Encoder {
	return &Base64Encoder{
		httpClient: &http.Client{
			Timeout: downloadTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
	}
}

// Encode возвращает Base64 снимка без data-URI префикса.
// Недоступная ссылка и пустой поток байтов — исправимая ошибка кодирования:
// никакой подменной картинки вместо снимка не подставляется.
func (e *Base64Encoder) Encode(ctx context.Context, image *entity.CapturedImage) (entity.EncodedImage, error) {
	uri := image.URI

	// Уже закодированные данные пропускаем, срезав data-URI префикс.
	if strings.HasPrefix(uri, "data:") {
		return stripDataPrefix(uri)
	}

	data, err := e.fetch(ctx, uri)
	if err != nil {
		return "", fmt.Errorf("%w: %v", port.ErrEncoding, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: image %q is empty", port.ErrEncoding, uri)
	}

	return entity.EncodedImage(base64.StdEncoding.EncodeToString(data)), nil
}

// fetch читает байты по ссылке: файл напрямую, HTTP с ограничениями.
func (e *Base64Encoder) fetch(ctx context.Context, uri string) ([]byte, error) {
	switch {
	case strings.HasPrefix(uri, "file://"):
		return os.ReadFile(strings.TrimPrefix(uri, "file://"))
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		return e.download(ctx, uri)
	default:
		// Голый путь без схемы трактуем как файл.
		return os.ReadFile(uri)
	}
}

// download скачивает изображение по HTTP с проверкой типа и предела размера.
func (e *Base64Encoder) download(ctx context.Context, uri string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("unexpected content type: %s", contentType)
	}
	if resp.ContentLength > maxImageSize {
		return nil, fmt.Errorf("image too large: %d bytes", resp.ContentLength)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return data, nil
}

// stripDataPrefix срезает префикс вида data:image/jpeg;base64, из data-URI.
func stripDataPrefix(uri string) (entity.EncodedImage, error) {
	idx := strings.Index(uri, "base64,")
	if idx < 0 {
		return "", fmt.Errorf("%w: data URI without base64 payload", port.ErrEncoding)
	}
	payload := uri[idx+len("base64,"):]
	if payload == "" {
		return "", fmt.Errorf("%w: data URI payload is empty", port.ErrEncoding)
	}
	return entity.EncodedImage(payload), nil
}

// Проверка реализации интерфейса
var _ port.ImageEncoder = (*Base64Encoder)(nil)
