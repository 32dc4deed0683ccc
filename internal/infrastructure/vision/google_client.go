// Package vision содержит клиент Google Cloud Vision REST API.
//
// Клиент делает ровно один сетевой запрос на вызов Analyze: повторы и
// сериализация параллельных вызовов — ответственность вызывающей стороны.
// Разнородный ответ сервиса нормализуется в канонический AnalysisResult:
// отсутствие любой категории аннотаций — это пустой срез, а не ошибка.
package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"lens-bot/internal/domain/entity"
	"lens-bot/internal/domain/port"
)

const (
	// annotatePath путь метода пакетной аннотации изображений.
	annotatePath = "/v1/images:annotate"

	// defaultTimeout таймаут HTTP-клиента на один запрос анализа.
	defaultTimeout = 30 * time.Second

	// Пределы количества результатов по категориям.
	maxLabels  = 10
	maxObjects = 10
	maxTexts   = 5
)

// GoogleClient клиент сервиса распознавания Google Cloud Vision.
type GoogleClient struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// NewGoogleClient создаёт клиент с ключом API и адресом сервиса.
func NewGoogleClient(apiKey, baseURL string) *GoogleClient {
	return &GoogleClient{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		apiKey:  apiKey,
		baseURL: baseURL,
	}
}

// --- Структуры запроса ---

type annotateRequest struct {
	Requests []imageRequest `json:"requests"`
}

type imageRequest struct {
	Image    imageContent `json:"image"`
	Features []feature    `json:"features"`
}

type imageContent struct {
	Content string `json:"content"`
}

type feature struct {
	Type       string `json:"type"`
	MaxResults int    `json:"maxResults"`
}

// --- Структуры ответа ---

type annotateResponse struct {
	Responses []imageResponse `json:"responses"`
	Error     *apiError       `json:"error,omitempty"`
}

type imageResponse struct {
	LabelAnnotations           []labelAnnotation  `json:"labelAnnotations,omitempty"`
	LocalizedObjectAnnotations []objectAnnotation `json:"localizedObjectAnnotations,omitempty"`
	TextAnnotations            []textAnnotation   `json:"textAnnotations,omitempty"`
	Error                      *apiError          `json:"error,omitempty"`
}

type labelAnnotation struct {
	Description string  `json:"description"`
	Score       float64 `json:"score"`
}

type objectAnnotation struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

type textAnnotation struct {
	Description string `json:"description"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Analyze отправляет изображение на распознавание и нормализует ответ.
// Три категории запрашиваются одним вызовом: метки, объекты и текст.
func (c *GoogleClient) Analyze(ctx context.Context, image entity.EncodedImage) (*entity.AnalysisResult, error) {
	body := annotateRequest{
		Requests: []imageRequest{{
			Image: imageContent{Content: string(image)},
			Features: []feature{
				{Type: "LABEL_DETECTION", MaxResults: maxLabels},
				{Type: "OBJECT_LOCALIZATION", MaxResults: maxObjects},
				{Type: "TEXT_DETECTION", MaxResults: maxTexts},
			},
		}},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	// Ключ уходит только в query-параметр и не должен попадать в ошибки и логи.
	endpoint := c.baseURL + annotatePath + "?key=" + url.QueryEscape(c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	startTime := time.Now()
	httpResp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)
	if err != nil {
		log.Debug().Dur("duration", duration).Msg("vision request failed")
		return nil, fmt.Errorf("%w: %v", port.ErrNetwork, sanitizeError(err))
	}
	defer httpResp.Body.Close()

	log.Debug().Int("statusCode", httpResp.StatusCode).Dur("duration", duration).Msg("vision response")

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", port.ErrNetwork, err)
	}

	if httpResp.StatusCode == http.StatusUnauthorized || httpResp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("%w: HTTP %d", port.ErrAuth, httpResp.StatusCode)
	}

	var resp annotateResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		// Непонятная схема не блокирует пользователя: считаем результат пустым.
		log.Warn().Err(err).Int("statusCode", httpResp.StatusCode).Msg("malformed vision response")
		return emptyResult(), nil
	}

	if resp.Error != nil {
		if resp.Error.Status == "UNAUTHENTICATED" || resp.Error.Status == "PERMISSION_DENIED" {
			return nil, fmt.Errorf("%w: %s", port.ErrAuth, resp.Error.Status)
		}
		return nil, fmt.Errorf("%w: vision API error %s (code %d)", port.ErrNetwork, resp.Error.Status, resp.Error.Code)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d", port.ErrNetwork, httpResp.StatusCode)
	}

	if len(resp.Responses) == 0 {
		log.Warn().Msg("vision response has no annotations block")
		return emptyResult(), nil
	}

	return normalize(resp.Responses[0]), nil
}

// normalize приводит разнородный ответ сервиса к каноническому результату.
func normalize(resp imageResponse) *entity.AnalysisResult {
	if resp.Error != nil {
		// Ошибка по конкретному изображению поглощается как пустой результат.
		log.Warn().Str("status", resp.Error.Status).Msg("vision returned per-image error")
		return emptyResult()
	}

	result := &entity.AnalysisResult{
		Objects: make([]string, 0, len(resp.LocalizedObjectAnnotations)),
		Labels:  make([]string, 0, len(resp.LabelAnnotations)),
	}

	for _, o := range resp.LocalizedObjectAnnotations {
		if o.Name != "" {
			result.Objects = append(result.Objects, o.Name)
		}
	}
	for _, l := range resp.LabelAnnotations {
		if l.Description != "" {
			result.Labels = append(result.Labels, l.Description)
		}
	}
	// Первая текстовая аннотация содержит весь распознанный текст целиком.
	if len(resp.TextAnnotations) > 0 {
		result.Text = resp.TextAnnotations[0].Description
	}

	return result
}

// emptyResult возвращает канонически пустой результат анализа.
func emptyResult() *entity.AnalysisResult {
	return &entity.AnalysisResult{
		Objects: []string{},
		Labels:  []string{},
	}
}

// sanitizeError убирает из сетевой ошибки URL запроса, в котором сидит ключ API.
func sanitizeError(err error) string {
	if urlErr, ok := err.(*url.Error); ok {
		return fmt.Sprintf("%s %s: %v", urlErr.Op, redactURL(urlErr.URL), urlErr.Err)
	}
	return err.Error()
}

// redactURL оставляет от адреса только хост и путь, без query-параметров.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}
	u.RawQuery = ""
	return u.String()
}

// Проверка реализации интерфейса
var _ port.ImageAnalyzer = (*GoogleClient)(nil)
