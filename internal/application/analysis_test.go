package app

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"lens-bot/internal/domain/entity"
	"lens-bot/internal/domain/port"
	"lens-bot/internal/infrastructure/storage"
)

// fakeEncoder кодировщик для тестов.
type fakeEncoder struct {
	err   error
	calls int
}

func (e *fakeEncoder) Encode(ctx context.Context, image *entity.CapturedImage) (entity.EncodedImage, error) {
	e.calls++
	if e.err != nil {
		return "", e.err
	}
	return entity.EncodedImage("ZW5jb2RlZA=="), nil
}

// fakeAnalyzer распознаватель для тестов: считает запросы и даёт хук
// для действий, происходящих пока запрос «в полёте».
type fakeAnalyzer struct {
	result    *entity.AnalysisResult
	err       error
	calls     int
	onAnalyze func()
}

func (a *fakeAnalyzer) Analyze(ctx context.Context, image entity.EncodedImage) (*entity.AnalysisResult, error) {
	a.calls++
	if a.onAnalyze != nil {
		a.onAnalyze()
	}
	if a.err != nil {
		return nil, a.err
	}
	return a.result, nil
}

func newAnalysisFixture(encoder *fakeEncoder, analyzer *fakeAnalyzer) (*AnalysisService, *CaptureService) {
	sessions := NewSessionService(storage.NewMemorySessionRepository())
	permissions := NewPermissionService(&fakeGate{status: entity.PermissionGranted})
	captures := NewCaptureService(sessions, permissions, &fakeCamera{})
	return NewAnalysisService(sessions, captures, encoder, analyzer), captures
}

func previewingSession(t *testing.T, captures *CaptureService, uri string) *entity.Session {
	t.Helper()
	ctx := context.Background()

	session, err := captures.Session(ctx, 1, 10)
	require.NoError(t, err)
	require.NoError(t, captures.Adopt(ctx, session, &entity.CapturedImage{URI: uri}))
	return session
}

func TestAnalysisService_ObjectsResult(t *testing.T) {
	analyzer := &fakeAnalyzer{result: &entity.AnalysisResult{
		Objects: []string{"microwave"},
		Labels:  []string{},
	}}
	svc, captures := newAnalysisFixture(&fakeEncoder{}, analyzer)
	session := previewingSession(t, captures, "file://photo1.jpg")

	result, err := svc.Analyze(context.Background(), session)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Equal(t, entity.ModeObjects, result.Mode)
	require.Equal(t, []string{"microwave"}, result.Items)
	require.Equal(t, "file://photo1.jpg", result.SourceURI)

	// Успешный показ завершает передачу снимка: сессия снова готова.
	require.Equal(t, entity.StateIdle, session.State)
	require.Nil(t, session.Image)
	require.False(t, session.Analyzing)
}

func TestAnalysisService_LabelsFallback(t *testing.T) {
	analyzer := &fakeAnalyzer{result: &entity.AnalysisResult{
		Objects: []string{},
		Labels:  []string{"appliance", "kitchen"},
	}}
	svc, captures := newAnalysisFixture(&fakeEncoder{}, analyzer)
	session := previewingSession(t, captures, "file://photo2.jpg")

	result, err := svc.Analyze(context.Background(), session)
	require.NoError(t, err)
	require.Equal(t, entity.ModeLabels, result.Mode)
	require.Equal(t, []string{"appliance", "kitchen"}, result.Items)
}

func TestAnalysisService_NetworkErrorKeepsPreviewing(t *testing.T) {
	analyzer := &fakeAnalyzer{err: fmt.Errorf("%w: timeout", port.ErrNetwork)}
	svc, captures := newAnalysisFixture(&fakeEncoder{}, analyzer)
	session := previewingSession(t, captures, "file://photo1.jpg")

	result, err := svc.Analyze(context.Background(), session)
	require.ErrorIs(t, err, port.ErrNetwork)
	require.Nil(t, result)

	// Сессия не тронута: снимок остаётся в превью для повторной попытки.
	require.Equal(t, entity.StatePreviewing, session.State)
	require.NotNil(t, session.Image)
	require.False(t, session.Analyzing)
}

func TestAnalysisService_EncodingErrorKeepsPreviewing(t *testing.T) {
	encoder := &fakeEncoder{err: fmt.Errorf("%w: file is empty", port.ErrEncoding)}
	analyzer := &fakeAnalyzer{}
	svc, captures := newAnalysisFixture(encoder, analyzer)
	session := previewingSession(t, captures, "file://photo1.jpg")

	_, err := svc.Analyze(context.Background(), session)
	require.ErrorIs(t, err, port.ErrEncoding)
	require.Equal(t, entity.StatePreviewing, session.State)
	require.Equal(t, 0, analyzer.calls)
}

func TestAnalysisService_RejectsSecondCallInFlight(t *testing.T) {
	analyzer := &fakeAnalyzer{result: &entity.AnalysisResult{Objects: []string{"cup"}, Labels: []string{}}}
	svc, captures := newAnalysisFixture(&fakeEncoder{}, analyzer)
	session := previewingSession(t, captures, "file://photo1.jpg")
	ctx := context.Background()

	// Пока первый запрос в полёте, повторный вызов отклоняется сразу.
	analyzer.onAnalyze = func() {
		_, err := svc.Analyze(ctx, session)
		require.ErrorIs(t, err, ErrAnalysisPending)
	}

	_, err := svc.Analyze(ctx, session)
	require.NoError(t, err)
	require.Equal(t, 1, analyzer.calls)
}

func TestAnalysisService_NoPreview(t *testing.T) {
	svc, captures := newAnalysisFixture(&fakeEncoder{}, &fakeAnalyzer{})
	ctx := context.Background()

	session, err := captures.Session(ctx, 1, 10)
	require.NoError(t, err)

	_, err = svc.Analyze(ctx, session)
	require.ErrorIs(t, err, ErrNoPreview)
}

func TestAnalysisService_StaleResultDiscarded(t *testing.T) {
	replacement := &entity.CapturedImage{URI: "file://photo2.jpg"}
	analyzer := &fakeAnalyzer{result: &entity.AnalysisResult{Objects: []string{"cup"}, Labels: []string{}}}
	svc, captures := newAnalysisFixture(&fakeEncoder{}, analyzer)
	session := previewingSession(t, captures, "file://photo1.jpg")

	// Пока запрос в полёте, снимок в сессии заменяется другим.
	analyzer.onAnalyze = func() {
		session.Image = replacement
	}

	result, err := svc.Analyze(context.Background(), session)
	require.NoError(t, err)
	require.Nil(t, result)

	// Поздний результат отброшен, новый снимок остался в превью.
	require.Equal(t, entity.StatePreviewing, session.State)
	require.Equal(t, replacement, session.Image)
}
