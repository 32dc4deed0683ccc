package container

import (
	app "lens-bot/internal/application"
	"lens-bot/internal/domain/port"
)

type Container struct {
	SessionService    *app.SessionService
	PermissionService *app.PermissionService
	CaptureService    *app.CaptureService
	AnalysisService   *app.AnalysisService
}

func New(sessionRepo port.SessionRepository, gate port.PermissionGate, camera port.Camera, encoder port.ImageEncoder, analyzer port.ImageAnalyzer) *Container {
	sessionService := app.NewSessionService(sessionRepo)
	permissionService := app.NewPermissionService(gate)
	captureService := app.NewCaptureService(sessionService, permissionService, camera)
	analysisService := app.NewAnalysisService(sessionService, captureService, encoder, analyzer)

	return &Container{
		SessionService:    sessionService,
		PermissionService: permissionService,
		CaptureService:    captureService,
		AnalysisService:   analysisService,
	}
}
