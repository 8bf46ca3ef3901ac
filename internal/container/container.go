package container

import (
	"log/slog"

	app "stripe-inspector/internal/application"
	"stripe-inspector/internal/domain/port"
)

type Container struct {
	UserService       *app.UserService
	InspectionService *app.InspectionService
	Describer         port.ReportDescriber
}

// New собирает сервисы приложения. transcoder и publisher могут быть nil.
func New(
	userRepo port.UserRepository,
	analyzer port.StripeAnalyzer,
	transcoder port.Transcoder,
	publisher port.VerdictPublisher,
	describer port.ReportDescriber,
	logger *slog.Logger,
) *Container {
	userService := app.NewUserService(userRepo)
	inspectionService := app.NewInspectionService(analyzer, transcoder, publisher, logger)

	return &Container{
		UserService:       userService,
		InspectionService: inspectionService,
		Describer:         describer,
	}
}
