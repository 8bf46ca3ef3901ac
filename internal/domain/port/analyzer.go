package port

import (
	"context"

	"stripe-inspector/internal/domain/entity"
)

// FrameObserver получает вердикт каждого кадра в порядке исходного видео
type FrameObserver func(entity.FrameVerdict)

// StripeAnalyzer интерфейс конвейера поиска полосы
type StripeAnalyzer interface {
	// AnalyzeImage анализирует одно фото и возвращает вырезанное окно, окно с контурами и вердикт
	AnalyzeImage(ctx context.Context, imageData []byte, profile entity.Profile) (*entity.ImageInspection, error)

	// ProcessVideo проходит по всем кадрам видео и пишет два выходных видео
	ProcessVideo(ctx context.Context, inputPath string, outputs entity.VideoOutputs, profile entity.Profile, observe FrameObserver) (*entity.VideoRun, error)
}
