//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"errors"
	"log/slog"

	"stripe-inspector/internal/domain/entity"
	"stripe-inspector/internal/domain/port"
)

var errNoGoCV = errors.New("gocv build tag is not enabled")

// Analyzer заглушка конвейера для сборки без OpenCV.
type Analyzer struct {
	Codec   string
	preview port.PreviewSink
	logger  *slog.Logger
}

// NewAnalyzer создаёт конвейер-заглушку (без OpenCV).
func NewAnalyzer(codec string, preview port.PreviewSink, logger *slog.Logger) *Analyzer {
	return &Analyzer{Codec: codec, preview: preview, logger: logger}
}

// AnalyzeImage возвращает ошибку, если сборка без тега gocv.
func (a *Analyzer) AnalyzeImage(ctx context.Context, imageData []byte, profile entity.Profile) (*entity.ImageInspection, error) {
	_ = ctx
	_ = imageData
	_ = profile
	return nil, errNoGoCV
}

// ProcessVideo возвращает ошибку, если сборка без тега gocv.
func (a *Analyzer) ProcessVideo(ctx context.Context, inputPath string, outputs entity.VideoOutputs, profile entity.Profile, observe port.FrameObserver) (*entity.VideoRun, error) {
	_ = ctx
	_ = inputPath
	_ = outputs
	_ = profile
	_ = observe
	return nil, errNoGoCV
}

var _ port.StripeAnalyzer = (*Analyzer)(nil)
