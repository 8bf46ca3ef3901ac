package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"stripe-inspector/internal/domain/entity"
	"stripe-inspector/internal/domain/port"
)

// InspectionService управляет проверкой фото и видео.
type InspectionService struct {
	analyzer   port.StripeAnalyzer
	transcoder port.Transcoder
	publisher  port.VerdictPublisher
	logger     *slog.Logger
}

// NewInspectionService создаёт сервис. transcoder и publisher могут быть nil.
func NewInspectionService(analyzer port.StripeAnalyzer, transcoder port.Transcoder, publisher port.VerdictPublisher, logger *slog.Logger) *InspectionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &InspectionService{
		analyzer:   analyzer,
		transcoder: transcoder,
		publisher:  publisher,
		logger:     logger,
	}
}

// InspectImage анализирует фото с порогами Canny, заданными оператором.
func (s *InspectionService) InspectImage(ctx context.Context, photo []byte, low, high float32) (*entity.ImageInspection, error) {
	if s.analyzer == nil {
		return nil, errors.New("analyzer is not configured")
	}

	profile := entity.ImageProfile(low, high)
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	result, err := s.analyzer.AnalyzeImage(ctx, photo, profile)
	if err != nil {
		return nil, fmt.Errorf("inspect image: %w", err)
	}

	s.logger.Info("image inspected",
		"contours", result.ContourCount,
		"present", result.Present,
		"low", low,
		"high", high,
	)
	return result, nil
}

// InspectVideo прогоняет видео через конвейер, перекодирует выходы и собирает отчёт.
// Ошибка перекодирования не делает прогон неудачным: сырые файлы остаются в отчёте.
func (s *InspectionService) InspectVideo(ctx context.Context, runID, inputPath string, outputs entity.VideoOutputs) (*entity.VideoReport, error) {
	if s.analyzer == nil {
		return nil, errors.New("analyzer is not configured")
	}

	logger := s.logger.With("run_id", runID)
	observe := func(v entity.FrameVerdict) {
		if s.publisher == nil {
			return
		}
		if err := s.publisher.PublishFrame(ctx, runID, v); err != nil {
			logger.Warn("frame verdict not published", "index", v.Index, "error", err)
		}
	}

	run, err := s.analyzer.ProcessVideo(ctx, inputPath, outputs, entity.VideoProfile(), observe)
	if err != nil {
		return nil, fmt.Errorf("inspect video: %w", err)
	}

	edges, threshold := Summarize(run.Verdicts)
	report := &entity.VideoReport{
		RunID:     runID,
		Frames:    run.Frames,
		FPS:       run.FPS,
		Edges:     edges,
		Threshold: threshold,
		Outputs:   outputs,
	}

	report.PlaybackReady, report.PlaybackError = s.makePlayable(ctx, logger, outputs)

	if s.publisher != nil {
		if err := s.publisher.PublishReport(ctx, report); err != nil {
			logger.Warn("video report not published", "error", err)
		}
	}

	logger.Info("video inspected",
		"frames", report.Frames,
		"edges_present", edges.PresentFrames,
		"binary_present", threshold.PresentFrames,
		"playback_ready", report.PlaybackReady,
	)
	return report, nil
}

// makePlayable перекодирует оба выхода, даже если первый не удался;
// уже существующий результат считается готовым.
func (s *InspectionService) makePlayable(ctx context.Context, logger *slog.Logger, outputs entity.VideoOutputs) (bool, string) {
	if s.transcoder == nil {
		return false, "transcoder is not configured"
	}

	pairs := [][2]string{
		{outputs.EdgesRaw, outputs.EdgesPlayable},
		{outputs.ThresholdRaw, outputs.ThresholdPlayable},
	}
	var failures []error
	for _, p := range pairs {
		err := s.transcoder.Transcode(ctx, p[0], p[1])
		switch {
		case err == nil:
		case errors.Is(err, entity.ErrOutputExists):
			logger.Info("file already exists, skipped conversion", "output", p[1])
		default:
			logger.Warn("playable conversion failed, raw output kept", "input", p[0], "error", err)
			failures = append(failures, fmt.Errorf("%s: %w", p[1], err))
		}
	}
	if len(failures) > 0 {
		return false, errors.Join(failures...).Error()
	}
	return true, ""
}
