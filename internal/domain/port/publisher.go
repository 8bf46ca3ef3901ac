package port

import (
	"context"

	"stripe-inspector/internal/domain/entity"
)

// VerdictPublisher рассылает вердикты внешним потребителям
type VerdictPublisher interface {
	PublishFrame(ctx context.Context, runID string, verdict entity.FrameVerdict) error
	PublishReport(ctx context.Context, report *entity.VideoReport) error
}
