package port

import "stripe-inspector/internal/domain/entity"

// PreviewSink принимает JPEG размеченных кадров для живого просмотра
type PreviewSink interface {
	Publish(path entity.FeaturePath, jpeg []byte)
}
