package port

import "stripe-inspector/internal/domain/entity"

// ReportDescriber превращает результаты в текст для оператора
type ReportDescriber interface {
	DescribeImage(result *entity.ImageInspection) string
	DescribeVideo(report *entity.VideoReport) string
}
