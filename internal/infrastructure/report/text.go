package report

import (
	"fmt"
	"strings"

	"stripe-inspector/internal/domain/entity"
	"stripe-inspector/internal/domain/port"
)

const (
	MsgPlaybackUnavailable = "Processing completed, but the playable format is unavailable: raw outputs still exist."
)

// TextDescriber пишет короткие отчёты для оператора.
type TextDescriber struct{}

func NewTextDescriber() *TextDescriber {
	return &TextDescriber{}
}

// DescribeImage возвращает вердикт фото и число контуров.
func (TextDescriber) DescribeImage(result *entity.ImageInspection) string {
	return fmt.Sprintf("%s (contours: %d, required: more than %d)",
		result.Message, result.ContourCount, entity.ImageContourCutoff)
}

// DescribeVideo возвращает сводку по обеим веткам.
func (TextDescriber) DescribeVideo(r *entity.VideoReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Run %s: %d frames at %.2f fps\n", r.RunID, r.Frames, r.FPS)
	writePath(&b, "Detections using the edges", r.Frames, r.Edges)
	writePath(&b, "Detections using the binary mask", r.Frames, r.Threshold)
	if r.PlaybackReady {
		fmt.Fprintf(&b, "Videos: %s, %s", r.Outputs.EdgesPlayable, r.Outputs.ThresholdPlayable)
	} else {
		fmt.Fprintf(&b, "%s\nRaw videos: %s, %s", MsgPlaybackUnavailable, r.Outputs.EdgesRaw, r.Outputs.ThresholdRaw)
	}
	return b.String()
}

func writePath(b *strings.Builder, title string, frames int, s entity.PathSummary) {
	fmt.Fprintf(b, "%s: stripe in %d/%d frames, contours mean %.1f ± %.1f, max %d\n",
		title, s.PresentFrames, frames, s.MeanContours, s.StdDevContours, s.MaxContours)
}

var _ port.ReportDescriber = (*TextDescriber)(nil)
