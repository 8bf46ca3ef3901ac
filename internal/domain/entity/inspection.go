package entity

import "image"

// FeaturePath ветка признаков, по которой строится контурная карта.
type FeaturePath string

const (
	PathEdges     FeaturePath = "edges"  // карта границ (Canny)
	PathThreshold FeaturePath = "binary" // карта порога (инвертированная бинаризация)
)

// ImageInspection хранит итог анализа одного фото.
type ImageInspection struct {
	Cropped      []byte            `json:"cropped"`   // окно анализа, PNG
	Annotated    []byte            `json:"annotated"` // окно с контурами, PNG
	ContourCount int               `json:"contour_count"`
	Boxes        []image.Rectangle `json:"boxes"` // рамки найденных контуров в координатах окна
	Present      bool              `json:"present"`
	Message      string            `json:"message"`
}

// PathResult вердикт одной ветки для одного кадра.
type PathResult struct {
	ContourCount int  `json:"contour_count"`
	Present      bool `json:"present"`
}

// FrameVerdict вердикты обеих веток для кадра видео.
type FrameVerdict struct {
	Index     int        `json:"index"`
	Edges     PathResult `json:"edges"`
	Threshold PathResult `json:"binary"`
}

// VideoOutputs пути выходных файлов одного прогона.
type VideoOutputs struct {
	EdgesRaw          string `json:"edges_raw"`
	ThresholdRaw      string `json:"binary_raw"`
	EdgesPlayable     string `json:"edges_playable"`
	ThresholdPlayable string `json:"binary_playable"`
}

// VideoRun то, что вернул конвейер после прохода по видео.
type VideoRun struct {
	Frames   int
	FPS      float64
	Verdicts []FrameVerdict
}

// PathSummary сводка по одной ветке за весь прогон.
type PathSummary struct {
	PresentFrames  int     `json:"present_frames"`
	MeanContours   float64 `json:"mean_contours"`
	StdDevContours float64 `json:"stddev_contours"`
	MaxContours    int     `json:"max_contours"`
}

// VideoReport итог обработки видео для оператора.
type VideoReport struct {
	RunID         string       `json:"run_id"`
	Frames        int          `json:"frames"`
	FPS           float64      `json:"fps"`
	Edges         PathSummary  `json:"edges"`
	Threshold     PathSummary  `json:"binary"`
	Outputs       VideoOutputs `json:"outputs"`
	PlaybackReady bool         `json:"playback_ready"`
	PlaybackError string       `json:"playback_error,omitempty"`
}
