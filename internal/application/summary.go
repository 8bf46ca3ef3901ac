package app

import (
	"gonum.org/v1/gonum/stat"

	"stripe-inspector/internal/domain/entity"
)

// Summarize сводит вердикты кадров в статистику по каждой ветке.
func Summarize(verdicts []entity.FrameVerdict) (edges, threshold entity.PathSummary) {
	edgeCounts := make([]float64, 0, len(verdicts))
	binaryCounts := make([]float64, 0, len(verdicts))
	for _, v := range verdicts {
		edgeCounts = append(edgeCounts, float64(v.Edges.ContourCount))
		binaryCounts = append(binaryCounts, float64(v.Threshold.ContourCount))
		accumulate(&edges, v.Edges)
		accumulate(&threshold, v.Threshold)
	}

	edges.MeanContours, edges.StdDevContours = meanStdDev(edgeCounts)
	threshold.MeanContours, threshold.StdDevContours = meanStdDev(binaryCounts)
	return edges, threshold
}

func accumulate(s *entity.PathSummary, r entity.PathResult) {
	if r.Present {
		s.PresentFrames++
	}
	if r.ContourCount > s.MaxContours {
		s.MaxContours = r.ContourCount
	}
}

func meanStdDev(xs []float64) (float64, float64) {
	switch len(xs) {
	case 0:
		return 0, 0
	case 1:
		return xs[0], 0
	}
	return stat.MeanStdDev(xs, nil)
}
