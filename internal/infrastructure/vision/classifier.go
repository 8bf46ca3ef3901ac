//go:build gocv
// +build gocv

package vision

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"stripe-inspector/internal/domain/entity"
)

var (
	highlightColor = color.RGBA{G: 255, A: 255}
	captionColor   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	captionOrigin  = image.Pt(50, 50)
)

const (
	contourThickness = 2
	captionScale     = 0.5
	captionThickness = 2
)

// Annotate копирует окно в dst, обводит контуры и, если профиль просит, подписывает вердикт.
// Возвращает вердикт: контуров больше, чем profile.ContourCutoff.
func Annotate(region gocv.Mat, contours []entity.Contour, profile entity.Profile, dst *gocv.Mat) bool {
	region.CopyTo(dst)
	drawContours(dst, contours)

	present := entity.Classify(len(contours), profile.ContourCutoff)
	if profile.AnnotateInFrame {
		gocv.PutText(dst, entity.Caption(present), captionOrigin, gocv.FontHersheySimplex, captionScale, captionColor, captionThickness)
	}
	return present
}

func drawContours(img *gocv.Mat, contours []entity.Contour) {
	if len(contours) == 0 {
		return
	}

	points := make([][]image.Point, len(contours))
	for i, c := range contours {
		points[i] = c
	}
	vector := gocv.NewPointsVectorFromPoints(points)
	defer vector.Close()

	for i := range points {
		gocv.DrawContours(img, vector, i, highlightColor, contourThickness)
	}
}
