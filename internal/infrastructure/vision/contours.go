//go:build gocv
// +build gocv

package vision

import (
	"gocv.io/x/gocv"

	"stripe-inspector/internal/domain/entity"
)

// FindOuterContours возвращает только внешние контуры включённых областей маски.
func FindOuterContours(mask gocv.Mat) []entity.Contour {
	found := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer found.Close()

	contours := make([]entity.Contour, 0, found.Size())
	for _, points := range found.ToPoints() {
		contours = append(contours, entity.Contour(points))
	}
	return contours
}
