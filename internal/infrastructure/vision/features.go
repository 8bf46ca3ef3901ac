//go:build gocv
// +build gocv

package vision

import (
	"image"

	"gocv.io/x/gocv"

	"stripe-inspector/internal/domain/entity"
)

// ExtractFeatures строит по окну две бинарные карты: границы (Canny) и инвертированный порог.
func ExtractFeatures(region gocv.Mat, low, high float32, edges, binary *gocv.Mat) {
	gray := gocv.NewMat()
	defer gray.Close()
	toGray(region, &gray)

	// Подавляем шум сенсора перед поиском границ и порогом.
	blur := gocv.NewMat()
	defer blur.Close()
	ksize := image.Pt(entity.BlurKernelSize, entity.BlurKernelSize)
	gocv.GaussianBlur(gray, &blur, ksize, 0, 0, gocv.BorderDefault)

	gocv.Canny(blur, edges, low, high)

	// Включены пиксели темнее порога: полярность сохранена как есть.
	gocv.Threshold(blur, binary, entity.IntensityCutoff, 255, gocv.ThresholdBinaryInv)
}

func toGray(src gocv.Mat, dst *gocv.Mat) {
	switch src.Channels() {
	case 1:
		src.CopyTo(dst)
	case 4:
		gocv.CvtColor(src, dst, gocv.ColorBGRAToGray)
	default:
		gocv.CvtColor(src, dst, gocv.ColorBGRToGray)
	}
}
