//go:build gocv
// +build gocv

package vision

import (
	"gocv.io/x/gocv"

	"stripe-inspector/internal/domain/entity"
)

// SelectRegion копирует окно анализа кадра в dst.
// Кадр меньше окна даёт *entity.OutOfBoundsError, dst не трогается.
func SelectRegion(frame gocv.Mat, dst *gocv.Mat) error {
	if err := entity.CheckBounds(frame.Cols(), frame.Rows()); err != nil {
		return err
	}

	view := frame.Region(entity.RegionRect())
	defer view.Close()
	view.CopyTo(dst)
	return nil
}
