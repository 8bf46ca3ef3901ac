//go:build gocv
// +build gocv

package vision

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"stripe-inspector/internal/domain/entity"
)

func square(r image.Rectangle) entity.Contour {
	return entity.Contour{
		r.Min,
		image.Pt(r.Min.X, r.Max.Y-1),
		image.Pt(r.Max.X-1, r.Max.Y-1),
		image.Pt(r.Max.X-1, r.Min.Y),
	}
}

func TestAnnotate_NoContoursNoCaption(t *testing.T) {
	region := grayFrame(t, entity.RegionHeight, entity.RegionWidth, 90)
	dst := gocv.NewMat()
	defer dst.Close()

	present := Annotate(region, nil, entity.ImageProfile(20, 150), &dst)

	require.False(t, present)
	require.Equal(t, region.ToBytes(), dst.ToBytes())
}

func TestAnnotate_DrawsOnCopy(t *testing.T) {
	region := grayFrame(t, entity.RegionHeight, entity.RegionWidth, 90)
	before := region.ToBytes()

	contours := []entity.Contour{square(image.Rect(10, 100, 50, 140))}
	dst := gocv.NewMat()
	defer dst.Close()
	present := Annotate(region, contours, entity.ImageProfile(20, 150), &dst)

	require.False(t, present)
	require.Equal(t, before, region.ToBytes())
	require.Equal(t, gocv.Vecb{0, 255, 0}, dst.GetVecbAt(100, 30))
	// Далеко от контура пиксели не тронуты.
	require.Equal(t, gocv.Vecb{90, 90, 90}, dst.GetVecbAt(400, 300))
}

func TestAnnotate_VerdictByCount(t *testing.T) {
	region := grayFrame(t, entity.RegionHeight, entity.RegionWidth, 90)
	var contours []entity.Contour
	for _, r := range blobPositions[:5] {
		contours = append(contours, square(r))
	}

	dst := gocv.NewMat()
	defer dst.Close()
	require.True(t, Annotate(region, contours, entity.VideoProfile(), &dst))
	require.False(t, Annotate(region, contours, entity.ImageProfile(20, 150), &dst))
	require.False(t, Annotate(region, contours[:4], entity.VideoProfile(), &dst))
}

func TestAnnotate_CaptionBurnedIn(t *testing.T) {
	region := grayFrame(t, entity.RegionHeight, entity.RegionWidth, 90)

	withCaption := gocv.NewMat()
	defer withCaption.Close()
	Annotate(region, nil, entity.VideoProfile(), &withCaption)

	require.NotEqual(t, region.ToBytes(), withCaption.ToBytes())
	// Подпись только в верхней части окна.
	require.Equal(t, gocv.Vecb{90, 90, 90}, withCaption.GetVecbAt(300, 175))
}
