//go:build gocv
// +build gocv

package vision

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"stripe-inspector/internal/domain/entity"
)

func TestFindOuterContours_CountGrowsWithBlobs(t *testing.T) {
	prev := 0
	for k := 1; k <= len(blobPositions); k++ {
		region := grayFrame(t, entity.RegionHeight, entity.RegionWidth, 60)
		for _, r := range blobPositions[:k] {
			fillRect(&region, r, 230)
		}
		edges, _ := extract(t, region, 20, 150)

		count := len(FindOuterContours(edges))
		require.Greater(t, count, prev, "blobs=%d", k)
		prev = count
	}
}

func TestFindOuterContours_ThresholdBlobs(t *testing.T) {
	for k := 0; k <= len(blobPositions); k++ {
		region := grayFrame(t, entity.RegionHeight, entity.RegionWidth, 200)
		for _, r := range blobPositions[:k] {
			fillRect(&region, r, 40)
		}
		_, binary := extract(t, region, 20, 150)

		require.Len(t, FindOuterContours(binary), k)
	}
}

func TestFindOuterContours_TouchingBlobsMerge(t *testing.T) {
	region := grayFrame(t, entity.RegionHeight, entity.RegionWidth, 200)
	fillRect(&region, image.Rect(40, 40, 70, 70), 40)
	fillRect(&region, image.Rect(60, 40, 100, 70), 40)
	_, binary := extract(t, region, 20, 150)

	require.Len(t, FindOuterContours(binary), 1)
}

func TestFindOuterContours_ExternalOnly(t *testing.T) {
	mask := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), entity.RegionHeight, entity.RegionWidth, gocv.MatTypeCV8U)
	defer mask.Close()
	on := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	off := color.RGBA{A: 255}
	gocv.Rectangle(&mask, image.Rect(50, 50, 250, 250), on, -1)
	gocv.Rectangle(&mask, image.Rect(100, 100, 200, 200), off, -1)
	gocv.Rectangle(&mask, image.Rect(140, 140, 160, 160), on, -1)

	contours := FindOuterContours(mask)
	require.Len(t, contours, 1)

	// Прямоугольник сводится к четырём вершинам.
	require.Len(t, contours[0], 4)
	require.Equal(t, image.Rect(50, 50, 250, 250), contours[0].Bounds())
}

func TestFindOuterContours_EmptyMask(t *testing.T) {
	mask := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), entity.RegionHeight, entity.RegionWidth, gocv.MatTypeCV8U)
	defer mask.Close()
	require.Empty(t, FindOuterContours(mask))
}
