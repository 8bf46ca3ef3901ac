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

func extract(t *testing.T, region gocv.Mat, low, high float32) (gocv.Mat, gocv.Mat) {
	t.Helper()
	edges := gocv.NewMat()
	binary := gocv.NewMat()
	t.Cleanup(func() {
		edges.Close()
		binary.Close()
	})
	ExtractFeatures(region, low, high, &edges, &binary)
	return edges, binary
}

func TestExtractFeatures_FlatBrightRegion(t *testing.T) {
	region := grayFrame(t, entity.RegionHeight, entity.RegionWidth, 200)
	edges, binary := extract(t, region, 20, 150)

	require.Equal(t, entity.RegionHeight, edges.Rows())
	require.Equal(t, entity.RegionWidth, edges.Cols())
	require.Equal(t, entity.RegionHeight, binary.Rows())
	require.Equal(t, entity.RegionWidth, binary.Cols())

	require.Zero(t, gocv.CountNonZero(edges))
	require.Zero(t, gocv.CountNonZero(binary))
	require.Empty(t, FindOuterContours(edges))
	require.Empty(t, FindOuterContours(binary))
}

func TestExtractFeatures_ThresholdMarksDarkPixels(t *testing.T) {
	region := grayFrame(t, entity.RegionHeight, entity.RegionWidth, 100)
	edges, binary := extract(t, region, 20, 150)

	require.Zero(t, gocv.CountNonZero(edges))
	require.Equal(t, entity.RegionWidth*entity.RegionHeight, gocv.CountNonZero(binary))
	require.Len(t, FindOuterContours(binary), 1)
}

func TestExtractFeatures_Deterministic(t *testing.T) {
	region := grayFrame(t, entity.RegionHeight, entity.RegionWidth, 120)
	for i, r := range blobPositions {
		fillRect(&region, r, uint8(30+20*i))
	}
	fillRect(&region, image.Rect(100, 350, 300, 420), 230)

	edges1, binary1 := extract(t, region, 20, 150)
	edges2, binary2 := extract(t, region, 20, 150)

	require.NotZero(t, gocv.CountNonZero(edges1))
	require.Equal(t, edges1.ToBytes(), edges2.ToBytes())
	require.Equal(t, binary1.ToBytes(), binary2.ToBytes())
}

func TestExtractFeatures_AdjustableEdgeCutoffs(t *testing.T) {
	region := grayFrame(t, entity.RegionHeight, entity.RegionWidth, 100)
	fillRect(&region, image.Rect(100, 100, 200, 200), 120)

	soft, _ := extract(t, region, 10, 40)
	strict, _ := extract(t, region, 200, 255)

	require.NotZero(t, gocv.CountNonZero(soft))
	require.Zero(t, gocv.CountNonZero(strict))
}
