//go:build gocv
// +build gocv

package vision

import (
	"image"
	"image/color"
	"testing"

	"gocv.io/x/gocv"

	"stripe-inspector/internal/domain/entity"
)

// grayFrame создаёт трёхканальный кадр одного уровня серого.
func grayFrame(t *testing.T, rows, cols int, level uint8) gocv.Mat {
	t.Helper()
	v := float64(level)
	m := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(v, v, v, 0), rows, cols, gocv.MatTypeCV8UC3)
	t.Cleanup(func() { m.Close() })
	return m
}

func fillRect(m *gocv.Mat, r image.Rectangle, level uint8) {
	gocv.Rectangle(m, r, color.RGBA{R: level, G: level, B: level, A: 255}, -1)
}

// inRegion переводит прямоугольник из координат окна в координаты кадра.
func inRegion(r image.Rectangle) image.Rectangle {
	return r.Add(entity.RegionRect().Min)
}

// stripeFrame кадр 480x800 с прерывистой светлой полосой из шести штрихов внутри окна.
func stripeFrame(t *testing.T, withStripe bool) gocv.Mat {
	t.Helper()
	frame := grayFrame(t, 800, 480, 100)
	if !withStripe {
		return frame
	}
	for i := 0; i < 6; i++ {
		top := 20 + 65*i
		fillRect(&frame, inRegion(image.Rect(155, top, 195, top+40)), 240)
	}
	return frame
}

// blobPositions непересекающиеся квадраты 30x30 в координатах окна.
var blobPositions = []image.Rectangle{
	image.Rect(40, 40, 70, 70),
	image.Rect(150, 40, 180, 70),
	image.Rect(260, 40, 290, 70),
	image.Rect(40, 160, 70, 190),
	image.Rect(150, 160, 180, 190),
	image.Rect(260, 160, 290, 190),
	image.Rect(40, 280, 70, 310),
	image.Rect(150, 280, 180, 310),
	image.Rect(260, 280, 290, 310),
}

type memorySource struct {
	frames []gocv.Mat
	next   int
}

func (s *memorySource) Read(m *gocv.Mat) bool {
	if s.next >= len(s.frames) {
		return false
	}
	s.frames[s.next].CopyTo(m)
	s.next++
	return true
}

func (s *memorySource) Close() error { return nil }

type memorySink struct {
	frames [][]byte
	sizes  []image.Point
}

func (s *memorySink) Write(img gocv.Mat) error {
	s.frames = append(s.frames, img.ToBytes())
	s.sizes = append(s.sizes, image.Pt(img.Cols(), img.Rows()))
	return nil
}

func (s *memorySink) Close() error { return nil }

type previewRecorder struct {
	counts map[entity.FeaturePath]int
}

func (p *previewRecorder) Publish(path entity.FeaturePath, jpeg []byte) {
	if len(jpeg) > 0 {
		p.counts[path]++
	}
}
