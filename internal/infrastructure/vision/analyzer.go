//go:build gocv
// +build gocv

package vision

import (
	"context"
	"image"
	"log/slog"
	"math"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"stripe-inspector/internal/domain/entity"
	"stripe-inspector/internal/domain/port"
)

// Частота кадров, если источник её не сообщает.
const defaultFPS = 25

// frameSource то, из чего читаются кадры (*gocv.VideoCapture).
type frameSource interface {
	Read(m *gocv.Mat) bool
	Close() error
}

// frameSink то, куда пишутся размеченные окна (*gocv.VideoWriter).
type frameSink interface {
	Write(img gocv.Mat) error
	Close() error
}

// Analyzer реализует конвейер поиска полосы на OpenCV.
type Analyzer struct {
	Codec   string // FourCC выходных видео, например "mp4v"
	preview port.PreviewSink
	logger  *slog.Logger
}

// NewAnalyzer создаёт конвейер. preview может быть nil.
func NewAnalyzer(codec string, preview port.PreviewSink, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		Codec:   codec,
		preview: preview,
		logger:  logger,
	}
}

// AnalyzeImage анализирует одно фото по ветке границ.
func (a *Analyzer) AnalyzeImage(ctx context.Context, imageData []byte, profile entity.Profile) (*entity.ImageInspection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	frame, err := decodeToMat(imageData)
	defer frame.Close()
	if err != nil {
		return nil, err
	}

	region := gocv.NewMat()
	defer region.Close()
	if err := SelectRegion(frame, &region); err != nil {
		return nil, err
	}

	edges := gocv.NewMat()
	defer edges.Close()
	binary := gocv.NewMat()
	defer binary.Close()
	ExtractFeatures(region, profile.EdgeLowCutoff, profile.EdgeHighCutoff, &edges, &binary)

	contours := FindOuterContours(edges)
	annotated := gocv.NewMat()
	defer annotated.Close()
	present := Annotate(region, contours, profile, &annotated)

	cropped, err := encode(gocv.PNGFileExt, region)
	if err != nil {
		return nil, err
	}
	highlighted, err := encode(gocv.PNGFileExt, annotated)
	if err != nil {
		return nil, err
	}

	boxes := make([]image.Rectangle, 0, len(contours))
	for _, c := range contours {
		boxes = append(boxes, c.Bounds())
	}

	a.logger.Debug("image analyzed",
		"contours", len(contours),
		"cutoff", profile.ContourCutoff,
		"present", present,
	)

	return &entity.ImageInspection{
		Cropped:      cropped,
		Annotated:    highlighted,
		ContourCount: len(contours),
		Boxes:        boxes,
		Present:      present,
		Message:      entity.ImageMessage(present),
	}, nil
}

// ProcessVideo читает видео кадр за кадром и пишет два размеченных видео 350x450.
// Источник и оба выходных файла закрываются на любом пути выхода.
func (a *Analyzer) ProcessVideo(ctx context.Context, inputPath string, outputs entity.VideoOutputs, profile entity.Profile, observe port.FrameObserver) (*entity.VideoRun, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	capture, err := gocv.VideoCaptureFile(inputPath)
	if err != nil {
		if capture != nil {
			capture.Close()
		}
		return nil, &entity.SourceOpenError{Source: inputPath, Err: err}
	}
	defer capture.Close()

	// Проверяем размер до того, как что-либо откроется на запись.
	width := int(capture.Get(gocv.VideoCaptureFrameWidth))
	height := int(capture.Get(gocv.VideoCaptureFrameHeight))
	if width > 0 && height > 0 {
		if err := entity.CheckBounds(width, height); err != nil {
			return nil, err
		}
	}

	fps := capture.Get(gocv.VideoCaptureFPS)
	if fps <= 0 || math.IsNaN(fps) {
		fps = defaultFPS
	}

	edgesOut, err := a.openWriter(outputs.EdgesRaw, fps)
	if err != nil {
		return nil, err
	}
	defer edgesOut.Close()

	binaryOut, err := a.openWriter(outputs.ThresholdRaw, fps)
	if err != nil {
		return nil, err
	}
	defer binaryOut.Close()

	a.logger.Info("video processing started",
		"input", inputPath,
		"width", width,
		"height", height,
		"fps", fps,
	)

	verdicts, err := a.run(ctx, capture, edgesOut, binaryOut, profile, observe)
	if err != nil {
		return nil, err
	}

	return &entity.VideoRun{
		Frames:   len(verdicts),
		FPS:      fps,
		Verdicts: verdicts,
	}, nil
}

// run основной цикл. Конец потока или нечитаемый кадр завершают его без ошибки.
func (a *Analyzer) run(ctx context.Context, src frameSource, edgesOut, binaryOut frameSink, profile entity.Profile, observe port.FrameObserver) ([]entity.FrameVerdict, error) {
	frame := gocv.NewMat()
	defer frame.Close()

	verdicts := make([]entity.FrameVerdict, 0)
	for index := 0; ; index++ {
		if err := ctx.Err(); err != nil {
			return verdicts, errors.Wrapf(err, "stopped before frame %d", index)
		}
		if ok := src.Read(&frame); !ok || frame.Empty() {
			break
		}

		verdict, err := a.processFrame(index, frame, edgesOut, binaryOut, profile)
		if err != nil {
			return verdicts, errors.Wrapf(err, "frame %d", index)
		}
		verdicts = append(verdicts, verdict)

		a.logger.Debug("frame processed",
			"index", index,
			"edges_contours", verdict.Edges.ContourCount,
			"binary_contours", verdict.Threshold.ContourCount,
		)
		if observe != nil {
			observe(verdict)
		}
	}
	return verdicts, nil
}

func (a *Analyzer) processFrame(index int, frame gocv.Mat, edgesOut, binaryOut frameSink, profile entity.Profile) (entity.FrameVerdict, error) {
	verdict := entity.FrameVerdict{Index: index}

	region := gocv.NewMat()
	defer region.Close()
	if err := SelectRegion(frame, &region); err != nil {
		return verdict, err
	}

	edges := gocv.NewMat()
	defer edges.Close()
	binary := gocv.NewMat()
	defer binary.Close()
	ExtractFeatures(region, profile.EdgeLowCutoff, profile.EdgeHighCutoff, &edges, &binary)

	var err error
	verdict.Edges, err = a.emit(entity.PathEdges, region, edges, profile, edgesOut)
	if err != nil {
		return verdict, err
	}
	verdict.Threshold, err = a.emit(entity.PathThreshold, region, binary, profile, binaryOut)
	return verdict, err
}

// emit классифицирует одну карту, пишет размеченное окно в свой поток и в превью.
func (a *Analyzer) emit(path entity.FeaturePath, region, mask gocv.Mat, profile entity.Profile, sink frameSink) (entity.PathResult, error) {
	contours := FindOuterContours(mask)

	annotated := gocv.NewMat()
	defer annotated.Close()
	present := Annotate(region, contours, profile, &annotated)

	if err := sink.Write(annotated); err != nil {
		return entity.PathResult{}, errors.Wrapf(err, "write %s frame", path)
	}
	a.publishPreview(path, annotated)

	return entity.PathResult{ContourCount: len(contours), Present: present}, nil
}

func (a *Analyzer) publishPreview(path entity.FeaturePath, img gocv.Mat) {
	if a.preview == nil {
		return
	}
	data, err := encode(gocv.JPEGFileExt, img)
	if err != nil {
		a.logger.Warn("preview encode failed", "path", path, "error", err)
		return
	}
	a.preview.Publish(path, data)
}

func (a *Analyzer) openWriter(path string, fps float64) (*gocv.VideoWriter, error) {
	size := entity.RegionSize()
	writer, err := gocv.VideoWriterFile(path, a.Codec, fps, size.X, size.Y, true)
	if err != nil {
		return nil, errors.Wrapf(err, "open output %s", path)
	}
	if !writer.IsOpened() {
		writer.Close()
		return nil, errors.Errorf("output %s could not be opened with codec %s", path, a.Codec)
	}
	return writer, nil
}

// decodeToMat превращает байты изображения в gocv.Mat.
// Возвращённый Mat нужно закрыть и при ошибке.
func decodeToMat(imageData []byte) (gocv.Mat, error) {
	if len(imageData) == 0 {
		return gocv.NewMat(), &entity.SourceOpenError{Source: "image", Err: errors.New("empty image data")}
	}
	mat, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err != nil {
		mat.Close()
		return gocv.NewMat(), &entity.SourceOpenError{Source: "image", Err: err}
	}
	if mat.Empty() {
		mat.Close()
		return gocv.NewMat(), &entity.SourceOpenError{Source: "image", Err: errors.New("failed to decode image")}
	}
	return mat, nil
}

// encode кодирует Mat и копирует байты из нативного буфера.
func encode(ext gocv.FileExt, img gocv.Mat) ([]byte, error) {
	buf, err := gocv.IMEncode(ext, img)
	if err != nil {
		return nil, errors.Wrapf(err, "encode %s", ext)
	}
	defer buf.Close()
	return append([]byte(nil), buf.GetBytes()...), nil
}

// Проверка реализации интерфейса
var _ port.StripeAnalyzer = (*Analyzer)(nil)
