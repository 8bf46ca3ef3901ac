package storage

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"stripe-inspector/internal/domain/entity"
)

// Имена выходных файлов внутри каталога прогона.
const (
	EdgesRawName          = "contours_edges.mp4"
	ThresholdRawName      = "contours_binary.mp4"
	EdgesPlayableName     = "contours_edges_h264.mp4"
	ThresholdPlayableName = "contours_binary_h264.mp4"

	uploadsDir = "uploads"
)

// Namespace определяет, куда пишет каждый прогон.
type Namespace string

const (
	NamespaceFixed Namespace = "fixed" // все прогоны перезаписывают одни и те же файлы
	NamespaceRun   Namespace = "run"   // у каждого прогона свой каталог
)

// OutputLayout раскладывает выходные файлы и загрузки по каталогам.
type OutputLayout struct {
	Dir       string
	Namespace Namespace
}

// NewOutputLayout создаёт раскладку в каталоге dir.
func NewOutputLayout(dir string, ns Namespace) *OutputLayout {
	return &OutputLayout{Dir: dir, Namespace: ns}
}

// PerRun возвращает раскладку в том же каталоге, где у каждого прогона свой подкаталог.
// Ею пользуются фронтенды, принимающие загрузки: одновременные прогоны не делят файлы,
// а готовый H.264 одного прогона не выдаётся за результат другого.
func (l *OutputLayout) PerRun() *OutputLayout {
	return &OutputLayout{Dir: l.Dir, Namespace: NamespaceRun}
}

// NewRunID возвращает идентификатор нового прогона.
func NewRunID() string {
	return uuid.NewString()
}

// RunDir возвращает каталог прогона.
func (l *OutputLayout) RunDir(runID string) string {
	if l.Namespace == NamespaceRun {
		return filepath.Join(l.Dir, runID)
	}
	return l.Dir
}

// Prepare создаёт каталог прогона и возвращает пути выходных файлов.
func (l *OutputLayout) Prepare(runID string) (entity.VideoOutputs, error) {
	dir := l.RunDir(runID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return entity.VideoOutputs{}, errors.Wrapf(err, "create output dir %s", dir)
	}

	return entity.VideoOutputs{
		EdgesRaw:          filepath.Join(dir, EdgesRawName),
		ThresholdRaw:      filepath.Join(dir, ThresholdRawName),
		EdgesPlayable:     filepath.Join(dir, EdgesPlayableName),
		ThresholdPlayable: filepath.Join(dir, ThresholdPlayableName),
	}, nil
}

// Resolve возвращает путь к выходному файлу прогона, если имя допустимо.
func (l *OutputLayout) Resolve(runID, name string) (string, error) {
	switch name {
	case EdgesRawName, ThresholdRawName, EdgesPlayableName, ThresholdPlayableName:
	default:
		return "", errors.Errorf("unknown output %q", name)
	}
	if l.Namespace == NamespaceRun {
		if _, err := uuid.Parse(runID); err != nil {
			return "", errors.Wrapf(err, "invalid run id %q", runID)
		}
	}
	return filepath.Join(l.RunDir(runID), name), nil
}

// SaveUpload сохраняет загруженное видео во временный файл каталога uploads.
func (l *OutputLayout) SaveUpload(r io.Reader, filename string) (string, error) {
	dir := filepath.Join(l.Dir, uploadsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "create upload dir %s", dir)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".mp4"
	}
	path := filepath.Join(dir, uuid.NewString()+ext)

	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(err, "create upload file")
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", errors.Wrap(err, "write upload file")
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", errors.Wrap(err, "close upload file")
	}
	return path, nil
}
