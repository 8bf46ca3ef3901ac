package transcode

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"stripe-inspector/internal/domain/entity"
	"stripe-inspector/internal/domain/port"
)

// FFmpeg перекодирует сырые выходы в H.264, который играет браузер.
type FFmpeg struct {
	Binary string
	CRF    int
	Preset string
	logger *slog.Logger
}

// NewFFmpeg создаёт перекодировщик с параметрами libx264 по умолчанию.
func NewFFmpeg(binary string, logger *slog.Logger) *FFmpeg {
	if binary == "" {
		binary = "ffmpeg"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FFmpeg{
		Binary: binary,
		CRF:    23,
		Preset: "medium",
		logger: logger,
	}
}

// Transcode перекодирует inputPath в outputPath.
// Если outputPath уже есть, возвращает entity.ErrOutputExists и ничего не запускает.
func (f *FFmpeg) Transcode(ctx context.Context, inputPath, outputPath string) error {
	if _, err := os.Stat(outputPath); err == nil {
		return entity.ErrOutputExists
	}
	if _, err := os.Stat(inputPath); err != nil {
		return errors.Wrap(err, "transcode input")
	}

	args := f.args(inputPath, outputPath)
	cmd := exec.CommandContext(ctx, f.Binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	f.logger.Debug("running ffmpeg", "binary", f.Binary, "args", strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		// Недописанный файл не должен выглядеть как готовый результат.
		os.Remove(outputPath)
		return errors.Wrapf(err, "ffmpeg %s: %s", inputPath, lastLine(stderr.String()))
	}
	return nil
}

func (f *FFmpeg) args(inputPath, outputPath string) []string {
	return []string{
		"-i", inputPath,
		"-c:v", "libx264",
		"-crf", strconv.Itoa(f.CRF),
		"-preset", f.Preset,
		"-c:a", "aac",
		"-b:a", "192k",
		outputPath,
	}
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}

var _ port.Transcoder = (*FFmpeg)(nil)
