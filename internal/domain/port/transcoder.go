package port

import "context"

// Transcoder перекодирует сырое видео в формат, который играет браузер
type Transcoder interface {
	// Transcode возвращает entity.ErrOutputExists, если outputPath уже существует
	Transcode(ctx context.Context, inputPath, outputPath string) error
}
