package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrOutputExists файл для воспроизведения уже существует, перекодирование пропущено.
	ErrOutputExists = errors.New("output already exists")
	// ErrInvalidProfile пороги вне допустимого диапазона.
	ErrInvalidProfile = errors.New("invalid inspection profile")
)

// SourceOpenError входное видео или изображение не удалось открыть или декодировать.
type SourceOpenError struct {
	Source string
	Err    error
}

func (e *SourceOpenError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("source %q could not be opened", e.Source)
	}
	return fmt.Sprintf("source %q could not be opened: %v", e.Source, e.Err)
}

func (e *SourceOpenError) Unwrap() error {
	return e.Err
}

// OutOfBoundsError кадр меньше, чем окно анализа со смещением.
type OutOfBoundsError struct {
	Width  int
	Height int
}

func (e *OutOfBoundsError) Error() string {
	r := RegionRect()
	return fmt.Sprintf("frame %dx%d does not contain region %dx%d at (%d,%d): need at least %dx%d",
		e.Width, e.Height, RegionWidth, RegionHeight, r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
}
