package entity

import "fmt"

const (
	DefaultEdgeLowCutoff  = 20  // нижний порог градиента для Canny
	DefaultEdgeHighCutoff = 150 // верхний порог градиента для Canny
	IntensityCutoff       = 150 // порог инвертированной бинаризации
	BlurKernelSize        = 5   // размер окна гауссова размытия

	ImageContourCutoff = 6 // контуров должно быть больше, чтобы фото прошло проверку
	VideoContourCutoff = 4 // то же для кадра видео
)

// Profile описывает единственные точки вариации конвейера.
type Profile struct {
	EdgeLowCutoff   float32
	EdgeHighCutoff  float32
	ContourCutoff   int
	AnnotateInFrame bool // подпись с вердиктом рисуется прямо на кадре
}

// ImageProfile возвращает профиль для фото с заданными порогами Canny.
func ImageProfile(low, high float32) Profile {
	return Profile{
		EdgeLowCutoff:  low,
		EdgeHighCutoff: high,
		ContourCutoff:  ImageContourCutoff,
	}
}

// VideoProfile возвращает фиксированный профиль для видео.
func VideoProfile() Profile {
	return Profile{
		EdgeLowCutoff:   DefaultEdgeLowCutoff,
		EdgeHighCutoff:  DefaultEdgeHighCutoff,
		ContourCutoff:   VideoContourCutoff,
		AnnotateInFrame: true,
	}
}

// Validate проверяет, что пороги лежат в диапазоне 0..255.
func (p Profile) Validate() error {
	if err := validateCutoff("low", p.EdgeLowCutoff); err != nil {
		return err
	}
	if err := validateCutoff("high", p.EdgeHighCutoff); err != nil {
		return err
	}
	if p.ContourCutoff < 0 {
		return fmt.Errorf("%w: contour cutoff %d is negative", ErrInvalidProfile, p.ContourCutoff)
	}
	return nil
}

func validateCutoff(name string, v float32) error {
	if v < 0 || v > 255 {
		return fmt.Errorf("%w: %s edge cutoff %.0f is out of range 0..255", ErrInvalidProfile, name, v)
	}
	return nil
}
