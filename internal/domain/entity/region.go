package entity

import "image"

// Окно анализа: фиксированный прямоугольник кадра, в котором ищется полоса.
const (
	RegionTop    = 300 // первая строка окна
	RegionLeft   = 70  // первый столбец окна
	RegionHeight = 450 // высота окна в пикселях
	RegionWidth  = 350 // ширина окна в пикселях
)

// RegionRect возвращает окно анализа в координатах исходного кадра.
func RegionRect() image.Rectangle {
	return image.Rect(RegionLeft, RegionTop, RegionLeft+RegionWidth, RegionTop+RegionHeight)
}

// RegionSize возвращает размер окна (он же размер выходных кадров).
func RegionSize() image.Point {
	return image.Pt(RegionWidth, RegionHeight)
}

// CheckBounds проверяет, что кадр width x height целиком содержит окно анализа.
func CheckBounds(width, height int) error {
	if width < RegionLeft+RegionWidth || height < RegionTop+RegionHeight {
		return &OutOfBoundsError{Width: width, Height: height}
	}
	return nil
}
