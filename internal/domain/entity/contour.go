package entity

import "image"

// Contour внешний контур связной области бинарной карты (только вершины смены направления).
type Contour []image.Point

// Bounds возвращает ограничивающий прямоугольник контура.
func (c Contour) Bounds() image.Rectangle {
	if len(c) == 0 {
		return image.Rectangle{}
	}
	r := image.Rectangle{Min: c[0], Max: c[0]}
	for _, p := range c[1:] {
		if p.X < r.Min.X {
			r.Min.X = p.X
		}
		if p.Y < r.Min.Y {
			r.Min.Y = p.Y
		}
		if p.X > r.Max.X {
			r.Max.X = p.X
		}
		if p.Y > r.Max.Y {
			r.Max.Y = p.Y
		}
	}
	// Max включительно для точек, делаем его исключающим как у image.Rectangle.
	r.Max = r.Max.Add(image.Pt(1, 1))
	return r
}
