package entity

import "image"

// Region прямоугольная область изображения, в которой предположительно находится человек.
// Координаты заданы в системе координат исходного изображения.
type Region struct {
	X      int `json:"x"`      // координата X левого верхнего угла
	Y      int `json:"y"`      // координата Y левого верхнего угла
	Width  int `json:"width"`  // ширина области в пикселях
	Height int `json:"height"` // высота области в пикселях
}

// RegionFromRect создаёт Region из image.Rectangle.
func RegionFromRect(r image.Rectangle) Region {
	r = r.Canon()
	return Region{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// Rect возвращает область как image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Area площадь области в пикселях.
func (r Region) Area() int {
	if r.Empty() {
		return 0
	}
	return r.Width * r.Height
}

// Empty сообщает, что область не содержит ни одного пикселя.
func (r Region) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Clip обрезает область по границам изображения.
func (r Region) Clip(bounds image.Rectangle) Region {
	return RegionFromRect(r.Rect().Intersect(bounds))
}
