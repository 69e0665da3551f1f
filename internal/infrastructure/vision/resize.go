package vision

import (
	"image"

	"golang.org/x/image/draw"

	"vision-match/internal/domain/entity"
)

// Fit уменьшает изображение так, чтобы большая сторона не превышала maxSide.
// Возвращает новое изображение с началом в (0,0) и коэффициент масштаба.
func Fit(img image.Image, maxSide int) (image.Image, float64) {
	b := img.Bounds()
	if maxSide <= 0 || (b.Dx() <= maxSide && b.Dy() <= maxSide) {
		return img, 1
	}

	scale := float64(maxSide) / float64(max(b.Dx(), b.Dy()))
	w := max(1, int(float64(b.Dx())*scale))
	h := max(1, int(float64(b.Dy())*scale))

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst, scale
}

// Unscale переводит прямоугольник из координат уменьшенной копии в координаты оригинала.
func Unscale(r image.Rectangle, scale float64, origin image.Point) entity.Region {
	if scale <= 0 {
		scale = 1
	}
	return entity.RegionFromRect(image.Rect(
		origin.X+int(float64(r.Min.X)/scale),
		origin.Y+int(float64(r.Min.Y)/scale),
		origin.X+int(float64(r.Max.X)/scale),
		origin.Y+int(float64(r.Max.Y)/scale),
	))
}

// Crop копирует область в отдельный буфер с началом в (0,0).
func Crop(img image.Image, region entity.Region) *image.RGBA {
	rect := region.Rect().Intersect(img.Bounds())
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Copy(dst, image.Point{}, img, rect, draw.Src, nil)
	return dst
}
