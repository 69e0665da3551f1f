package vision

import (
	"image"
	"image/color"
	"math"
)

// Диапазоны каналов 8-битного HSV: H в [0,180), S и V в [0,256).
const (
	HueRange   = 180
	SatRange   = 256
	ValueRange = 256
)

// HSV переводит 8-битный цвет RGB в 8-битный HSV с тем же округлением, что и OpenCV.
func HSV(r, g, b uint8) (h, s, v uint8) {
	ri, gi, bi := int(r), int(g), int(b)
	vmax := max(ri, gi, bi)
	vmin := min(ri, gi, bi)
	diff := vmax - vmin

	if vmax == 0 {
		return 0, 0, 0
	}
	s = uint8(math.Floor(float64(diff)*255/float64(vmax) + 0.5))
	if diff == 0 {
		return 0, s, uint8(vmax)
	}

	var hp int
	switch vmax {
	case ri:
		hp = gi - bi
	case gi:
		hp = bi - ri + 2*diff
	default:
		hp = ri - gi + 4*diff
	}

	hf := math.Floor(float64(hp)*30/float64(diff) + 0.5)
	if hf < 0 {
		hf += HueRange
	}
	return uint8(hf), s, uint8(vmax)
}

// rgbAt читает 8-битный цвет пикселя, минуя color.Color для частых типов.
func rgbAt(img image.Image, x, y int) (r, g, b uint8) {
	switch m := img.(type) {
	case *image.RGBA:
		i := m.PixOffset(x, y)
		return m.Pix[i], m.Pix[i+1], m.Pix[i+2]
	case *image.NRGBA:
		i := m.PixOffset(x, y)
		return m.Pix[i], m.Pix[i+1], m.Pix[i+2]
	case *image.YCbCr:
		c := m.YCbCrAt(x, y)
		return color.YCbCrToRGB(c.Y, c.Cb, c.Cr)
	}
	cr, cg, cb, _ := img.At(x, y).RGBA()
	return uint8(cr >> 8), uint8(cg >> 8), uint8(cb >> 8)
}
