package vision

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"vision-match/internal/domain/entity"
)

func TestFit_KeepsSmallImages(t *testing.T) {
	img := solid(100, 50, red)

	out, scale := Fit(img, 200)
	require.Same(t, img, out)
	require.Equal(t, 1.0, scale)

	out, scale = Fit(img, 0)
	require.Same(t, img, out)
	require.Equal(t, 1.0, scale)
}

func TestFit_Downscales(t *testing.T) {
	img := solid(400, 200, red)

	out, scale := Fit(img, 100)
	require.Equal(t, 0.25, scale)
	require.Equal(t, image.Rect(0, 0, 100, 50), out.Bounds())
}

func TestUnscale(t *testing.T) {
	r := Unscale(image.Rect(10, 20, 30, 60), 0.5, image.Pt(3, 4))
	require.Equal(t, entity.Region{X: 23, Y: 44, Width: 40, Height: 80}, r)
}

func TestCrop(t *testing.T) {
	img := solid(10, 10, red)
	img.Set(4, 4, color.RGBA{G: 255, A: 255})

	crop := Crop(img, entity.Region{X: 4, Y: 4, Width: 3, Height: 2})
	require.Equal(t, image.Rect(0, 0, 3, 2), crop.Bounds())
	require.Equal(t, color.RGBA{G: 255, A: 255}, crop.RGBAAt(0, 0))
	require.Equal(t, red, crop.RGBAAt(1, 0))
}
