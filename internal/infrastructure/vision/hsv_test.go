package vision

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHSV_PrimaryColors(t *testing.T) {
	cases := []struct {
		name    string
		r, g, b uint8
		h, s, v uint8
	}{
		{"black", 0, 0, 0, 0, 0, 0},
		{"white", 255, 255, 255, 0, 0, 255},
		{"gray", 128, 128, 128, 0, 0, 128},
		{"red", 255, 0, 0, 0, 255, 255},
		{"yellow", 255, 255, 0, 30, 255, 255},
		{"green", 0, 255, 0, 60, 255, 255},
		{"cyan", 0, 255, 255, 90, 255, 255},
		{"blue", 0, 0, 255, 120, 255, 255},
		{"magenta", 255, 0, 255, 150, 255, 255},
		{"dark red", 128, 0, 0, 0, 255, 128},
		{"pale", 200, 100, 100, 0, 128, 200},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, s, v := HSV(tc.r, tc.g, tc.b)
			require.Equal(t, tc.h, h, "hue")
			require.Equal(t, tc.s, s, "saturation")
			require.Equal(t, tc.v, v, "value")
		})
	}
}

func TestHSV_HueStaysInRange(t *testing.T) {
	for r := 0; r < 256; r += 15 {
		for g := 0; g < 256; g += 15 {
			for b := 0; b < 256; b += 15 {
				h, _, _ := HSV(uint8(r), uint8(g), uint8(b))
				require.Less(t, int(h), HueRange)
			}
		}
	}
}

func TestRgbAt_MatchesColorModel(t *testing.T) {
	c := color.RGBA{R: 10, G: 200, B: 30, A: 255}

	rgba := image.NewRGBA(image.Rect(0, 0, 2, 2))
	rgba.Set(1, 1, c)
	nrgba := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	nrgba.Set(1, 1, c)
	gray := image.NewGray(image.Rect(0, 0, 2, 2))
	gray.Set(1, 1, color.Gray{Y: 77})

	r, g, b := rgbAt(rgba, 1, 1)
	require.Equal(t, [3]uint8{10, 200, 30}, [3]uint8{r, g, b})
	r, g, b = rgbAt(nrgba, 1, 1)
	require.Equal(t, [3]uint8{10, 200, 30}, [3]uint8{r, g, b})
	r, g, b = rgbAt(gray, 1, 1)
	require.Equal(t, [3]uint8{77, 77, 77}, [3]uint8{r, g, b})
}
