package entity

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegion_RectRoundTrip(t *testing.T) {
	r := Region{X: 3, Y: 4, Width: 64, Height: 128}
	require.Equal(t, r, RegionFromRect(r.Rect()))
	require.Equal(t, 64*128, r.Area())
}

func TestRegion_Clip(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 50)

	clipped := Region{X: 80, Y: -10, Width: 40, Height: 30}.Clip(bounds)
	require.Equal(t, Region{X: 80, Y: 0, Width: 20, Height: 20}, clipped)

	outside := Region{X: 200, Y: 200, Width: 10, Height: 10}.Clip(bounds)
	require.True(t, outside.Empty())
	require.Zero(t, outside.Area())
}
