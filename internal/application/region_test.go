package app

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"vision-match/internal/domain/entity"
)

func TestRegionDetector_TakesFirstRegion(t *testing.T) {
	img := outfit(100, 100, red, blue)
	det := &fakeDetector{}
	det.set(img,
		entity.Region{X: 10, Y: 10, Width: 20, Height: 40},
		entity.Region{X: 0, Y: 0, Width: 90, Height: 90},
	)

	region, ok := NewRegionDetector(det, nil).Detect(context.Background(), img)
	require.True(t, ok)
	require.Equal(t, entity.Region{X: 10, Y: 10, Width: 20, Height: 40}, region)
}

func TestRegionDetector_ClipsToImage(t *testing.T) {
	img := outfit(50, 50, red, blue)
	det := &fakeDetector{}
	det.set(img, entity.Region{X: 40, Y: -8, Width: 64, Height: 128})

	region, ok := NewRegionDetector(det, nil).Detect(context.Background(), img)
	require.True(t, ok)
	require.Equal(t, entity.Region{X: 40, Y: 0, Width: 10, Height: 50}, region)
}

func TestRegionDetector_Absent(t *testing.T) {
	img := outfit(50, 50, red, blue)
	ctx := context.Background()

	none := &fakeDetector{}
	none.set(img)
	_, err := NewRegionDetector(none, nil).Locate(ctx, img)
	require.ErrorIs(t, err, entity.ErrNoRegion)

	outside := &fakeDetector{}
	outside.set(img, entity.Region{X: 100, Y: 100, Width: 10, Height: 10}, entity.Region{Width: 10, Height: 10})
	_, ok := NewRegionDetector(outside, nil).Detect(ctx, img)
	require.False(t, ok)

	_, ok = NewRegionDetector(&fakeDetector{}, nil).Detect(ctx, image.NewRGBA(image.Rect(0, 0, 0, 0)))
	require.False(t, ok)
}

func TestRegionDetector_FailureIsNotAbsence(t *testing.T) {
	img := outfit(50, 50, red, blue)
	ctx := context.Background()

	failing := &fakeDetector{err: errors.New("model unavailable")}
	_, err := NewRegionDetector(failing, nil).Locate(ctx, img)
	require.ErrorContains(t, err, "model unavailable")
	require.NotErrorIs(t, err, entity.ErrNoRegion)

	_, err = NewRegionDetector(nil, nil).Locate(ctx, img)
	require.Error(t, err)
	require.NotErrorIs(t, err, entity.ErrNoRegion)

	logger, hook := test.NewNullLogger()
	_, ok := NewRegionDetector(failing, logger).Detect(ctx, img)
	require.False(t, ok)
	require.Len(t, hook.AllEntries(), 1)
	require.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestRegionDetector_DoesNotMutateImage(t *testing.T) {
	img := outfit(20, 20, red, blue)
	before := append([]uint8(nil), img.Pix...)

	_, ok := NewRegionDetector(&fakeDetector{}, nil).Detect(context.Background(), img)
	require.True(t, ok)
	require.Equal(t, before, img.Pix)
}
