package app

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"vision-match/internal/domain/entity"
	"vision-match/internal/infrastructure/vision"
)

func full(w, h int) entity.Region {
	return entity.Region{Width: w, Height: h}
}

func l2(values []float64) float64 {
	var s float64
	for _, v := range values {
		s += v * v
	}
	return math.Sqrt(s)
}

func TestSignatureExtractor_Deterministic(t *testing.T) {
	ext := NewSignatureExtractor(vision.NewNativeHistogram(), entity.DefaultBins, NormL2)
	img := outfit(40, 80, red, blue)

	a, ok := ext.Extract(img, full(40, 80))
	require.True(t, ok)
	b, ok := ext.Extract(img, full(40, 80))
	require.True(t, ok)

	require.Equal(t, a, b)
	require.Len(t, a.Values, 512)
	require.Equal(t, entity.DefaultBins, a.Bins)
}

func TestSignatureExtractor_ScaleInvariant(t *testing.T) {
	ext := NewSignatureExtractor(vision.NewNativeHistogram(), entity.DefaultBins, NormL2)

	small, ok := ext.Extract(outfit(10, 20, red, green), full(10, 20))
	require.True(t, ok)
	large, ok := ext.Extract(outfit(60, 120, red, green), full(60, 120))
	require.True(t, ok)

	require.InDeltaSlice(t, small.Values, large.Values, 1e-12)
	require.InDelta(t, 1.0, l2(small.Values), 1e-12)
	for _, v := range small.Values {
		require.GreaterOrEqual(t, v, 0.0)
	}
}

func TestSignatureExtractor_L1SumsToOne(t *testing.T) {
	ext := NewSignatureExtractor(vision.NewNativeHistogram(), entity.Bins{4, 4, 4}, NormL1)

	sig, ok := ext.Extract(outfit(13, 7, red, blue), full(13, 7))
	require.True(t, ok)
	require.Len(t, sig.Values, 64)

	var sum float64
	for _, v := range sig.Values {
		sum += v
	}
	require.InDelta(t, 1.0, sum, 1e-12)
}

func TestSignatureExtractor_Absent(t *testing.T) {
	ext := NewSignatureExtractor(vision.NewNativeHistogram(), entity.DefaultBins, NormL2)
	img := outfit(10, 10, red, blue)

	_, ok := ext.Extract(img, entity.Region{})
	require.False(t, ok)
	_, ok = ext.Extract(nil, full(10, 10))
	require.False(t, ok)

	_, err := NewSignatureExtractor(fakeHistogram{err: errors.New("boom")}, entity.DefaultBins, NormL2).Compute(img, full(10, 10))
	require.ErrorIs(t, err, entity.ErrNoSignature)

	_, err = NewSignatureExtractor(fakeHistogram{values: make([]float64, 512)}, entity.DefaultBins, NormL2).Compute(img, full(10, 10))
	require.ErrorIs(t, err, entity.ErrNoSignature)

	_, err = NewSignatureExtractor(fakeHistogram{values: []float64{1, 2}}, entity.DefaultBins, NormL2).Compute(img, full(10, 10))
	require.ErrorIs(t, err, entity.ErrNoSignature)

	negative := make([]float64, 8)
	negative[3] = -1
	_, err = NewSignatureExtractor(fakeHistogram{values: negative}, entity.Bins{2, 2, 2}, NormL2).Compute(img, full(10, 10))
	require.ErrorIs(t, err, entity.ErrNoSignature)
}

func TestParseNormalization(t *testing.T) {
	n, err := ParseNormalization("l1")
	require.NoError(t, err)
	require.Equal(t, NormL1, n)

	_, err = ParseNormalization("minmax")
	require.Error(t, err)
}
