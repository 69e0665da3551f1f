//go:build !gocv
// +build !gocv

package container

import (
	"testing"

	"github.com/stretchr/testify/require"

	"vision-match/config"
	"vision-match/internal/infrastructure/storage"
	"vision-match/internal/infrastructure/vision"
)

func TestNewPipeline_RequiresGoCV(t *testing.T) {
	p, err := NewPipeline(config.Default())
	require.ErrorIs(t, err, vision.ErrGoCVDisabled)
	require.Nil(t, p)
}

func TestNew_RequiresGoCV(t *testing.T) {
	cfg := config.Default()
	cfg.CandidateDir = t.TempDir()

	c, err := New(cfg, storage.NewMemorySessionStore(), nil)
	require.ErrorIs(t, err, vision.ErrGoCVDisabled)
	require.Nil(t, c)
}

func TestNewPipeline_InvalidConfigReportedFirst(t *testing.T) {
	cfg := config.Default()
	cfg.Match.Metric = "euclid"

	_, err := NewPipeline(cfg)
	require.Error(t, err)
	require.NotErrorIs(t, err, vision.ErrGoCVDisabled)
}
