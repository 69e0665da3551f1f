//go:build gocv
// +build gocv

package container

import (
	"testing"

	"github.com/stretchr/testify/require"

	"vision-match/config"
	"vision-match/internal/domain/entity"
	"vision-match/internal/infrastructure/storage"
)

func TestNew(t *testing.T) {
	cfg := config.Default()
	cfg.CandidateDir = t.TempDir()
	cfg.Match.Bins = "4,4,4"

	c, err := New(cfg, storage.NewMemorySessionStore(), nil)
	require.NoError(t, err)
	require.NotNil(t, c.Sessions)
	require.Equal(t, cfg.CandidateDir, c.SearchService.CandidateDir())
	require.Equal(t, entity.Bins{4, 4, 4}, c.Pipeline.Config().Bins)
}
