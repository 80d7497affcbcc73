package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manybody/secondq/config"
	"github.com/manybody/secondq/errors"
	sqtesting "github.com/manybody/secondq/internal/testing"
	"github.com/manybody/secondq/store"
)

func TestDefaultSpacesBuildRegistry(t *testing.T) {
	reg, err := config.BuildRegistry(defaultSpaces())
	require.NoError(t, err)
	assert.Equal(t, 3, reg.NumSpaces())
	assert.True(t, reg.Overlaps("g", "o"))
	assert.True(t, reg.Overlaps("g", "v"))
	assert.False(t, reg.Overlaps("o", "v"))
}

func TestEngineFromConfigUsesLimits(t *testing.T) {
	cfg := &config.Config{}
	cfg.Engine.MaxWickTerms = 64
	cfg.Engine.MaxCanonicalCandidates = 8

	eng, err := engineFromConfig(cfg, false)
	require.NoError(t, err)
	assert.Equal(t, 64, eng.Limits().MaxWickTerms)
	assert.Equal(t, 8, eng.Limits().MaxCanonicalCandidates)
}

func TestConfigValueRoundTrip(t *testing.T) {
	cfg := &config.Config{}

	require.NoError(t, setConfigValue(cfg, "engine.workers", "4"))
	got, err := configValue(cfg, "engine.workers")
	require.NoError(t, err)
	assert.Equal(t, "4", got)

	require.NoError(t, setConfigValue(cfg, "archive.path", "/tmp/a.db"))
	got, err = configValue(cfg, "archive.path")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/a.db", got)

	require.NoError(t, setConfigValue(cfg, "log.json", "true"))
	assert.True(t, cfg.Log.JSON)
}

func TestSetConfigValueErrors(t *testing.T) {
	cfg := &config.Config{}

	err := setConfigValue(cfg, "engine.workers", "many")
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))

	err = setConfigValue(cfg, "no.such.key", "1")
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))

	_, err = configValue(cfg, "no.such.key")
	assert.True(t, errors.IsNotFoundError(err))
}

func TestArchiveRoundTripInMemory(t *testing.T) {
	db := sqtesting.CreateTestDB(t)
	s := store.NewDerivationStore(db)
	ctx := context.Background()

	saved, err := s.Save(ctx, &store.Derivation{
		Name:   "fock",
		Kind:   "normal",
		Input:  "{ a-(o0) a+(o1) }",
		Result: "delta^{o0}_{o1}",
	})
	require.NoError(t, err)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, saved.ID, list[0].ID)
}
