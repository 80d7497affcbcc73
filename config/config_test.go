package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manybody/secondq/errors"
	"github.com/manybody/secondq/space"
)

func TestLoadDefaults(t *testing.T) {
	// Run from an empty directory so no project file is picked up.
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1<<20, cfg.Engine.MaxWickTerms)
	assert.Equal(t, 1<<16, cfg.Engine.MaxCanonicalCandidates)
	assert.Equal(t, 0, cfg.Engine.Workers)
	assert.Equal(t, "secondq.db", cfg.Archive.Path)
	assert.Equal(t, 0, cfg.Log.Verbosity)
	assert.False(t, cfg.Log.JSON)
	assert.Empty(t, cfg.Spaces)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SECONDQ_ENGINE_WORKERS", "7")
	t.Setenv("SECONDQ_ARCHIVE_PATH", "/tmp/other.db")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Engine.Workers)
	assert.Equal(t, "/tmp/other.db", cfg.Archive.Path)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(`
[engine]
max_wick_terms = 128

[[spaces]]
label = "o"
statistics = "fermion"
occupation = "occupied"
stems = ["i", "j"]
`), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 128, cfg.Engine.MaxWickTerms)
	assert.Equal(t, 1<<16, cfg.Engine.MaxCanonicalCandidates, "defaults fill unset keys")
	require.Len(t, cfg.Spaces, 1)
	assert.Equal(t, "o", cfg.Spaces[0].Label)
}

func TestFindProjectConfigWalksUpward(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileName), []byte("[engine]\nworkers = 3\n"), 0644))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))
	t.Chdir(nested)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Engine.Workers)
}

func TestSaveRotatesBackups(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)

	for i := 0; i < 5; i++ {
		cfg := &Config{Engine: EngineConfig{Workers: i}}
		require.NoError(t, Save(path, cfg))
	}

	// Four writes onto an existing file produce three rotated backups.
	for _, suffix := range []string{".back1", ".back2", ".back3"} {
		_, err := os.Stat(path + suffix)
		assert.NoError(t, err, "expected backup %s", suffix)
	}

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Engine.Workers)

	back1, err := LoadFromFile(path + ".back1")
	require.NoError(t, err)
	assert.Equal(t, 3, back1.Engine.Workers, ".back1 holds the previous version")
}

func TestWatcherFiresOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, Save(path, &Config{Engine: EngineConfig{Workers: 1}}))

	w, err := NewWatcher(path)
	require.NoError(t, err)
	defer w.Stop()

	reloaded := make(chan *Config, 1)
	w.OnReload(func(cfg *Config) error {
		select {
		case reloaded <- cfg:
		default:
		}
		return nil
	})
	w.Start()

	// An external write (not through Save) must trigger a reload after
	// the debounce window.
	require.NoError(t, os.WriteFile(path, []byte("[engine]\nworkers = 9\n"), 0644))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, 9, cfg.Engine.Workers)
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not fire within debounce window")
	}
}

func TestWatcherSuppressesOwnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, Save(path, &Config{Engine: EngineConfig{Workers: 1}}))

	w, err := NewWatcher(path)
	require.NoError(t, err)
	defer w.Stop()

	reloaded := make(chan *Config, 1)
	w.OnReload(func(cfg *Config) error {
		reloaded <- cfg
		return nil
	})
	w.Start()

	require.NoError(t, Save(path, &Config{Engine: EngineConfig{Workers: 2}}))

	select {
	case <-reloaded:
		t.Fatal("reload fired for our own write")
	case <-time.After(time.Second):
	}
}

func TestBuildRegistry(t *testing.T) {
	spaces := []SpaceConfig{
		{Label: "o", Statistics: "fermion", Occupation: "occupied", Stems: []string{"i", "j"}},
		{Label: "v", Statistics: "fermion", Occupation: "unoccupied", Stems: []string{"a", "b"}},
		{Label: "a", Statistics: "fermion", Occupation: "general", Stems: []string{"u"}, Elementary: []string{"o", "v"}},
	}
	reg, err := BuildRegistry(spaces)
	require.NoError(t, err)
	assert.Equal(t, 3, reg.NumSpaces())
	assert.True(t, reg.Overlaps("a", "o"))

	sp, ok := reg.Space("o")
	require.True(t, ok)
	assert.Equal(t, space.Occupied, sp.Occupation)
}

func TestBuildRegistryErrors(t *testing.T) {
	tests := []struct {
		name   string
		spaces []SpaceConfig
	}{
		{"bad statistics", []SpaceConfig{{Label: "o", Statistics: "weird", Occupation: "occupied", Stems: []string{"i"}}}},
		{"bad occupation", []SpaceConfig{{Label: "o", Statistics: "fermion", Occupation: "weird", Stems: []string{"i"}}}},
		{"no stems", []SpaceConfig{{Label: "o", Statistics: "fermion", Occupation: "occupied"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildRegistry(tt.spaces)
			require.Error(t, err)
			assert.True(t, errors.IsConfigurationError(err))
		})
	}
}

func TestLoadModel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ccsd.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
name = "ccsd-doubles"

[[spaces]]
label = "o"
statistics = "fermion"
occupation = "occupied"
stems = ["i", "j"]

[[spaces]]
label = "v"
statistics = "fermion"
occupation = "unoccupied"
stems = ["a", "b"]

[[operators]]
name = "T"
patterns = ["v+ v+ o o"]
antisymmetric = true

[[operators]]
name = "F"
patterns = ["o+ o", "v+ v"]

[derivation]
kind = "bch"
left = "F"
right = "T"
order = 2
`), 0644))

	m, err := LoadModel(path)
	require.NoError(t, err)
	assert.Equal(t, "ccsd-doubles", m.Name)
	assert.Len(t, m.Spaces, 2)
	assert.Len(t, m.Operators, 2)
	assert.Equal(t, DeriveBCH, m.Derivation.Kind)
	assert.Equal(t, 2, m.Derivation.Order)
}

func TestModelValidation(t *testing.T) {
	base := Model{
		Spaces:    []SpaceConfig{{Label: "o", Statistics: "fermion", Occupation: "occupied", Stems: []string{"i"}}},
		Operators: []OperatorDef{{Name: "T", Patterns: []string{"o+ o"}}},
	}

	tests := []struct {
		name   string
		mutate func(*Model)
	}{
		{"no spaces", func(m *Model) { m.Spaces = nil; m.Derivation = DerivationDef{Kind: DeriveNormal, Expression: "1"} }},
		{"unknown kind", func(m *Model) { m.Derivation = DerivationDef{Kind: "magic"} }},
		{"normal without expression", func(m *Model) { m.Derivation = DerivationDef{Kind: DeriveNormal} }},
		{"bch missing operator", func(m *Model) { m.Derivation = DerivationDef{Kind: DeriveBCH, Left: "T", Right: "X", Order: 1} }},
		{"bch negative order", func(m *Model) { m.Derivation = DerivationDef{Kind: DeriveBCH, Left: "T", Right: "T", Order: -1} }},
		{"duplicate operator", func(m *Model) {
			m.Operators = append(m.Operators, OperatorDef{Name: "T", Patterns: []string{"o+ o"}})
			m.Derivation = DerivationDef{Kind: DeriveNormal, Expression: "1"}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := base
			tt.mutate(&m)
			err := m.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsConfigurationError(err))
		})
	}
}
