package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	require.NoError(t, ValidateConfig(DefaultGameCompConfig()))
	assert.Equal(t, "UCONN Huskies", Config.TrackedTeam)
}

func TestLoadFileMissingUsesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultGameCompConfig().Seasons, cfg.Seasons)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gamecomp.toml")
	body := `
tracked_team = "Fordham"
current_season = 2026
prior_season_marker = "2025"
mirror_end = 50

[[seasons]]
year = 2026
location = "fall_2026.csv"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Fordham", cfg.TrackedTeam)
	assert.Equal(t, 2026, cfg.CurrentSeason)
	assert.Equal(t, 6, cfg.MirrorStart)
	assert.Equal(t, 50, cfg.MirrorEnd)
	require.Len(t, cfg.Seasons, 1)
	assert.Equal(t, "fall_2026.csv", cfg.Seasons[0].Location)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("GAMECOMP_DB_PATH", "/tmp/other.db")
	t.Setenv("GAMECOMP_TRACKED_TEAM", "Villanova")

	cfg, err := LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/other.db", cfg.DbPath)
	assert.Equal(t, "Villanova", cfg.TrackedTeam)
}

func TestValidateConfigRejectsBadValues(t *testing.T) {
	cfg := DefaultGameCompConfig()
	cfg.MirrorEnd = cfg.MirrorStart
	assert.Error(t, ValidateConfig(cfg))

	cfg = DefaultGameCompConfig()
	cfg.MeanLineMode = "sometimes"
	assert.Error(t, ValidateConfig(cfg))

	cfg = DefaultGameCompConfig()
	cfg.Seasons = nil
	assert.Error(t, ValidateConfig(cfg))
}

func TestSaveRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.toml")
	cfg := DefaultGameCompConfig()
	cfg.TrackedTeam = "Providence"
	require.NoError(t, Save(cfg, path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestUpdateConfigFillsMarker(t *testing.T) {
	prev := Config
	t.Cleanup(func() { Config = prev })

	cfg := DefaultGameCompConfig()
	cfg.CurrentSeason = 2030
	cfg.PriorSeasonMarker = ""
	UpdateConfig(cfg)
	assert.Equal(t, "2029", Config.PriorSeasonMarker)
	assert.Equal(t, 2030, GetCurrentSeason())
}
