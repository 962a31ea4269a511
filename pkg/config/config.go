package config

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// SeasonSource is one season export to load
type SeasonSource struct {
	Year     int    `toml:"year"`
	Location string `toml:"location"` // file path or http(s) url
}

// GameCompConfig contains every tunable of the pipeline, the store and the report
type GameCompConfig struct {
	// === TRACKING ===
	TrackedTeam       string `toml:"tracked_team"`        // exact team name as it appears in the export
	CurrentSeason     int    `toml:"current_season"`      // season whose results get tagged
	PriorSeasonMarker string `toml:"prior_season_marker"` // label for games outside the current season

	// === SOURCES ===
	// listed current season first, this is the row order of the merged table
	Seasons []SeasonSource `toml:"seasons"`

	// === MIRRORING ===
	// [MirrorStart, MirrorEnd) column offsets of the statistics block in the export
	MirrorStart int `toml:"mirror_start"`
	MirrorEnd   int `toml:"mirror_end"`

	// === STORAGE ===
	DbPath string `toml:"db_path"`

	// === LOGGING ===
	LogLevel  string `toml:"log_level"`
	LogOutput string `toml:"log_output"` // console, file or both
	LogPath   string `toml:"log_path"`

	// === REPORT DEFAULTS ===
	DefaultXAxis string `toml:"default_x_axis"`
	DefaultYAxis string `toml:"default_y_axis"`
	MeanLineMode string `toml:"mean_line_mode"` // none, all or current
}

// DefaultGameCompConfig returns the default configuration
func DefaultGameCompConfig() *GameCompConfig {
	return &GameCompConfig{
		TrackedTeam:       "UCONN Huskies",
		CurrentSeason:     2025,
		PriorSeasonMarker: "2024",

		Seasons: []SeasonSource{
			{Year: 2025, Location: "data/team_stats_uconn_huskies_fall_2025.csv"},
			{Year: 2024, Location: "data/team_stats_uconn_huskies_fall_2024.csv"},
		},

		MirrorStart: 6,
		MirrorEnd:   109,

		DbPath: "gamecomp.db",

		LogLevel:  "info",
		LogOutput: "console",
		LogPath:   "",

		DefaultXAxis: "Final Third Entries",
		DefaultYAxis: "PPDA",
		MeanLineMode: "none",
	}
}

// Global configuration instance
var Config *GameCompConfig

func init() {
	Config = DefaultGameCompConfig()
}

// UpdateConfig replaces the global configuration
func UpdateConfig(newConfig *GameCompConfig) {
	if newConfig.PriorSeasonMarker == "" {
		newConfig.PriorSeasonMarker = strconv.Itoa(newConfig.CurrentSeason - 1)
	}
	Config = newConfig
}

// LoadFile reads a TOML file over the defaults and applies environment overrides.
// A missing file is not an error, the defaults are used.
func LoadFile(path string) (*GameCompConfig, error) {
	cfg := DefaultGameCompConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			// a file that lists seasons replaces the default list entirely
			cfg.Seasons = nil
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
			if cfg.Seasons == nil {
				cfg.Seasons = DefaultGameCompConfig().Seasons
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}
	applyEnv(cfg)
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Write encodes the configuration as TOML
func Write(w io.Writer, cfg *GameCompConfig) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// Save writes the configuration as TOML to path
func Save(cfg *GameCompConfig, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config %s: %w", path, err)
	}
	defer f.Close()
	if err := Write(f, cfg); err != nil {
		return err
	}
	return f.Close()
}

func applyEnv(cfg *GameCompConfig) {
	if v := os.Getenv("GAMECOMP_DB_PATH"); v != "" {
		cfg.DbPath = v
	}
	if v := os.Getenv("GAMECOMP_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("GAMECOMP_TRACKED_TEAM"); v != "" {
		cfg.TrackedTeam = v
	}
}

// === CONFIGURATION VALIDATION ===

// ValidateConfig ensures all configuration values are usable
func ValidateConfig(config *GameCompConfig) error {
	if config.TrackedTeam == "" {
		return fmt.Errorf("TrackedTeam must not be empty")
	}
	if config.CurrentSeason < 1900 || config.CurrentSeason > 2200 {
		return fmt.Errorf("CurrentSeason looks wrong, got: %d", config.CurrentSeason)
	}
	if config.MirrorStart < 0 || config.MirrorEnd <= config.MirrorStart {
		return fmt.Errorf("mirror range [%d, %d) is empty or negative", config.MirrorStart, config.MirrorEnd)
	}
	if len(config.Seasons) == 0 {
		return fmt.Errorf("at least one season must be configured")
	}
	for i, s := range config.Seasons {
		if s.Location == "" {
			return fmt.Errorf("season %d has no location", i)
		}
	}
	switch config.MeanLineMode {
	case "none", "all", "current":
	default:
		return fmt.Errorf("MeanLineMode must be none, all or current, got: %s", config.MeanLineMode)
	}
	switch config.LogOutput {
	case "console", "file", "both":
	default:
		return fmt.Errorf("LogOutput must be console, file or both, got: %s", config.LogOutput)
	}
	return nil
}

// LogOutputRune maps LogOutput onto the logger's output selector
func (c *GameCompConfig) LogOutputRune() rune {
	switch c.LogOutput {
	case "file":
		return 'f'
	case "both":
		return 'b'
	default:
		return 'c'
	}
}

// === HELPER FUNCTIONS FOR EASY ACCESS ===

// GetTrackedTeam returns the team whose games are kept
func GetTrackedTeam() string {
	return Config.TrackedTeam
}

// GetCurrentSeason returns the season whose results are tagged
func GetCurrentSeason() int {
	return Config.CurrentSeason
}
