package pipeline

import (
	"fmt"

	"github.com/richard-senior/gamecomp/internal/logger"
	"github.com/richard-senior/gamecomp/pkg/config"
	"github.com/richard-senior/gamecomp/pkg/table"
)

// Options configures every stage of a run
type Options struct {
	Mapping       ColumnMapping
	Mirror        MirrorRange
	Derive        DeriveOptions
	Substitutions map[string]string
}

// OptionsFromConfig builds run options from the application configuration
func OptionsFromConfig(cfg *config.GameCompConfig) Options {
	return Options{
		Mapping: WyscoutTeamStats,
		Mirror:  MirrorRange{Start: cfg.MirrorStart, End: cfg.MirrorEnd},
		Derive: DeriveOptions{
			TrackedTeam:       cfg.TrackedTeam,
			CurrentSeason:     cfg.CurrentSeason,
			PriorSeasonMarker: cfg.PriorSeasonMarker,
		},
		Substitutions: DisplaySubstitutions,
	}
}

// Result is the enriched table plus everything noticed on the way
type Result struct {
	Table       *table.Table
	Diagnostics Diagnostics
}

// Run turns raw season exports, current season first, into the enriched
// per game table of the tracked team.
//
// Mirroring needs both teams' rows of a fixture next to each other, so it
// happens per season before the merge and before the team filter.
func Run(opts Options, seasons ...*table.Table) (*Result, error) {
	res := &Result{}
	if len(seasons) == 0 {
		return nil, fmt.Errorf("no seasons to process")
	}

	prepared := make([]*table.Table, len(seasons))
	for i, raw := range seasons {
		norm, warnings, err := Normalize(raw, opts.Mapping)
		if err != nil {
			return nil, fmt.Errorf("season %d: %w", i, err)
		}
		for _, w := range warnings {
			res.Diagnostics.Add(w)
		}
		mirrored, err := Mirror(norm, opts.Mirror)
		if err != nil {
			return nil, fmt.Errorf("season %d: %w", i, err)
		}
		logger.Debug(fmt.Sprintf("Season %d prepared:", i), mirrored.Len(), "rows", mirrored.Width(), "columns")
		prepared[i] = mirrored
	}

	merged, err := Merge(prepared...)
	if err != nil {
		return nil, err
	}
	logger.Info("Merged seasons:", merged.Len(), "rows")

	filtered, err := FilterTeam(merged, opts.Derive.TrackedTeam)
	if err != nil {
		return nil, err
	}
	if filtered.Len() == 0 {
		if guess, ok := SuggestTeam(merged, opts.Derive.TrackedTeam); ok {
			logger.Warn("No games found for", opts.Derive.TrackedTeam+", did you mean", guess+"?")
		} else {
			logger.Warn("No games found for", opts.Derive.TrackedTeam)
		}
	}

	snaked, err := SnakeCase(filtered)
	if err != nil {
		return nil, fmt.Errorf("snake case: %w", err)
	}

	enriched, issues, err := Derive(snaked, opts.Derive)
	if err != nil {
		return nil, err
	}
	res.Diagnostics.Add(issues...)
	for _, e := range issues {
		logger.Warn("Row problem:", e)
	}

	display, err := DisplayNames(enriched, opts.Substitutions)
	if err != nil {
		return nil, fmt.Errorf("display names: %w", err)
	}
	res.Table = display

	logger.Info("Enriched table ready:", display.Len(), "games", display.Width(), "columns")
	if !res.Diagnostics.Clean() {
		logger.Warn(fmt.Sprintf("%d row errors, %d warnings", len(res.Diagnostics.RowErrors), len(res.Diagnostics.Warnings)))
	}
	return res, nil
}
