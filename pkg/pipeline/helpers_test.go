package pipeline

import (
	"testing"

	"github.com/richard-senior/gamecomp/pkg/table"
	"github.com/stretchr/testify/require"
)

// exportHeader mirrors the first columns of the team statistics export,
// blank cells are the positional sub-columns of "Shots / on target"
var exportHeader = []string{
	"Date", "Match", "Competition", "Duration", "Team", "Scheme",
	"Goals", "xG", "Shots / on target", "", "", "Conceded goals", "PPDA",
}

func season2025(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.FromRecords(exportHeader, [][]string{
		{"2025-09-01", "UCONN Huskies - Fordham 2:1", "NCAA", "96", "UCONN Huskies", "4-3-3", "2", "1.5", "10", "5", "50", "1", "8.2"},
		{"2025-09-01", "UCONN Huskies - Fordham 2:1", "NCAA", "96", "Fordham", "4-4-2", "1", "0.6", "6", "2", "33.33", "2", "12.1"},
		{"2025-09-08", "Villanova - UCONN Huskies 1:1", "NCAA", "94", "Villanova", "3-5-2", "1", "0.9", "7", "3", "42.86", "1", "9.4"},
		{"2025-09-08", "Villanova - UCONN Huskies 1:1", "NCAA", "94", "UCONN Huskies", "4-3-3", "1", "1.1", "9", "4", "44.44", "1", "7.7"},
	})
	require.NoError(t, err)
	return tbl
}

func season2024(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.FromRecords(exportHeader, [][]string{
		{"2024-09-05", "UCONN Huskies - Providence 0:2", "NCAA", "95", "UCONN Huskies", "4-3-3", "0", "0.4", "4", "1", "25", "2", "10.5"},
		{"2024-09-05", "UCONN Huskies - Providence 0:2", "NCAA", "95", "Providence", "4-2-3-1", "2", "1.8", "12", "6", "50", "0", "6.3"},
	})
	require.NoError(t, err)
	return tbl
}

func testOptions() Options {
	return Options{
		Mapping: WyscoutTeamStats,
		Mirror:  DefaultMirrorRange,
		Derive: DeriveOptions{
			TrackedTeam:       "UCONN Huskies",
			CurrentSeason:     2025,
			PriorSeasonMarker: "2024",
		},
		Substitutions: DisplaySubstitutions,
	}
}

func colStrings(t *testing.T, tbl *table.Table, name string) []string {
	t.Helper()
	c, ok := tbl.Column(name)
	require.True(t, ok, "column %q missing from %v", name, tbl.ColumnNames())
	return c.Strings()
}
