package pipeline

import (
	"github.com/richard-senior/gamecomp/pkg/table"
	"github.com/richard-senior/gamecomp/pkg/util"
)

// teamColumns are the names the team column goes by before and after snake casing
var teamColumns = []string{"Team", "team"}

// FilterTeam keeps the rows whose team equals team exactly, in order.
// No match gives an empty table, which is a valid result.
func FilterTeam(t *table.Table, team string) (*table.Table, error) {
	col, err := findColumn(t, "filter", teamColumns...)
	if err != nil {
		return nil, err
	}
	var rows []int
	for i := 0; i < col.Len(); i++ {
		if s, ok := col.Value(i).Text(); ok && s == team {
			rows = append(rows, i)
		}
	}
	return t.SelectRows(rows), nil
}

// SuggestTeam returns the team in t whose name is closest to team, to help
// with a tracked team that matched nothing
func SuggestTeam(t *table.Table, team string) (string, bool) {
	col, err := findColumn(t, "filter", teamColumns...)
	if err != nil {
		return "", false
	}
	return util.Closest(team, util.DistinctStrings(col.Strings()), 0.6)
}

// findColumn returns the first of names present in t
func findColumn(t *table.Table, stage string, names ...string) (*table.Column, error) {
	for _, n := range names {
		if c, ok := t.Column(n); ok {
			return c, nil
		}
	}
	return nil, &MissingColumnError{Stage: stage, Column: names[0]}
}
