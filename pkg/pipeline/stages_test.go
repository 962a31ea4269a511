package pipeline

import (
	"errors"
	"testing"

	"github.com/richard-senior/gamecomp/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRenamesPlaceholders(t *testing.T) {
	norm, warnings, err := Normalize(season2025(t), WyscoutTeamStats)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, 4, norm.Len())

	names := norm.ColumnNames()
	assert.Equal(t, "Shots", names[8])
	assert.Equal(t, "Shots On Target", names[9])
	assert.Equal(t, "Shots On Target Percentage", names[10])

	pct, _ := norm.Column("Shots On Target Percentage")
	assert.Equal(t, table.KindPercentage, pct.Kind())
	onTarget, _ := norm.Column("Shots On Target")
	assert.Equal(t, table.KindInteger, onTarget.Kind())
}

func TestNormalizeReportsUnmappedPlaceholders(t *testing.T) {
	raw, err := table.FromRecords([]string{"Team", "Goals", "", "Odd header"}, [][]string{{"A", "1", "2", "x"}})
	require.NoError(t, err)

	norm, warnings, err := Normalize(raw, WyscoutTeamStats)
	require.NoError(t, err)
	assert.Equal(t, []string{"Team", "Goals", "Unnamed: 2", "Odd header"}, norm.ColumnNames())
	require.Len(t, warnings, 1)

	var w *UnmappedColumnWarning
	require.True(t, errors.As(warnings[0], &w))
	assert.Equal(t, "Unnamed: 2", w.Column)
	assert.Equal(t, 2, w.Position)
}

func TestPairIndex(t *testing.T) {
	cases := []struct {
		i, n, want int
		ok         bool
	}{
		{0, 4, 1, true},
		{1, 4, 0, true},
		{2, 4, 3, true},
		{3, 4, 2, true},
		{4, 5, 5, false},
		{0, 1, 1, false},
	}
	for _, c := range cases {
		got, ok := PairIndex(c.i, c.n)
		assert.Equal(t, c.ok, ok, "row %d of %d", c.i, c.n)
		if ok {
			assert.Equal(t, c.want, got, "row %d of %d", c.i, c.n)
		}
	}
}

func TestMirrorPairsFixtureRows(t *testing.T) {
	norm, _, err := Normalize(season2025(t), WyscoutTeamStats)
	require.NoError(t, err)

	out, err := Mirror(norm, DefaultMirrorRange)
	require.NoError(t, err)

	// range is clamped to the 13 columns of the table
	assert.Equal(t, norm.Len(), out.Len())
	assert.Equal(t, norm.Width()+(13-6), out.Width())

	for j := 6; j < norm.Width(); j++ {
		src := norm.ColumnAt(j)
		opp, ok := out.Column(OpponentPrefix + src.Name())
		require.True(t, ok)
		assert.Equal(t, src.Kind(), opp.Kind())
		for i := 0; i < out.Len(); i++ {
			p, _ := PairIndex(i, out.Len())
			assert.True(t, src.Value(p).Equal(opp.Value(i)), "row %d column %s", i, src.Name())
		}
	}
	assert.Equal(t, []string{"1", "2", "1", "1"}, colStrings(t, out, "opp_Goals"))
}

func TestMirrorOddRowCountLeavesBoundaryNull(t *testing.T) {
	tbl, err := table.New(
		table.NewColumn("Team", table.KindText, []table.Value{table.Text("a"), table.Text("b"), table.Text("c")}),
		table.NewColumn("Goals", table.KindInteger, []table.Value{table.Int(1), table.Int(2), table.Int(3)}),
	)
	require.NoError(t, err)

	out, err := Mirror(tbl, MirrorRange{Start: 1, End: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "1", ""}, colStrings(t, out, "opp_Goals"))
}

func TestMirrorRejectsEmptyRange(t *testing.T) {
	_, err := Mirror(season2025(t), MirrorRange{Start: 20, End: 30})
	assert.Error(t, err)
}

func TestFilterTeamIsIdempotent(t *testing.T) {
	once, err := FilterTeam(season2025(t), "UCONN Huskies")
	require.NoError(t, err)
	twice, err := FilterTeam(once, "UCONN Huskies")
	require.NoError(t, err)

	assert.Equal(t, 2, once.Len())
	assert.Equal(t, once.ColumnNames(), twice.ColumnNames())
	for j := 0; j < once.Width(); j++ {
		assert.Equal(t, once.ColumnAt(j).Strings(), twice.ColumnAt(j).Strings())
	}
}

func TestFilterTeamIsCaseSensitiveAndMayBeEmpty(t *testing.T) {
	out, err := FilterTeam(season2025(t), "uconn huskies")
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len())
	assert.Equal(t, len(exportHeader), out.Width())
}

func TestFilterTeamNeedsTeamColumn(t *testing.T) {
	tbl, _ := table.New(table.NewColumn("Goals", table.KindInteger, []table.Value{table.Int(1)}))
	_, err := FilterTeam(tbl, "x")
	var missing *MissingColumnError
	assert.True(t, errors.As(err, &missing))
}

func TestSnakeCaseIsIdempotentAndOrderPreserving(t *testing.T) {
	norm, _, err := Normalize(season2025(t), WyscoutTeamStats)
	require.NoError(t, err)

	once, err := SnakeCase(norm)
	require.NoError(t, err)
	twice, err := SnakeCase(once)
	require.NoError(t, err)

	assert.Equal(t, once.ColumnNames(), twice.ColumnNames())
	assert.Equal(t, "shots_on_target_percentage", once.ColumnNames()[10])
	assert.Equal(t, "conceded_goals", once.ColumnNames()[11])
	for j, name := range norm.ColumnNames() {
		assert.Equal(t, SnakeKey(name), once.ColumnNames()[j])
	}
}

func TestMergeKeepsOrderAndCommutesWithFilter(t *testing.T) {
	a, b := season2025(t), season2024(t)

	merged, err := Merge(a, b)
	require.NoError(t, err)
	assert.Equal(t, 6, merged.Len())
	assert.Equal(t, "2024-09-05", colStrings(t, merged, "Date")[4])

	filteredAfter, err := FilterTeam(merged, "UCONN Huskies")
	require.NoError(t, err)

	fa, _ := FilterTeam(a, "UCONN Huskies")
	fb, _ := FilterTeam(b, "UCONN Huskies")
	filteredBefore, err := Merge(fa, fb)
	require.NoError(t, err)

	require.Equal(t, filteredBefore.Len(), filteredAfter.Len())
	for j := 0; j < filteredAfter.Width(); j++ {
		assert.Equal(t, filteredBefore.ColumnAt(j).Strings(), filteredAfter.ColumnAt(j).Strings())
	}
}

func TestMergeRejectsDivergentSchemas(t *testing.T) {
	a := season2025(t)
	b, err := season2024(t).Rename(map[string]string{"PPDA": "Passes per defensive action"})
	require.NoError(t, err)

	_, err = Merge(a, b)
	var mismatch *SchemaMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, 1, mismatch.Table)
	assert.Equal(t, []string{"PPDA"}, mismatch.Missing)
	assert.Equal(t, []string{"Passes per defensive action"}, mismatch.Unexpected)
}

func TestMergeRejectsReorderedColumns(t *testing.T) {
	a, _ := table.New(
		table.NewColumn("x", table.KindInteger, []table.Value{table.Int(1)}),
		table.NewColumn("y", table.KindInteger, []table.Value{table.Int(1)}),
	)
	b, _ := table.New(
		table.NewColumn("y", table.KindInteger, []table.Value{table.Int(1)}),
		table.NewColumn("x", table.KindInteger, []table.Value{table.Int(1)}),
	)
	_, err := Merge(a, b)
	var mismatch *SchemaMismatchError
	assert.True(t, errors.As(err, &mismatch))
}

func TestMergeRejectsIncompatibleKinds(t *testing.T) {
	a, _ := table.New(table.NewColumn("x", table.KindInteger, []table.Value{table.Int(1)}))
	b, _ := table.New(table.NewColumn("x", table.KindText, []table.Value{table.Text("one")}))
	_, err := Merge(a, b)
	var mismatch *SchemaMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "x", mismatch.Column)
}

func TestSuggestTeam(t *testing.T) {
	got, ok := SuggestTeam(season2025(t), "UConn Huskies ")
	assert.True(t, ok)
	assert.Equal(t, "UCONN Huskies", got)

	_, ok = SuggestTeam(season2025(t), "Georgetown")
	assert.False(t, ok)
}
