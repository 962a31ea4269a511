package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/richard-senior/gamecomp/pkg/pipeline"
	"github.com/richard-senior/gamecomp/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func enriched(t *testing.T) *table.Table {
	t.Helper()
	day := func(s string) table.Value {
		d, err := pipeline.ParseDate(s)
		require.NoError(t, err)
		return table.Date(d)
	}
	tbl, err := table.New(
		table.NewColumn("Date", table.KindDate, []table.Value{day("2025-09-01"), day("2024-09-05")}),
		table.NewColumn("Year", table.KindInteger, []table.Value{table.Int(2025), table.Int(2024)}),
		table.NewColumn("xG", table.KindDecimal, []table.Value{table.Number(1.5), table.Null()}),
		table.NewColumn("Opp Shots On Target Percentage", table.KindPercentage, []table.Value{table.Number(33.33), table.Number(50)}),
		table.NewColumn("Result 2025", table.KindText, []table.Value{table.Text("win"), table.Text("2024")}),
		table.NewColumn(`Odd "quoted" name`, table.KindText, []table.Value{table.Null(), table.Text("x")}),
	)
	require.NoError(t, err)
	return tbl
}

func assertSameTable(t *testing.T, want, got *table.Table) {
	t.Helper()
	require.Equal(t, want.ColumnNames(), got.ColumnNames())
	require.Equal(t, want.Len(), got.Len())
	for j := 0; j < want.Width(); j++ {
		assert.Equal(t, want.ColumnAt(j).Kind(), got.ColumnAt(j).Kind(), want.ColumnAt(j).Name())
		assert.Equal(t, want.ColumnAt(j).Strings(), got.ColumnAt(j).Strings(), want.ColumnAt(j).Name())
	}
}

func TestPersistableSaveAndUpdate(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	run := &PipelineRun{TrackedTeam: "UCONN Huskies", CurrentSeason: 2025}
	require.NoError(t, s.Save(ctx, run))
	_, err := uuid.Parse(run.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, run.CreatedAt)

	found, err := s.Exists(ctx, run)
	require.NoError(t, err)
	assert.True(t, found)

	run.Games = 17
	require.NoError(t, s.Save(ctx, run))

	loaded := &PipelineRun{ID: run.ID}
	require.NoError(t, s.FindByPrimaryKey(ctx, loaded))
	assert.Equal(t, *run, *loaded)

	require.NoError(t, s.Delete(ctx, run))
	err = s.FindByPrimaryKey(ctx, &PipelineRun{ID: run.ID})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestPersistableRejectsBadID(t *testing.T) {
	err := openMemory(t).Save(context.Background(), &PipelineRun{ID: "not-a-uuid"})
	assert.Error(t, err)
}

func TestGenerateCreateTableSQL(t *testing.T) {
	got := generateCreateTableSQL(&RunIssue{}, "run_issue")
	assert.Equal(t, "CREATE TABLE IF NOT EXISTS run_issue (run_id TEXT NOT NULL, seq INTEGER NOT NULL, level TEXT NOT NULL, "+
		"kind TEXT NOT NULL, message TEXT NOT NULL, PRIMARY KEY (run_id, seq))", got)
	assert.Equal(t, []string{
		"CREATE INDEX IF NOT EXISTS idx_pipeline_run_created_at ON pipeline_run(created_at)",
		"CREATE INDEX IF NOT EXISTS idx_pipeline_run_tracked_team ON pipeline_run(tracked_team)",
	}, generateIndexSQL(&PipelineRun{}, "pipeline_run"))
}

func TestSaveAndLoadGames(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)
	runID := uuid.NewString()
	want := enriched(t)

	require.NoError(t, s.SaveGames(ctx, runID, want))
	got, err := s.LoadGames(ctx, runID)
	require.NoError(t, err)
	assertSameTable(t, want, got)

	// saving again replaces rather than duplicates
	require.NoError(t, s.SaveGames(ctx, runID, want))
	got, err = s.LoadGames(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Len())
}

func TestGamesOfDifferentRunsKeepTheirOwnColumns(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	first := enriched(t)
	second, err := table.New(table.NewColumn("Opponent", table.KindText, []table.Value{table.Text("Fordham")}))
	require.NoError(t, err)

	require.NoError(t, s.SaveGames(ctx, "a", first))
	require.NoError(t, s.SaveGames(ctx, "b", second))

	got, err := s.LoadGames(ctx, "b")
	require.NoError(t, err)
	assertSameTable(t, second, got)
	got, err = s.LoadGames(ctx, "a")
	require.NoError(t, err)
	assertSameTable(t, first, got)
}

func TestSaveGamesRejectsClashingNames(t *testing.T) {
	tbl, err := table.New(
		table.NewColumn("Goals", table.KindInteger, []table.Value{table.Int(1)}),
		table.NewColumn("goals", table.KindInteger, []table.Value{table.Int(1)}),
	)
	require.NoError(t, err)
	assert.Error(t, openMemory(t).SaveGames(context.Background(), "a", tbl))

	tbl, err = table.New(table.NewColumn("run_id", table.KindText, []table.Value{table.Text("x")}))
	require.NoError(t, err)
	assert.Error(t, openMemory(t).SaveGames(context.Background(), "a", tbl))
}

func TestLoadGamesOfUnknownRun(t *testing.T) {
	_, err := openMemory(t).LoadGames(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRecordRun(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, filepath.Join(t.TempDir(), "gamecomp.db"))
	require.NoError(t, err)
	defer s.Close()

	res := &pipeline.Result{Table: enriched(t)}
	res.Diagnostics.Add(
		&pipeline.MatchFormatError{Row: 1, Value: "garbage"},
		&pipeline.UnmappedColumnWarning{Column: "Unnamed: 120", Position: 120, Mapping: "wyscout-team-stats@2024.1"},
	)

	run, err := s.RecordRun(ctx, PipelineRun{TrackedTeam: "UCONN Huskies", CurrentSeason: 2025, Sources: "a.csv,b.csv"}, res)
	require.NoError(t, err)
	assert.Equal(t, 2, run.Games)
	assert.Equal(t, 1, run.RowErrors)
	assert.Equal(t, 1, run.Warnings)

	latest, err := s.LatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, run.ID, latest.ID)

	issues, err := s.Issues(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, issues, 2)
	assert.Equal(t, LevelError, issues[0].Level)
	assert.Equal(t, "MatchFormatError", issues[0].Kind)
	assert.Equal(t, LevelWarning, issues[1].Level)
	assert.Equal(t, "UnmappedColumnWarning", issues[1].Kind)

	games, err := s.LoadGames(ctx, run.ID)
	require.NoError(t, err)
	assertSameTable(t, res.Table, games)
}

func TestLatestRunOnEmptyStore(t *testing.T) {
	_, err := openMemory(t).LatestRun(context.Background())
	assert.True(t, errors.Is(err, ErrNotFound))
}
