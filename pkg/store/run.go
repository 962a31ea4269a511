package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/richard-senior/gamecomp/internal/logger"
	"github.com/richard-senior/gamecomp/pkg/pipeline"
)

// PipelineRun is one execution of the pipeline
type PipelineRun struct {
	ID            string `column:"id" dbtype:"TEXT" primary:"true"`
	CreatedAt     string `column:"created_at" dbtype:"TEXT NOT NULL" index:"true"`
	TrackedTeam   string `column:"tracked_team" dbtype:"TEXT NOT NULL" index:"true"`
	CurrentSeason int    `column:"current_season" dbtype:"INTEGER NOT NULL"`
	Sources       string `column:"sources" dbtype:"TEXT"`
	Games         int    `column:"games" dbtype:"INTEGER NOT NULL"`
	RowErrors     int    `column:"row_errors" dbtype:"INTEGER NOT NULL"`
	Warnings      int    `column:"warnings" dbtype:"INTEGER NOT NULL"`
}

func (r *PipelineRun) GetTableName() string { return "pipeline_run" }

func (r *PipelineRun) GetPrimaryKey() map[string]any { return map[string]any{"id": r.ID} }

// BeforeSave assigns an id and creation time to new runs
func (r *PipelineRun) BeforeSave() error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt == "" {
		r.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	if _, err := uuid.Parse(r.ID); err != nil {
		return fmt.Errorf("run id %q: %w", r.ID, err)
	}
	return nil
}

// RunIssue is one row error or warning raised during a run
type RunIssue struct {
	RunID   string `column:"run_id" dbtype:"TEXT NOT NULL" primary:"true"`
	Seq     int    `column:"seq" dbtype:"INTEGER NOT NULL" primary:"true"`
	Level   string `column:"level" dbtype:"TEXT NOT NULL"`
	Kind    string `column:"kind" dbtype:"TEXT NOT NULL"`
	Message string `column:"message" dbtype:"TEXT NOT NULL"`
}

const (
	LevelWarning = "warning"
	LevelError   = "error"
)

func (i *RunIssue) GetTableName() string { return "run_issue" }

func (i *RunIssue) GetPrimaryKey() map[string]any {
	return map[string]any{"run_id": i.RunID, "seq": i.Seq}
}

func (i *RunIssue) BeforeSave() error {
	if i.RunID == "" {
		return fmt.Errorf("run issue without run id")
	}
	return nil
}

// issueKind names the concrete error type, "MatchFormatError" and so on
func issueKind(err error) string {
	name := fmt.Sprintf("%T", err)
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[i+1:]
		}
	}
	return name
}

// RecordRun stores a finished run: its summary, every diagnostic and the
// enriched table. It returns the saved run with its id filled in.
func (s *Store) RecordRun(ctx context.Context, run PipelineRun, res *pipeline.Result) (*PipelineRun, error) {
	run.Games = res.Table.Len()
	run.RowErrors = len(res.Diagnostics.RowErrors)
	run.Warnings = len(res.Diagnostics.Warnings)
	if err := s.Save(ctx, &run); err != nil {
		return nil, err
	}

	var issues []Persistable
	for _, e := range res.Diagnostics.RowErrors {
		issues = append(issues, &RunIssue{RunID: run.ID, Seq: len(issues), Level: LevelError, Kind: issueKind(e), Message: e.Error()})
	}
	for _, w := range res.Diagnostics.Warnings {
		issues = append(issues, &RunIssue{RunID: run.ID, Seq: len(issues), Level: LevelWarning, Kind: issueKind(w), Message: w.Error()})
	}
	if err := s.BulkSave(ctx, issues); err != nil {
		return nil, fmt.Errorf("failed to save issues of run %s: %w", run.ID, err)
	}
	if err := s.SaveGames(ctx, run.ID, res.Table); err != nil {
		return nil, err
	}
	logger.Info("Recorded run", run.ID, "with", run.Games, "games")
	return &run, nil
}

// Runs lists stored runs, newest first
func (s *Store) Runs(ctx context.Context) ([]*PipelineRun, error) {
	return FindWhere[PipelineRun](ctx, s, "1 = 1 ORDER BY created_at DESC, id")
}

// LatestRun is the most recent run, ErrNotFound when there is none
func (s *Store) LatestRun(ctx context.Context) (*PipelineRun, error) {
	runs, err := s.Runs(ctx)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("pipeline_run: %w", ErrNotFound)
	}
	return runs[0], nil
}

// Issues lists the diagnostics of a run in the order they were raised
func (s *Store) Issues(ctx context.Context, runID string) ([]*RunIssue, error) {
	return FindWhere[RunIssue](ctx, s, "run_id = ? ORDER BY seq", runID)
}
