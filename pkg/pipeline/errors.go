package pipeline

import (
	"fmt"
	"strings"

	"github.com/richard-senior/gamecomp/pkg/table"
)

// Warning marks a non-fatal finding that should be logged and reported but
// never stops a run
type Warning interface {
	error
	isWarning()
}

// SchemaMismatchError is returned when seasons can't be merged. Always fatal.
type SchemaMismatchError struct {
	Table      int      // position of the offending table in the merge
	Missing    []string // columns of the first table absent here
	Unexpected []string // columns here absent from the first table
	Column     string   // set when names agree but kinds can't be combined
	Want, Got  table.Kind
}

func (e *SchemaMismatchError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("schema mismatch in table %d: column %q is %s, expected %s", e.Table, e.Column, e.Got, e.Want)
	}
	if len(e.Missing) == 0 && len(e.Unexpected) == 0 {
		return fmt.Sprintf("schema mismatch in table %d: column order differs", e.Table)
	}
	return fmt.Sprintf("schema mismatch in table %d: missing [%s] unexpected [%s]",
		e.Table, strings.Join(e.Missing, ", "), strings.Join(e.Unexpected, ", "))
}

// MissingColumnError is returned when a stage needs a column the table lacks
type MissingColumnError struct {
	Stage  string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s: required column %q not found", e.Stage, e.Column)
}

// DateParseError is a row whose date couldn't be read
type DateParseError struct {
	Row   int
	Value string
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("row %d: unparsable date %q", e.Row, e.Value)
}

// MatchFormatError is a row whose match string isn't "<home> - <away> <h>:<a>"
type MatchFormatError struct {
	Row   int
	Value string
}

func (e *MatchFormatError) Error() string {
	return fmt.Sprintf("row %d: match %q is not of the form \"<home> - <away> <h>:<a>\"", e.Row, e.Value)
}

// MissingStatError is a row lacking a numeric value a derived field depends
// on. Value holds the cell when it was present but not a number.
type MissingStatError struct {
	Row    int
	Column string
	Value  string
}

func (e *MissingStatError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("row %d: %s %q is not a number", e.Row, e.Column, e.Value)
	}
	return fmt.Sprintf("row %d: %s is missing", e.Row, e.Column)
}

// UnmappedColumnWarning is a placeholder header the mapping doesn't know,
// usually a sign the export layout changed
type UnmappedColumnWarning struct {
	Column   string
	Position int
	Mapping  string
}

func (w *UnmappedColumnWarning) Error() string {
	return fmt.Sprintf("column %q at position %d is not in mapping %s", w.Column, w.Position, w.Mapping)
}

func (w *UnmappedColumnWarning) isWarning() {}

// UnresolvedOpponentWarning is a row where the tracked team is in neither or
// both sides of the fixture, so no opponent could be assigned
type UnresolvedOpponentWarning struct {
	Row      int
	Team     string
	HomeTeam string
	AwayTeam string
}

func (w *UnresolvedOpponentWarning) Error() string {
	if w.HomeTeam == w.Team && w.AwayTeam == w.Team {
		return fmt.Sprintf("row %d: %q is both home and away team", w.Row, w.Team)
	}
	return fmt.Sprintf("row %d: %q is neither %q nor %q", w.Row, w.Team, w.HomeTeam, w.AwayTeam)
}

func (w *UnresolvedOpponentWarning) isWarning() {}

// Diagnostics collects the row level findings of a run
type Diagnostics struct {
	RowErrors []error
	Warnings  []Warning
}

// Add files err under warnings or row errors
func (d *Diagnostics) Add(errs ...error) {
	for _, err := range errs {
		if err == nil {
			continue
		}
		if w, ok := err.(Warning); ok {
			d.Warnings = append(d.Warnings, w)
			continue
		}
		d.RowErrors = append(d.RowErrors, err)
	}
}

// Clean reports whether nothing at all was found
func (d *Diagnostics) Clean() bool {
	return len(d.RowErrors) == 0 && len(d.Warnings) == 0
}
