package pipeline

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/richard-senior/gamecomp/pkg/table"
)

const (
	ResultWin  = "win"
	ResultDraw = "draw"
	ResultLoss = "loss"
)

// Derived and required column keys, snake cased
const (
	ColDate          = "date"
	ColMatch         = "match"
	ColGoals         = "goals"
	ColConcededGoals = "conceded_goals"
	ColYear          = "year"
	ColResult        = "result"
	ColHomeTeam      = "home_team"
	ColAwayTeam      = "away_team"
	ColScore         = "score"
	ColOpponent      = "opponent"
)

// yearPosition is where the year column goes, right after the fixture info
const yearPosition = 4

// dateLayouts are tried in order when reading the export's date field
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"Jan 2, 2006",
	"2 January 2006",
	"January 2, 2006",
}

// DeriveOptions says whose games these are and which season is current
type DeriveOptions struct {
	TrackedTeam       string
	CurrentSeason     int
	PriorSeasonMarker string
}

// ResultTaggedColumn is the key of the season tagged result column
func ResultTaggedColumn(season int) string {
	return fmt.Sprintf("result_%d", season)
}

// GameResult is win, draw or loss from the tracked team's point of view
func GameResult(goals, conceded float64) string {
	switch {
	case goals > conceded:
		return ResultWin
	case goals == conceded:
		return ResultDraw
	default:
		return ResultLoss
	}
}

// ParseDate reads a date in any of the layouts the exports have used
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("no known layout matches %q", s)
}

// Derive adds date, year, result, the season tagged result, home_team,
// away_team, score and opponent to a snake cased table. Row level problems
// leave nulls in the affected cells and are returned alongside the table,
// a missing required column is fatal.
//
// A null goals or conceded_goals gives a null result, and a null result
// stays null in the tagged column for current season games.
func Derive(t *table.Table, opts DeriveOptions) (*table.Table, []error, error) {
	required := map[string]*table.Column{}
	for _, name := range []string{ColDate, ColMatch, ColGoals, ColConcededGoals} {
		c, err := findColumn(t, "derive", name)
		if err != nil {
			return nil, nil, err
		}
		required[name] = c
	}
	marker := opts.PriorSeasonMarker
	if marker == "" {
		marker = fmt.Sprint(opts.CurrentSeason - 1)
	}

	n := t.Len()
	var issues []error
	dates := make([]table.Value, n)
	years := make([]table.Value, n)
	results := make([]table.Value, n)
	tagged := make([]table.Value, n)
	homes := make([]table.Value, n)
	aways := make([]table.Value, n)
	scores := make([]table.Value, n)
	opponents := make([]table.Value, n)

	for i := 0; i < n; i++ {
		date, err := dateAt(required[ColDate], i)
		if err != nil {
			issues = append(issues, err)
			dates[i], years[i] = table.Null(), table.Null()
		} else {
			dates[i], years[i] = table.Date(date), table.Int(int64(date.Year()))
		}

		goals, gerr := statAt(required[ColGoals], i)
		conceded, cerr := statAt(required[ColConcededGoals], i)
		switch {
		case gerr != nil:
			issues = append(issues, gerr)
			results[i] = table.Null()
		case cerr != nil:
			issues = append(issues, cerr)
			results[i] = table.Null()
		default:
			results[i] = table.Text(GameResult(goals, conceded))
		}

		if y, ok := years[i].Int(); !ok {
			tagged[i] = table.Null()
		} else if int(y) == opts.CurrentSeason {
			tagged[i] = results[i]
		} else {
			tagged[i] = table.Text(marker)
		}

		raw, _ := required[ColMatch].Value(i).Text()
		fx, ok := ParseMatch(raw)
		if !ok {
			issues = append(issues, &MatchFormatError{Row: i, Value: raw})
			homes[i], aways[i], scores[i], opponents[i] = table.Null(), table.Null(), table.Null(), table.Null()
			continue
		}
		homes[i], aways[i], scores[i] = table.Text(fx.HomeTeam), table.Text(fx.AwayTeam), table.Text(fx.Score())
		if opp, ok := fx.Opponent(opts.TrackedTeam); ok {
			opponents[i] = table.Text(opp)
		} else {
			opponents[i] = table.Null()
			issues = append(issues, &UnresolvedOpponentWarning{
				Row: i, Team: opts.TrackedTeam, HomeTeam: fx.HomeTeam, AwayTeam: fx.AwayTeam,
			})
		}
	}

	out, err := t.ReplaceColumn(table.NewColumn(required[ColDate].Name(), table.KindDate, dates))
	if err != nil {
		return nil, issues, fmt.Errorf("derive: %w", err)
	}
	if out, err = out.InsertColumn(yearPosition, table.NewColumn(ColYear, table.KindInteger, years)); err != nil {
		return nil, issues, fmt.Errorf("derive: %w", err)
	}
	out, err = out.WithColumns(
		table.NewColumn(ColResult, table.KindText, results),
		table.NewColumn(ResultTaggedColumn(opts.CurrentSeason), table.KindText, tagged),
		table.NewColumn(ColHomeTeam, table.KindText, homes),
		table.NewColumn(ColAwayTeam, table.KindText, aways),
		table.NewColumn(ColScore, table.KindText, scores),
		table.NewColumn(ColOpponent, table.KindText, opponents),
	)
	if err != nil {
		return nil, issues, fmt.Errorf("derive: %w", err)
	}
	return out, issues, nil
}

// statAt reads a goal count. A column holding a stray word is typed text
// when read, so its numeric cells are parsed here and the rest reported.
func statAt(c *table.Column, i int) (float64, error) {
	v := c.Value(i)
	if f, ok := v.Float(); ok {
		return f, nil
	}
	raw, ok := v.Text()
	if !ok || c.Kind().IsNumeric() {
		return 0, &MissingStatError{Row: i, Column: c.Name()}
	}
	raw = strings.TrimSpace(raw)
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) {
		return 0, &MissingStatError{Row: i, Column: c.Name(), Value: raw}
	}
	return f, nil
}

func dateAt(c *table.Column, i int) (time.Time, error) {
	v := c.Value(i)
	if c.Kind() == table.KindDate {
		if d, ok := v.Time(); ok {
			return d, nil
		}
		return time.Time{}, &DateParseError{Row: i}
	}
	raw, ok := v.Text()
	if !ok {
		return time.Time{}, &DateParseError{Row: i}
	}
	d, err := ParseDate(raw)
	if err != nil {
		return time.Time{}, &DateParseError{Row: i, Value: raw}
	}
	return d, nil
}
