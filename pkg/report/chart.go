// Package report turns an enriched game table into the season comparison
// page: a scatter chart of two metrics, optional mean lines and one box per
// current season game.
package report

import (
	"fmt"
	"strings"

	"github.com/richard-senior/gamecomp/pkg/pipeline"
	"github.com/richard-senior/gamecomp/pkg/table"
	"github.com/richard-senior/gamecomp/pkg/util"
)

// Display columns the report reads
const (
	ColYear     = "Year"
	ColDate     = "Date"
	ColOpponent = "Opponent"
	ColHomeTeam = "Home Team"
	ColAwayTeam = "Away Team"
	ColScore    = "Score"
)

// labelLength is how many characters of the opponent name a point shows
const labelLength = 3

// MeanMode says which games the mean lines average over
type MeanMode string

const (
	MeanNone    MeanMode = "none"
	MeanAll     MeanMode = "all"
	MeanCurrent MeanMode = "current"
)

// ParseMeanMode accepts none, all and current ("filtered" is an old name
// for current)
func ParseMeanMode(s string) (MeanMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(MeanNone):
		return MeanNone, nil
	case string(MeanAll):
		return MeanAll, nil
	case string(MeanCurrent), "filtered":
		return MeanCurrent, nil
	}
	return MeanNone, fmt.Errorf("unknown mean line mode %q, expected none, all or current", s)
}

// Options picks what to plot
type Options struct {
	XVar              string
	YVar              string
	MeanMode          MeanMode
	CurrentSeason     int
	PriorSeasonMarker string
}

func (o Options) marker() string {
	if o.PriorSeasonMarker != "" {
		return o.PriorSeasonMarker
	}
	return fmt.Sprint(o.CurrentSeason - 1)
}

// ResultColumn is the display name of the season tagged result column
func ResultColumn(season int) string {
	return pipeline.DisplayName(pipeline.ResultTaggedColumn(season), nil)
}

// Point is one game on the chart
type Point struct {
	Row      int
	X, Y     float64
	Category string // win, draw, loss or the prior season marker
	Label    string // shown next to current season games only
	Tooltip  string
}

// Means are the averages the dashed lines are drawn at
type Means struct {
	Mode MeanMode
	X, Y float64
}

// Chart is everything needed to draw the scatter plot
type Chart struct {
	XVar, YVar string
	Points     []Point
	Categories []string
	Colors     map[string]string
	Means      *Means
}

// AxisOptions lists the columns that can go on an axis: the numeric ones,
// except the year
func AxisOptions(t *table.Table) []string {
	var out []string
	for _, c := range t.Columns() {
		if c.Kind().IsNumeric() && c.Name() != ColYear {
			out = append(out, c.Name())
		}
	}
	return out
}

// numericColumn finds an axis column, suggesting a near miss when absent
func numericColumn(t *table.Table, name string) (*table.Column, error) {
	c, ok := t.Column(name)
	if !ok {
		if guess, ok := util.Closest(name, AxisOptions(t), 0.6); ok {
			return nil, fmt.Errorf("no column %q, did you mean %q?", name, guess)
		}
		return nil, fmt.Errorf("no column %q", name)
	}
	if !c.Kind().IsNumeric() {
		return nil, fmt.Errorf("column %q is %s, not numeric", name, c.Kind())
	}
	return c, nil
}

func textAt(t *table.Table, name string, i int) string {
	c, ok := t.Column(name)
	if !ok {
		return ""
	}
	s, _ := c.Value(i).Text()
	return s
}

func yearAt(t *table.Table, i int) (int, bool) {
	c, ok := t.Column(ColYear)
	if !ok {
		return 0, false
	}
	y, ok := c.Value(i).Int()
	return int(y), ok
}

// Tooltip renders a game as "<home> <h> - <away> <a>"
func Tooltip(home, away, score string) string {
	h, a, ok := strings.Cut(score, ":")
	if !ok {
		return fmt.Sprintf("%s - %s", home, away)
	}
	return fmt.Sprintf("%s %s - %s %s", home, h, away, a)
}

// Label is the short opponent tag shown beside current season points
func Label(opponent string) string {
	r := []rune(opponent)
	if len(r) > labelLength {
		r = r[:labelLength]
	}
	return string(r)
}

// BuildChart lays out the scatter chart. Games missing either metric or a
// result category can't be placed and are left out.
func BuildChart(t *table.Table, opts Options) (*Chart, error) {
	xc, err := numericColumn(t, opts.XVar)
	if err != nil {
		return nil, err
	}
	yc, err := numericColumn(t, opts.YVar)
	if err != nil {
		return nil, err
	}
	resultName := ResultColumn(opts.CurrentSeason)
	rc, ok := t.Column(resultName)
	if !ok {
		return nil, fmt.Errorf("no column %q", resultName)
	}

	marker := opts.marker()
	chart := &Chart{
		XVar:       opts.XVar,
		YVar:       opts.YVar,
		Categories: Categories(marker),
		Colors:     Colors(marker),
	}
	for i := 0; i < t.Len(); i++ {
		x, xok := xc.Value(i).Float()
		y, yok := yc.Value(i).Float()
		category, cok := rc.Value(i).Text()
		if !xok || !yok || !cok {
			continue
		}
		p := Point{
			Row:      i,
			X:        x,
			Y:        y,
			Category: category,
			Tooltip:  Tooltip(textAt(t, ColHomeTeam, i), textAt(t, ColAwayTeam, i), textAt(t, ColScore, i)),
		}
		if year, ok := yearAt(t, i); ok && year == opts.CurrentSeason {
			p.Label = Label(textAt(t, ColOpponent, i))
		}
		chart.Points = append(chart.Points, p)
	}

	means, err := MeanLines(t, opts)
	if err != nil {
		return nil, err
	}
	chart.Means = means
	return chart, nil
}

// MeanLines averages the two axis columns over the games mode selects,
// skipping nulls. It returns nil for MeanNone or when nothing is left to
// average.
func MeanLines(t *table.Table, opts Options) (*Means, error) {
	if opts.MeanMode == MeanNone || opts.MeanMode == "" {
		return nil, nil
	}
	xc, err := numericColumn(t, opts.XVar)
	if err != nil {
		return nil, err
	}
	yc, err := numericColumn(t, opts.YVar)
	if err != nil {
		return nil, err
	}

	include := func(i int) bool {
		if opts.MeanMode == MeanAll {
			return true
		}
		year, ok := yearAt(t, i)
		return ok && year == opts.CurrentSeason
	}
	mean := func(c *table.Column) (float64, bool) {
		sum, n := 0.0, 0
		for i := 0; i < c.Len(); i++ {
			if v, ok := c.Value(i).Float(); ok && include(i) {
				sum += v
				n++
			}
		}
		if n == 0 {
			return 0, false
		}
		return sum / float64(n), true
	}

	mx, xok := mean(xc)
	my, yok := mean(yc)
	if !xok || !yok {
		return nil, nil
	}
	return &Means{Mode: opts.MeanMode, X: mx, Y: my}, nil
}

// MeanLabel is the annotation written beside a mean line
func MeanLabel(name string, value float64) string {
	return fmt.Sprintf("Mean %s: %.2f", name, value)
}
