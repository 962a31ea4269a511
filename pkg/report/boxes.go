package report

import (
	"fmt"
	"time"

	"github.com/richard-senior/gamecomp/pkg/table"
)

// boxDateLayout is month/day/two digit year
const boxDateLayout = "01/02/06"

// GameBox summarises one current season game under the chart
type GameBox struct {
	Opponent string
	Date     string
	Class    string // result, used as a css class
	X        string // "<x var> = <value>"
	Y        string
}

// boxDate shows the game a day before the date the export records
func boxDate(d time.Time) string {
	return d.AddDate(0, 0, -1).Format(boxDateLayout)
}

func metricText(c *table.Column, i int) string {
	return fmt.Sprintf("%s = %s", c.Name(), c.Value(i).Format(c.Kind()))
}

// GameBoxes builds a box for every current season game, in table order
func GameBoxes(t *table.Table, opts Options) ([]GameBox, error) {
	xc, err := numericColumn(t, opts.XVar)
	if err != nil {
		return nil, err
	}
	yc, err := numericColumn(t, opts.YVar)
	if err != nil {
		return nil, err
	}
	dc, hasDate := t.Column(ColDate)

	var boxes []GameBox
	for i := 0; i < t.Len(); i++ {
		if year, ok := yearAt(t, i); !ok || year != opts.CurrentSeason {
			continue
		}
		box := GameBox{
			Opponent: textAt(t, ColOpponent, i),
			Class:    textAt(t, ResultColumn(opts.CurrentSeason), i),
			X:        metricText(xc, i),
			Y:        metricText(yc, i),
		}
		if hasDate {
			if d, ok := dc.Value(i).Time(); ok && dc.Kind() == table.KindDate {
				box.Date = boxDate(d)
			}
		}
		boxes = append(boxes, box)
	}
	return boxes, nil
}
