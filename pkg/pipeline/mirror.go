package pipeline

import (
	"fmt"

	"github.com/richard-senior/gamecomp/pkg/table"
)

// OpponentPrefix is prepended to the names of mirrored columns
const OpponentPrefix = "opp_"

// MirrorRange is the [Start, End) column offset range of the statistics
// block that gets mirrored
type MirrorRange struct {
	Start int
	End   int
}

// DefaultMirrorRange covers the statistics block of WyscoutTeamStats
var DefaultMirrorRange = MirrorRange{Start: 6, End: 109}

// PairIndex returns the row a fixture row is paired with: the next row for
// even rows, the previous one for odd rows. ok is false when the partner
// would fall outside a table of n rows.
func PairIndex(i, n int) (partner int, ok bool) {
	if i%2 == 0 {
		partner = i + 1
	} else {
		partner = i - 1
	}
	return partner, partner >= 0 && partner < n
}

// Mirror appends, for every column of the range, an opponent column holding
// the partner row's value. Rows must come in fixture pairs. A row without a
// partner gets nulls. Mirrored columns keep the kind of their source.
func Mirror(t *table.Table, r MirrorRange) (*table.Table, error) {
	end := min(r.End, t.Width())
	if r.Start < 0 || r.Start >= end {
		return nil, fmt.Errorf("mirror range [%d, %d) is empty for a table of %d columns", r.Start, r.End, t.Width())
	}

	n := t.Len()
	mirrored := make([]*table.Column, 0, end-r.Start)
	for j := r.Start; j < end; j++ {
		src := t.ColumnAt(j)
		values := make([]table.Value, n)
		for i := 0; i < n; i++ {
			if p, ok := PairIndex(i, n); ok {
				values[i] = src.Value(p)
			} else {
				values[i] = table.Null()
			}
		}
		mirrored = append(mirrored, table.NewColumn(OpponentPrefix+src.Name(), src.Kind(), values))
	}

	out, err := t.WithColumns(mirrored...)
	if err != nil {
		return nil, fmt.Errorf("mirror: %w", err)
	}
	return out, nil
}
