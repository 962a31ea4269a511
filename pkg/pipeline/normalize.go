package pipeline

import (
	"fmt"

	"github.com/richard-senior/gamecomp/internal/logger"
	"github.com/richard-senior/gamecomp/pkg/table"
)

// Normalize gives every export header its descriptive name using mapping.
// Placeholder headers the mapping doesn't know are left as they are and
// reported, the caller should treat them as a sign of layout drift.
func Normalize(t *table.Table, mapping ColumnMapping) (*table.Table, []Warning, error) {
	var warnings []Warning
	cols := t.Columns()
	for i, c := range cols {
		name, ok := mapping.Lookup(c.Name())
		if !ok {
			if IsPlaceholder(c.Name()) {
				w := &UnmappedColumnWarning{Column: c.Name(), Position: i, Mapping: mapping.Label()}
				logger.Warn("Unmapped export column:", w.Error())
				warnings = append(warnings, w)
			}
			continue
		}
		c = c.Rename(name)
		if isPercentageName(name) && c.Kind().IsNumeric() {
			c = c.WithKind(table.KindPercentage)
		}
		cols[i] = c
	}
	out, err := table.New(cols...)
	if err != nil {
		return nil, warnings, fmt.Errorf("normalize with %s: %w", mapping.Label(), err)
	}
	return out, warnings, nil
}
