package pipeline

import (
	"fmt"

	"github.com/richard-senior/gamecomp/pkg/table"
)

// Merge stacks season tables in the given order. Every table must have the
// same column names in the same order as the first one.
func Merge(tables ...*table.Table) (*table.Table, error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("merge: no tables given")
	}
	for i := 1; i < len(tables); i++ {
		if err := checkSchema(tables[0], tables[i], i); err != nil {
			return nil, err
		}
	}
	if err := checkKinds(tables); err != nil {
		return nil, err
	}
	out, err := table.Concat(tables...)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	return out, nil
}

func checkSchema(want, got *table.Table, pos int) *SchemaMismatchError {
	wantNames, gotNames := want.ColumnNames(), got.ColumnNames()
	e := &SchemaMismatchError{Table: pos}
	for _, n := range wantNames {
		if got.Index(n) < 0 {
			e.Missing = append(e.Missing, n)
		}
	}
	for _, n := range gotNames {
		if want.Index(n) < 0 {
			e.Unexpected = append(e.Unexpected, n)
		}
	}
	if len(e.Missing) > 0 || len(e.Unexpected) > 0 {
		return e
	}
	for i := range wantNames {
		if wantNames[i] != gotNames[i] {
			return e
		}
	}
	return nil
}

// checkKinds reports the first column whose kinds can't be unified, columns
// holding only nulls adopt whatever the others hold
func checkKinds(tables []*table.Table) error {
	for j := 0; j < tables[0].Width(); j++ {
		var kind table.Kind
		seen := false
		for _, t := range tables {
			c := t.ColumnAt(j)
			if c.AllNull() {
				continue
			}
			if !seen {
				kind, seen = c.Kind(), true
				continue
			}
			k, ok := table.UnifyKinds(kind, c.Kind())
			if !ok {
				pos := 0
				for i, other := range tables {
					if other == t {
						pos = i
					}
				}
				return &SchemaMismatchError{Table: pos, Column: c.Name(), Want: kind, Got: c.Kind()}
			}
			kind = k
		}
	}
	return nil
}
