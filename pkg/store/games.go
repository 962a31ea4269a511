package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/richard-senior/gamecomp/internal/logger"
	"github.com/richard-senior/gamecomp/pkg/table"
)

const gameTable = "game"

// reserved columns of the game table, enriched columns never use these
const (
	runIDColumn  = "run_id"
	rowNumColumn = "row_num"
)

// GameColumn records where and as what a column of a run's enriched table
// was stored, so the table can be rebuilt exactly
type GameColumn struct {
	RunID    string `column:"run_id" dbtype:"TEXT NOT NULL" primary:"true"`
	Position int    `column:"position" dbtype:"INTEGER NOT NULL" primary:"true"`
	Name     string `column:"name" dbtype:"TEXT NOT NULL"`
	Kind     string `column:"kind" dbtype:"TEXT NOT NULL"`
}

func (c *GameColumn) GetTableName() string { return "game_column" }

func (c *GameColumn) GetPrimaryKey() map[string]any {
	return map[string]any{"run_id": c.RunID, "position": c.Position}
}

func (c *GameColumn) BeforeSave() error {
	if _, err := parseKind(c.Kind); err != nil {
		return err
	}
	return nil
}

// quoteIdent quotes a column name for SQLite
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// sqlType is the SQLite storage class used for a kind
func sqlType(k table.Kind) string {
	switch k {
	case table.KindInteger:
		return "INTEGER"
	case table.KindDecimal, table.KindPercentage:
		return "REAL"
	default:
		return "TEXT"
	}
}

func parseKind(name string) (table.Kind, error) {
	for _, k := range []table.Kind{table.KindText, table.KindInteger, table.KindDecimal, table.KindPercentage, table.KindDate} {
		if k.String() == name {
			return k, nil
		}
	}
	return table.KindText, fmt.Errorf("unknown column kind %q", name)
}

// gameColumns lists the columns the game table has today
func gameColumns(ctx context.Context, db execer) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT name FROM pragma_table_info(?)", gameTable)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect %s: %w", gameTable, err)
	}
	defer rows.Close()
	cols := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		cols[strings.ToLower(name)] = true
	}
	return cols, rows.Err()
}

// ensureGameTable creates the game table and adds whatever columns t
// brings that earlier runs didn't have
func ensureGameTable(ctx context.Context, db execer, t *table.Table) error {
	createSQL := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s TEXT NOT NULL, %s INTEGER NOT NULL, PRIMARY KEY (%s, %s))",
		gameTable, runIDColumn, rowNumColumn, runIDColumn, rowNumColumn)
	if _, err := db.ExecContext(ctx, createSQL); err != nil {
		return fmt.Errorf("failed to create table %s: %w", gameTable, err)
	}
	existing, err := gameColumns(ctx, db)
	if err != nil {
		return err
	}
	for _, c := range t.Columns() {
		if existing[strings.ToLower(c.Name())] {
			continue
		}
		query := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", gameTable, quoteIdent(c.Name()), sqlType(c.Kind()))
		logger.Debug("Adding column with SQL", query)
		if _, err := db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to add column %q to %s: %w", c.Name(), gameTable, err)
		}
		existing[strings.ToLower(c.Name())] = true
	}
	return nil
}

// checkGameColumnNames rejects names SQLite would consider equal or that
// clash with the bookkeeping columns
func checkGameColumnNames(t *table.Table) error {
	seen := map[string]string{
		runIDColumn:  runIDColumn,
		rowNumColumn: rowNumColumn,
	}
	for _, name := range t.ColumnNames() {
		key := strings.ToLower(name)
		if other, ok := seen[key]; ok {
			return fmt.Errorf("column %q clashes with %q in the %s table", name, other, gameTable)
		}
		seen[key] = name
	}
	return nil
}

// SaveGames stores the rows of an enriched table under runID, replacing
// whatever the run had stored before
func (s *Store) SaveGames(ctx context.Context, runID string, t *table.Table) error {
	if err := checkGameColumnNames(t); err != nil {
		return err
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := ensureGameTable(ctx, tx, t); err != nil {
			return err
		}
		for _, q := range []string{
			fmt.Sprintf("DELETE FROM %s WHERE %s = ?", gameTable, runIDColumn),
			"DELETE FROM game_column WHERE run_id = ?",
		} {
			if _, err := tx.ExecContext(ctx, q, runID); err != nil {
				return fmt.Errorf("failed to clear run %s: %w", runID, err)
			}
		}

		for j, c := range t.Columns() {
			gc := &GameColumn{RunID: runID, Position: j, Name: c.Name(), Kind: c.Kind().String()}
			if err := save(ctx, tx, gc); err != nil {
				return err
			}
		}

		names := []string{runIDColumn, rowNumColumn}
		for _, name := range t.ColumnNames() {
			names = append(names, quoteIdent(name))
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(names)), ", ")
		query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", gameTable, strings.Join(names, ", "), placeholders)
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare insert into %s: %w", gameTable, err)
		}
		defer stmt.Close()

		cols := t.Columns()
		args := make([]any, len(names))
		for i := 0; i < t.Len(); i++ {
			args[0], args[1] = runID, i
			for j, c := range cols {
				args[j+2] = c.Value(i).Interface(c.Kind())
			}
			if _, err := stmt.ExecContext(ctx, args...); err != nil {
				return fmt.Errorf("failed to insert game %d of run %s: %w", i, runID, err)
			}
		}
		logger.Debug("Saved", t.Len(), "games for run", runID)
		return nil
	})
}

// LoadGames rebuilds the enriched table stored for runID
func (s *Store) LoadGames(ctx context.Context, runID string) (*table.Table, error) {
	meta, err := FindWhere[GameColumn](ctx, s, "run_id = ? ORDER BY position", runID)
	if err != nil {
		return nil, err
	}
	if len(meta) == 0 {
		return nil, fmt.Errorf("games of run %s: %w", runID, ErrNotFound)
	}

	kinds := make([]table.Kind, len(meta))
	names := make([]string, len(meta))
	for j, m := range meta {
		if kinds[j], err = parseKind(m.Kind); err != nil {
			return nil, err
		}
		names[j] = quoteIdent(m.Name)
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ? ORDER BY %s",
		strings.Join(names, ", "), gameTable, runIDColumn, rowNumColumn)
	rows, err := s.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", gameTable, err)
	}
	defer rows.Close()

	values := make([][]table.Value, len(meta))
	raw := make([]any, len(meta))
	dest := make([]any, len(meta))
	for j := range raw {
		dest[j] = &raw[j]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan row from %s: %w", gameTable, err)
		}
		for j := range raw {
			v, err := fromSQL(kinds[j], raw[j])
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", meta[j].Name, err)
			}
			values[j] = append(values[j], v)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows from %s: %w", gameTable, err)
	}

	cols := make([]*table.Column, len(meta))
	for j, m := range meta {
		cols[j] = table.NewColumn(m.Name, kinds[j], values[j])
	}
	return table.New(cols...)
}

// fromSQL converts a scanned SQLite value back into a table value of kind k
func fromSQL(k table.Kind, v any) (table.Value, error) {
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	switch x := v.(type) {
	case nil:
		return table.Null(), nil
	case int64:
		if k == table.KindInteger {
			return table.Int(x), nil
		}
		if k.IsNumeric() {
			return table.Number(float64(x)), nil
		}
		return table.Text(strconv.FormatInt(x, 10)), nil
	case float64:
		if k.IsNumeric() {
			return table.Number(x), nil
		}
		return table.Text(strconv.FormatFloat(x, 'f', -1, 64)), nil
	case string:
		switch {
		case k == table.KindDate:
			d, err := time.Parse(table.DateLayout, x)
			if err != nil {
				return table.Null(), err
			}
			return table.Date(d), nil
		case k.IsNumeric():
			f, err := strconv.ParseFloat(x, 64)
			if err != nil {
				return table.Null(), err
			}
			return table.Number(f), nil
		default:
			return table.Text(x), nil
		}
	default:
		return table.Null(), fmt.Errorf("unexpected value %v of type %T", v, v)
	}
}
