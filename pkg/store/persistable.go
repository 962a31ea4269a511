package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/richard-senior/gamecomp/internal/logger"
)

// ErrNotFound is returned when a lookup by primary key matches nothing
var ErrNotFound = errors.New("record not found")

// Persistable is a struct stored through its field tags: dbtype gives the
// column type and marks the field as stored, column overrides the lower
// cased field name, primary and index take "true".
type Persistable interface {
	GetTableName() string
	GetPrimaryKey() map[string]any
	BeforeSave() error
}

// CreateTable creates the table and indexes of obj if they don't exist
func (s *Store) CreateTable(ctx context.Context, obj Persistable) error {
	tableName := obj.GetTableName()
	createSQL := generateCreateTableSQL(obj, tableName)
	logger.Debug("Creating table with SQL", createSQL)

	if _, err := s.db.ExecContext(ctx, createSQL); err != nil {
		return fmt.Errorf("failed to create table %s: %w", tableName, err)
	}
	for _, query := range generateIndexSQL(obj, tableName) {
		logger.Debug("Creating index with SQL", query)
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			logger.Warn("Failed to create index", err)
		}
	}
	return nil
}

// Save inserts obj, or updates it when its primary key is already stored
func (s *Store) Save(ctx context.Context, obj Persistable) error {
	return save(ctx, s.db, obj)
}

// BulkSave saves objects in one transaction
func (s *Store) BulkSave(ctx context.Context, objects []Persistable) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, obj := range objects {
			if err := save(ctx, tx, obj); err != nil {
				return err
			}
		}
		return nil
	})
}

// Exists reports whether obj's primary key is stored
func (s *Store) Exists(ctx context.Context, obj Persistable) (bool, error) {
	return exists(ctx, s.db, obj)
}

// Delete removes obj by primary key
func (s *Store) Delete(ctx context.Context, obj Persistable) error {
	tableName := obj.GetTableName()
	whereClause, values := buildWhereClause(obj.GetPrimaryKey())
	query := fmt.Sprintf("DELETE FROM %s WHERE %s", tableName, whereClause)
	if _, err := s.db.ExecContext(ctx, query, values...); err != nil {
		return fmt.Errorf("failed to delete from %s: %w", tableName, err)
	}
	return nil
}

// FindByPrimaryKey fills obj from the row matching its primary key
func (s *Store) FindByPrimaryKey(ctx context.Context, obj Persistable) error {
	tableName := obj.GetTableName()
	columns, destinations := getSelectData(obj)
	whereClause, values := buildWhereClause(obj.GetPrimaryKey())

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s", strings.Join(columns, ", "), tableName, whereClause)
	logger.Debug("FindByPrimaryKey SQL", query)

	err := s.db.QueryRowContext(ctx, query, values...).Scan(destinations...)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", tableName, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to scan row from %s: %w", tableName, err)
	}
	return nil
}

// FindWhere returns every row of T's table matching whereClause, which may
// carry an ORDER BY
func FindWhere[T any, P interface {
	*T
	Persistable
}](ctx context.Context, s *Store, whereClause string, args ...any) ([]*T, error) {
	var zero T
	tableName := P(&zero).GetTableName()
	columns, _ := getSelectData(&zero)

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s", strings.Join(columns, ", "), tableName, whereClause)
	logger.Debug("FindWhere SQL", query)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", tableName, err)
	}
	defer rows.Close()

	var results []*T
	for rows.Next() {
		obj := new(T)
		_, destinations := getSelectData(obj)
		if err := rows.Scan(destinations...); err != nil {
			return nil, fmt.Errorf("failed to scan row from %s: %w", tableName, err)
		}
		results = append(results, obj)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows from %s: %w", tableName, err)
	}
	return results, nil
}

func save(ctx context.Context, db execer, obj Persistable) error {
	if err := obj.BeforeSave(); err != nil {
		return fmt.Errorf("before save hook failed: %w", err)
	}
	found, err := exists(ctx, db, obj)
	if err != nil {
		return fmt.Errorf("failed to check existence: %w", err)
	}
	if found {
		return update(ctx, db, obj)
	}
	return insert(ctx, db, obj)
}

func exists(ctx context.Context, db execer, obj Persistable) (bool, error) {
	tableName := obj.GetTableName()
	whereClause, values := buildWhereClause(obj.GetPrimaryKey())
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", tableName, whereClause)

	var count int
	if err := db.QueryRowContext(ctx, query, values...).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check existence in %s: %w", tableName, err)
	}
	return count > 0, nil
}

func insert(ctx context.Context, db execer, obj Persistable) error {
	tableName := obj.GetTableName()
	columns, values := getColumnValues(obj, true)
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", tableName, strings.Join(columns, ", "), placeholders)
	logger.Debug("Insert SQL", query)

	if _, err := db.ExecContext(ctx, query, values...); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", tableName, err)
	}
	return nil
}

func update(ctx context.Context, db execer, obj Persistable) error {
	tableName := obj.GetTableName()
	columns, values := getColumnValues(obj, false)
	setPairs := make([]string, len(columns))
	for i, c := range columns {
		setPairs[i] = c + " = ?"
	}
	whereClause, whereValues := buildWhereClause(obj.GetPrimaryKey())
	values = append(values, whereValues...)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s", tableName, strings.Join(setPairs, ", "), whereClause)
	logger.Debug("Update SQL", query)

	if _, err := db.ExecContext(ctx, query, values...); err != nil {
		return fmt.Errorf("failed to update %s: %w", tableName, err)
	}
	return nil
}

// persistedField is a struct field carrying a dbtype tag
type persistedField struct {
	index   int
	column  string
	dbType  string
	primary bool
	indexed bool
}

func persistedFields(obj any) []persistedField {
	objType := reflect.TypeOf(obj)
	if objType.Kind() == reflect.Ptr {
		objType = objType.Elem()
	}
	var fields []persistedField
	for i := 0; i < objType.NumField(); i++ {
		field := objType.Field(i)
		if !field.IsExported() {
			continue
		}
		dbType := field.Tag.Get("dbtype")
		if dbType == "" {
			continue
		}
		column := field.Tag.Get("column")
		if column == "" {
			column = strings.ToLower(field.Name)
		}
		fields = append(fields, persistedField{
			index:   i,
			column:  column,
			dbType:  dbType,
			primary: field.Tag.Get("primary") == "true",
			indexed: field.Tag.Get("index") == "true",
		})
	}
	return fields
}

func generateCreateTableSQL(obj any, tableName string) string {
	var columns, primaryKeys []string
	for _, f := range persistedFields(obj) {
		columns = append(columns, fmt.Sprintf("%s %s", f.column, f.dbType))
		if f.primary {
			primaryKeys = append(primaryKeys, f.column)
		}
	}
	if len(primaryKeys) > 0 {
		columns = append(columns, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(primaryKeys, ", ")))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", tableName, strings.Join(columns, ", "))
}

func generateIndexSQL(obj any, tableName string) []string {
	var indexSQL []string
	for _, f := range persistedFields(obj) {
		if !f.indexed {
			continue
		}
		indexSQL = append(indexSQL, fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_%s ON %s(%s)",
			tableName, f.column, tableName, f.column))
	}
	return indexSQL
}

// getColumnValues returns stored columns and their values, primary key
// columns only when withPrimary is set
func getColumnValues(obj any, withPrimary bool) ([]string, []any) {
	v := reflect.Indirect(reflect.ValueOf(obj))
	var columns []string
	var values []any
	for _, f := range persistedFields(obj) {
		if f.primary && !withPrimary {
			continue
		}
		columns = append(columns, f.column)
		values = append(values, v.Field(f.index).Interface())
	}
	return columns, values
}

func getSelectData(obj any) ([]string, []any) {
	v := reflect.Indirect(reflect.ValueOf(obj))
	var columns []string
	var destinations []any
	for _, f := range persistedFields(obj) {
		columns = append(columns, f.column)
		destinations = append(destinations, v.Field(f.index).Addr().Interface())
	}
	return columns, destinations
}

// buildWhereClause builds a WHERE clause from a primary key map, columns in
// name order so the generated SQL is stable
func buildWhereClause(primaryKey map[string]any) (string, []any) {
	columns := make([]string, 0, len(primaryKey))
	for c := range primaryKey {
		columns = append(columns, c)
	}
	sort.Strings(columns)

	conditions := make([]string, len(columns))
	values := make([]any, len(columns))
	for i, c := range columns {
		conditions[i] = c + " = ?"
		values[i] = primaryKey[c]
	}
	return strings.Join(conditions, " AND "), values
}
