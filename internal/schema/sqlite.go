package schema

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLiteInspector reads tables through the pragma table-valued functions.
type SQLiteInspector struct {
	db *sql.DB
}

// NewSQLiteInspector creates a new SQLite schema inspector
func NewSQLiteInspector(db *sql.DB) *SQLiteInspector {
	return &SQLiteInspector{db: db}
}

func (s *SQLiteInspector) Inspect(ctx context.Context, tables ...string) (*Schema, error) {
	names := tables
	if len(names) == 0 {
		var err error
		if names, err = s.tableNames(ctx); err != nil {
			return nil, fmt.Errorf("failed to get table names: %w", err)
		}
	}

	out := &Schema{}
	for _, name := range names {
		table, err := s.table(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to inspect table %s: %w", name, err)
		}
		out.Tables = append(out.Tables, *table)
	}
	return out, nil
}

func (s *SQLiteInspector) tableNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT name
FROM sqlite_master
WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

func (s *SQLiteInspector) table(ctx context.Context, name string) (*Table, error) {
	t := &Table{Name: name}
	if err := s.columns(ctx, t); err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}
	var err error
	if t.ForeignKeys, err = s.foreignKeys(ctx, name); err != nil {
		return nil, fmt.Errorf("foreign keys: %w", err)
	}
	if t.Indexes, err = s.indexes(ctx, name); err != nil {
		return nil, fmt.Errorf("indexes: %w", err)
	}
	return t, nil
}

func (s *SQLiteInspector) columns(ctx context.Context, t *Table) error {
	rows, err := s.db.QueryContext(ctx, `SELECT name, type, "notnull", dflt_value, pk FROM pragma_table_info(?) ORDER BY cid`, t.Name)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var c Column
		var notNull, pk int
		if err := rows.Scan(&c.Name, &c.Type, &notNull, &c.Default, &pk); err != nil {
			return err
		}
		// INTEGER PRIMARY KEY is a rowid alias and never NULL.
		c.Nullable = notNull == 0 && pk == 0
		if pk > 0 {
			t.PrimaryKey = append(t.PrimaryKey, c.Name)
		}
		t.Columns = append(t.Columns, c)
	}
	return rows.Err()
}

func (s *SQLiteInspector) foreignKeys(ctx context.Context, table string) ([]ForeignKey, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT "from", "table", "to" FROM pragma_foreign_key_list(?) ORDER BY id, seq`, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ForeignKey
	for rows.Next() {
		var fk ForeignKey
		if err := rows.Scan(&fk.Column, &fk.TargetTable, &fk.TargetColumn); err != nil {
			return nil, err
		}
		out = append(out, fk)
	}
	return out, rows.Err()
}

func (s *SQLiteInspector) indexes(ctx context.Context, table string) ([]Index, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, "unique" FROM pragma_index_list(?) WHERE origin = 'c' ORDER BY name`, table)
	if err != nil {
		return nil, err
	}
	var out []Index
	for rows.Next() {
		var idx Index
		var unique int
		if err := rows.Scan(&idx.Name, &unique); err != nil {
			rows.Close()
			return nil, err
		}
		idx.Unique = unique == 1
		out = append(out, idx)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range out {
		cols, err := s.indexColumns(ctx, out[i].Name)
		if err != nil {
			return nil, err
		}
		out[i].Columns = cols
	}
	return out, nil
}

func (s *SQLiteInspector) indexColumns(ctx context.Context, index string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM pragma_index_info(?) ORDER BY seqno`, index)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}
