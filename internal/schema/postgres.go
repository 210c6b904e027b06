package schema

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresInspector reads tables from the connection's current schema.
type PostgresInspector struct {
	pool *pgxpool.Pool
}

// NewPostgresInspector creates a new PostgreSQL schema inspector
func NewPostgresInspector(pool *pgxpool.Pool) *PostgresInspector {
	return &PostgresInspector{pool: pool}
}

func (p *PostgresInspector) Inspect(ctx context.Context, tables ...string) (*Schema, error) {
	names := tables
	if len(names) == 0 {
		var err error
		if names, err = p.tableNames(ctx); err != nil {
			return nil, fmt.Errorf("failed to get table names: %w", err)
		}
	}

	out := &Schema{}
	for _, name := range names {
		table, err := p.table(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to inspect table %s: %w", name, err)
		}
		out.Tables = append(out.Tables, *table)
	}
	return out, nil
}

func (p *PostgresInspector) tableNames(ctx context.Context) ([]string, error) {
	const query = `
SELECT table_name
FROM information_schema.tables
WHERE table_schema = current_schema() AND table_type = 'BASE TABLE'
ORDER BY table_name`
	return p.strings(ctx, query)
}

func (p *PostgresInspector) table(ctx context.Context, name string) (*Table, error) {
	t := &Table{Name: name}
	var err error
	if t.Columns, err = p.columns(ctx, name); err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}
	if t.PrimaryKey, err = p.primaryKey(ctx, name); err != nil {
		return nil, fmt.Errorf("primary key: %w", err)
	}
	if t.ForeignKeys, err = p.foreignKeys(ctx, name); err != nil {
		return nil, fmt.Errorf("foreign keys: %w", err)
	}
	if t.Indexes, err = p.indexes(ctx, name); err != nil {
		return nil, fmt.Errorf("indexes: %w", err)
	}
	return t, nil
}

func (p *PostgresInspector) columns(ctx context.Context, table string) ([]Column, error) {
	const query = `
SELECT column_name, data_type, is_nullable, column_default
FROM information_schema.columns
WHERE table_schema = current_schema() AND table_name = $1
ORDER BY ordinal_position`
	rows, err := p.pool.Query(ctx, query, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []Column
	for rows.Next() {
		var c Column
		var nullable string
		if err := rows.Scan(&c.Name, &c.Type, &nullable, &c.Default); err != nil {
			return nil, err
		}
		c.Nullable = nullable == "YES"
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

func (p *PostgresInspector) primaryKey(ctx context.Context, table string) ([]string, error) {
	const query = `
SELECT kcu.column_name
FROM information_schema.table_constraints tc
JOIN information_schema.key_column_usage kcu
	ON tc.constraint_name = kcu.constraint_name
	AND tc.table_schema = kcu.table_schema
WHERE tc.table_schema = current_schema()
	AND tc.table_name = $1
	AND tc.constraint_type = 'PRIMARY KEY'
ORDER BY kcu.ordinal_position`
	return p.strings(ctx, query, table)
}

func (p *PostgresInspector) foreignKeys(ctx context.Context, table string) ([]ForeignKey, error) {
	const query = `
SELECT con.conname, att.attname, ref.relname, ratt.attname
FROM pg_constraint con
JOIN pg_class rel ON rel.oid = con.conrelid
JOIN pg_namespace ns ON ns.oid = rel.relnamespace
JOIN pg_class ref ON ref.oid = con.confrelid
JOIN pg_attribute att ON att.attrelid = con.conrelid AND att.attnum = con.conkey[1]
JOIN pg_attribute ratt ON ratt.attrelid = con.confrelid AND ratt.attnum = con.confkey[1]
WHERE con.contype = 'f' AND ns.nspname = current_schema() AND rel.relname = $1
ORDER BY con.conname`
	rows, err := p.pool.Query(ctx, query, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fks []ForeignKey
	for rows.Next() {
		var fk ForeignKey
		if err := rows.Scan(&fk.Name, &fk.Column, &fk.TargetTable, &fk.TargetColumn); err != nil {
			return nil, err
		}
		fks = append(fks, fk)
	}
	return fks, rows.Err()
}

func (p *PostgresInspector) indexes(ctx context.Context, table string) ([]Index, error) {
	const query = `
SELECT i.relname, ix.indisunique, a.attname
FROM pg_index ix
JOIN pg_class t ON t.oid = ix.indrelid
JOIN pg_class i ON i.oid = ix.indexrelid
JOIN pg_namespace ns ON ns.oid = t.relnamespace
JOIN LATERAL unnest(ix.indkey::int2[]) WITH ORDINALITY AS k(attnum, ord) ON TRUE
JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = k.attnum
WHERE ns.nspname = current_schema() AND t.relname = $1 AND NOT ix.indisprimary
ORDER BY i.relname, k.ord`
	rows, err := p.pool.Query(ctx, query, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Index
	for rows.Next() {
		var name, column string
		var unique bool
		if err := rows.Scan(&name, &unique, &column); err != nil {
			return nil, err
		}
		if n := len(out); n > 0 && out[n-1].Name == name {
			out[n-1].Columns = append(out[n-1].Columns, column)
			continue
		}
		out = append(out, Index{Name: name, Unique: unique, Columns: []string{column}})
	}
	return out, rows.Err()
}

func (p *PostgresInspector) strings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
