// Package schema reads the live table layout back out of a database so the
// migrated structure can be checked and printed.
package schema

import "context"

// Inspector extracts the schema for the named tables, or every table when
// none are named.
type Inspector interface {
	Inspect(ctx context.Context, tables ...string) (*Schema, error)
}

// Schema represents a complete database schema
type Schema struct {
	Tables []Table
}

// Table represents a database table
type Table struct {
	Name        string
	Columns     []Column
	PrimaryKey  []string
	ForeignKeys []ForeignKey
	Indexes     []Index
}

// Column represents a table column
type Column struct {
	Name     string
	Type     string
	Nullable bool
	Default  *string
}

// ForeignKey is a single-column reference. Name is empty on SQLite, which
// does not report constraint names.
type ForeignKey struct {
	Name         string
	Column       string
	TargetTable  string
	TargetColumn string
}

// Index represents a secondary index; primary keys are not listed.
type Index struct {
	Name    string
	Columns []string
	Unique  bool
}

// Table returns the named table or nil.
func (s *Schema) Table(name string) *Table {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i]
		}
	}
	return nil
}

// Column returns the first column with the given name or nil.
func (t *Table) Column(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// ColumnCount counts columns named name. A healthy table reports 0 or 1.
func (t *Table) ColumnCount(name string) int {
	n := 0
	for _, c := range t.Columns {
		if c.Name == name {
			n++
		}
	}
	return n
}

// ForeignKey returns the reference declared on column or nil.
func (t *Table) ForeignKey(column string) *ForeignKey {
	for i := range t.ForeignKeys {
		if t.ForeignKeys[i].Column == column {
			return &t.ForeignKeys[i]
		}
	}
	return nil
}

// Index returns the named index or nil.
func (t *Table) Index(name string) *Index {
	for i := range t.Indexes {
		if t.Indexes[i].Name == name {
			return &t.Indexes[i]
		}
	}
	return nil
}
