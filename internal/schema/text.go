package schema

import (
	"fmt"
	"io"
	"strings"
)

// WriteText prints the schema one table per block, with its columns,
// references and indexes.
func WriteText(w io.Writer, s *Schema) error {
	for i, table := range s.Tables {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := writeTable(w, table); err != nil {
			return err
		}
	}
	return nil
}

func writeTable(w io.Writer, table Table) error {
	var b strings.Builder

	pk := ""
	if len(table.PrimaryKey) > 0 {
		pk = fmt.Sprintf(" (PK: %s)", strings.Join(table.PrimaryKey, ", "))
	}
	fmt.Fprintf(&b, "TABLE %s%s\n", table.Name, pk)

	for _, col := range table.Columns {
		fmt.Fprintf(&b, "  %s\n", formatColumn(col))
	}

	if len(table.ForeignKeys) > 0 {
		b.WriteString("  REFERENCES:\n")
		for _, fk := range table.ForeignKeys {
			name := ""
			if fk.Name != "" {
				name = " " + fk.Name
			}
			fmt.Fprintf(&b, "    %s -> %s.%s%s\n", fk.Column, fk.TargetTable, fk.TargetColumn, name)
		}
	}

	if len(table.Indexes) > 0 {
		b.WriteString("  INDEXES:\n")
		for _, idx := range table.Indexes {
			unique := ""
			if idx.Unique {
				unique = " UNIQUE"
			}
			fmt.Fprintf(&b, "    %s (%s)%s\n", idx.Name, strings.Join(idx.Columns, ", "), unique)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func formatColumn(col Column) string {
	parts := []string{col.Name, strings.ToLower(col.Type)}
	if !col.Nullable {
		parts = append(parts, "NOT NULL")
	}
	if col.Default != nil {
		parts = append(parts, "DEFAULT "+*col.Default)
	}
	return strings.Join(parts, " ")
}
