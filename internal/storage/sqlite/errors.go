package sqlite

import (
	"errors"

	"github.com/AlexMasonAM/TicketBlaster/internal/domain"
	"github.com/mattn/go-sqlite3"
)

// constraintError translates integrity violations into *domain.ConstraintError
// and returns nil for anything else. SQLite does not name the violated
// constraint, so Constraint stays empty.
func constraintError(err error, table string) error {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) || sqliteErr.Code != sqlite3.ErrConstraint {
		return nil
	}

	var kind error
	switch sqliteErr.ExtendedCode {
	case sqlite3.ErrConstraintForeignKey:
		kind = domain.ErrForeignKeyViolation
	case sqlite3.ErrConstraintNotNull:
		kind = domain.ErrNotNullViolation
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		kind = domain.ErrUniqueViolation
	default:
		return nil
	}
	return &domain.ConstraintError{Kind: kind, Table: table, Err: err}
}
