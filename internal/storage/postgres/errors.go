package postgres

import (
	"errors"

	"github.com/AlexMasonAM/TicketBlaster/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeForeignKeyViolation = "23503"
	codeNotNullViolation    = "23502"
	codeUniqueViolation     = "23505"
)

// constraintError translates integrity violations into *domain.ConstraintError
// and returns nil for anything else. table is the table the statement wrote
// to; pgErr.TableName is not used because a rejected delete reports the
// referencing table there.
func constraintError(err error, table string) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}

	var kind error
	switch pgErr.Code {
	case codeForeignKeyViolation:
		kind = domain.ErrForeignKeyViolation
	case codeNotNullViolation:
		kind = domain.ErrNotNullViolation
	case codeUniqueViolation:
		kind = domain.ErrUniqueViolation
	default:
		return nil
	}

	return &domain.ConstraintError{
		Kind:       kind,
		Table:      table,
		Constraint: pgErr.ConstraintName,
		Err:        err,
	}
}
