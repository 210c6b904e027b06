package domain

import (
	"errors"
	"fmt"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrEventNotFound    = errors.New("event not found")
	ErrTicketNotFound   = errors.New("ticket not found")

	ErrForeignKeyViolation = errors.New("foreign key violation")
	ErrNotNullViolation    = errors.New("not null violation")
	ErrUniqueViolation     = errors.New("unique violation")
)

// ConstraintError reports a write rejected by the database. Kind is one of
// ErrForeignKeyViolation, ErrNotNullViolation or ErrUniqueViolation. Table is
// the table the rejected statement wrote to, so a refused customer delete
// reports customers.
type ConstraintError struct {
	Kind       error
	Table      string
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("%s on %s (%s): %v", e.Kind, e.Table, e.Constraint, e.Err)
	}
	return fmt.Sprintf("%s on %s: %v", e.Kind, e.Table, e.Err)
}

func (e *ConstraintError) Is(target error) bool {
	return target == e.Kind
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}
