package repository

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("not found")

// ForeignKeyError is a 23503 from postgres: an inserted row referenced a key
// that doesn't exist.
type ForeignKeyError struct {
	Constraint string
}

func (e *ForeignKeyError) Error() string {
	return fmt.Sprintf("the key %s doesn't refer to anything", e.Constraint)
}

// UniqueError is a 23505 from postgres: a unique constraint was violated.
type UniqueError struct {
	Constraint string
}

func (e *UniqueError) Error() string {
	return fmt.Sprintf("the field %s is already used", e.Constraint)
}

// translateConstraintErr converts postgres constraint violations into the
// repository taxonomy so callers never see SQLSTATE codes.
func translateConstraintErr(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case "23503":
		return &ForeignKeyError{Constraint: pgErr.ConstraintName}
	case "23505":
		return &UniqueError{Constraint: pgErr.ConstraintName}
	}

	return err
}
