package repository

import (
	"database/sql"
	"errors"
)

// ErrNotFound is returned when a lookup or an owner-scoped write matches no row.
var ErrNotFound = errors.New("record not found")

// notFound maps sql.ErrNoRows to ErrNotFound and passes other errors through.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// expectAffected returns ErrNotFound when a write touched no rows.
func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
