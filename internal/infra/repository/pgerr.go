package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation    = "23505"
	pgExclusionViolation = "23P01"
)

func isPgCode(err error, codes ...string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	for _, c := range codes {
		if pgErr.Code == c {
			return true
		}
	}
	return false
}

// isOverlapViolation matches the gist exclusion constraint on (box_id, during),
// the storage-level authority against double-booking.
func isOverlapViolation(err error) bool {
	return isPgCode(err, pgExclusionViolation, pgUniqueViolation)
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
