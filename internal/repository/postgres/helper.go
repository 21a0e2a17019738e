package postgres

import (
	"database/sql"
	"errors"

	ierr "github.com/healthbill/healthbill/internal/errors"
	"github.com/lib/pq"
)

const pqUniqueViolation = "23505"

// wrapGetError maps a single row lookup failure to a marked error
func wrapGetError(err error, entity, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ierr.WithError(err).
			WithHintf("%s %s not found", entity, id).
			WithReportableDetails(map[string]any{
				"id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return ierr.WithError(err).
		WithHintf("getting %s failed", entity).
		Mark(ierr.ErrDatabase)
}

// wrapWriteError maps an insert or update failure to a marked error
func wrapWriteError(err error, hint string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		return ierr.WithError(err).
			WithHint(hint + ": already exists").
			WithReportableDetails(map[string]any{
				"constraint": pqErr.Constraint,
			}).
			Mark(ierr.ErrAlreadyExists)
	}
	return ierr.WithError(err).
		WithHint(hint).
		Mark(ierr.ErrDatabase)
}

func wrapQueryError(err error, hint string) error {
	return ierr.WithError(err).
		WithHint(hint).
		Mark(ierr.ErrDatabase)
}
