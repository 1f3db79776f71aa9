// Package pgerr maps PostgreSQL driver errors to the domain error kinds.
package pgerr

import (
	"errors"

	"fulfillment/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes after which the whole transaction may be replayed.
const (
	SerializationFailure = "40001"
	DeadlockDetected     = "40P01"
	UniqueViolation      = "23505"
)

// Wrap turns a storage error raised during op into a PersistenceFailure.
// Serialization failures and deadlocks are marked transient. Errors that
// already carry a domain kind, and nil, are returned unchanged.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errs.KindOf(err) != errs.KindInternal {
		return err
	}
	if IsTransient(err) {
		return errs.NewTransientPersistenceFailureError(op, err)
	}
	return errs.NewPersistenceFailureError(op, err)
}

// IsTransient reports whether err is a serialization failure or a deadlock.
func IsTransient(err error) bool {
	code := Code(err)
	return code == SerializationFailure || code == DeadlockDetected
}

// Code returns the SQLSTATE of err, or "" when err does not come from the
// server.
func Code(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
