package postgres

import (
	"errors"
	"fmt"

	"wallet-ledger/pkg/apperror"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the store reacts to.
const (
	sqlStateUniqueViolation      = "23505"
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
	sqlStateLockNotAvailable     = "55P03" // lock_timeout
	sqlStateQueryCanceled        = "57014" // statement_timeout
)

var (
	errVersionConflict = errors.New("wallet version changed concurrently")
	errDuplicateKey    = errors.New("idempotency key already recorded")
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == sqlStateUniqueViolation
}

// storageError classifies an infrastructure failure. Statements the server
// rejected outright are internal errors; everything else (lost connections,
// deadlines, lock conflicts) leaves the outcome unknown and is retryable.
func storageError(op string, err error) error {
	wrapped := fmt.Errorf("%s: %w", op, err)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlStateSerializationFailure, sqlStateDeadlockDetected,
			sqlStateLockNotAvailable, sqlStateQueryCanceled:
			return apperror.ErrStorageUnavailable(wrapped)
		}
		return apperror.InternalError(wrapped)
	}
	return apperror.ErrStorageUnavailable(wrapped)
}

// scanError passes decoded AppErrors through and classifies the rest.
func scanError(op string, err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return storageError(op, err)
}
