package repositories

import (
	"errors"
	"fmt"

	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-utils"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

// Postgres SQLSTATE codes the store cares about.
const (
	pgCodeUniqueViolation      = "23505"
	pgCodeLockNotAvailable     = "55P03"
	pgCodeSerializationFailure = "40001"
	pgCodeDeadlockDetected     = "40P01"
)

var (
	// ErrLockNotAvailable is returned when a row is already locked by a
	// concurrent writer. Locks never wait.
	ErrLockNotAvailable = errors.New("lock_not_available")

	// ErrDuplicateKey is returned when an insert collides with a unique key.
	ErrDuplicateKey = errors.New("duplicate_key")
)

/*
EntityWithVersion is implemented by every mutable model through the embedded
models.Versioned plus its own GetID.
*/
type EntityWithVersion interface {
	GetID() string
	GetRowVersion() int64
	SetRowVersion(int64)
}

// IsConcurrencyConflict reports whether err means "another writer got there
// first". Callers surface it as a conflict and never retry inside the core.
func IsConcurrencyConflict(err error) bool {
	return errors.Is(err, utils.ErrRowVersionConflict) ||
		errors.Is(err, ErrLockNotAvailable) ||
		errors.Is(err, ErrDuplicateKey)
}

// translatePgError maps driver errors onto the store's sentinels.
func translatePgError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgCodeLockNotAvailable:
		return fmt.Errorf("%w: %s", ErrLockNotAvailable, pgErr.Message)
	case pgCodeUniqueViolation:
		return fmt.Errorf("%w: %s", ErrDuplicateKey, pgErr.ConstraintName)
	case pgCodeSerializationFailure, pgCodeDeadlockDetected:
		return fmt.Errorf("%w: %s", utils.ErrRowVersionConflict, pgErr.Message)
	default:
		return err
	}
}

// checkVersion compares the version the caller read with the stored one.
func checkVersion(current, candidate EntityWithVersion) error {
	if current == nil {
		return fmt.Errorf("%w: %s no longer exists", utils.ErrRowVersionConflict, candidate.GetID())
	}
	if current.GetRowVersion() != candidate.GetRowVersion() {
		return fmt.Errorf("%w: %s expected version %d, found %d",
			utils.ErrRowVersionConflict, candidate.GetID(),
			candidate.GetRowVersion(), current.GetRowVersion())
	}
	return nil
}

// isNoRows keeps the pgx.ErrNoRows comparison in one place.
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
