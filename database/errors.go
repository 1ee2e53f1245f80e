package database

import (
	"errors"

	"minicourse/apperr"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// IsRetryable reports whether err is a lock conflict or a lost race on a
// unique index, i.e. a failure that a fresh read-modify-write may not hit.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if apperr.KindOf(err) != nil && !errors.Is(err, apperr.ErrTransient) {
		return false
	}
	if errors.Is(err, apperr.ErrTransient) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", // serialization_failure
			"40P01", // deadlock_detected
			"55P03", // lock_not_available
			"23505": // unique_violation
			return true
		}
		return false
	}

	var myErr *mysqlDriver.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1205, 1213, 1062:
			return true
		}
		return false
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code {
		case sqlite3.ErrBusy, sqlite3.ErrLocked:
			return true
		case sqlite3.ErrConstraint:
			return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique
		}
	}
	return false
}
