// Package repository implements the persistence collaborators on top of gorm.
//
// Every method classifies its failures with apperr: a missing row is ErrNotFound,
// a unique index violation or a transaction aborted by a concurrent writer
// (deadlock, lock wait timeout, serialization failure) is ErrConflict and
// anything else is ErrStorage.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bizbooks/internal/apperr"
)

const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	mysqlDuplicateEntry    = 1062
	mysqlLockWaitTimeout   = 1205
	mysqlDeadlock          = 1213
	sqliteUniqueFailure    = "UNIQUE constraint failed"
	sqliteDialectName      = "sqlite"
)

// translate classifies a gorm error. Errors already classified pass through.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &apperr.Error{Op: op, Kind: apperr.ErrNotFound, Message: "record not found", Err: err}
	}
	if isUniqueViolation(err) {
		return &apperr.Error{Op: op, Kind: apperr.ErrConflict, Message: "duplicate value violates a unique constraint", Err: err}
	}
	if isConcurrentAbort(err) {
		return &apperr.Error{Op: op, Kind: apperr.ErrConflict, Message: "transaction aborted by a concurrent writer", Err: err}
	}
	return apperr.Storage(op, err)
}

// isConcurrentAbort reports errors after which the database rolled the
// transaction back because of another writer. The work may be retried as a whole.
func isConcurrentAbort(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDeadlock || myErr.Number == mysqlLockWaitTimeout
	}
	return false
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return true
	}
	return strings.Contains(err.Error(), sqliteUniqueFailure)
}

// findOne runs q.First and reports a missing row as NotFound with message.
func findOne[T any](q *gorm.DB, op, message string) (*T, error) {
	var out T
	err := q.First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(op, message)
	}
	if err != nil {
		return nil, translate(op, err)
	}
	return &out, nil
}

// exists reports whether q matches at least one row of T.
func exists[T any](q *gorm.DB, op string) (bool, error) {
	var n int64
	if err := q.Model(new(T)).Count(&n).Error; err != nil {
		return false, translate(op, err)
	}
	return n > 0, nil
}

// findAll runs q.Find and never returns a nil slice.
func findAll[T any](q *gorm.DB, op string) ([]T, error) {
	out := []T{}
	if err := q.Find(&out).Error; err != nil {
		return nil, translate(op, err)
	}
	return out, nil
}

// forUpdate locks the selected rows on dialects that support SELECT ... FOR UPDATE.
func forUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == sqliteDialectName {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// likePattern builds a case-insensitive substring pattern.
func likePattern(term string) string {
	return "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
}
