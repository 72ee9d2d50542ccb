package repository

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// IsUniqueViolation reports whether err was caused by a unique constraint.
// GORM translates driver errors when TranslateError is on, but the postgres
// error code is checked as well since raw pgconn errors can surface from
// statements executed inside transactions.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}
	return false
}

// IsNotFound reports whether err means the queried row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// createInSavepoint runs the insert in a nested transaction. Postgres aborts
// the whole surrounding transaction on a constraint failure; the savepoint
// gorm emits for the nested transaction confines the abort to the insert, so
// duplicate-key fallback statements can still run on the outer transaction.
func createInSavepoint(tx *gorm.DB, value interface{}) error {
	return tx.Transaction(func(tx *gorm.DB) error {
		return tx.Create(value).Error
	})
}
