package repository

import (
	"errors"
	"math"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// pgUniqueViolation is the SQLSTATE postgres reports for unique index conflicts
const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err came from a unique constraint,
// either translated by gorm or raw from the pgx driver.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// IsNotFound hides the gorm sentinel from callers.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// offset converts a 1-based page into a row offset, saturating instead of overflowing
func offset(page, pageSize int) int {
	if page < 1 || pageSize < 1 {
		return 0
	}
	if page-1 > math.MaxInt/pageSize {
		return math.MaxInt / pageSize * pageSize
	}
	return (page - 1) * pageSize
}
