package repositories

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrSchemeNotFound            = errors.New("scheme not found")
	ErrDuplicateSchemeName       = errors.New("scheme name already exists")
	ErrCommissionNotFound        = errors.New("commission not found")
	ErrSlabNotFound              = errors.New("commission slab not found")
	ErrDuplicateActiveCommission = errors.New("active commission already exists")
	ErrOperatorNotFound          = errors.New("service operator not found")
	ErrDuplicateOperator         = errors.New("service operator already exists")
)

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err came from a unique constraint.
// Postgres errors arrive either translated by gorm or as *pgconn.PgError;
// SQLite only exposes the message.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
