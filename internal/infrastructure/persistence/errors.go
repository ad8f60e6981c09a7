package persistence

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/kavia-common/vintage-market-hub/backend/internal/domain/catalog"
	"github.com/kavia-common/vintage-market-hub/backend/internal/domain/shared"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Unique indexes on the natural keys, as named by the migrations
const (
	regionsCodeIndex    = "ix_regions_code"
	categoriesNameIndex = "ix_categories_name"
)

// PostgreSQL SQLSTATE codes
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// IsUniqueViolation reports whether err is a unique constraint violation, either
// translated by GORM or as a raw PostgreSQL error from pgx or lib/pq.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return hasSQLState(err, pgUniqueViolation)
}

// IsForeignKeyViolation reports whether err is a foreign key constraint violation
func IsForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return hasSQLState(err, pgForeignKeyViolation)
}

// ConstraintName returns the violated constraint of a PostgreSQL error, or ""
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint
	}
	return ""
}

func hasSQLState(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	// Connections opened through lib/pq report *pq.Error
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == code
}

// translateInsertError maps a failed reference row insert onto domain errors.
// A unique violation of naturalKeyIndex means the row already exists; a foreign
// key violation means the parent row is missing. Any other failure is returned
// with the violated constraint named when the driver reports one.
func translateInsertError(err error, naturalKeyIndex string) error {
	constraint := ConstraintName(err)
	if constraint != "" {
		err = fmt.Errorf("constraint %s: %w", constraint, err)
	}

	switch {
	case IsUniqueViolation(err) && constraint == naturalKeyIndex:
		return shared.ErrAlreadyExists
	case IsForeignKeyViolation(err):
		return fmt.Errorf("%w: %w", catalog.ErrMissingParent, err)
	}
	return err
}
