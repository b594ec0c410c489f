package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	"github.com/fraperfra/TELEMARKETING/internal/model"
)

const pgExclusionViolation = "23P01"

// isOverlapViolation recognises the overlap guard rejecting an appointment
// write, whichever driver is in use. Other constraint failures (NOT NULL,
// foreign keys, primary keys) are not overlaps and must not be retried.
func isOverlapViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgExclusionViolation || pgErr.ConstraintName == model.OverlapGuardName
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code != sqlite3.ErrConstraint {
			return false
		}
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintTrigger ||
			strings.Contains(sqliteErr.Error(), model.OverlapGuardName)
	}

	return strings.Contains(err.Error(), model.OverlapGuardName)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ErrNotFound
	}
	return err
}
