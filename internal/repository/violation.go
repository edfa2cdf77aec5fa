package repository

import (
	"errors"

	"github.com/lib/pq"
)

const (
	pgUniqueViolation     = pq.ErrorCode("23505")
	pgForeignKeyViolation = pq.ErrorCode("23503")
)

// uniqueViolation extracts the constraint name from a postgres unique
// violation. The constraint name is the only signal identifying which
// uniqueness rule rejected a write.
func uniqueViolation(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
		return pqErr.Constraint, true
	}
	return "", false
}

// foreignKeyViolation reports whether err is a postgres referential
// integrity rejection.
func foreignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgForeignKeyViolation
}
