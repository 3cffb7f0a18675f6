package sqlutil

import (
	"errors"

	"github.com/lib/pq"

	"github.com/mcdev12/pickswap/go/internal/errs"
)

// Postgres error codes that mean the atomic unit could not complete and may be retried
var conflictCodes = map[pq.ErrorCode]bool{
	"23505": true, // unique_violation
	"23503": true, // foreign_key_violation
	"23514": true, // check_violation
	"40001": true, // serialization_failure
	"40P01": true, // deadlock_detected
}

// Classify tags Postgres conflict errors as errs.KindStorageConflict.
// Errors that already carry a kind are returned untouched.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var kinded *errs.Error
	if errors.As(err, &kinded) {
		return err
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && conflictCodes[pqErr.Code] {
		return errs.Wrap(errs.KindStorageConflict, err, "storage conflict (%s)", pqErr.Code.Name())
	}
	return err
}

// IsUniqueViolation reports whether err is a Postgres unique_violation
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
