package service

import (
	"errors"

	appErrors "github.com/campuskit/timetable-api/pkg/errors"
)

// storeError passes through errors the repository layer already classified
// (conflicts, missing parents) and wraps anything else as internal.
func storeError(err error, message string) error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}
