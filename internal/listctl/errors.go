// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package listctl

import (
	"fmt"

	"github.com/taibuivan/erpconsole/internal/platform/apperr"
)

var (
	// ErrClosed is returned once the controller has been unmounted.
	ErrClosed = apperr.ServiceUnavailable("This list is no longer active")

	// ErrConfirmationRequired is returned by Remove without explicit confirmation.
	ErrConfirmationRequired = apperr.ConfirmationRequired("Deletion must be confirmed")

	// ErrBusy is returned when a request for the same record is still in flight.
	ErrBusy = apperr.Busy("A request for this record is already in progress")
)

// notFound builds the error for an identifier missing from the Collection.
func notFound(label string) *apperr.AppError {
	return apperr.NotFound(label)
}

// unknownStatus builds the error for a status facet outside the enum.
func unknownStatus(status string, allowed []string) *apperr.AppError {
	return apperr.ValidationError("Unknown status filter", apperr.FieldError{
		Field:   StatusField,
		Message: fmt.Sprintf("%q is not one of %v", status, allowed),
	})
}

// asMutationError keeps client-safe store errors and hides the rest.
func asMutationError(err error) error {
	if apperr.IsAppError(err) {
		return err
	}
	return apperr.Internal(err)
}

// reason extracts the toast-safe part of a failure, or "" when there is none.
func reason(err error) string {
	ae := apperr.As(err)
	if ae == nil || ae.HTTPStatus >= 500 {
		return ""
	}
	return ae.Message
}
