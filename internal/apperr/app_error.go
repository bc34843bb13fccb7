package apperr

import (
	"errors"

	"github.com/tuanvumaihuynh/perishable-catalog/pkg/zerror"
)

const (
	ValidationErrorCode   = "VALIDATION_FAILED"
	InvalidInputErrorCode = "INVALID_INPUT"
	SaveErrorCode         = "SAVE_FAILED"
	InternalErrorCode     = "INTERNAL"
)

var (
	ValidationErr   = zerror.NewValidationFailed(ValidationErrorCode, "validation error")
	InvalidInputErr = zerror.NewInvalidInput(InvalidInputErrorCode, "invalid input")
	SaveErr         = zerror.NewStorageFailed(SaveErrorCode, "error saving products")
	InternalErr     = zerror.NewInternal(InternalErrorCode, "internal error")
)

// Message returns the human-readable message of the first ZError in err's
// chain, or err.Error() when there is none.
func Message(err error) string {
	var zErr zerror.ZError
	if errors.As(err, &zErr) {
		return zErr.Msg()
	}
	return err.Error()
}
