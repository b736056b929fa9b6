package apierror

import (
	"errors"

	"github.com/axalapp/claims-api-service/internal/types"
)

// GenericMessage replaces engine messages on the public submission and
// dispute endpoints
const GenericMessage = "Something went wrong, please try again"

const genericValidationMessage = "Invalid input, please check the request and try again"

// Public keeps the status and error code of err but hides its message. The
// reason is kept so the caller can still log it.
func Public(err *types.Error) *types.Error {
	if err == nil {
		return nil
	}
	msg := GenericMessage
	if err.ErrorCode == types.ValidationError || err.ErrorCode == types.BadRequest {
		msg = genericValidationMessage
	}
	return &types.Error{
		Err:        errors.New(msg),
		StatusCode: err.StatusCode,
		ErrorCode:  err.ErrorCode,
		Reason:     err.Reason,
	}
}
