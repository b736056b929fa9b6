package types

import (
	"errors"
	"net/http"
)

type ErrorCode string

func (e ErrorCode) String() string {
	return string(e)
}

const (
	// 5XX
	InternalServiceError ErrorCode = "INTERNAL_SERVICE_ERROR"
	ServiceUnavailable   ErrorCode = "SERVICE_UNAVAILABLE"
	// 4XX
	ValidationError   ErrorCode = "VALIDATION_ERROR"
	NotFound          ErrorCode = "NOT_FOUND"
	BadRequest        ErrorCode = "BAD_REQUEST"
	Unauthorized      ErrorCode = "UNAUTHORIZED"
	Forbidden         ErrorCode = "FORBIDDEN"
	Conflict          ErrorCode = "CONFLICT"
	InsufficientFunds ErrorCode = "INSUFFICIENT_FUNDS"
	RequestTimeout    ErrorCode = "REQUEST_TIMEOUT"
)

// ErrorReason is the specific engine failure behind an ErrorCode. It is kept for
// logging and audit even when the API only exposes the coarser code.
type ErrorReason string

func (r ErrorReason) String() string {
	return string(r)
}

const (
	ReasonUnspecified ErrorReason = ""

	InvalidAddress ErrorReason = "InvalidAddress"
	InvalidClaimID ErrorReason = "InvalidClaimID"
	InvalidEmail   ErrorReason = "InvalidEmail"
	InvalidOutcome ErrorReason = "InvalidOutcome"

	DuplicateActiveClaim     ErrorReason = "DuplicateActiveClaim"
	AlreadyDisputed          ErrorReason = "AlreadyDisputed"
	AlreadyResolved          ErrorReason = "AlreadyResolved"
	ClaimNotDisputable       ErrorReason = "ClaimNotDisputable"
	ClaimNotMature           ErrorReason = "ClaimNotMature"
	ClaimAwaitingArbitration ErrorReason = "ClaimAwaitingArbitration"
	StateConflict            ErrorReason = "StateConflict"

	InsufficientBond ErrorReason = "InsufficientBond"

	ClaimNotFound           ErrorReason = "ClaimNotFound"
	StaleOrUnknownAssertion ErrorReason = "StaleOrUnknownAssertion"

	AdapterUnavailable ErrorReason = "AdapterUnavailable"

	InvalidSignature ErrorReason = "InvalidSignature"
)

var reasonCodes = map[ErrorReason]struct {
	statusCode int
	errorCode  ErrorCode
}{
	InvalidAddress:           {http.StatusBadRequest, ValidationError},
	InvalidClaimID:           {http.StatusBadRequest, ValidationError},
	InvalidEmail:             {http.StatusBadRequest, ValidationError},
	InvalidOutcome:           {http.StatusBadRequest, ValidationError},
	DuplicateActiveClaim:     {http.StatusConflict, Conflict},
	AlreadyDisputed:          {http.StatusConflict, Conflict},
	AlreadyResolved:          {http.StatusConflict, Conflict},
	ClaimNotDisputable:       {http.StatusConflict, Conflict},
	ClaimNotMature:           {http.StatusConflict, Conflict},
	ClaimAwaitingArbitration: {http.StatusConflict, Conflict},
	StateConflict:            {http.StatusConflict, Conflict},
	InsufficientBond:         {http.StatusPaymentRequired, InsufficientFunds},
	ClaimNotFound:            {http.StatusNotFound, NotFound},
	StaleOrUnknownAssertion:  {http.StatusNotFound, NotFound},
	AdapterUnavailable:       {http.StatusServiceUnavailable, ServiceUnavailable},
	InvalidSignature:         {http.StatusUnauthorized, Unauthorized},
}

// Error represents an error with an HTTP status code and an application-specific error code.
type Error struct {
	Err        error
	StatusCode int
	ErrorCode  ErrorCode
	Reason     ErrorReason
}

const UninitializedStatusCode = 0

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether the caller may safely repeat the failed operation.
func (e *Error) Retryable() bool {
	return e.Reason == AdapterUnavailable
}

// NewError creates a new Error with the provided status code, error code, and underlying error.
// If the status code is not provided (0), it defaults to http.StatusInternalServerError(500).
// If the error code is empty, it defaults to INTERNAL_SERVICE_ERROR.
func NewError(statusCode int, errorCode ErrorCode, err error) *Error {
	if statusCode == UninitializedStatusCode {
		statusCode = http.StatusInternalServerError
	}
	if errorCode == "" {
		errorCode = InternalServiceError
	}
	return &Error{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Err:        err,
	}
}

func NewErrorWithMsg(statusCode int, errorCode ErrorCode, msg string) *Error {
	return NewError(statusCode, errorCode, errors.New(msg))
}

func NewInternalServiceError(err error) *Error {
	return &Error{
		StatusCode: http.StatusInternalServerError,
		ErrorCode:  InternalServiceError,
		Err:        err,
	}
}

// NewReasonError builds an Error whose status and code are derived from the engine reason.
func NewReasonError(reason ErrorReason, msg string) *Error {
	codes, ok := reasonCodes[reason]
	if !ok {
		return NewInternalServiceError(errors.New(msg))
	}
	return &Error{
		StatusCode: codes.statusCode,
		ErrorCode:  codes.errorCode,
		Reason:     reason,
		Err:        errors.New(msg),
	}
}

// HasReason reports whether err is an *Error carrying the given reason.
func HasReason(err error, reason ErrorReason) bool {
	var e *Error
	if !errors.As(err, &e) || e == nil {
		return false
	}
	return e.Reason == reason
}
