package apierr

import (
	"errors"
	"fmt"
	"net/http"

	govalidator "github.com/go-playground/validator/v10"

	"github.com/Shaikat-CSE/goldennicheims/pkg/validator"
	"github.com/Shaikat-CSE/goldennicheims/pkg/zerror"
)

// FieldError describes one invalid field of a request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse is the error response for the API.
type ErrorResponse struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details *[]FieldError `json:"details,omitempty"`

	// StatusCode is the status code for the error response.
	StatusCode int `json:"-"`
}

// ParamError reports a path or query parameter that could not be bound.
type ParamError struct {
	ParamName string
	Err       error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *ParamError) Unwrap() error {
	return e.Err
}

// BodyError reports a request body that could not be decoded.
type BodyError struct {
	Err error
}

func (e *BodyError) Error() string {
	return fmt.Sprintf("can't decode request body: %s", e.Err.Error())
}

func (e *BodyError) Unwrap() error {
	return e.Err
}

func New(err error) ErrorResponse {
	return errorToErrorResponse(err)
}

var InternalServerErr = ErrorResponse{
	Code:       "internalServerError",
	Message:    "an unknown error occurred",
	StatusCode: http.StatusInternalServerError,
}

func errorToErrorResponse(err error) ErrorResponse {
	var zErr zerror.ZError
	if errors.As(err, &zErr) {
		res := ErrorResponse{
			Code:       zErr.Code(),
			Message:    zErr.Msg(),
			StatusCode: ZErrorStatusToHTTPStatus(zErr.Status()),
		}

		var validationErrs govalidator.ValidationErrors
		if errors.As(zErr.Parent(), &validationErrs) {
			res.Details = fieldErrors(validationErrs)
		} else if p := zErr.Parent(); p != nil && zErr.Status() == zerror.StatusValidationFailed {
			res.Message = p.Error()
		}

		return res
	}

	var validationErrs govalidator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return ErrorResponse{
			Code:       "validationError",
			Message:    "validation error",
			Details:    fieldErrors(validationErrs),
			StatusCode: http.StatusBadRequest,
		}
	}

	if isRequestErr(err) {
		return ErrorResponse{
			Code:       "validationError",
			Message:    err.Error(),
			StatusCode: http.StatusBadRequest,
		}
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return ErrorResponse{
			Code:       "requestTooLarge",
			Message:    fmt.Sprintf("request body exceeds %d bytes", maxBytesErr.Limit),
			StatusCode: http.StatusRequestEntityTooLarge,
		}
	}

	return InternalServerErr
}

func fieldErrors(errs govalidator.ValidationErrors) *[]FieldError {
	details := make([]FieldError, len(errs))
	for i, fe := range errs {
		details[i] = FieldError{
			Field:   fe.Field(),
			Message: validator.ValidationErrorMessage(fe),
		}
	}
	return &details
}

func ZErrorStatusToHTTPStatus(status zerror.Status) int {
	switch status {
	case zerror.StatusUnauthorized:
		return http.StatusUnauthorized
	case zerror.StatusForbidden:
		return http.StatusForbidden
	case zerror.StatusNotFound:
		return http.StatusNotFound
	case zerror.StatusUnprocessableEntity:
		return http.StatusUnprocessableEntity
	case zerror.StatusConflict:
		return http.StatusConflict
	case zerror.StatusTooManyRequests:
		return http.StatusTooManyRequests
	case zerror.StatusBadRequest:
		return http.StatusBadRequest
	case zerror.StatusValidationFailed:
		return http.StatusBadRequest
	case zerror.StatusUnknown, zerror.StatusInternalServerError:
		return http.StatusInternalServerError
	case zerror.StatusTimeout:
		return http.StatusGatewayTimeout
	case zerror.StatusNotImplemented:
		return http.StatusNotImplemented
	case zerror.StatusBadGateway:
		return http.StatusBadGateway
	case zerror.StatusServiceUnavailable:
		return http.StatusServiceUnavailable
	case zerror.StatusInsufficientStorage:
		return http.StatusInsufficientStorage
	default:
		return http.StatusInternalServerError
	}
}

func isRequestErr(err error) bool {
	var (
		e1 *ParamError
		e2 *BodyError
	)

	return errors.As(err, &e1) || errors.As(err, &e2)
}
