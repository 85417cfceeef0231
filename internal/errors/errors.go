package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidInput is returned when a request is missing fields or a value is out of range.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthenticated is returned when a credential is missing, wrong or expired.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden is returned when the caller's role does not allow the operation.
	ErrForbidden = errors.New("access denied, you are not allowed to perform this function")
	// ErrConflict is returned when a unique field is already taken.
	ErrConflict = errors.New("already in use")

	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrProductNotFound is returned when a product is not found.
	ErrProductNotFound = errors.New("product not found")
	// ErrReviewsNotFound is returned when a lookup yields no reviews.
	ErrReviewsNotFound = errors.New("no reviews found")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Message: e.Message,
		Code:    e.Code,
	}
}

// Detail attaches a human readable message to a sentinel while keeping it matchable with errors.Is.
func Detail(sentinel error, message string) error {
	return &detailed{sentinel: sentinel, message: message}
}

type detailed struct {
	sentinel error
	message  string
}

func (d *detailed) Error() string { return d.message }
func (d *detailed) Unwrap() error { return d.sentinel }

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return NewHTTPError(http.StatusBadRequest, messageOf(err), "INVALID_INPUT")
	case errors.Is(err, ErrUnauthenticated):
		return NewHTTPError(http.StatusUnauthorized, messageOf(err), "UNAUTHENTICATED")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, messageOf(err), "FORBIDDEN")
	case errors.Is(err, ErrConflict):
		// The public API has always answered duplicates with 400.
		return NewHTTPError(http.StatusBadRequest, messageOf(err), "CONFLICT")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, messageOf(err), "USER_NOT_FOUND")
	case errors.Is(err, ErrProductNotFound):
		return NewHTTPError(http.StatusNotFound, messageOf(err), "PRODUCT_NOT_FOUND")
	case errors.Is(err, ErrReviewsNotFound):
		return NewHTTPError(http.StatusNotFound, messageOf(err), "REVIEWS_NOT_FOUND")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}

// messageOf returns the outermost Detail message, or the error text.
func messageOf(err error) string {
	var d *detailed
	if errors.As(err, &d) {
		return d.message
	}
	return err.Error()
}
