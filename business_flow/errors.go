// Package businessflow contains the core business logic and use cases for panel routing workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Survey-related errors
	ErrSurveyNotFound     = errors.New("survey not found")
	ErrSurveyInactive     = errors.New("survey is inactive")
	ErrSurveyNameRequired = errors.New("survey name is required")
	ErrSurveyURLRequired  = errors.New("survey client URL is required")
	ErrSurveyURLInvalid   = errors.New("survey client URL is invalid")

	// Vendor-related errors
	ErrVendorNotFound     = errors.New("vendor not found")
	ErrVendorInactive     = errors.New("vendor is inactive")
	ErrVendorNameRequired = errors.New("vendor name is required")
	ErrVendorURLRequired  = errors.New("vendor redirect URL is required")
	ErrVendorURLInvalid   = errors.New("vendor redirect URL is invalid")

	// Session-related errors
	ErrSessionNotFound        = errors.New("session not found")
	ErrSessionAlreadyResolved = errors.New("session already resolved")

	// Listing errors
	ErrInvalidStatusPage = errors.New("invalid status page")
	ErrInvalidPage       = errors.New("page must be greater than zero")
	ErrInvalidPageSize   = errors.New("page size must be between 1 and 100")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func IsSurveyNotFound(err error) bool {
	return errors.Is(err, ErrSurveyNotFound)
}

func IsSurveyInactive(err error) bool {
	return errors.Is(err, ErrSurveyInactive)
}

func IsSurveyURLInvalid(err error) bool {
	return errors.Is(err, ErrSurveyURLInvalid)
}

func IsVendorNotFound(err error) bool {
	return errors.Is(err, ErrVendorNotFound)
}

func IsVendorInactive(err error) bool {
	return errors.Is(err, ErrVendorInactive)
}

func IsVendorURLInvalid(err error) bool {
	return errors.Is(err, ErrVendorURLInvalid)
}

func IsSessionNotFound(err error) bool {
	return errors.Is(err, ErrSessionNotFound)
}

func IsSessionAlreadyResolved(err error) bool {
	return errors.Is(err, ErrSessionAlreadyResolved)
}

func IsInvalidStatusPage(err error) bool {
	return errors.Is(err, ErrInvalidStatusPage)
}

func IsInvalidPage(err error) bool {
	return errors.Is(err, ErrInvalidPage)
}

func IsInvalidPageSize(err error) bool {
	return errors.Is(err, ErrInvalidPageSize)
}

// IsNotFoundLike reports whether the error must surface as a 404. Inactive
// entities are indistinguishable from missing ones at the HTTP boundary.
func IsNotFoundLike(err error) bool {
	return IsSurveyNotFound(err) || IsSurveyInactive(err) ||
		IsVendorNotFound(err) || IsVendorInactive(err) ||
		IsSessionNotFound(err)
}

// IsConfigurationError reports whether a stored URL failed validation at
// redirect time. These surface as a 500 diagnostic page rather than a
// broken redirect.
func IsConfigurationError(err error) bool {
	return IsSurveyURLInvalid(err) || IsVendorURLInvalid(err)
}
