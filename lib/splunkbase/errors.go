package splunkbase

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnauthorized = errors.New("splunkbase: unauthorized")
	ErrForbidden    = errors.New("splunkbase: access forbidden")
	ErrNotFound     = errors.New("splunkbase: release not found")
	ErrServerError  = errors.New("splunkbase: server error")

	ErrUnsupportedFormMethod     = errors.New("splunkbase: unsupported interstitial form method")
	ErrMissingContentDisposition = errors.New("splunkbase: download response has no Content-Disposition header")
	ErrMissingFilename           = errors.New("splunkbase: Content-Disposition header has no filename")
	ErrInvalidFilename           = errors.New("splunkbase: Content-Disposition filename is not a usable file name")
)

// AuthError is returned when the authentication endpoint rejects the credentials.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("error authenticating (status %d): %s", e.StatusCode, e.Message)
}

// checkStatusCode returns an appropriate error for non-success status codes.
func checkStatusCode(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized:
		return ErrUnauthorized
	case code == http.StatusForbidden:
		return ErrForbidden
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		return fmt.Errorf("%w: %d %s", ErrServerError, code, http.StatusText(code))
	default:
		return fmt.Errorf("splunkbase: unexpected status code: %d", code)
	}
}
