package apperrors

import (
	"errors"
	"net/http"
)

// Kind classifies the client-facing failures of the catalog core. Every
// kind is terminal for the current request; none is retried locally.
type Kind int

const (
	// KindNotFound means a referenced product or store id does not exist.
	KindNotFound Kind = iota
	// KindValidation means a write payload broke an invariant.
	KindValidation
	// KindNoResults means a filtered listing matched zero rows. Empty
	// pages are surfaced as an error, never as an empty success.
	KindNoResults
)

// Error is a typed domain error carrying a suggested HTTP status for the
// transport layer.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// HTTPStatus translates the kind to the status the router should answer
// with.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

// NewNotFound builds a NotFound error.
func NewNotFound(msg string) error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

// NewValidation builds a ValidationError.
func NewValidation(msg string) error {
	return &Error{Kind: KindValidation, Msg: msg}
}

// NewNoResults builds a NoResults error.
func NewNoResults(msg string) error {
	return &Error{Kind: KindNoResults, Msg: msg}
}

// IsKind reports whether err is a domain error of the given kind anywhere
// in its chain.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// HTTPStatus maps any error to a transport status. Untyped errors are
// treated as internal failures.
func HTTPStatus(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus()
	}
	return http.StatusInternalServerError
}
