package directory

import "errors"

// Error represents a domain error from directory operations.
//
// These are business errors (no session, remote rejected the request, etc.)
// as opposed to infrastructure errors. The HTTP layer translates Error codes
// to status codes; the service itself recovers from the remote codes
// internally (baseline fallback for reads, log-and-continue for writes).
type Error struct {
	// Code is the error category
	Code ErrorCode

	// Message is a human-readable error description
	Message string

	// Path is the directory path related to the error (if applicable)
	Path string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Path != "" {
		return e.Message + ": " + e.Path
	}
	return e.Message
}

// ErrorCode represents the category of a directory error.
type ErrorCode int

const (
	// ErrUnauthorized indicates there is no active session.
	// Fatal to any operation; the caller must re-authenticate.
	ErrUnauthorized ErrorCode = iota

	// ErrRemoteUnavailable indicates the remote directory API could not be
	// reached or returned a non-2xx transport response. Reads recover by
	// falling back to the baseline dataset; writes log and continue.
	ErrRemoteUnavailable

	// ErrRemoteRejected indicates the remote API answered but reported a
	// non-OK status in the response body. Same recovery as
	// ErrRemoteUnavailable.
	ErrRemoteRejected

	// ErrValidationFailure indicates the configured credential failed the
	// connectivity probe. Surfaced as an indicator, not fatal to listing.
	ErrValidationFailure

	// ErrPermissionDenied indicates the user's permission flags forbid the
	// requested operation (upload/delete/download).
	ErrPermissionDenied

	// ErrInvalidArgument indicates invalid parameters were provided.
	ErrInvalidArgument
)

// NewError creates an Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// NewPathError creates an Error tied to a specific path.
func NewPathError(code ErrorCode, message, path string) *Error {
	return &Error{Code: code, Message: message, Path: path}
}

// CodeOf extracts the ErrorCode from err. Returns ok=false when err is not
// a directory Error.
func CodeOf(err error) (ErrorCode, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return 0, false
}
