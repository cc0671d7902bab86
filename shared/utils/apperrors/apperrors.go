package apperrors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Kind classifies a business-rule failure. The mapping to HTTP status codes
// lives in Respond; engine code only ever deals in kinds.
type Kind int

const (
	// KindNotFound - a referenced entity id does not exist
	KindNotFound Kind = iota
	// KindBadRequest - the caller's setup is incomplete or a cross-entity invariant is violated
	KindBadRequest
	// KindUnauthorized - the entity exists but this specific instance is not the caller's to act on
	KindUnauthorized
	// KindConflict - a duplicate relationship or exceeded business limit
	KindConflict
	// KindNoRowsAffected - an expected-to-affect-rows write touched nothing (lost race)
	KindNoRowsAffected
	// KindInternal - everything else
	KindInternal
)

// Error carries a kind and a caller-facing message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewNotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func NewBadRequest(message string) *Error {
	return &Error{Kind: KindBadRequest, Message: message}
}

func NewUnauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func NewConflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func NewNoRowsAffected(message string) *Error {
	return &Error{Kind: KindNoRowsAffected, Message: message}
}

// Wrap keeps the original error available through errors.Unwrap while
// presenting a typed kind and message to the caller.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// IsKind reports whether err (or anything it wraps) is an Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// statusOf maps an error kind to its HTTP status code
func statusOf(kind Kind) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// errorTitle maps an error kind to the short error label of the response envelope
func errorTitle(kind Kind) string {
	switch kind {
	case KindNotFound:
		return "Not found"
	case KindBadRequest:
		return "Bad request"
	case KindUnauthorized:
		return "Unauthorized"
	case KindConflict:
		return "Conflict"
	case KindNoRowsAffected:
		return "No rows affected"
	default:
		return "Internal server error"
	}
}

// Respond writes the error to the response in the standard envelope. Untyped
// errors are reported as internal failures without leaking their details.
func Respond(ctx *gin.Context, err error) {
	var appErr *Error
	if errors.As(err, &appErr) {
		ctx.JSON(statusOf(appErr.Kind), gin.H{
			"error":   errorTitle(appErr.Kind),
			"message": appErr.Message,
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, gin.H{
		"error":   "Internal server error",
		"message": err.Error(),
	})
}
