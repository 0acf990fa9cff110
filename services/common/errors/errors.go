package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

// Kind classifies an error for the HTTP layer.
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthorized
	KindInvalidInput
	KindNotFound
	KindConflict
	KindMethodNotAllowed
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "Unauthorized"
	case KindInvalidInput:
		return "InvalidInput"
	case KindNotFound:
		return "NotFound"
	case KindConflict:
		return "Conflict"
	case KindMethodNotAllowed:
		return "MethodNotAllowed"
	default:
		return "Internal"
	}
}

// Status maps a kind to its HTTP status code.
func (k Kind) Status() int {
	switch k {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

// Error represents an application error
type Error struct {
	Kind    Kind   `json:"-"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on Kind, so errors.Is(err, ErrNotFound) holds for any NotFound.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New creates a new Error
func New(kind Kind, message string, err error) *Error {
	return &Error{
		Kind:    kind,
		Code:    kind.Status(),
		Message: message,
		Err:     err,
	}
}

func Unauthorized(msg string) *Error { return New(KindUnauthorized, msg, nil) }

func InvalidInput(format string, args ...interface{}) *Error {
	return New(KindInvalidInput, fmt.Sprintf(format, args...), nil)
}

func NotFound(format string, args ...interface{}) *Error {
	return New(KindNotFound, fmt.Sprintf(format, args...), nil)
}

func Conflict(format string, args ...interface{}) *Error {
	return New(KindConflict, fmt.Sprintf(format, args...), nil)
}

// Internal wraps an unexpected failure. The message is surfaced to the caller.
func Internal(message string, err error) *Error {
	return New(KindInternal, message, err)
}

// Common error types
var (
	ErrUnauthorized      = New(KindUnauthorized, "Unauthorized: Authentication required", nil)
	ErrInvalidInput      = New(KindInvalidInput, "Invalid input", nil)
	ErrNotFound          = New(KindNotFound, "Not found", nil)
	ErrConflict          = New(KindConflict, "Conflict", nil)
	ErrMethodNotAllowed  = New(KindMethodNotAllowed, "Method not allowed", nil)
	ErrInsufficientStock = New(KindConflict, "Insufficient stock", nil)
	ErrInternalServer    = New(KindInternal, "Internal server error", nil)
)

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Respond writes the {"error": ...} body for err. details adds a stack trace
// to 500 responses.
func Respond(c *gin.Context, err error, details bool) {
	var appErr *Error
	if !stderrors.As(err, &appErr) {
		appErr = Internal(err.Error(), err)
	}

	body := gin.H{"error": appErr.Message}
	if appErr.Kind == KindInternal {
		if appErr.Err != nil && appErr.Message != appErr.Err.Error() {
			body["error"] = appErr.Error()
		}
		if details {
			body["details"] = string(debug.Stack())
		}
	}
	c.AbortWithStatusJSON(appErr.Code, body)
}

// ErrorMiddleware renders the last error pushed with c.Error.
func ErrorMiddleware(showDetails bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		Respond(c, c.Errors.Last().Err, showDetails)
	}
}

// MethodNotAllowed is installed as gin's NoMethod handler.
func MethodNotAllowed(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusMethodNotAllowed, gin.H{"error": ErrMethodNotAllowed.Message})
}
