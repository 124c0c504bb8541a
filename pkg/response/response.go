package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes returned by the auth endpoints. Expected business failures are
// always carried as one of these symbolic codes, never as raw error text.
const (
	CodeValidationFailed     = "VALIDATION_FAILED"
	CodeInvalidCredentials   = "INVALID_CREDENTIALS"
	CodeRefreshTokenNotFound = "REFRESH_TOKEN_NOT_FOUND"
	CodeRefreshTokenInvalid  = "REFRESH_TOKEN_INVALID"
	CodeAccessTokenInvalid   = "ACCESS_TOKEN_INVALID"
	CodeUserIDNotFound       = "USERID_NOT_FOUND"
	CodeNotFound             = "NOT_FOUND"
	CodeInternal             = "INTERNAL"
)

// Response is the unified API response format.
type Response struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// AppError is a structured application error carrying an HTTP status and a
// symbolic error code. It is the failure half of every service result.
type AppError struct {
	HTTPStatus int
	Code       string
	Message    string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewValidationFailed(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusBadRequest, Code: CodeValidationFailed, Message: msg}
}

func NewUnauthorized(code, msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusUnauthorized, Code: code, Message: msg}
}

func NewNotFound(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusNotFound, Code: CodeNotFound, Message: msg}
}

// NewInternal returns the opaque error surfaced for unexpected faults.
// Detail belongs in server-side logs, not in the response body.
func NewInternal() *AppError {
	return &AppError{HTTPStatus: http.StatusInternalServerError, Code: CodeInternal, Message: "internal server error"}
}

// --- Gin response helpers ---

// Success sends a 200 OK response with data.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    "OK",
		Message: "ok",
		Data:    data,
	})
}

// Error sends an error response. If err is an *AppError, its code and status
// are used; anything else is masked as a generic internal error.
func Error(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, Response{
			Code:    appErr.Code,
			Message: appErr.Message,
		})
		return
	}
	internal := NewInternal()
	c.JSON(internal.HTTPStatus, Response{
		Code:    internal.Code,
		Message: internal.Message,
	})
}

// BadRequest sends a 400 validation failure response.
func BadRequest(c *gin.Context, msg string) {
	Error(c, NewValidationFailed(msg))
}

// Unauthorized sends a 401 response with the given auth error code.
func Unauthorized(c *gin.Context, code, msg string) {
	Error(c, NewUnauthorized(code, msg))
}
