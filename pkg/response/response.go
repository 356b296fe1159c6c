package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the unified API response envelope.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// AppError carries the HTTP status and application code an error maps to.
type AppError struct {
	HTTPStatus int
	Code       int
	Message    string
	Cause      error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func newAppError(status int, msg string, cause error) *AppError {
	return &AppError{HTTPStatus: status, Code: status, Message: msg, Cause: cause}
}

func NewBadRequest(msg string) *AppError {
	return newAppError(http.StatusBadRequest, msg, nil)
}

func NewNotFound(msg string) *AppError {
	return newAppError(http.StatusNotFound, msg, nil)
}

func NewConflict(msg string) *AppError {
	return newAppError(http.StatusConflict, msg, nil)
}

func NewServerError(msg string) *AppError {
	return newAppError(http.StatusInternalServerError, msg, nil)
}

// Wrap attaches an HTTP mapping to cause while keeping it reachable through errors.Is/As.
func Wrap(status int, msg string, cause error) *AppError {
	return newAppError(status, msg, cause)
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "ok",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "created",
		Data:    data,
	})
}

// Error writes err as an error envelope. An *AppError anywhere in the chain
// decides status and code; anything else becomes a 500.
func Error(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, Response{
			Code:    appErr.Code,
			Message: appErr.Message,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, Response{
		Code:    500,
		Message: err.Error(),
	})
}

func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Code: 400, Message: msg})
}

func NotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, Response{Code: 404, Message: msg})
}

func TooManyRequests(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, Response{Code: 429, Message: msg})
}

func ServerError(c *gin.Context, msg string) {
	c.JSON(http.StatusInternalServerError, Response{Code: 500, Message: msg})
}
