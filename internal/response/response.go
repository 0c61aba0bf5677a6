package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Naya-01/PAE/internal/apierr"
	"github.com/Naya-01/PAE/internal/logger"
)

// Response is the standard envelope of a successful answer
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ErrorResponse is the envelope of a failed answer
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    int    `json:"code"`
}

// SuccessResponse sends a successful answer
func SuccessResponse(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponseWithMessage sends an error with a custom message
func ErrorResponseWithMessage(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{
		Success: false,
		Error:   message,
		Code:    status,
	})
}

func BadRequestError(c *gin.Context, message string) {
	ErrorResponseWithMessage(c, http.StatusBadRequest, message)
}

func NotFoundError(c *gin.Context, message string) {
	ErrorResponseWithMessage(c, http.StatusNotFound, message)
}

func InternalServerError(c *gin.Context, message string) {
	ErrorResponseWithMessage(c, http.StatusInternalServerError, message)
}

func UnauthorizedError(c *gin.Context, message string) {
	ErrorResponseWithMessage(c, http.StatusUnauthorized, message)
}

func ForbiddenError(c *gin.Context, message string) {
	ErrorResponseWithMessage(c, http.StatusForbidden, message)
}

func ConflictError(c *gin.Context, message string) {
	ErrorResponseWithMessage(c, http.StatusConflict, message)
}

func UnavailableError(c *gin.Context, message string) {
	ErrorResponseWithMessage(c, http.StatusServiceUnavailable, message)
}

// FromError answers with the status matching err's kind. Internal errors are
// logged and their details are not sent to the client.
func FromError(c *gin.Context, err error) {
	switch kind := apierr.KindOf(err); kind {
	case apierr.KindInternal:
		logger.HTTP().Error("Request failed", "path", c.FullPath(), "error", err)
		InternalServerError(c, "internal server error")
	case apierr.KindNotFound:
		NotFoundError(c, err.Error())
	case apierr.KindConflict:
		ConflictError(c, err.Error())
	case apierr.KindUnavailable:
		UnavailableError(c, err.Error())
	default:
		ErrorResponseWithMessage(c, kind.HTTPStatus(), err.Error())
	}
}
