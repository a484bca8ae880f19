package util

import (
	"net/http"

	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/apperror"

	"github.com/gin-gonic/gin"
)

// Response is the data payload of the success envelope.
type Response map[string]interface{}

// Business codes.
const (
	CodeOK           = 0
	CodeInvalidParam = 40001
	CodeAuth         = 40101
	CodeForbidden    = 40301
	CodeNotFound     = 40401
	CodeConflict     = 40901
	CodeLocked       = 42901
	CodeServerErr    = 50001
)

// Success writes the success envelope.
func Success(c *gin.Context, data Response) {
	c.JSON(http.StatusOK, gin.H{
		"code": CodeOK,
		"data": data,
	})
}

// Error writes the failure envelope.
func Error(c *gin.Context, httpStatus int, code int, msg string) {
	c.JSON(httpStatus, gin.H{
		"code":    code,
		"message": msg,
	})
}

// Fail renders err. Routine failures keep their message, details and extra
// fields; anything else becomes an opaque 500.
func Fail(c *gin.Context, err error) {
	appErr, ok := apperror.As(err)
	if !ok {
		Error(c, http.StatusInternalServerError, CodeServerErr, "erro interno")
		return
	}

	status, code := statusFor(appErr.Kind)
	body := gin.H{
		"code":    code,
		"message": appErr.Message,
	}
	if len(appErr.Details) > 0 {
		body["details"] = appErr.Details
	}
	for k, v := range appErr.Fields {
		body[k] = v
	}
	c.JSON(status, body)
}

func statusFor(kind apperror.Kind) (int, int) {
	switch kind {
	case apperror.KindValidation:
		return http.StatusBadRequest, CodeInvalidParam
	case apperror.KindNotFound:
		return http.StatusNotFound, CodeNotFound
	case apperror.KindConflict:
		return http.StatusConflict, CodeConflict
	case apperror.KindRateLimit:
		return http.StatusTooManyRequests, CodeLocked
	case apperror.KindAuthorization:
		return http.StatusUnauthorized, CodeAuth
	default:
		return http.StatusInternalServerError, CodeServerErr
	}
}
