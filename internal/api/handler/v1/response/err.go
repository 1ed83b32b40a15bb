package response

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Err struct {
	HTTPStatusCode int    `json:"-"`
	StatusText     string `json:"status_text"`
	Message        string `json:"message"`
	Err            error  `json:"-"`
}

func (e *Err) Error() string {
	return e.Message
}

// RenderErr aborts the request with err as JSON. Server errors are logged
// with the request id.
func RenderErr(ctx *gin.Context, err *Err) {
	if err.HTTPStatusCode >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("request_id", requestid.Get(ctx)),
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.Request.URL.Path),
			zap.Error(err.Err),
		)
	}

	ctx.AbortWithStatusJSON(err.HTTPStatusCode, err)
}

func newErr(status int, message string, err error) *Err {
	return &Err{
		HTTPStatusCode: status,
		StatusText:     http.StatusText(status),
		Message:        message,
		Err:            err,
	}
}

func ErrBadRequest(err error) *Err {
	return newErr(http.StatusBadRequest, err.Error(), err)
}

// ErrWrongCredentials does not say whether the email or the password was wrong.
func ErrWrongCredentials(err error) *Err {
	return newErr(http.StatusUnauthorized, "wrong email or password", err)
}

func ErrUnauthorized(err error) *Err {
	return newErr(http.StatusUnauthorized, err.Error(), err)
}

func ErrPermissionDenied(err error) *Err {
	return newErr(http.StatusForbidden, err.Error(), err)
}

func ErrNotFound(resource, field string, value interface{}) *Err {
	err := fmt.Errorf("%v with %v = %v is not found", resource, field, value)

	return newErr(http.StatusNotFound, err.Error(), err)
}

func ErrConflict(err error) *Err {
	return newErr(http.StatusConflict, err.Error(), err)
}

func ErrInternalServerError(err error) *Err {
	return newErr(http.StatusInternalServerError, "internal server error", err)
}
