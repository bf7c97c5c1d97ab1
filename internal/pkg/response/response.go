package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/webapi/proxyutil"
)

// apiError carries an errcode value into the proxyutil envelope.
type apiError struct {
	code uint32
	msg  string
}

func (e apiError) Error() string {
	return e.msg
}

func (e apiError) Code() uint32 {
	return e.code
}

func NewError(code int, msg string) error {
	return apiError{code: uint32(code), msg: msg}
}

func Success(c *gin.Context, data interface{}) {
	proxyutil.SuccessJson(c, data)
}

// Error answers with HTTP 200; clients branch on the envelope code.
func Error(c *gin.Context, code int, message string) {
	proxyutil.FailJson(c, http.StatusOK, NewError(code, message))
}

// Abort writes the failure envelope and stops the remaining handlers.
func Abort(c *gin.Context, code int, message string) {
	Error(c, code, message)
	c.Abort()
}
