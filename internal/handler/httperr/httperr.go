package httperr

import (
	"github.com/gin-gonic/gin"
)

// Response is the single error body shape across the API. Reason carries a
// machine-readable discriminator where clients branch on the failure kind,
// such as kiosk claim handling.
type Response struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
	Reason  string `json:"reason,omitempty"`
	Detail  any    `json:"detail,omitempty"`
}

// AbortWithError writes the response and records the original error on the
// context for the logging and error middleware.
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	abort(c, Response{Status: status, Message: msg, Detail: detail}, err)
}

// AbortWithReason is AbortWithError with a machine-readable reason tag.
func AbortWithReason(c *gin.Context, status int, err error, msg, reason string) {
	abort(c, Response{Status: status, Message: msg, Reason: reason}, err)
}

func abort(c *gin.Context, resp Response, err error) {
	if err == nil {
		panic("httperr: err cannot be nil")
	}

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(resp.Status, resp)
}
