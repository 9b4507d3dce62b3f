package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-user-api/pkg/apperrors"
)

// ErrorEnvelope is the wire form of every error class: `{detail}` for plain
// failures, with `errors` and `body` filled in for validation failures.
type ErrorEnvelope struct {
	Detail string `json:"detail"`
	Errors any    `json:"errors,omitempty"`
	Body   any    `json:"body,omitempty"`
}

// Fail writes a plain error envelope.
func Fail(c *gin.Context, status int, detail string) {
	c.JSON(status, ErrorEnvelope{Detail: detail})
}

// ValidationFail writes the envelope for a rejected request payload,
// echoing the per-field messages and the offending body.
func ValidationFail(c *gin.Context, fieldErrors map[string]string, body any) {
	c.JSON(http.StatusBadRequest, ErrorEnvelope{
		Detail: "Validation Error",
		Errors: fieldErrors,
		Body:   body,
	})
}

// FromError renders a domain error in the envelope. Anything outside the
// taxonomy is reported as a generic internal error; the caller is expected
// to have logged the detail.
func FromError(c *gin.Context, err error) {
	var e *apperrors.Error
	if errors.As(err, &e) {
		c.JSON(e.Status, ErrorEnvelope{Detail: e.Detail})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorEnvelope{Detail: "Internal Server Error"})
}
