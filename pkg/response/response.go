package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-address-dispatch/pkg/apperror"
)

// ErrorBody is the shape of every error response.
type ErrorBody struct {
	Error     string      `json:"error"`
	RequestID string      `json:"request_id,omitempty"`
	Details   interface{} `json:"details,omitempty"`
}

// JSON writes payload as is. Success bodies are endpoint specific, so there
// is no envelope around them.
func JSON(ctx *gin.Context, status int, payload interface{}) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, payload)
}

// Error aborts the chain with an error body.
func Error(ctx *gin.Context, status int, message string, details interface{}) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	ctx.AbortWithStatusJSON(status, ErrorBody{
		Error:     message,
		RequestID: ctx.GetString("request_id"),
		Details:   details,
	})
}

// Fail maps err onto a status code and a client-safe message. The full error,
// cause included, only goes to the log.
func Fail(ctx *gin.Context, logger *logrus.Logger, err error) {
	kind := apperror.KindOf(err)
	status := apperror.HTTPStatus(kind)
	if logger != nil {
		entry := logger.WithFields(logrus.Fields{
			"request_id": ctx.GetString("request_id"),
			"path":       ctx.FullPath(),
			"kind":       kind,
		}).WithError(err)
		if status >= http.StatusInternalServerError {
			entry.Error("request failed")
		} else {
			entry.Debug("request rejected")
		}
	}
	Error(ctx, status, apperror.PublicMessage(err), nil)
}
