package response

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	pkgerrors "github.com/pkg/errors"
	errs "github.com/techagentng/chatx/errors"
)

// JSON writes {data, message} on success and {status, message} on failure.
func JSON(c *gin.Context, message string, status int, data interface{}, err error) {
	if err != nil {
		if message == "" {
			message = err.Error()
		}
		c.JSON(status, gin.H{
			"status":  status,
			"message": message,
		})
		return
	}

	body := gin.H{"data": data}
	if message != "" {
		body["message"] = message
	}
	c.JSON(status, body)
}

// HandleErrors maps err to a status code and writes it with JSON.
func HandleErrors(c *gin.Context, err error) {
	var apiErr *errs.Error
	if pkgerrors.As(err, &apiErr) {
		JSON(c, apiErr.Message, apiErr.Status, nil, apiErr)
		return
	}

	log.Error("request failed", "path", c.FullPath(), "err", pkgerrors.Cause(err))
	JSON(c, errs.ErrInternalServerError.Message, http.StatusInternalServerError, nil, err)
}
