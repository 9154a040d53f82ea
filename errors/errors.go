package errors

import (
	"fmt"
	"net/http"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
)

// Error is the API error handed to the uniform responder.
type Error struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *Error) Error() string {
	return e.Message
}

func New(message string, status int) *Error {
	return &Error{Message: message, Status: status}
}

var (
	ErrInternalServerError = New("internal server error", http.StatusInternalServerError)
	ErrNotFound            = New("not found", http.StatusNotFound)
	ErrUnauthorized        = New("Unauthorized", http.StatusUnauthorized)
	ErrInvalidCredentials  = New("invalid user name or password", http.StatusUnprocessableEntity)
)

// MissingArgument is returned before any store access when a required id or field is absent.
func MissingArgument(field string) *Error {
	return New(fmt.Sprintf("%s is required", field), http.StatusBadRequest)
}

func InvalidArgument(field string, reason string) *Error {
	return New(fmt.Sprintf("invalid %s: %s", field, reason), http.StatusBadRequest)
}

func NotFound(what string) *Error {
	return New(fmt.Sprintf("%s not found", what), http.StatusNotFound)
}

// NoMatch reports a search without results. The search endpoints return an empty
// list instead; this stays for callers that opt into strict matching.
func NoMatch(query string) *Error {
	return New(fmt.Sprintf("no such user matching %q", query), http.StatusNotFound)
}

func Conflict(what string) *Error {
	return New(fmt.Sprintf("%s already exists", what), http.StatusConflict)
}

func Forbidden(message string) *Error {
	return New(message, http.StatusForbidden)
}

// Persistence reports a store write that did not apply. The cause is kept out of the message.
func Persistence(action string) *Error {
	return New(fmt.Sprintf("failed to %s", action), http.StatusInternalServerError)
}

// ErrorHandler answers requests rejected by the rate limiter.
func ErrorHandler(c *gin.Context, info ratelimit.Info) {
	retry := time.Until(info.ResetTime).Round(time.Second)
	c.JSON(http.StatusTooManyRequests, gin.H{
		"status":  http.StatusTooManyRequests,
		"message": fmt.Sprintf("too many requests, try again in %s", retry),
	})
}
