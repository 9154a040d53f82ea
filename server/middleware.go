package server

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	errs "github.com/techagentng/chatx/errors"
	"github.com/techagentng/chatx/server/response"
	"github.com/techagentng/chatx/services/jwt"
)

const userIDKey = "userID"

// Authorize resolves the bearer token to the caller's id and stores it under "userID".
func (s *Server) Authorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken := getTokenFromHeader(c)
		if accessToken == "" {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		accessClaims, err := jwt.ValidateAndGetClaims(accessToken, s.Config.JWTSecret)
		if err != nil {
			log.Debug("rejected access token", "err", err)
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		userID, err := jwt.UserID(accessClaims)
		if err != nil {
			respondAndAbort(c, "", http.StatusBadRequest, nil, errs.New("Invalid userID format", http.StatusBadRequest))
			return
		}

		c.Set(userIDKey, userID)
		c.Set("access_token", accessToken)
		c.Next()
	}
}

// requestTimeout bounds the context handed to the services.
func (s *Server) requestTimeout() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.Config.RequestTimeout <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), s.Config.RequestTimeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// callerID returns the id Authorize stored on the context.
func callerID(c *gin.Context) (uuid.UUID, error) {
	v, exists := c.Get(userIDKey)
	if !exists {
		return uuid.Nil, errs.ErrUnauthorized
	}
	userID, ok := v.(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, errs.ErrUnauthorized
	}
	return userID, nil
}

func rateLimitKey(c *gin.Context) string {
	if userID, err := callerID(c); err == nil {
		return userID.String()
	}
	return c.ClientIP()
}

// respondAndAbort calls response.JSON and aborts the Context
func respondAndAbort(c *gin.Context, message string, status int, data interface{}, e *errs.Error) {
	response.JSON(c, message, status, data, e)
	c.Abort()
}

// getTokenFromHeader returns the token string in the authorization header
func getTokenFromHeader(c *gin.Context) string {
	authHeader := c.Request.Header.Get("Authorization")
	if len(authHeader) > 8 {
		return authHeader[7:]
	}
	return ""
}
