package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/techagentng/chatx/models"
	"github.com/techagentng/chatx/server/response"
)

func (s *Server) handleSignup() gin.HandlerFunc {
	return func(c *gin.Context) {
		var request models.SignupRequest
		if err := decode(c, &request); err != nil {
			response.HandleErrors(c, err)
			return
		}

		user, err := s.AuthService.SignupUser(c.Request.Context(), &request)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "Signup successful", http.StatusCreated, user.Summary(), nil)
	}
}

func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var loginRequest models.LoginRequest
		if err := decode(c, &loginRequest); err != nil {
			response.HandleErrors(c, err)
			return
		}

		userResponse, err := s.AuthService.LoginUser(c.Request.Context(), &loginRequest)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "login successful", http.StatusOK, userResponse, nil)
	}
}

func (s *Server) handleShowProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := callerID(c)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		profile, err := s.AuthService.GetUserProfile(c.Request.Context(), userID)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "", http.StatusOK, profile, nil)
	}
}
