package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	errs "github.com/techagentng/chatx/errors"
	"github.com/techagentng/chatx/models"
	"github.com/techagentng/chatx/server/response"
)

func (s *Server) handleHealth() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.JSON(c, "ok", http.StatusOK, nil, nil)
	}
}

// decode binds the JSON body into v and trims its tagged string fields.
func decode(c *gin.Context, v interface{}) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return errs.New("invalid request body: "+err.Error(), http.StatusBadRequest)
	}
	if err := models.Trim(v); err != nil {
		return errs.New(err.Error(), http.StatusBadRequest)
	}
	return nil
}

func (s *Server) handleCreatePrivateChat() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := callerID(c)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		var req models.CreateChatRequest
		if err := decode(c, &req); err != nil {
			response.HandleErrors(c, err)
			return
		}

		chat, created, err := s.ChatService.CreatePrivateChat(c.Request.Context(), userID, req.UserID)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		if created {
			response.JSON(c, "chat created", http.StatusCreated, chat, nil)
			return
		}
		response.JSON(c, "chat already exists", http.StatusOK, chat, nil)
	}
}

func (s *Server) handleGetInbox() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := callerID(c)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		entries, err := s.InboxService.GetInbox(c.Request.Context(), userID)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "", http.StatusOK, entries, nil)
	}
}

func (s *Server) handleSearchChats() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := callerID(c)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		var req models.SearchRequest
		if err := decode(c, &req); err != nil {
			response.HandleErrors(c, err)
			return
		}
		entries, err := s.SearchService.SearchChats(c.Request.Context(), userID, req.SearchValue)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "", http.StatusOK, entries, nil)
	}
}

func (s *Server) handleSearchUsers() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := callerID(c)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		var req models.SearchRequest
		if err := decode(c, &req); err != nil {
			response.HandleErrors(c, err)
			return
		}
		users, err := s.SearchService.SearchUsers(c.Request.Context(), userID, req.SearchValue)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "", http.StatusOK, users, nil)
	}
}

func (s *Server) handleGetMemberChatIDs() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := callerID(c)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		ids, err := s.ChatService.GetMemberChatIDs(c.Request.Context(), userID)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "", http.StatusOK, ids, nil)
	}
}

func (s *Server) handleResetUnseen() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := callerID(c)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		var req models.ResetUnseenRequest
		if err := decode(c, &req); err != nil {
			response.HandleErrors(c, err)
			return
		}
		chat, err := s.ChatService.ResetUnseen(c.Request.Context(), userID, req.ChatID)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "unseen messages reset", http.StatusOK, chat, nil)
	}
}

func (s *Server) handleSendMessage() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := callerID(c)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		var req models.SendMessageRequest
		if err := decode(c, &req); err != nil {
			response.HandleErrors(c, err)
			return
		}
		msg, err := s.ChatService.SendMessage(c.Request.Context(), userID, &req)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "message sent", http.StatusCreated, msg, nil)
	}
}
