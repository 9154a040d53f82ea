package server

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	errs "github.com/techagentng/chatx/errors"
	"github.com/techagentng/chatx/models"
	"github.com/techagentng/chatx/server/response"
	"github.com/techagentng/chatx/services"
)

// UploadsPath serves disk-stored pictures when S3 is not configured.
const UploadsPath = "/uploads"

const AllowedMimeTypes = "image/jpeg,image/png,image/gif"

// validateFile checks the file type and size
func validateFile(file *multipart.FileHeader) error {
	if file.Size > services.MaxPictureSize {
		return fmt.Errorf("file size exceeds limit of %d bytes", services.MaxPictureSize)
	}

	mimeType := file.Header.Get("Content-Type")
	if !isValidMimeType(mimeType) {
		return fmt.Errorf("invalid file type: %s", mimeType)
	}
	return nil
}

func isValidMimeType(mimeType string) bool {
	for _, allowedType := range strings.Split(AllowedMimeTypes, ",") {
		if mimeType == allowedType {
			return true
		}
	}
	return false
}

func (s *Server) handleCreateGroup() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := callerID(c)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		var req models.CreateGroupRequest
		if err := decode(c, &req); err != nil {
			response.HandleErrors(c, err)
			return
		}
		chat, err := s.ChatService.CreateGroup(c.Request.Context(), userID, &req)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "group created", http.StatusCreated, chat, nil)
	}
}

func (s *Server) handleUpdateGroup() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := callerID(c)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		var update models.GroupUpdate
		if err := decode(c, &update); err != nil {
			response.HandleErrors(c, err)
			return
		}
		chat, err := s.ChatService.UpdateGroup(c.Request.Context(), userID, &update)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "group updated", http.StatusOK, chat, nil)
	}
}

func (s *Server) handleUpdateGroupPicture() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := callerID(c)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		chatID, err := uuid.Parse(c.PostForm("id"))
		if err != nil {
			response.HandleErrors(c, errs.MissingArgument("id"))
			return
		}

		file, fileHeader, err := c.Request.FormFile("groupPic")
		if err != nil {
			response.HandleErrors(c, errs.MissingArgument("groupPic"))
			return
		}
		defer file.Close()

		if err := validateFile(fileHeader); err != nil {
			response.HandleErrors(c, errs.New(err.Error(), http.StatusBadRequest))
			return
		}

		chat, err := s.ChatService.UpdateGroupPicture(c.Request.Context(), userID, chatID, file, fileHeader.Filename)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "group picture updated", http.StatusOK, chat, nil)
	}
}

func (s *Server) handleGetGroupMembers() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.GroupIDRequest
		if err := decode(c, &req); err != nil {
			response.HandleErrors(c, err)
			return
		}
		roster, err := s.ChatService.GetGroupMembers(c.Request.Context(), req.ID)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "", http.StatusOK, roster, nil)
	}
}

func (s *Server) handleGetGroupInfo() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.GroupIDRequest
		if err := decode(c, &req); err != nil {
			response.HandleErrors(c, err)
			return
		}
		info, err := s.ChatService.GetGroupInfo(c.Request.Context(), req.ID)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "", http.StatusOK, info, nil)
	}
}
