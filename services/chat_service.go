package services

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/techagentng/chatx/config"
	"github.com/techagentng/chatx/db"
	errs "github.com/techagentng/chatx/errors"
	"github.com/techagentng/chatx/models"
)

// ChatService holds the chat and group mutations plus the roster reads.
type ChatService interface {
	// CreatePrivateChat returns the private chat between the two users,
	// creating it when none exists. created reports which case happened.
	CreatePrivateChat(ctx context.Context, callerID, otherID uuid.UUID) (chat *models.Chat, created bool, err error)
	ResetUnseen(ctx context.Context, userID, chatID uuid.UUID) (*models.Chat, error)
	GetMemberChatIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	SendMessage(ctx context.Context, senderID uuid.UUID, req *models.SendMessageRequest) (*models.Message, error)

	CreateGroup(ctx context.Context, creatorID uuid.UUID, req *models.CreateGroupRequest) (*models.Chat, error)
	UpdateGroup(ctx context.Context, callerID uuid.UUID, update *models.GroupUpdate) (*models.Chat, error)
	UpdateGroupPicture(ctx context.Context, callerID, chatID uuid.UUID, r io.Reader, filename string) (*models.Chat, error)
	GetGroupMembers(ctx context.Context, chatID uuid.UUID) ([]models.RosterMember, error)
	GetGroupInfo(ctx context.Context, chatID uuid.UUID) (*models.GroupInfo, error)
}

type chatService struct {
	Config      *config.Config
	chatRepo    db.ChatRepository
	userRepo    db.UserRepository
	messageRepo db.MessageRepository
	media       MediaService
}

func NewChatService(chatRepo db.ChatRepository, userRepo db.UserRepository, messageRepo db.MessageRepository, media MediaService, conf *config.Config) ChatService {
	return &chatService{
		Config:      conf,
		chatRepo:    chatRepo,
		userRepo:    userRepo,
		messageRepo: messageRepo,
		media:       media,
	}
}

func (s *chatService) CreatePrivateChat(ctx context.Context, callerID, otherID uuid.UUID) (*models.Chat, bool, error) {
	if callerID == uuid.Nil {
		return nil, false, errs.MissingArgument("userId")
	}
	if otherID == uuid.Nil {
		return nil, false, errs.MissingArgument("member userId")
	}

	chat := &models.Chat{
		IsGroupChat: false,
		Members:     []models.Membership{{UserID: callerID}, {UserID: otherID}},
	}
	if err := chat.Validate(); err != nil {
		return nil, false, err
	}
	if _, err := s.userRepo.FindUserByID(ctx, otherID); err != nil {
		return nil, false, err
	}

	existing, err := s.chatRepo.FindPrivateChatID(ctx, callerID, otherID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		found, err := s.chatRepo.FindChatByID(ctx, *existing)
		return found, false, err
	}

	if err := s.chatRepo.CreateChat(ctx, chat); err != nil {
		log.Error("create private chat", "err", err)
		return nil, false, errs.Persistence("create chat")
	}
	return chat, true, nil
}

func (s *chatService) ResetUnseen(ctx context.Context, userID, chatID uuid.UUID) (*models.Chat, error) {
	if userID == uuid.Nil {
		return nil, errs.MissingArgument("userId")
	}
	if chatID == uuid.Nil {
		return nil, errs.MissingArgument("chatId")
	}
	return s.chatRepo.ResetUnseen(ctx, chatID, userID)
}

func (s *chatService) GetMemberChatIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	if userID == uuid.Nil {
		return nil, errs.MissingArgument("userId")
	}
	return s.chatRepo.FindChatIDsByMember(ctx, userID)
}

func (s *chatService) SendMessage(ctx context.Context, senderID uuid.UUID, req *models.SendMessageRequest) (*models.Message, error) {
	if senderID == uuid.Nil {
		return nil, errs.MissingArgument("userId")
	}
	if req.ChatID == uuid.Nil {
		return nil, errs.MissingArgument("chatId")
	}
	if err := models.Trim(req); err != nil {
		return nil, err
	}
	if req.Content == "" && req.FileName == "" {
		return nil, errs.MissingArgument("content")
	}

	chat, err := s.chatRepo.FindChatByID(ctx, req.ChatID)
	if err != nil {
		return nil, err
	}
	if chat.Member(senderID) == nil {
		return nil, errs.Forbidden("only members can post to this chat")
	}

	msg := &models.Message{
		ChatID:    chat.ID,
		SenderID:  senderID,
		Content:   req.Content,
		FileName:  req.FileName,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.messageRepo.SaveMessage(ctx, msg); err != nil {
		log.Error("save message", "chatId", chat.ID, "err", err)
		return nil, errs.Persistence("save message")
	}
	if err := s.chatRepo.IncrementUnseen(ctx, chat.ID, senderID); err != nil {
		log.Error("increment unseen counters", "chatId", chat.ID, "err", err)
		return nil, errs.Persistence("update unseen counters")
	}
	return msg, nil
}

func (s *chatService) CreateGroup(ctx context.Context, creatorID uuid.UUID, req *models.CreateGroupRequest) (*models.Chat, error) {
	if creatorID == uuid.Nil {
		return nil, errs.MissingArgument("userId")
	}
	if err := models.ValidateStruct(req); err != nil {
		return nil, errs.InvalidArgument("group", err.Error())
	}

	// The creator is the admin; invitees listed twice or naming the creator collapse.
	members := []models.Membership{{UserID: creatorID, IsAdmin: true}}
	seen := map[uuid.UUID]bool{creatorID: true}
	invitees := make([]uuid.UUID, 0, len(req.Members))
	for _, id := range req.Members {
		if seen[id] {
			continue
		}
		seen[id] = true
		invitees = append(invitees, id)
		members = append(members, models.Membership{UserID: id, IsAdmin: false})
	}

	found, err := s.userRepo.FindUsersByIDs(ctx, invitees)
	if err != nil {
		return nil, err
	}
	if len(found) != len(invitees) {
		return nil, errs.NotFound("invited user")
	}

	chat := &models.Chat{
		IsGroupChat:     true,
		ChatName:        req.GroupData.ChatName,
		ChatDescription: req.GroupData.ChatDescription,
		Members:         members,
	}
	if err := chat.Validate(); err != nil {
		return nil, err
	}
	if err := s.chatRepo.CreateChat(ctx, chat); err != nil {
		log.Error("create group", "err", err)
		return nil, errs.Persistence("create group")
	}
	return chat, nil
}

// findGroup loads chatID and fails with NotFound unless it is a group.
func (s *chatService) findGroup(ctx context.Context, chatID uuid.UUID) (*models.Chat, error) {
	if chatID == uuid.Nil {
		return nil, errs.MissingArgument("id")
	}
	chat, err := s.chatRepo.FindChatByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.IsGroupChat {
		return nil, errs.NotFound("group")
	}
	return chat, nil
}

func (s *chatService) findAdminGroup(ctx context.Context, callerID, chatID uuid.UUID) (*models.Chat, error) {
	chat, err := s.findGroup(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.IsAdmin(callerID) {
		return nil, errs.Forbidden("only group admins can change the group")
	}
	return chat, nil
}

func (s *chatService) UpdateGroup(ctx context.Context, callerID uuid.UUID, update *models.GroupUpdate) (*models.Chat, error) {
	if update.ChatName != nil {
		name := strings.TrimSpace(*update.ChatName)
		if name == "" {
			return nil, errs.InvalidArgument("chatName", "must not be empty")
		}
		update.ChatName = &name
	}
	if update.ChatDescription != nil {
		desc := strings.TrimSpace(*update.ChatDescription)
		update.ChatDescription = &desc
	}

	chat, err := s.findAdminGroup(ctx, callerID, update.ID)
	if err != nil {
		return nil, err
	}
	fields := update.Fields()
	if len(fields) == 0 {
		return chat, nil
	}
	if err := s.chatRepo.UpdateChatFields(ctx, chat.ID, fields); err != nil {
		return nil, err
	}
	return s.chatRepo.FindChatByID(ctx, chat.ID)
}

func (s *chatService) UpdateGroupPicture(ctx context.Context, callerID, chatID uuid.UUID, r io.Reader, filename string) (*models.Chat, error) {
	chat, err := s.findAdminGroup(ctx, callerID, chatID)
	if err != nil {
		return nil, err
	}

	ref, err := s.media.StoreGroupPicture(ctx, chat.ID, r, filename)
	if err != nil {
		return nil, err
	}
	if err := s.chatRepo.UpdateChatFields(ctx, chat.ID, map[string]interface{}{"chat_pic": ref}); err != nil {
		return nil, err
	}
	chat.ChatPic = ref
	return chat, nil
}

func (s *chatService) GetGroupMembers(ctx context.Context, chatID uuid.UUID) ([]models.RosterMember, error) {
	chat, err := s.findGroup(ctx, chatID)
	if err != nil {
		return nil, err
	}

	roster := make([]models.RosterMember, 0, len(chat.Members))
	for _, m := range chat.Members {
		if !m.Resolved() {
			log.Warn("skipping dangling group member", "chatId", chat.ID, "memberId", m.UserID)
			continue
		}
		roster = append(roster, models.RosterMember{
			UserID:    m.UserID,
			FirstName: m.User.FirstName,
			LastName:  m.User.LastName,
			Picture:   m.User.Picture,
			IsAdmin:   m.IsAdmin,
		})
	}
	return roster, nil
}

func (s *chatService) GetGroupInfo(ctx context.Context, chatID uuid.UUID) (*models.GroupInfo, error) {
	chat, err := s.findGroup(ctx, chatID)
	if err != nil {
		return nil, err
	}
	return &models.GroupInfo{
		ChatName:        chat.ChatName,
		ChatDescription: chat.ChatDescription,
	}, nil
}
