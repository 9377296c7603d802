package services

import (
	"errors"
	"fmt"
	"sort"

	"devconnect/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DirectConversationID 生成私聊会话ID
// 两个用户ID排序后拼接，保证同一对用户无论参数顺序都得到同一个会话
func DirectConversationID(userID, targetUserID string) string {
	ids := []string{userID, targetUserID}
	sort.Strings(ids)
	return fmt.Sprintf("%s_%s", ids[0], ids[1])
}

// GroupConversationID 生成群聊会话ID
func GroupConversationID(groupID string) string {
	return fmt.Sprintf("group_%s", groupID)
}

// ConversationStore 会话存储，消息只通过 AppendMessage 写入
type ConversationStore interface {
	FindOrCreateDirect(userID, targetUserID string) (*models.Conversation, error)
	FindOrCreateGroup(groupID string) (*models.Conversation, error)
	AppendMessage(conversationID, senderID, text string) (*models.Message, error)
	MessagesOf(conversationID string) ([]models.Message, error)
	MarkSeen(conversationID, readerID string) (int64, error)
}

type gormConversationStore struct {
	db *gorm.DB
}

// NewConversationStore 基于 gorm 的会话存储
func NewConversationStore(db *gorm.DB) ConversationStore {
	return &gormConversationStore{db: db}
}

func (s *gormConversationStore) FindOrCreateDirect(userID, targetUserID string) (*models.Conversation, error) {
	conversationID := DirectConversationID(userID, targetUserID)

	var conversation models.Conversation
	err := s.db.Where("conversation_id = ?", conversationID).First(&conversation).Error
	if err == nil {
		return &conversation, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	conversation = models.Conversation{
		ConversationID: conversationID,
		Type:           "private",
		ParticipantA:   userID,
		ParticipantB:   targetUserID,
	}
	if err := s.db.Create(&conversation).Error; err != nil {
		// 并发创建时主键冲突，重新读取已有会话
		var existing models.Conversation
		if ferr := s.db.Where("conversation_id = ?", conversationID).First(&existing).Error; ferr == nil {
			return &existing, nil
		}
		return nil, err
	}
	return &conversation, nil
}

func (s *gormConversationStore) FindOrCreateGroup(groupID string) (*models.Conversation, error) {
	conversationID := GroupConversationID(groupID)

	var conversation models.Conversation
	err := s.db.Where("conversation_id = ?", conversationID).First(&conversation).Error
	if err == nil {
		return &conversation, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	conversation = models.Conversation{
		ConversationID: conversationID,
		Type:           "group",
		GroupID:        groupID,
	}
	if err := s.db.Create(&conversation).Error; err != nil {
		var existing models.Conversation
		if ferr := s.db.Where("conversation_id = ?", conversationID).First(&existing).Error; ferr == nil {
			return &existing, nil
		}
		return nil, err
	}
	return &conversation, nil
}

func (s *gormConversationStore) AppendMessage(conversationID, senderID, text string) (*models.Message, error) {
	message := models.Message{
		MessageID:      uuid.New().String(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        text,
		Status:         models.MessageStatusSent,
	}
	if err := s.db.Create(&message).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

func (s *gormConversationStore) MessagesOf(conversationID string) ([]models.Message, error) {
	var messages []models.Message
	err := s.db.Where("conversation_id = ?", conversationID).
		Order("id ASC"). // 按写入顺序返回
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (s *gormConversationStore) MarkSeen(conversationID, readerID string) (int64, error) {
	result := s.db.Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id != ? AND status = ?",
			conversationID, readerID, models.MessageStatusSent).
		Update("status", models.MessageStatusSeen)
	return result.RowsAffected, result.Error
}
