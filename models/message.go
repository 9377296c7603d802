package models

import "time"

// 消息状态
const (
	MessageStatusSent = "sent"
	MessageStatusSeen = "seen"
)

// Message 消息模型
// 自增 ID 决定会话内的持久化顺序，消息一经写入不可变，仅 Status 允许 sent -> seen。
type Message struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	MessageID      string    `gorm:"type:varchar(36);uniqueIndex" json:"message_id"` // 消息 UUID
	ConversationID string    `gorm:"type:varchar(80);index" json:"conversation_id"`
	SenderID       string    `gorm:"type:varchar(36);index" json:"sender_id"`
	Content        string    `gorm:"type:text" json:"content"`
	Status         string    `gorm:"type:varchar(10);default:'sent'" json:"status"` // sent / seen，仅私聊用
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}
