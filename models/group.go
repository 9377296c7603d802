package models

import "time"

// Group 群组模型
type Group struct {
	GroupID     string    `gorm:"primaryKey;type:varchar(36)" json:"group_id"` // 群组 UUID
	Name        string    `gorm:"not null" json:"name"`                        // 群组名称
	OwnerID     string    `gorm:"type:varchar(36);index" json:"owner_id"`      // 群主ID
	Description string    `json:"description"`                                 // 群组描述
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
