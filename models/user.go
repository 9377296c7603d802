package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户模型
type User struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string         `json:"username" gorm:"unique;not null"`
	Password  string         `json:"-" gorm:"not null"`
	Email     string         `json:"email"`
	AvatarURL string         `json:"avatar_url"`
	IsOnline  bool           `json:"is_online" gorm:"default:false"` // 在线状态
	LastSeen  *time.Time     `json:"last_seen" gorm:"default:NULL"`  // 最后在线时间，仅下线时更新
	LastLogin *time.Time     `json:"last_login" gorm:"default:NULL"` // 允许 NULL
	Bio       string         `json:"bio"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at"`
}
