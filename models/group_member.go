package models

import "time"

// 群成员角色
const (
	GroupRoleAdmin  = "admin"
	GroupRoleMember = "member"
)

// GroupMember 群组成员模型
type GroupMember struct {
	GroupID  string    `gorm:"primaryKey;type:varchar(36)" json:"group_id"`
	UserID   string    `gorm:"primaryKey;type:varchar(36)" json:"user_id"`
	Role     string    `gorm:"type:varchar(10);default:'member'" json:"role"` // admin / member
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`               // 加入群组的时间
}
