package services

import (
	"time"

	"devconnect/models"

	"gorm.io/gorm"
)

// UserStatus 用户目录返回的状态视图
type UserStatus struct {
	UserID   string     `json:"user_id"`
	Username string     `json:"username"`
	IsOnline bool       `json:"is_online"`
	LastSeen *time.Time `json:"last_seen"`
}

// UserDirectory 用户目录，聊天核心只通过这个接口读写用户的在线状态
type UserDirectory interface {
	FindByID(userID string) (*UserStatus, error)
	UpdateOnlineStatus(userID string, online bool, lastSeen *time.Time) error
}

// GroupMemberInfo 群成员视图
type GroupMemberInfo struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// GroupInfo 群组视图
type GroupInfo struct {
	GroupID string            `json:"group_id"`
	Name    string            `json:"name"`
	Members []GroupMemberInfo `json:"members"`
}

// GroupDirectory 群组目录，用于群聊鉴权
type GroupDirectory interface {
	FindByID(groupID string) (*GroupInfo, error)
	IsMember(groupID, userID string) (bool, error)
}

type gormUserDirectory struct {
	db *gorm.DB
}

// NewUserDirectory 基于 gorm 的用户目录
func NewUserDirectory(db *gorm.DB) UserDirectory {
	return &gormUserDirectory{db: db}
}

func (d *gormUserDirectory) FindByID(userID string) (*UserStatus, error) {
	var user models.User
	if err := d.db.Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}
	return &UserStatus{
		UserID:   userID,
		Username: user.Username,
		IsOnline: user.IsOnline,
		LastSeen: user.LastSeen,
	}, nil
}

func (d *gormUserDirectory) UpdateOnlineStatus(userID string, online bool, lastSeen *time.Time) error {
	return d.db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"is_online": online,
			"last_seen": lastSeen,
		}).Error
}

type gormGroupDirectory struct {
	db *gorm.DB
}

// NewGroupDirectory 基于 gorm 的群组目录
func NewGroupDirectory(db *gorm.DB) GroupDirectory {
	return &gormGroupDirectory{db: db}
}

func (d *gormGroupDirectory) FindByID(groupID string) (*GroupInfo, error) {
	var group models.Group
	if err := d.db.Where("group_id = ?", groupID).First(&group).Error; err != nil {
		return nil, err
	}

	var members []models.GroupMember
	if err := d.db.Where("group_id = ?", groupID).Find(&members).Error; err != nil {
		return nil, err
	}

	info := &GroupInfo{GroupID: group.GroupID, Name: group.Name}
	for _, m := range members {
		info.Members = append(info.Members, GroupMemberInfo{UserID: m.UserID, Role: m.Role})
	}
	return info, nil
}

func (d *gormGroupDirectory) IsMember(groupID, userID string) (bool, error) {
	var count int64
	err := d.db.Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
