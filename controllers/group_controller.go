package controllers

import (
	"fmt"
	"net/http"

	"devconnect/config"
	"devconnect/models"
	"devconnect/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// CreateGroup 创建群组，创建者自动成为群管理员
func CreateGroup(c *gin.Context) {
	userInfo, ok := currentUser(c)
	if !ok {
		return
	}

	var input struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ownerID := fmt.Sprint(userInfo.ID)
	group := models.Group{
		GroupID:     uuid.New().String(),
		Name:        input.Name,
		OwnerID:     ownerID,
		Description: input.Description,
	}

	if err := config.DB.Create(&group).Error; err != nil {
		logrus.WithError(err).Error("Failed to create group")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create group"})
		return
	}

	admin := models.GroupMember{
		GroupID: group.GroupID,
		UserID:  ownerID,
		Role:    models.GroupRoleAdmin,
	}
	if err := config.DB.Create(&admin).Error; err != nil {
		logrus.WithError(err).Error("Failed to add group admin")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create group"})
		return
	}

	utils.RespondSuccess(c, group, nil)
}

// AddGroupMember 拉人进群，仅管理员可操作
func AddGroupMember(c *gin.Context) {
	userInfo, ok := currentUser(c)
	if !ok {
		return
	}
	groupID := c.Param("groupId")

	var input struct {
		UserID string `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 校验操作者是群管理员
	var requester models.GroupMember
	err := config.DB.Where("group_id = ? AND user_id = ? AND role = ?",
		groupID, fmt.Sprint(userInfo.ID), models.GroupRoleAdmin).First(&requester).Error
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only group admins can add members"})
		return
	}

	// 校验目标用户存在
	var targetUser models.User
	if err := config.DB.Where("id = ?", input.UserID).First(&targetUser).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	member := models.GroupMember{
		GroupID: groupID,
		UserID:  input.UserID,
		Role:    models.GroupRoleMember,
	}
	if err := config.DB.Create(&member).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User is already a member"})
		return
	}

	utils.RespondSuccess(c, member, nil)
}

// GetMyGroups 当前用户加入的所有群组
func GetMyGroups(c *gin.Context) {
	userInfo, ok := currentUser(c)
	if !ok {
		return
	}

	var groups []models.Group
	err := config.DB.
		Where("group_id IN (?)", config.DB.Model(&models.GroupMember{}).
			Select("group_id").Where("user_id = ?", fmt.Sprint(userInfo.ID))).
		Find(&groups).Error
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch groups")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch groups"})
		return
	}

	utils.RespondSuccess(c, groups, nil)
}
