package controllers

import (
	"fmt"
	"net/http"

	"devconnect/config"
	"devconnect/models"
	"devconnect/services"
	"devconnect/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// currentUser 从上下文取当前登录用户
func currentUser(c *gin.Context) (*models.User, bool) {
	user, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return nil, false
	}
	userInfo, ok := user.(*models.User)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user data"})
		return nil, false
	}
	return userInfo, true
}

// GetChatHistory 私聊历史 + 对方在线状态，首屏渲染用
// 会话不存在时顺手创建空会话，返回顺序与实时通道的写入顺序一致
func GetChatHistory(store services.ConversationStore, users services.UserDirectory) gin.HandlerFunc {
	return func(c *gin.Context) {
		userInfo, ok := currentUser(c)
		if !ok {
			return
		}
		userID := fmt.Sprint(userInfo.ID)
		targetUserID := c.Param("targetUserId")

		target, err := users.FindByID(targetUserID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Target user not found"})
			return
		}

		conversation, err := store.FindOrCreateDirect(userID, targetUserID)
		if err != nil {
			logrus.WithError(err).Error("Failed to fetch conversation")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch conversation"})
			return
		}

		messages, err := store.MessagesOf(conversation.ConversationID)
		if err != nil {
			logrus.WithError(err).Error("Failed to fetch messages")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
			return
		}

		utils.RespondSuccess(c, gin.H{
			"conversation_id": conversation.ConversationID,
			"messages":        messages,
			"target_user":     target,
		}, nil)
	}
}

// GetGroupChatHistory 群聊历史，只有群成员能看
func GetGroupChatHistory(store services.ConversationStore, groups services.GroupDirectory) gin.HandlerFunc {
	return func(c *gin.Context) {
		userInfo, ok := currentUser(c)
		if !ok {
			return
		}
		userID := fmt.Sprint(userInfo.ID)
		groupID := c.Param("groupId")

		group, err := groups.FindByID(groupID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
			return
		}

		member, err := groups.IsMember(groupID, userID)
		if err != nil {
			logrus.WithError(err).Error("Group membership check failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check membership"})
			return
		}
		if !member {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not a group member"})
			return
		}

		conversation, err := store.FindOrCreateGroup(groupID)
		if err != nil {
			logrus.WithError(err).Error("Failed to fetch group conversation")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch conversation"})
			return
		}

		messages, err := store.MessagesOf(conversation.ConversationID)
		if err != nil {
			logrus.WithError(err).Error("Failed to fetch group messages")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
			return
		}

		utils.RespondSuccess(c, gin.H{
			"group": gin.H{
				"group_id": group.GroupID,
				"name":     group.Name,
			},
			"messages": messages,
		}, nil)
	}
}

// GetConversations 当前用户参与的所有会话
func GetConversations(c *gin.Context) {
	userInfo, ok := currentUser(c)
	if !ok {
		return
	}
	userID := fmt.Sprint(userInfo.ID)

	var conversations []models.Conversation
	err := config.DB.
		Where("participant_a = ? OR participant_b = ?", userID, userID).
		Or("group_id IN (?)", config.DB.Model(&models.GroupMember{}).
			Select("group_id").Where("user_id = ?", userID)).
		Find(&conversations).Error
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch conversations")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch conversations"})
		return
	}

	utils.RespondSuccess(c, conversations, nil)
}
