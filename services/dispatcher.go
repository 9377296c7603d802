package services

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// 服务端推送的事件名
const (
	EventMessageReceived      = "messageReceived"
	EventGroupMessageReceived = "groupMessageReceived"
	EventPeerStatusChanged    = "peerStatusChanged"
	EventMessagesSeen         = "messagesSeen"
	EventMessageAck           = "messageAck"
	EventMessageFailed        = "messageFailed"
)

// encodeFrame 编码一条服务端推送
func encodeFrame(event string, fields map[string]interface{}) []byte {
	payload := map[string]interface{}{"event": event}
	for k, v := range fields {
		payload[k] = v
	}
	data, _ := json.Marshal(payload)
	return data
}

// MessageDispatcher 消息分发器，会话消息唯一的写入口
// 先落库再广播，落库失败不广播
type MessageDispatcher struct {
	store  ConversationStore
	users  UserDirectory
	groups GroupDirectory
	rooms  *RoomRouter
	log    *logrus.Logger
}

func NewMessageDispatcher(store ConversationStore, users UserDirectory, groups GroupDirectory, rooms *RoomRouter, log *logrus.Logger) *MessageDispatcher {
	return &MessageDispatcher{
		store:  store,
		users:  users,
		groups: groups,
		rooms:  rooms,
		log:    log,
	}
}

// ack 发送成功回执，客户端没带 ackId 时不回
func (d *MessageDispatcher) ack(c *Client, ackID, messageID string, ts time.Time) {
	if ackID == "" {
		return
	}
	c.Enqueue(encodeFrame(EventMessageAck, map[string]interface{}{
		"ackId":     ackID,
		"messageId": messageID,
		"timestamp": ts.UTC().Format(time.RFC3339),
	}))
}

// fail 发送失败回执，客户端没带 ackId 时保持基线的静默丢弃
func (d *MessageDispatcher) fail(c *Client, ackID, reason string) {
	if ackID == "" {
		return
	}
	c.Enqueue(encodeFrame(EventMessageFailed, map[string]interface{}{
		"ackId":  ackID,
		"reason": reason,
	}))
}

// SendDirect 处理私聊消息：校验 -> 定位/创建会话 -> 落库 -> 广播
func (d *MessageDispatcher) SendDirect(c *Client, ackID, userID, targetUserID, text string) {
	if strings.TrimSpace(text) == "" || userID == "" || targetUserID == "" {
		d.fail(c, ackID, "invalid message")
		return
	}

	conversation, err := d.store.FindOrCreateDirect(userID, targetUserID)
	if err != nil {
		d.log.WithError(err).Error("Failed to locate direct conversation")
		d.fail(c, ackID, "server error")
		return
	}

	message, err := d.store.AppendMessage(conversation.ConversationID, userID, text)
	if err != nil {
		d.log.WithError(err).WithField("conversation_id", conversation.ConversationID).
			Error("Failed to persist message")
		d.fail(c, ackID, "server error")
		return
	}

	roomID := DirectRoomID(userID, targetUserID)
	d.rooms.Broadcast(roomID, encodeFrame(EventMessageReceived, map[string]interface{}{
		"text":      text,
		"senderId":  userID,
		"timestamp": message.CreatedAt.UTC().Format(time.RFC3339),
	}))
	d.ack(c, ackID, message.MessageID, message.CreatedAt)
}

// SendGroup 处理群聊消息，每次发送都重新校验群成员身份
func (d *MessageDispatcher) SendGroup(c *Client, ackID, userID, groupID, text string) {
	if strings.TrimSpace(text) == "" || userID == "" || groupID == "" {
		d.fail(c, ackID, "invalid message")
		return
	}

	member, err := d.groups.IsMember(groupID, userID)
	if err != nil {
		d.log.WithError(err).WithField("group_id", groupID).Error("Group membership check failed")
		d.fail(c, ackID, "server error")
		return
	}
	if !member {
		d.log.WithFields(logrus.Fields{
			"user_id":  userID,
			"group_id": groupID,
		}).Debug("Declined group message from non-member")
		d.fail(c, ackID, "not a group member")
		return
	}

	conversation, err := d.store.FindOrCreateGroup(groupID)
	if err != nil {
		d.log.WithError(err).Error("Failed to locate group conversation")
		d.fail(c, ackID, "server error")
		return
	}

	message, err := d.store.AppendMessage(conversation.ConversationID, userID, text)
	if err != nil {
		d.log.WithError(err).WithField("conversation_id", conversation.ConversationID).
			Error("Failed to persist group message")
		d.fail(c, ackID, "server error")
		return
	}

	senderName := "Unknown"
	if sender, err := d.users.FindByID(userID); err == nil {
		senderName = sender.Username
	}

	d.rooms.Broadcast(groupID, encodeFrame(EventGroupMessageReceived, map[string]interface{}{
		"senderId":   userID,
		"senderName": senderName,
		"text":       text,
		"timestamp":  message.CreatedAt.UTC().Format(time.RFC3339),
	}))
	d.ack(c, ackID, message.MessageID, message.CreatedAt)
}

// MarkSeen 把私聊里对方发来的未读消息置为已读并通知房间
func (d *MessageDispatcher) MarkSeen(c *Client, userID, targetUserID string) {
	if userID == "" || targetUserID == "" {
		return
	}

	conversationID := DirectConversationID(userID, targetUserID)
	updated, err := d.store.MarkSeen(conversationID, userID)
	if err != nil {
		d.log.WithError(err).WithField("conversation_id", conversationID).
			Error("Failed to mark messages as seen")
		return
	}
	if updated == 0 {
		return
	}

	roomID := DirectRoomID(userID, targetUserID)
	d.rooms.Broadcast(roomID, encodeFrame(EventMessagesSeen, map[string]interface{}{
		"conversationId": conversationID,
		"seenBy":         userID,
	}))
}
