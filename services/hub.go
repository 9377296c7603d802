package services

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Frame 客户端发来的事件帧
type Frame struct {
	Event        string `json:"event"`
	AckID        string `json:"ackId,omitempty"`
	UserID       string `json:"userId"`
	TargetUserID string `json:"targetUserId,omitempty"`
	GroupID      string `json:"groupId,omitempty"`
	Text         string `json:"text,omitempty"`
}

// 客户端事件名
const (
	EventJoinChat         = "joinChat"
	EventSendMessage      = "sendMessage"
	EventJoinGroup        = "joinGroup"
	EventSendGroupMessage = "sendGroupMessage"
	EventMarkSeen         = "markSeen"
)

// Client 一条 WebSocket 连接
// UserID 在第一个 join 事件之前为空（匿名连接），断线时为空则不做下线处理
type Client struct {
	Conn         *websocket.Conn
	Send         chan []byte
	ConnectionID string

	mu       sync.Mutex
	userID   string
	lastPong time.Time
	closed   bool

	done      chan struct{}
	closeOnce sync.Once
	gone      sync.Once
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		Conn:         conn,
		Send:         make(chan []byte, 64),
		ConnectionID: uuid.New().String(),
		lastPong:     time.Now(),
		done:         make(chan struct{}),
	}
}

// Enqueue 把一帧放入发送队列
// 连接已关闭或队列满时丢弃，返回是否入队成功
func (c *Client) Enqueue(frame []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.Send <- frame:
		return true
	default:
		return false
	}
}

// BindUser 记录连接对应的用户
func (c *Client) BindUser(userID string) {
	c.mu.Lock()
	c.userID = userID
	c.mu.Unlock()
}

// UserID 读取连接对应的用户，未绑定时返回空串
func (c *Client) UserID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID
}

func (c *Client) touchPong() {
	c.mu.Lock()
	c.lastPong = time.Now()
	c.mu.Unlock()
}

func (c *Client) sincePong() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return time.Since(c.lastPong)
}

// closeSend 关闭发送通道并通知心跳退出，只执行一次
func (c *Client) closeSend() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.Send)
		c.mu.Unlock()
		close(c.done)
	})
}

// Hub 连接生命周期管理器
// 连接注册、join 事件分发、断线时的在线状态清理和全局广播都在这里
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}

	presence   *PresenceRegistry
	rooms      *RoomRouter
	dispatcher *MessageDispatcher
	log        *logrus.Logger

	pingInterval time.Duration
	pongTimeout  time.Duration
}

func NewHub(presence *PresenceRegistry, rooms *RoomRouter, dispatcher *MessageDispatcher, log *logrus.Logger, pingInterval, pongTimeout time.Duration) *Hub {
	return &Hub{
		clients:      make(map[*Client]struct{}),
		presence:     presence,
		rooms:        rooms,
		dispatcher:   dispatcher,
		log:          log,
		pingInterval: pingInterval,
		pongTimeout:  pongTimeout,
	}
}

// Register 登记新连接，此时还不知道用户身份
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	h.log.WithField("connection_id", c.ConnectionID).Info("Client connected")
}

// JoinChat 加入私聊房间并标记在线，向房间通报上线
func (h *Hub) JoinChat(c *Client, userID, targetUserID string) {
	if userID == "" || targetUserID == "" {
		return
	}

	c.BindUser(userID)
	h.presence.MarkOnline(userID)

	roomID := DirectRoomID(userID, targetUserID)
	h.rooms.Join(c, roomID)

	h.rooms.Broadcast(roomID, encodeFrame(EventPeerStatusChanged, map[string]interface{}{
		"userId":   userID,
		"isOnline": true,
		"lastSeen": nil,
	}))
}

// JoinGroup 校验群成员身份后加入群聊房间，非成员静默拒绝
func (h *Hub) JoinGroup(c *Client, userID, groupID string) {
	if userID == "" || groupID == "" {
		return
	}

	if !h.rooms.JoinGroupRoom(c, userID, groupID) {
		return
	}
	c.BindUser(userID)
	h.presence.MarkOnline(userID)
}

// Disconnect 连接断开后的清理，只执行一次
// 如果连接绑定过用户，标记下线并向所有连接广播状态变更
func (h *Hub) Disconnect(c *Client) {
	c.gone.Do(func() {
		h.mu.Lock()
		delete(h.clients, c)
		h.mu.Unlock()

		h.rooms.Leave(c)
		c.closeSend()

		userID := c.UserID()
		if userID == "" {
			return
		}

		lastSeen := h.presence.MarkOffline(userID)
		h.BroadcastAll(encodeFrame(EventPeerStatusChanged, map[string]interface{}{
			"userId":   userID,
			"isOnline": false,
			"lastSeen": lastSeen.UTC().Format(time.RFC3339),
		}))

		h.log.WithFields(logrus.Fields{
			"connection_id": c.ConnectionID,
			"user_id":       userID,
		}).Info("Client disconnected")
	})
}

// BroadcastAll 向所有连接广播，在线状态变更用
func (h *Hub) BroadcastAll(frame []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		if !client.Enqueue(frame) {
			h.log.WithField("connection_id", client.ConnectionID).Warn("Skipping slow client")
		}
	}
}

// HandleFrame 分发一个客户端事件
func (h *Hub) HandleFrame(c *Client, data []byte) {
	var frame Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		h.log.WithField("connection_id", c.ConnectionID).Debug("Invalid frame, dropping")
		return
	}

	switch frame.Event {
	case EventJoinChat:
		h.JoinChat(c, frame.UserID, frame.TargetUserID)
	case EventSendMessage:
		h.dispatcher.SendDirect(c, frame.AckID, frame.UserID, frame.TargetUserID, frame.Text)
	case EventJoinGroup:
		h.JoinGroup(c, frame.UserID, frame.GroupID)
	case EventSendGroupMessage:
		h.dispatcher.SendGroup(c, frame.AckID, frame.UserID, frame.GroupID, frame.Text)
	case EventMarkSeen:
		h.dispatcher.MarkSeen(c, frame.UserID, frame.TargetUserID)
	default:
		h.log.WithField("event", frame.Event).Debug("Unknown event, dropping")
	}
}

// ReadPump 读循环，连接断开（读出错）时触发下线清理
func (c *Client) ReadPump(h *Hub) {
	defer func() {
		h.Disconnect(c)
		c.Conn.Close()
	}()

	for {
		_, msg, err := c.Conn.ReadMessage()
		if err != nil {
			break
		}
		if string(msg) == "pong" {
			c.touchPong()
			continue
		}
		h.HandleFrame(c, msg)
	}
}

// WritePump 写循环，把发送队列里的帧写到连接上
func (c *Client) WritePump() {
	for msg := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

// StartHeartbeat 心跳检测，超时未收到 pong 就关连接交给 ReadPump 清理
// ping 也走发送队列，所有写操作都由 WritePump 串行执行
func (c *Client) StartHeartbeat(h *Hub) {
	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			if c.sincePong() > h.pongTimeout {
				h.log.WithField("connection_id", c.ConnectionID).Info("Client heartbeat timeout")
				c.Conn.Close()
				return
			}
			c.Enqueue([]byte("ping"))
		}
	}
}
