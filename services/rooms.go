package services

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// DirectRoomID 计算私聊房间ID
// 两个用户ID排序后用 "$" 拼接再做 sha256，双方各自独立计算也能得到同一个房间
func DirectRoomID(userID, targetUserID string) string {
	ids := []string{userID, targetUserID}
	sort.Strings(ids)
	sum := sha256.Sum256([]byte(strings.Join(ids, "$")))
	return hex.EncodeToString(sum[:])
}

// RoomRouter 管理连接与房间的对应关系
// 私聊房间ID由 DirectRoomID 推导，群聊房间ID就是群组ID
type RoomRouter struct {
	mu     sync.RWMutex
	rooms  map[string]map[*Client]struct{}
	groups GroupDirectory
	log    *logrus.Logger
}

func NewRoomRouter(groups GroupDirectory, log *logrus.Logger) *RoomRouter {
	return &RoomRouter{
		rooms:  make(map[string]map[*Client]struct{}),
		groups: groups,
		log:    log,
	}
}

// Join 把连接加入房间，一个连接可以同时属于多个房间
func (r *RoomRouter) Join(c *Client, roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[roomID]; !ok {
		r.rooms[roomID] = make(map[*Client]struct{})
	}
	r.rooms[roomID][c] = struct{}{}
}

// JoinGroupRoom 校验群成员身份后加入群聊房间，非成员静默拒绝
func (r *RoomRouter) JoinGroupRoom(c *Client, userID, groupID string) bool {
	member, err := r.groups.IsMember(groupID, userID)
	if err != nil {
		r.log.WithError(err).WithField("group_id", groupID).Warn("Group membership check failed")
		return false
	}
	if !member {
		r.log.WithFields(logrus.Fields{
			"user_id":  userID,
			"group_id": groupID,
		}).Debug("Declined group room join for non-member")
		return false
	}

	r.Join(c, groupID)
	return true
}

// Leave 把连接从它加入过的所有房间移除，断线时调用
func (r *RoomRouter) Leave(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for roomID, members := range r.rooms {
		if _, ok := members[c]; ok {
			delete(members, c)
			if len(members) == 0 {
				delete(r.rooms, roomID)
			}
		}
	}
}

// Broadcast 把消息发给房间内的所有连接
func (r *RoomRouter) Broadcast(roomID string, frame []byte) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for client := range r.rooms[roomID] {
		if !client.Enqueue(frame) {
			r.log.WithField("connection_id", client.ConnectionID).Warn("Skipping slow client")
		}
	}
}

// InRoom 判断连接是否在房间内
func (r *RoomRouter) InRoom(c *Client, roomID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.rooms[roomID][c]
	return ok
}
