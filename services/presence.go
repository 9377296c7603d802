package services

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type presenceRecord struct {
	online   bool
	lastSeen *time.Time
}

// PresenceRegistry 进程内的在线状态表，写穿透到用户目录的持久记录
// 持久化失败只记日志，不影响消息收发
type PresenceRegistry struct {
	mu      sync.RWMutex
	entries map[string]*presenceRecord
	users   UserDirectory
	log     *logrus.Logger
}

func NewPresenceRegistry(users UserDirectory, log *logrus.Logger) *PresenceRegistry {
	return &PresenceRegistry{
		entries: make(map[string]*presenceRecord),
		users:   users,
		log:     log,
	}
}

// MarkOnline 标记用户在线，幂等
func (p *PresenceRegistry) MarkOnline(userID string) {
	p.mu.Lock()
	entry, ok := p.entries[userID]
	if !ok {
		entry = &presenceRecord{}
		p.entries[userID] = entry
	}
	entry.online = true
	p.mu.Unlock()

	if err := p.users.UpdateOnlineStatus(userID, true, nil); err != nil {
		p.log.WithError(err).WithField("user_id", userID).Warn("Failed to persist online status")
	}
}

// MarkOffline 标记用户下线并记录最后在线时间，返回该时间用于广播
func (p *PresenceRegistry) MarkOffline(userID string) time.Time {
	now := time.Now()

	p.mu.Lock()
	entry, ok := p.entries[userID]
	if !ok {
		entry = &presenceRecord{}
		p.entries[userID] = entry
	}
	entry.online = false
	entry.lastSeen = &now
	p.mu.Unlock()

	if err := p.users.UpdateOnlineStatus(userID, false, &now); err != nil {
		p.log.WithError(err).WithField("user_id", userID).Warn("Failed to persist offline status")
	}
	return now
}

// Status 读取用户当前在线状态
func (p *PresenceRegistry) Status(userID string) (bool, *time.Time) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	entry, ok := p.entries[userID]
	if !ok {
		return false, nil
	}
	return entry.online, entry.lastSeen
}
