package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"devconnect/models"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestClient() *Client {
	return NewClient(nil)
}

// recvFrame 从客户端发送队列取一帧并解码
func recvFrame(t *testing.T, c *Client) map[string]interface{} {
	t.Helper()
	select {
	case data := <-c.Send:
		var frame map[string]interface{}
		if err := json.Unmarshal(data, &frame); err != nil {
			t.Fatalf("invalid frame: %v", err)
		}
		return frame
	case <-time.After(time.Second):
		t.Fatal("expected a frame, got none")
		return nil
	}
}

func assertNoFrame(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.Send:
		t.Fatalf("expected no frame, got %s", data)
	default:
	}
}

type fakeUserDirectory struct {
	mu         sync.Mutex
	users      map[string]*UserStatus
	failWrites bool
	writes     int
}

func newFakeUserDirectory() *fakeUserDirectory {
	return &fakeUserDirectory{users: make(map[string]*UserStatus)}
}

func (d *fakeUserDirectory) addUser(userID, username string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[userID] = &UserStatus{UserID: userID, Username: username}
}

func (d *fakeUserDirectory) FindByID(userID string) (*UserStatus, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	user, ok := d.users[userID]
	if !ok {
		return nil, errors.New("user not found")
	}
	copied := *user
	return &copied, nil
}

func (d *fakeUserDirectory) UpdateOnlineStatus(userID string, online bool, lastSeen *time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failWrites {
		return errors.New("store unavailable")
	}
	d.writes++
	user, ok := d.users[userID]
	if !ok {
		user = &UserStatus{UserID: userID}
		d.users[userID] = user
	}
	user.IsOnline = online
	user.LastSeen = lastSeen
	return nil
}

type fakeGroupDirectory struct {
	mu     sync.Mutex
	groups map[string]*GroupInfo
}

func newFakeGroupDirectory() *fakeGroupDirectory {
	return &fakeGroupDirectory{groups: make(map[string]*GroupInfo)}
}

func (d *fakeGroupDirectory) addGroup(groupID, name string, memberIDs ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	info := &GroupInfo{GroupID: groupID, Name: name}
	for i, id := range memberIDs {
		role := models.GroupRoleMember
		if i == 0 {
			role = models.GroupRoleAdmin
		}
		info.Members = append(info.Members, GroupMemberInfo{UserID: id, Role: role})
	}
	d.groups[groupID] = info
}

func (d *fakeGroupDirectory) FindByID(groupID string) (*GroupInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	group, ok := d.groups[groupID]
	if !ok {
		return nil, errors.New("group not found")
	}
	return group, nil
}

func (d *fakeGroupDirectory) IsMember(groupID, userID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	group, ok := d.groups[groupID]
	if !ok {
		return false, nil
	}
	for _, m := range group.Members {
		if m.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

type fakeConversationStore struct {
	mu            sync.Mutex
	conversations map[string]*models.Conversation
	messages      map[string][]models.Message
	failAppend    bool
	nextID        uint
}

func newFakeConversationStore() *fakeConversationStore {
	return &fakeConversationStore{
		conversations: make(map[string]*models.Conversation),
		messages:      make(map[string][]models.Message),
	}
}

func (s *fakeConversationStore) FindOrCreateDirect(userID, targetUserID string) (*models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conversationID := DirectConversationID(userID, targetUserID)
	if conversation, ok := s.conversations[conversationID]; ok {
		return conversation, nil
	}
	conversation := &models.Conversation{
		ConversationID: conversationID,
		Type:           "private",
		ParticipantA:   userID,
		ParticipantB:   targetUserID,
		CreatedAt:      time.Now(),
	}
	s.conversations[conversationID] = conversation
	return conversation, nil
}

func (s *fakeConversationStore) FindOrCreateGroup(groupID string) (*models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conversationID := GroupConversationID(groupID)
	if conversation, ok := s.conversations[conversationID]; ok {
		return conversation, nil
	}
	conversation := &models.Conversation{
		ConversationID: conversationID,
		Type:           "group",
		GroupID:        groupID,
		CreatedAt:      time.Now(),
	}
	s.conversations[conversationID] = conversation
	return conversation, nil
}

func (s *fakeConversationStore) AppendMessage(conversationID, senderID, text string) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAppend {
		return nil, errors.New("store unavailable")
	}
	s.nextID++
	message := models.Message{
		ID:             s.nextID,
		MessageID:      fmt.Sprintf("msg-%d", s.nextID),
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        text,
		Status:         models.MessageStatusSent,
		CreatedAt:      time.Now(),
	}
	s.messages[conversationID] = append(s.messages[conversationID], message)
	return &message, nil
}

func (s *fakeConversationStore) MessagesOf(conversationID string) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Message(nil), s.messages[conversationID]...), nil
}

func (s *fakeConversationStore) MarkSeen(conversationID, readerID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var updated int64
	messages := s.messages[conversationID]
	for i := range messages {
		if messages[i].SenderID != readerID && messages[i].Status == models.MessageStatusSent {
			messages[i].Status = models.MessageStatusSeen
			updated++
		}
	}
	return updated, nil
}
