package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkOnlineIdempotent(t *testing.T) {
	users := newFakeUserDirectory()
	users.addUser("alice", "alice")
	presence := NewPresenceRegistry(users, testLogger())

	presence.MarkOnline("alice")
	online1, seen1 := presence.Status("alice")
	presence.MarkOnline("alice")
	online2, seen2 := presence.Status("alice")

	assert.True(t, online1)
	assert.True(t, online2)
	assert.Equal(t, seen1, seen2)

	mirrored, err := users.FindByID("alice")
	require.NoError(t, err)
	assert.True(t, mirrored.IsOnline)
}

func TestMarkOfflineSetsLastSeen(t *testing.T) {
	users := newFakeUserDirectory()
	users.addUser("alice", "alice")
	presence := NewPresenceRegistry(users, testLogger())

	presence.MarkOnline("alice")
	before := time.Now()
	lastSeen := presence.MarkOffline("alice")

	online, seen := presence.Status("alice")
	assert.False(t, online)
	require.NotNil(t, seen)
	assert.False(t, lastSeen.Before(before))
	assert.Equal(t, lastSeen, *seen)

	mirrored, err := users.FindByID("alice")
	require.NoError(t, err)
	assert.False(t, mirrored.IsOnline)
	require.NotNil(t, mirrored.LastSeen)
}

func TestPresenceWriteFailureSwallowed(t *testing.T) {
	users := newFakeUserDirectory()
	users.failWrites = true
	presence := NewPresenceRegistry(users, testLogger())

	// 持久化失败不应该影响内存状态
	presence.MarkOnline("alice")
	online, _ := presence.Status("alice")
	assert.True(t, online)

	presence.MarkOffline("alice")
	online, seen := presence.Status("alice")
	assert.False(t, online)
	assert.NotNil(t, seen)
}

func TestStatusUnknownUser(t *testing.T) {
	presence := NewPresenceRegistry(newFakeUserDirectory(), testLogger())

	online, seen := presence.Status("nobody")
	assert.False(t, online)
	assert.Nil(t, seen)
}
