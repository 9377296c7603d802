package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectRoomIDSymmetry(t *testing.T) {
	a := DirectRoomID("alice", "bob")
	b := DirectRoomID("bob", "alice")

	assert.Equal(t, a, b)
	assert.Len(t, a, 64) // sha256 hex
}

func TestDirectRoomIDDistinctPairs(t *testing.T) {
	assert.NotEqual(t, DirectRoomID("alice", "bob"), DirectRoomID("alice", "carol"))
	assert.NotEqual(t, DirectRoomID("alice", "bob"), DirectRoomID("bob", "carol"))
}

func TestDirectConversationIDCanonicalization(t *testing.T) {
	assert.Equal(t, "alice_bob", DirectConversationID("alice", "bob"))
	assert.Equal(t, "alice_bob", DirectConversationID("bob", "alice"))
	assert.Equal(t, "group_g1", GroupConversationID("g1"))
}

func TestRoomRouterBroadcastReachesAllMembers(t *testing.T) {
	router := NewRoomRouter(newFakeGroupDirectory(), testLogger())
	alice := newTestClient()
	bob := newTestClient()

	roomID := DirectRoomID("alice", "bob")
	router.Join(alice, roomID)
	router.Join(bob, roomID)

	router.Broadcast(roomID, encodeFrame(EventMessageReceived, map[string]interface{}{"text": "hi"}))

	assert.Equal(t, "hi", recvFrame(t, alice)["text"])
	assert.Equal(t, "hi", recvFrame(t, bob)["text"])
}

func TestRoomRouterLeaveRemovesFromAllRooms(t *testing.T) {
	router := NewRoomRouter(newFakeGroupDirectory(), testLogger())
	alice := newTestClient()

	router.Join(alice, DirectRoomID("alice", "bob"))
	router.Join(alice, DirectRoomID("alice", "carol"))
	router.Leave(alice)

	router.Broadcast(DirectRoomID("alice", "bob"), []byte(`{}`))
	router.Broadcast(DirectRoomID("alice", "carol"), []byte(`{}`))
	assertNoFrame(t, alice)
}

func TestRoomRouterConnectionInMultipleRooms(t *testing.T) {
	router := NewRoomRouter(newFakeGroupDirectory(), testLogger())
	alice := newTestClient()

	roomBob := DirectRoomID("alice", "bob")
	roomCarol := DirectRoomID("alice", "carol")
	router.Join(alice, roomBob)
	router.Join(alice, roomCarol)

	require.True(t, router.InRoom(alice, roomBob))
	require.True(t, router.InRoom(alice, roomCarol))
}

func TestJoinGroupRoomNonMemberDeclined(t *testing.T) {
	groups := newFakeGroupDirectory()
	groups.addGroup("g1", "golang", "alice", "carol")
	router := NewRoomRouter(groups, testLogger())
	bob := newTestClient()

	assert.False(t, router.JoinGroupRoom(bob, "bob", "g1"))
	assert.False(t, router.InRoom(bob, "g1"))
}

func TestJoinGroupRoomMemberAccepted(t *testing.T) {
	groups := newFakeGroupDirectory()
	groups.addGroup("g1", "golang", "alice", "carol")
	router := NewRoomRouter(groups, testLogger())
	carol := newTestClient()

	assert.True(t, router.JoinGroupRoom(carol, "carol", "g1"))
	assert.True(t, router.InRoom(carol, "g1"))
}
