package services

import (
	"testing"

	"github.com/gofiber/contrib/websocket"
	"github.com/parley-im/parley/pkg/internal/models"
)

func TestPushToOfflineMemberIsNoOp(t *testing.T) {
	PushCommand("guest_nobody", models.UnifiedCommand{
		Action:  "calls.incoming",
		Payload: map[string]any{"call_id": 1},
	})
}

func TestClientRegistryTracksPresence(t *testing.T) {
	member := models.RoomMember{MemberID: "guest_presence"}
	conn := new(websocket.Conn)

	ClientRegister(member, conn)
	if !CheckOnline(member.MemberID) {
		t.Fatalf("expected registered member to be online")
	}

	ClientUnregister(member, conn)
	if CheckOnline(member.MemberID) {
		t.Fatalf("expected unregistered member to be offline")
	}
}

func TestListMembersReportsPresence(t *testing.T) {
	setupTestDB(t)
	room, alice, bob := seedRoom(t)

	conn := new(websocket.Conn)
	ClientRegister(alice, conn)
	defer ClientUnregister(alice, conn)

	members, err := ListRoomMembers(room.ID)
	if err != nil {
		t.Fatalf("unable to list members: %v", err)
	}

	online := make(map[string]bool, len(members))
	for _, member := range members {
		online[member.MemberID] = member.IsOnline
	}
	if !online[alice.MemberID] {
		t.Fatalf("expected connected member to report online")
	}
	if online[bob.MemberID] {
		t.Fatalf("expected disconnected member to report offline")
	}
}

func TestDealCommandEndsCall(t *testing.T) {
	setupTestDB(t)
	room, alice, bob := seedRoom(t)

	call, err := NewCall(room, alice, bob.MemberID, models.CallMediaAudio, "O1")
	if err != nil {
		t.Fatal(err)
	}

	DealCommand(bob, models.UnifiedCommand{
		Action:  "calls.end",
		Payload: map[string]any{"call_id": call.ID},
	}.Marshal())

	got, err := GetCall(call.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.CallStatusEnded {
		t.Fatalf("expected gateway hangup to end the call, got %s", got.Status)
	}
}

func TestDealCommandDropsBadFrames(t *testing.T) {
	setupTestDB(t)
	room, alice, bob := seedRoom(t)

	call, err := NewCall(room, alice, bob.MemberID, models.CallMediaAudio, "O1")
	if err != nil {
		t.Fatal(err)
	}

	hangup := models.UnifiedCommand{
		Action:  "calls.end",
		Payload: map[string]any{"call_id": call.ID},
	}.Marshal()

	// Not a party, not valid JSON, unknown action.
	DealCommand(models.RoomMember{MemberID: "guest_mallory"}, hangup)
	DealCommand(bob, []byte("not a frame"))
	DealCommand(bob, models.UnifiedCommand{
		Action:  "calls.unknown",
		Payload: map[string]any{"call_id": call.ID},
	}.Marshal())

	got, err := GetCall(call.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.CallStatusRinging {
		t.Fatalf("expected call to keep ringing, got %s", got.Status)
	}
}
