package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/parley-im/parley/pkg/internal/database"
	"github.com/parley-im/parley/pkg/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) {
	t.Helper()

	source, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Discard,
	})
	if err != nil {
		t.Fatalf("unable to open test database: %v", err)
	}
	if err := database.RunMigration(source); err != nil {
		t.Fatalf("unable to migrate test database: %v", err)
	}

	database.C = source
}

// seedRoom creates a room with two enrolled members and returns both.
func seedRoom(t *testing.T) (models.Room, models.RoomMember, models.RoomMember) {
	t.Helper()

	room, err := NewRoom("ops", "war room", "hunter2", "user_alice", "Alice", "alice@example.com")
	if err != nil {
		t.Fatalf("unable to create room: %v", err)
	}

	alice, err := GetRoomMember(room.ID, "user_alice")
	if err != nil {
		t.Fatalf("unable to load creator membership: %v", err)
	}

	bob, err := JoinRoom(room, "Bob", "bob@example.com")
	if err != nil {
		t.Fatalf("unable to join room: %v", err)
	}

	return room, alice, bob
}
