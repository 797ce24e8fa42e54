package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/parley-im/parley/pkg/internal/database"
	"github.com/parley-im/parley/pkg/internal/models"
	"gorm.io/gorm"
)

func generateGuestId() string {
	return "guest_" + uuid.NewString()
}

// JoinRoom enrolls someone into a room after the password check has
// passed. A returning member is matched by email case-insensitively and
// keeps its member id; anyone else becomes a guest.
func JoinRoom(room models.Room, name, email string) (models.RoomMember, error) {
	var member models.RoomMember
	if err := database.C.
		Where("room_id = ? AND LOWER(email) = LOWER(?)", room.ID, email).
		First(&member).Error; err == nil {
		return member, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return member, err
	}

	member = models.RoomMember{
		RoomID:   room.ID,
		MemberID: generateGuestId(),
		Name:     name,
		Email:    strings.ToLower(email),
		IsGuest:  true,
	}
	if err := database.C.Save(&member).Error; err != nil {
		return member, err
	}

	return member, nil
}

// IsRoomMember is the authorization gate for every call operation.
func IsRoomMember(roomId uint, memberId string) bool {
	var count int64
	if err := database.C.Model(&models.RoomMember{}).
		Where("room_id = ? AND member_id = ?", roomId, memberId).
		Count(&count).Error; err != nil {
		return false
	}
	return count > 0
}

func GetRoomMember(roomId uint, memberId string) (models.RoomMember, error) {
	var member models.RoomMember
	if err := database.C.
		Where("room_id = ? AND member_id = ?", roomId, memberId).
		First(&member).Error; err != nil {
		return member, err
	}
	return member, nil
}

func ListRoomMembers(roomId uint) ([]models.RoomMember, error) {
	var members []models.RoomMember
	if err := database.C.
		Where("room_id = ?", roomId).
		Order("created_at ASC").
		Find(&members).Error; err != nil {
		return members, err
	}
	for idx, member := range members {
		members[idx].IsOnline = CheckOnline(member.MemberID)
	}
	return members, nil
}

func RemoveRoomMember(member models.RoomMember) error {
	if err := database.C.Delete(&member).Error; err != nil {
		return fmt.Errorf("unable to remove member: %v", err)
	}
	return nil
}
