package services

import (
	"crypto/rand"
	"math/big"

	"github.com/parley-im/parley/pkg/internal/database"
	"github.com/parley-im/parley/pkg/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Codes avoid easily-confused characters (no I, O, 0, 1).
const inviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func generateInviteCode() string {
	code := make([]byte, 8)
	for idx := range code {
		pos, _ := rand.Int(rand.Reader, big.NewInt(int64(len(inviteCodeAlphabet))))
		code[idx] = inviteCodeAlphabet[pos.Int64()]
	}
	return string(code)
}

func NewRoom(name, description, password, creatorId, creatorName, creatorEmail string) (models.Room, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.Room{}, err
	}

	room := models.Room{
		Name:         name,
		Description:  description,
		PasswordHash: string(hash),
		InviteCode:   generateInviteCode(),
		CreatedBy:    creatorId,
	}

	err = database.C.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&room).Error; err != nil {
			return err
		}
		creator := models.RoomMember{
			RoomID:   room.ID,
			MemberID: creatorId,
			Name:     creatorName,
			Email:    creatorEmail,
			IsGuest:  false,
		}
		return tx.Save(&creator).Error
	})

	return room, err
}

func GetRoom(id uint) (models.Room, error) {
	var room models.Room
	if err := database.C.Where("id = ?", id).First(&room).Error; err != nil {
		return room, err
	}
	return room, nil
}

func GetRoomByInviteCode(code string) (models.Room, error) {
	var room models.Room
	if err := database.C.Where("invite_code = ?", code).First(&room).Error; err != nil {
		return room, err
	}
	return room, nil
}

func CheckRoomPassword(room models.Room, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(room.PasswordHash), []byte(password)); err != nil {
		return ErrNotAuthorized
	}
	return nil
}
