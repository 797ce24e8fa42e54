package services

import (
	"github.com/google/uuid"
	"github.com/parley-im/parley/pkg/internal/database"
	"github.com/parley-im/parley/pkg/internal/models"
)

func NewEvent(event models.Event) (models.Event, error) {
	if len(event.Uuid) == 0 {
		event.Uuid = uuid.NewString()
	}
	if err := database.C.Save(&event).Error; err != nil {
		return event, err
	}
	return event, nil
}

func ListEvent(roomId uint, take, offset int) ([]models.Event, error) {
	if take <= 0 || take > 100 {
		take = 100
	}

	var events []models.Event
	if err := database.C.
		Where("room_id = ?", roomId).
		Limit(take).
		Offset(offset).
		Order("created_at DESC").
		Find(&events).Error; err != nil {
		return events, err
	}
	return events, nil
}
