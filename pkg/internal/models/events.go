package models

import (
	jsoniter "github.com/json-iterator/go"
	"gorm.io/datatypes"
)

const (
	EventCallStart = "calls.start"
	EventCallEnd   = "calls.end"
)

// Event is a room timeline marker, currently only used for call
// lifecycle records.
type Event struct {
	BaseModel

	Uuid     string            `json:"uuid"`
	Body     datatypes.JSONMap `json:"body"`
	Type     string            `json:"type"`
	RoomID   uint              `json:"room_id" gorm:"index"`
	Room     Room              `json:"room"`
	SenderID string            `json:"sender_id"`
}

// UnifiedCommand is the push gateway frame.
type UnifiedCommand struct {
	Action  string `json:"w"`
	Message string `json:"m,omitempty"`
	Payload any    `json:"p,omitempty"`
}

func (v UnifiedCommand) Marshal() []byte {
	raw, _ := jsoniter.Marshal(v)
	return raw
}
