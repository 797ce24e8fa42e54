package models

import "fmt"

type CallMedia string

const (
	CallMediaAudio = CallMedia("audio")
	CallMediaVideo = CallMedia("video")
)

func (v CallMedia) Valid() bool {
	switch v {
	case CallMediaAudio, CallMediaVideo:
		return true
	}
	return false
}

type CallStatus string

const (
	CallStatusRinging  = CallStatus("ringing")
	CallStatusAccepted = CallStatus("accepted")
	CallStatusEnded    = CallStatus("ended")
	CallStatusRejected = CallStatus("rejected")
)

// Terminal reports whether the status can never change again.
func (v CallStatus) Terminal() bool {
	return v == CallStatusEnded || v == CallStatusRejected
}

var ErrInvalidTransition = fmt.Errorf("invalid call state transition")

// Call is a one-to-one signaling session. The record is owned by the
// protocol; each party may only cause the transitions below, never
// free-form mutation.
type Call struct {
	BaseModel

	RoomID     uint       `json:"room_id"`
	Room       Room       `json:"room"`
	CallerID   string     `json:"caller_id" gorm:"index"`
	CallerName string     `json:"caller_name"`
	ReceiverID string     `json:"receiver_id" gorm:"index"`
	Media      CallMedia  `json:"media"`
	Status     CallStatus `json:"status" gorm:"index"`
	Offer      string     `json:"offer"`
	Answer     *string    `json:"answer"`
}

func (v Call) IsParty(memberId string) bool {
	return v.CallerID == memberId || v.ReceiverID == memberId
}

func (v Call) OtherParty(memberId string) string {
	if v.CallerID == memberId {
		return v.ReceiverID
	}
	return v.CallerID
}

// MarkAccepted stores the answer payload. Only a ringing call can be
// accepted; a stale answer must never overwrite a terminal call.
func (v *Call) MarkAccepted(answer string) error {
	if v.Status != CallStatusRinging {
		return ErrInvalidTransition
	}
	v.Status = CallStatusAccepted
	v.Answer = &answer
	return nil
}

func (v *Call) MarkRejected() error {
	if v.Status != CallStatusRinging {
		return ErrInvalidTransition
	}
	v.Status = CallStatusRejected
	return nil
}

// MarkEnded is idempotent: ending an already terminal call changes
// nothing and is not an error. A rejected call stays rejected.
func (v *Call) MarkEnded() {
	if v.Status.Terminal() {
		return
	}
	v.Status = CallStatusEnded
}
