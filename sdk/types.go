package sdk

import "time"

type MediaType string

const (
	MediaAudio = MediaType("audio")
	MediaVideo = MediaType("video")
)

type CallStatus string

const (
	CallRinging  = CallStatus("ringing")
	CallAccepted = CallStatus("accepted")
	CallEnded    = CallStatus("ended")
	CallRejected = CallStatus("rejected")
)

func (v CallStatus) Terminal() bool {
	return v == CallEnded || v == CallRejected
}

type Call struct {
	ID         uint       `json:"id"`
	CreatedAt  time.Time  `json:"created_at"`
	RoomID     uint       `json:"room_id"`
	CallerID   string     `json:"caller_id"`
	CallerName string     `json:"caller_name"`
	ReceiverID string     `json:"receiver_id"`
	Media      MediaType  `json:"media"`
	Status     CallStatus `json:"status"`
	Offer      string     `json:"offer"`
	Answer     *string    `json:"answer"`
}

type Candidate struct {
	ID      uint   `json:"id"`
	CallID  uint   `json:"call_id"`
	FromID  string `json:"from_id"`
	Payload string `json:"payload"`
}

type Room struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	InviteCode  string `json:"invite_code"`
	CreatedBy   string `json:"created_by"`
}

type RoomMember struct {
	ID       uint   `json:"id"`
	RoomID   uint   `json:"room_id"`
	MemberID string `json:"member_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	IsGuest  bool   `json:"is_guest"`
	IsOnline bool   `json:"is_online"`
}

// Session identifies "who am I in this room" for a driver. It is
// explicit constructor input, never ambient process state.
type Session struct {
	RoomID     uint
	MemberID   string
	MemberName string
}
