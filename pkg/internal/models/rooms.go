package models

type Room struct {
	BaseModel

	Name         string       `json:"name"`
	Description  string       `json:"description"`
	PasswordHash string       `json:"-"`
	InviteCode   string       `json:"invite_code" gorm:"uniqueIndex"`
	CreatedBy    string       `json:"created_by"`
	Members      []RoomMember `json:"members"`
	Calls        []Call       `json:"calls"`
}

// RoomMember identity is compared by MemberID, never by display name.
// MemberID is either an authenticated identity or a generated guest id.
type RoomMember struct {
	BaseModel

	RoomID   uint   `json:"room_id"`
	Room     Room   `json:"room"`
	MemberID string `json:"member_id" gorm:"index:idx_room_member"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	IsGuest  bool   `json:"is_guest"`

	// IsOnline reflects the push gateway registry, filled on listing.
	IsOnline bool `json:"is_online" gorm:"-"`
}
