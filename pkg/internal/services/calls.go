package services

import (
	"sync"

	"github.com/parley-im/parley/pkg/internal/database"
	"github.com/parley-im/parley/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Per-call locks serialize state transitions so two independently
// polling clients cannot interleave a read-modify-write.
var callLocks sync.Map

func lockCall(id uint) func() {
	mu, _ := callLocks.LoadOrStore(id, &sync.Mutex{})
	mu.(*sync.Mutex).Lock()
	return mu.(*sync.Mutex).Unlock
}

func NewCall(room models.Room, caller models.RoomMember, receiverId string, media models.CallMedia, offer string) (models.Call, error) {
	var call models.Call
	if caller.MemberID == receiverId {
		return call, ErrSelfCall
	}
	if !IsRoomMember(room.ID, caller.MemberID) || !IsRoomMember(room.ID, receiverId) {
		return call, ErrNotAuthorized
	}

	// Concurrent duplicate ringing calls toward the same receiver are
	// allowed here; the receiver side resolves them via GetIncomingCall.
	call = models.Call{
		RoomID:     room.ID,
		CallerID:   caller.MemberID,
		CallerName: caller.Name,
		ReceiverID: receiverId,
		Media:      media,
		Status:     models.CallStatusRinging,
		Offer:      offer,
	}

	if err := database.C.Save(&call).Error; err != nil {
		return call, err
	}

	if _, err := NewEvent(models.Event{
		Body:     map[string]any{"call_id": call.ID, "media": string(media)},
		Type:     models.EventCallStart,
		RoomID:   room.ID,
		SenderID: caller.MemberID,
	}); err != nil {
		log.Warn().Err(err).Uint("call", call.ID).Msg("An error occurred when recording call start event...")
	}

	PushCommand(receiverId, models.UnifiedCommand{
		Action:  "calls.incoming",
		Payload: call,
	})

	return call, nil
}

func GetCall(id uint) (models.Call, error) {
	var call models.Call
	if err := database.C.Where("id = ?", id).First(&call).Error; err != nil {
		return call, err
	}
	return call, nil
}

// GetIncomingCall surfaces at most one ringing call per receiver. When
// duplicates exist the most recently created one wins.
func GetIncomingCall(receiverId string) (models.Call, error) {
	var call models.Call
	if err := database.C.
		Where("receiver_id = ? AND status = ?", receiverId, models.CallStatusRinging).
		Order("created_at DESC, id DESC").
		First(&call).Error; err != nil {
		return call, err
	}
	return call, nil
}

// GetActiveCall looks the member up as receiver first, then as caller,
// mirroring the incoming-call precedence.
func GetActiveCall(memberId string) (models.Call, error) {
	var call models.Call
	err := database.C.
		Where("receiver_id = ? AND status = ?", memberId, models.CallStatusAccepted).
		Order("created_at DESC, id DESC").
		First(&call).Error
	if err == nil {
		return call, nil
	}

	if err := database.C.
		Where("caller_id = ? AND status = ?", memberId, models.CallStatusAccepted).
		Order("created_at DESC, id DESC").
		First(&call).Error; err != nil {
		return call, err
	}
	return call, nil
}

func AnswerCall(id uint, answer string) (models.Call, error) {
	unlock := lockCall(id)
	defer unlock()

	call, err := GetCall(id)
	if err != nil {
		return call, err
	}
	if err := call.MarkAccepted(answer); err != nil {
		return call, err
	}
	if err := database.C.Save(&call).Error; err != nil {
		return call, err
	}

	PushCommand(call.CallerID, models.UnifiedCommand{
		Action:  "calls.answered",
		Payload: call,
	})

	return call, nil
}

func RejectCall(id uint) (models.Call, error) {
	unlock := lockCall(id)
	defer unlock()

	call, err := GetCall(id)
	if err != nil {
		return call, err
	}
	if err := call.MarkRejected(); err != nil {
		return call, err
	}
	if err := database.C.Save(&call).Error; err != nil {
		return call, err
	}

	PushCommand(call.CallerID, models.UnifiedCommand{
		Action:  "calls.rejected",
		Payload: call,
	})

	return call, nil
}

// EndCall works from any state and never errors on a call that is
// already terminal; the remote party observes the change on its next
// poll, there is no synchronous cancellation signal.
func EndCall(id uint, endedBy string) (models.Call, error) {
	unlock := lockCall(id)
	defer unlock()

	call, err := GetCall(id)
	if err != nil {
		return call, err
	}
	if call.Status.Terminal() {
		return call, nil
	}

	call.MarkEnded()
	if err := database.C.Save(&call).Error; err != nil {
		return call, err
	}

	if _, err := NewEvent(models.Event{
		Body:     map[string]any{"call_id": call.ID, "last": call.UpdatedAt.Unix() - call.CreatedAt.Unix()},
		Type:     models.EventCallEnd,
		RoomID:   call.RoomID,
		SenderID: endedBy,
	}); err != nil {
		log.Warn().Err(err).Uint("call", call.ID).Msg("An error occurred when recording call end event...")
	}

	PushCommand(call.OtherParty(endedBy), models.UnifiedCommand{
		Action:  "calls.ended",
		Payload: call,
	})

	return call, nil
}

// CountTerminalCalls is used by the retention sweep.
func CountTerminalCalls(tx *gorm.DB) (int64, error) {
	var count int64
	err := tx.Model(&models.Call{}).
		Where("status IN ?", []models.CallStatus{models.CallStatusEnded, models.CallStatusRejected}).
		Count(&count).Error
	return count, err
}
