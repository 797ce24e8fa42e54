package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/parley-im/parley/pkg/internal/http/exts"
	"github.com/parley-im/parley/pkg/internal/models"
	"github.com/parley-im/parley/pkg/internal/services"
	"gorm.io/gorm"
)

func createCall(c *fiber.Ctx) error {
	member := currentMember(c)
	roomId, err := c.ParamsInt("roomId", 0)
	if err != nil || uint(roomId) != member.RoomID {
		return fiber.NewError(fiber.StatusForbidden, "not a member of this room")
	}

	var data struct {
		ReceiverID string `json:"receiver_id" validate:"required"`
		Media      string `json:"media" validate:"required,oneof=audio video"`
		Offer      string `json:"offer" validate:"required"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	room, err := services.GetRoom(member.RoomID)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	call, err := services.NewCall(room, member, data.ReceiverID, models.CallMedia(data.Media), data.Offer)
	if errors.Is(err, services.ErrSelfCall) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	} else if errors.Is(err, services.ErrNotAuthorized) {
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	} else if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(call)
}

// loadCallForParty fetches the call and ensures the requester is one of
// its two parties.
func loadCallForParty(c *fiber.Ctx) (models.Call, error) {
	member := currentMember(c)

	callId, err := c.ParamsInt("callId", 0)
	if err != nil || callId <= 0 {
		return models.Call{}, fiber.NewError(fiber.StatusBadRequest, "invalid call id")
	}

	call, err := services.GetCall(uint(callId))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return call, fiber.NewError(fiber.StatusNotFound, "no such call")
	} else if err != nil {
		return call, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	if !call.IsParty(member.MemberID) {
		return call, fiber.NewError(fiber.StatusForbidden, "not a participant of this call")
	}
	return call, nil
}

func getCall(c *fiber.Ctx) error {
	call, err := loadCallForParty(c)
	if err != nil {
		return err
	}
	return c.JSON(call)
}

func getIncomingCall(c *fiber.Ctx) error {
	member := currentMember(c)

	call, err := services.GetIncomingCall(member.MemberID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "no incoming call")
	} else if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(call)
}

func getActiveCall(c *fiber.Ctx) error {
	member := currentMember(c)

	call, err := services.GetActiveCall(member.MemberID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "no active call")
	} else if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(call)
}

func answerCall(c *fiber.Ctx) error {
	member := currentMember(c)

	var data struct {
		Answer string `json:"answer" validate:"required"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	call, err := loadCallForParty(c)
	if err != nil {
		return err
	}
	if call.ReceiverID != member.MemberID {
		return fiber.NewError(fiber.StatusForbidden, "only the receiver can answer a call")
	}

	call, err = services.AnswerCall(call.ID, data.Answer)
	if errors.Is(err, models.ErrInvalidTransition) {
		return fiber.NewError(fiber.StatusConflict, err.Error())
	} else if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(call)
}

func rejectCall(c *fiber.Ctx) error {
	member := currentMember(c)

	call, err := loadCallForParty(c)
	if err != nil {
		return err
	}
	if call.ReceiverID != member.MemberID {
		return fiber.NewError(fiber.StatusForbidden, "only the receiver can reject a call")
	}

	call, err = services.RejectCall(call.ID)
	if errors.Is(err, models.ErrInvalidTransition) {
		return fiber.NewError(fiber.StatusConflict, err.Error())
	} else if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(call)
}

func endCall(c *fiber.Ctx) error {
	member := currentMember(c)

	call, err := loadCallForParty(c)
	if err != nil {
		return err
	}

	call, err = services.EndCall(call.ID, member.MemberID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(call)
}

func addCallCandidate(c *fiber.Ctx) error {
	member := currentMember(c)

	var data struct {
		Candidate string `json:"candidate" validate:"required"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	call, err := loadCallForParty(c)
	if err != nil {
		return err
	}

	candidate, err := services.AddCandidate(call, member.MemberID, data.Candidate)
	if errors.Is(err, services.ErrNotAuthorized) {
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	} else if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(candidate)
}

func listCallCandidates(c *fiber.Ctx) error {
	member := currentMember(c)

	call, err := loadCallForParty(c)
	if err != nil {
		return err
	}

	candidates, err := services.ListCandidatesExcluding(call.ID, member.MemberID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(candidates)
}
