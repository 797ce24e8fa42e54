package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/parley-im/parley/pkg/internal/http/exts"
	"github.com/parley-im/parley/pkg/internal/services"
)

func createRoom(c *fiber.Ctx) error {
	var data struct {
		Name         string `json:"name" validate:"required,max=256"`
		Description  string `json:"description" validate:"max=4096"`
		Password     string `json:"password" validate:"required,min=4"`
		CreatorName  string `json:"creator_name" validate:"required,max=256"`
		CreatorEmail string `json:"creator_email" validate:"required,email"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	creatorId := "user_" + uuid.NewString()
	room, err := services.NewRoom(data.Name, data.Description, data.Password, creatorId, data.CreatorName, data.CreatorEmail)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	member, err := services.GetRoomMember(room.ID, creatorId)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	token, err := services.EncodeMemberToken(member)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"room":   room,
		"member": member,
		"token":  token,
	})
}

func joinRoom(c *fiber.Ctx) error {
	var data struct {
		InviteCode string `json:"invite_code" validate:"required,len=8"`
		Password   string `json:"password" validate:"required"`
		Name       string `json:"name" validate:"required,max=256"`
		Email      string `json:"email" validate:"required,email"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	room, err := services.GetRoomByInviteCode(data.InviteCode)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "no such room")
	}
	if err := services.CheckRoomPassword(room, data.Password); err != nil {
		return fiber.NewError(fiber.StatusForbidden, "room password mismatch")
	}

	member, err := services.JoinRoom(room, data.Name, data.Email)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	token, err := services.EncodeMemberToken(member)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"room":   room,
		"member": member,
		"token":  token,
	})
}

func getRoom(c *fiber.Ctx) error {
	member := currentMember(c)
	roomId, err := c.ParamsInt("roomId", 0)
	if err != nil || uint(roomId) != member.RoomID {
		return fiber.NewError(fiber.StatusForbidden, "not a member of this room")
	}

	room, err := services.GetRoom(member.RoomID)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return c.JSON(room)
}

func listRoomMembers(c *fiber.Ctx) error {
	member := currentMember(c)
	roomId, err := c.ParamsInt("roomId", 0)
	if err != nil || uint(roomId) != member.RoomID {
		return fiber.NewError(fiber.StatusForbidden, "not a member of this room")
	}

	members, err := services.ListRoomMembers(member.RoomID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(members)
}

// removeRoomMember lets anyone leave and the room creator remove
// anyone. A removed member's token stops authenticating immediately.
func removeRoomMember(c *fiber.Ctx) error {
	member := currentMember(c)
	roomId, err := c.ParamsInt("roomId", 0)
	if err != nil || uint(roomId) != member.RoomID {
		return fiber.NewError(fiber.StatusForbidden, "not a member of this room")
	}

	room, err := services.GetRoom(member.RoomID)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	targetId := c.Params("memberId")
	if targetId != member.MemberID && room.CreatedBy != member.MemberID {
		return fiber.NewError(fiber.StatusForbidden, "only the room creator can remove other members")
	}

	target, err := services.GetRoomMember(room.ID, targetId)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "no such member")
	}
	if err := services.RemoveRoomMember(target); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.SendStatus(fiber.StatusOK)
}

func listRoomEvents(c *fiber.Ctx) error {
	member := currentMember(c)
	roomId, err := c.ParamsInt("roomId", 0)
	if err != nil || uint(roomId) != member.RoomID {
		return fiber.NewError(fiber.StatusForbidden, "not a member of this room")
	}

	take := c.QueryInt("take", 0)
	offset := c.QueryInt("offset", 0)

	events, err := services.ListEvent(member.RoomID, take, offset)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(events)
}
