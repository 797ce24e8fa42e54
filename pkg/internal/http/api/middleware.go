package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/parley-im/parley/pkg/internal/models"
	"github.com/parley-im/parley/pkg/internal/services"
)

// authMiddleware resolves the bearer token into the room membership it
// was minted for. Member identity always comes from here, never from a
// request body.
func authMiddleware(c *fiber.Ctx) error {
	raw := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(raw, "Bearer ") {
		return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
	}

	claims, err := services.DecodeMemberToken(strings.TrimPrefix(raw, "Bearer "))
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	}

	member, err := services.GetRoomMember(claims.RoomID, claims.MemberID)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "membership no longer exists")
	}

	c.Locals("member", member)
	return c.Next()
}

func currentMember(c *fiber.Ctx) models.RoomMember {
	return c.Locals("member").(models.RoomMember)
}
