package api

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/parley-im/parley/pkg/internal/models"
	"github.com/parley-im/parley/pkg/internal/services"
)

// unifiedGateway keeps a push channel open so transitions reach a party
// faster than its next poll. Inbound frames go through DealCommand;
// polling stays the correctness mechanism either way.
func unifiedGateway(c *websocket.Conn) {
	member := c.Locals("member").(models.RoomMember)

	services.ClientRegister(member, c)

	for {
		_, raw, err := c.ReadMessage()
		if err != nil {
			break
		}
		services.DealCommand(member, raw)
	}

	services.ClientUnregister(member, c)
}
