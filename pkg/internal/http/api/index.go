package api

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func MapAPIs(app *fiber.App, baseURL string) {
	api := app.Group(baseURL).Name("API")
	{
		rooms := api.Group("/rooms").Name("Rooms API")
		{
			rooms.Post("/", createRoom)
			rooms.Post("/join", joinRoom)
			rooms.Get("/:roomId", authMiddleware, getRoom)
			rooms.Get("/:roomId/members", authMiddleware, listRoomMembers)
			rooms.Delete("/:roomId/members/:memberId", authMiddleware, removeRoomMember)
			rooms.Get("/:roomId/events", authMiddleware, listRoomEvents)
			rooms.Post("/:roomId/calls", authMiddleware, createCall)
		}

		calls := api.Group("/calls").Use(authMiddleware).Name("Calls API")
		{
			calls.Get("/incoming", getIncomingCall)
			calls.Get("/active", getActiveCall)
			calls.Get("/:callId", getCall)
			calls.Post("/:callId/answer", answerCall)
			calls.Post("/:callId/reject", rejectCall)
			calls.Post("/:callId/end", endCall)
			calls.Post("/:callId/candidates", addCallCandidate)
			calls.Get("/:callId/candidates", listCallCandidates)
		}

		api.Get("/gateway", authMiddleware, websocket.New(unifiedGateway))
	}
}
