package services

import (
	"sync"

	"github.com/gofiber/contrib/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/parley-im/parley/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// In-process push registry. Delivery is best-effort: the signaling
// protocol stays correct on polling alone, pushes only cut the latency
// until the next poll notices a transition.
var (
	wsMutex sync.Mutex
	wsConn  = make(map[string][]*websocket.Conn)
)

func ClientRegister(member models.RoomMember, conn *websocket.Conn) {
	wsMutex.Lock()
	defer wsMutex.Unlock()
	wsConn[member.MemberID] = append(wsConn[member.MemberID], conn)
}

func ClientUnregister(member models.RoomMember, conn *websocket.Conn) {
	wsMutex.Lock()
	defer wsMutex.Unlock()
	wsConn[member.MemberID] = lo.Filter(wsConn[member.MemberID], func(item *websocket.Conn, idx int) bool {
		return item != conn
	})
	if len(wsConn[member.MemberID]) == 0 {
		delete(wsConn, member.MemberID)
	}
}

func CheckOnline(memberId string) bool {
	wsMutex.Lock()
	defer wsMutex.Unlock()
	return len(wsConn[memberId]) > 0
}

func PushCommand(memberId string, task models.UnifiedCommand) {
	wsMutex.Lock()
	conns := append([]*websocket.Conn(nil), wsConn[memberId]...)
	wsMutex.Unlock()

	for _, conn := range conns {
		_ = conn.WriteMessage(websocket.TextMessage, task.Marshal())
	}
}

// DealCommand handles a frame a connected client sent over the gateway.
// The only inbound action is hanging up without waiting for the next
// poll round; identity comes from the registered membership, never the
// frame. Malformed or unknown frames are dropped.
func DealCommand(member models.RoomMember, raw []byte) {
	var task models.UnifiedCommand
	if err := jsoniter.Unmarshal(raw, &task); err != nil {
		return
	}

	switch task.Action {
	case "calls.end":
		var data struct {
			CallID uint `json:"call_id"`
		}
		models.FitStruct(task.Payload, &data)

		call, err := GetCall(data.CallID)
		if err != nil || !call.IsParty(member.MemberID) {
			return
		}
		if _, err := EndCall(call.ID, member.MemberID); err != nil {
			log.Warn().Err(err).Uint("call", call.ID).Msg("An error occurred when ending call via gateway...")
		}
	}
}
