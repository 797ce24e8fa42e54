package sdk

import "context"

// Engine is the local media-negotiation machinery a Driver feeds. The
// production implementation sits in webrtc.go; tests substitute fakes.
type Engine interface {
	// CreateOffer acquires local media and produces the opaque offer
	// payload submitted with the call.
	CreateOffer(ctx context.Context) (string, error)
	// AcceptOffer consumes the remote offer and produces the answer.
	AcceptOffer(ctx context.Context, offer string) (string, error)
	// AcceptAnswer consumes the remote answer on the caller's side.
	AcceptAnswer(answer string) error
	AddRemoteCandidate(payload string) error
	// OnLocalCandidate registers the sink for locally discovered
	// connectivity candidates. Must be set before offer/answer work.
	OnLocalCandidate(fn func(payload string))
	// OnConnected fires once the transport reports connected.
	OnConnected(fn func())
	Close() error
}

// EngineFactory builds an engine for one call. An error here means
// local media acquisition failed: the driver terminates without ever
// contacting the relay.
type EngineFactory func(media MediaType) (Engine, error)

// Signaling is the server surface the driver polls. *Client satisfies
// it; tests run against an in-memory fake.
type Signaling interface {
	CreateCall(ctx context.Context, roomId uint, receiverId string, media MediaType, offer string) (Call, error)
	GetCall(ctx context.Context, id uint) (Call, error)
	AnswerCall(ctx context.Context, id uint, answer string) (Call, error)
	RejectCall(ctx context.Context, id uint) error
	EndCall(ctx context.Context, id uint) error
	AddCandidate(ctx context.Context, callId uint, payload string) error
	ListCandidates(ctx context.Context, callId uint) ([]Candidate, error)
	IncomingCall(ctx context.Context) (*Call, error)
	ActiveCall(ctx context.Context) (*Call, error)
}
