package sdk

import (
	"context"
	"sync"

	"github.com/pion/webrtc/v4"
)

// WebRTCEngine adapts a pion peer connection to the Engine interface.
// Offer, answer and candidate payloads are the JSON encodings of the
// corresponding pion descriptions, so browser peers interoperate.
type WebRTCEngine struct {
	pc *webrtc.PeerConnection

	mu          sync.Mutex
	onCandidate func(payload string)
	onConnected func()
}

// NewWebRTCEngineFactory builds engines against the given STUN/TURN
// urls. Which urls to use is deployment configuration, fetched from the
// server's metadata endpoint or supplied directly.
func NewWebRTCEngineFactory(iceServers []string) EngineFactory {
	return func(media MediaType) (Engine, error) {
		config := webrtc.Configuration{}
		if len(iceServers) > 0 {
			config.ICEServers = []webrtc.ICEServer{{URLs: iceServers}}
		}

		pc, err := webrtc.NewPeerConnection(config)
		if err != nil {
			return nil, err
		}

		if _, err := pc.AddTransceiverFromKind(webrtc.RTPCodecTypeAudio); err != nil {
			_ = pc.Close()
			return nil, err
		}
		if media == MediaVideo {
			if _, err := pc.AddTransceiverFromKind(webrtc.RTPCodecTypeVideo); err != nil {
				_ = pc.Close()
				return nil, err
			}
		}

		engine := &WebRTCEngine{pc: pc}

		pc.OnICECandidate(func(candidate *webrtc.ICECandidate) {
			if candidate == nil {
				return
			}
			raw, err := json.MarshalToString(candidate.ToJSON())
			if err != nil {
				return
			}
			engine.mu.Lock()
			fn := engine.onCandidate
			engine.mu.Unlock()
			if fn != nil {
				fn(raw)
			}
		})

		pc.OnConnectionStateChange(func(state webrtc.PeerConnectionState) {
			if state != webrtc.PeerConnectionStateConnected {
				return
			}
			engine.mu.Lock()
			fn := engine.onConnected
			engine.mu.Unlock()
			if fn != nil {
				fn()
			}
		})

		return engine, nil
	}
}

func (v *WebRTCEngine) CreateOffer(ctx context.Context) (string, error) {
	offer, err := v.pc.CreateOffer(nil)
	if err != nil {
		return "", err
	}
	if err := v.pc.SetLocalDescription(offer); err != nil {
		return "", err
	}
	return json.MarshalToString(offer)
}

func (v *WebRTCEngine) AcceptOffer(ctx context.Context, offer string) (string, error) {
	var desc webrtc.SessionDescription
	if err := json.UnmarshalFromString(offer, &desc); err != nil {
		return "", err
	}
	if err := v.pc.SetRemoteDescription(desc); err != nil {
		return "", err
	}

	answer, err := v.pc.CreateAnswer(nil)
	if err != nil {
		return "", err
	}
	if err := v.pc.SetLocalDescription(answer); err != nil {
		return "", err
	}
	return json.MarshalToString(answer)
}

func (v *WebRTCEngine) AcceptAnswer(answer string) error {
	var desc webrtc.SessionDescription
	if err := json.UnmarshalFromString(answer, &desc); err != nil {
		return err
	}
	return v.pc.SetRemoteDescription(desc)
}

func (v *WebRTCEngine) AddRemoteCandidate(payload string) error {
	var candidate webrtc.ICECandidateInit
	if err := json.UnmarshalFromString(payload, &candidate); err != nil {
		return err
	}
	return v.pc.AddICECandidate(candidate)
}

func (v *WebRTCEngine) OnLocalCandidate(fn func(payload string)) {
	v.mu.Lock()
	v.onCandidate = fn
	v.mu.Unlock()
}

func (v *WebRTCEngine) OnConnected(fn func()) {
	v.mu.Lock()
	v.onConnected = fn
	v.mu.Unlock()
}

func (v *WebRTCEngine) Close() error {
	return v.pc.Close()
}
