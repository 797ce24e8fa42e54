package sdk

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type DriverState string

const (
	StateIdle        = DriverState("idle")
	StateNegotiating = DriverState("negotiating")
	StateExchanging  = DriverState("exchanging-candidates")
	StateConnected   = DriverState("connected")
	StateTerminated  = DriverState("terminated")
)

// Driver runs one side of a call: it polls shared signaling state on an
// interval, feeds it to the local negotiation engine, and writes back
// answers, candidates and the end-of-call transition. One driver serves
// one call; build a new one for the next attempt. There is no automatic
// retry of failed signaling writes.
type Driver struct {
	sig       Signaling
	newEngine EngineFactory
	sess      Session
	interval  time.Duration
	log       zerolog.Logger

	mu           sync.Mutex
	state        DriverState
	callId       uint
	engine       Engine
	seen         map[uint]struct{}
	pending      []string
	waitAnswer   bool
	terminateErr error

	cancel context.CancelFunc
	done   chan struct{}
}

type DriverOption func(*Driver)

func WithPollInterval(interval time.Duration) DriverOption {
	return func(d *Driver) { d.interval = interval }
}

func WithLogger(log zerolog.Logger) DriverOption {
	return func(d *Driver) { d.log = log }
}

func NewDriver(sig Signaling, factory EngineFactory, sess Session, opts ...DriverOption) *Driver {
	d := &Driver{
		sig:       sig,
		newEngine: factory,
		sess:      sess,
		interval:  time.Second,
		log:       zerolog.Nop(),
		state:     StateIdle,
		seen:      make(map[uint]struct{}),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Driver) State() DriverState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *Driver) CallID() uint {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.callId
}

// Err reports why the driver terminated; nil for a normal end of call.
func (d *Driver) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.terminateErr
}

// Done closes once the driver has released its engine and stopped
// polling.
func (d *Driver) Done() <-chan struct{} {
	return d.done
}

// StartCall places an outgoing call: acquire media, produce the offer,
// create the call record, then poll for the answer.
func (d *Driver) StartCall(ctx context.Context, receiverId string, media MediaType) error {
	if err := d.begin(); err != nil {
		return err
	}

	engine, err := d.attachEngine(media)
	if err != nil {
		return err
	}

	offer, err := engine.CreateOffer(ctx)
	if err != nil {
		terr := &TransportError{Op: "create offer", Err: err}
		d.terminate(false, terr)
		return terr
	}

	call, err := d.sig.CreateCall(ctx, d.sess.RoomID, receiverId, media, offer)
	if err != nil {
		d.terminate(false, err)
		return err
	}

	d.adopt(call.ID, true)
	go d.run()
	return nil
}

// Accept answers an incoming ringing call. The call state is re-read
// right before answering: a call observed rejected or ended in the
// meantime is never answered.
func (d *Driver) Accept(ctx context.Context, call Call) error {
	if err := d.begin(); err != nil {
		return err
	}

	fresh, err := d.sig.GetCall(ctx, call.ID)
	if err != nil {
		d.terminate(false, err)
		return err
	}
	if fresh.Status != CallRinging {
		err := fmt.Errorf("call is no longer ringing (status %s)", fresh.Status)
		d.terminate(false, err)
		return err
	}

	engine, err := d.attachEngine(fresh.Media)
	if err != nil {
		return err
	}

	answer, err := engine.AcceptOffer(ctx, fresh.Offer)
	if err != nil {
		terr := &TransportError{Op: "accept offer", Err: err}
		d.terminate(false, terr)
		return terr
	}

	d.adopt(fresh.ID, false)

	if _, err := d.sig.AnswerCall(ctx, fresh.ID, answer); err != nil {
		// A race toward a terminal state shows up here as an invalid
		// transition; the record must stay as the other side left it.
		d.terminate(false, err)
		return err
	}

	go d.run()
	return nil
}

// Hangup ends the call locally. Safe to call at any point; the remote
// party observes the transition on its next poll.
func (d *Driver) Hangup() {
	d.terminate(true, nil)
}

// Close tears the driver down, making sure the end transition is
// written before resources are released, so the remote side does not
// poll a dead call indefinitely.
func (d *Driver) Close() {
	d.terminate(true, nil)
}

func (d *Driver) begin() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StateIdle {
		return fmt.Errorf("driver already used (state %s)", d.state)
	}
	d.state = StateNegotiating
	return nil
}

// attachEngine builds the negotiation engine and wires its callbacks.
// A factory failure is local media acquisition failing: the driver
// reports terminated without ever touching the relay.
func (d *Driver) attachEngine(media MediaType) (Engine, error) {
	engine, err := d.newEngine(media)
	if err != nil {
		terr := &TransportError{Op: "media acquisition", Err: err}
		d.terminate(false, terr)
		return nil, terr
	}

	d.mu.Lock()
	d.engine = engine
	d.mu.Unlock()

	engine.OnLocalCandidate(d.submitLocalCandidate)
	engine.OnConnected(d.markConnected)
	return engine, nil
}

// adopt binds the driver to its call id and flushes candidates the
// engine discovered before the call record existed.
func (d *Driver) adopt(callId uint, waitAnswer bool) {
	d.mu.Lock()
	d.callId = callId
	d.waitAnswer = waitAnswer
	if !waitAnswer {
		d.state = StateExchanging
	}
	flush := d.pending
	d.pending = nil
	d.mu.Unlock()

	for _, payload := range flush {
		if err := d.sig.AddCandidate(context.Background(), callId, payload); err != nil {
			d.log.Warn().Err(err).Uint("call", callId).Msg("Unable to flush buffered local candidate...")
		}
	}
}

func (d *Driver) submitLocalCandidate(payload string) {
	d.mu.Lock()
	callId := d.callId
	if callId == 0 {
		d.pending = append(d.pending, payload)
		d.mu.Unlock()
		return
	}
	d.mu.Unlock()

	if err := d.sig.AddCandidate(context.Background(), callId, payload); err != nil {
		d.log.Warn().Err(err).Uint("call", callId).Msg("Unable to submit local candidate...")
	}
}

func (d *Driver) markConnected() {
	d.mu.Lock()
	if d.state == StateExchanging {
		d.state = StateConnected
	}
	d.mu.Unlock()
}

func (d *Driver) run() {
	ctx, cancel := context.WithCancel(context.Background())

	d.mu.Lock()
	if d.state == StateTerminated {
		d.mu.Unlock()
		cancel()
		return
	}
	d.cancel = cancel
	callId := d.callId
	d.mu.Unlock()

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		call, err := d.sig.GetCall(ctx, callId)
		if errors.Is(err, ErrNotFound) {
			d.terminate(false, err)
			return
		} else if err != nil {
			// Transient poll failure; state converges on a later round.
			d.log.Warn().Err(err).Uint("call", callId).Msg("Unable to poll call state...")
			continue
		}

		if call.Status.Terminal() {
			d.terminate(false, nil)
			return
		}

		d.mu.Lock()
		waiting := d.waitAnswer
		engine := d.engine
		d.mu.Unlock()

		if waiting {
			if call.Status != CallAccepted || call.Answer == nil {
				continue
			}
			if err := engine.AcceptAnswer(*call.Answer); err != nil {
				d.terminate(true, &TransportError{Op: "accept answer", Err: err})
				return
			}
			d.mu.Lock()
			d.waitAnswer = false
			if d.state == StateNegotiating {
				d.state = StateExchanging
			}
			d.mu.Unlock()
		}

		d.pollCandidates(ctx, callId, engine)
	}
}

// pollCandidates feeds never-seen remote candidates into the engine.
// The relay re-returns already delivered rows, so de-duplication by
// candidate id happens here.
func (d *Driver) pollCandidates(ctx context.Context, callId uint, engine Engine) {
	candidates, err := d.sig.ListCandidates(ctx, callId)
	if err != nil {
		d.log.Warn().Err(err).Uint("call", callId).Msg("Unable to poll remote candidates...")
		return
	}

	for _, candidate := range candidates {
		d.mu.Lock()
		if _, ok := d.seen[candidate.ID]; ok {
			d.mu.Unlock()
			continue
		}
		d.seen[candidate.ID] = struct{}{}
		d.mu.Unlock()

		if err := engine.AddRemoteCandidate(candidate.Payload); err != nil {
			d.log.Warn().Err(err).Uint("candidate", candidate.ID).Msg("Engine refused remote candidate...")
		}
	}
}

// terminate is the single exit path: it stops polling, writes the end
// transition when this side is the cause, and releases the engine. Safe
// to call multiple times.
func (d *Driver) terminate(sendEnd bool, cause error) {
	d.mu.Lock()
	if d.state == StateTerminated {
		d.mu.Unlock()
		return
	}
	d.state = StateTerminated
	d.terminateErr = cause
	engine := d.engine
	d.engine = nil
	callId := d.callId
	cancel := d.cancel
	d.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	if sendEnd && callId != 0 {
		ctx, done := context.WithTimeout(context.Background(), 5*time.Second)
		if err := d.sig.EndCall(ctx, callId); err != nil {
			d.log.Warn().Err(err).Uint("call", callId).Msg("Unable to write end transition...")
		}
		done()
	}

	if engine != nil {
		_ = engine.Close()
	}

	close(d.done)
}
