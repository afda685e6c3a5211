// Package learn owns the consumer side of capture: a bounded hand-off
// channel fed from the capture callback, a single worker that decodes and
// routes bursts, and the single-shot learning state machine.
package learn

import (
	"crypto/rand"
	"log"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/irdeck/internal/capture"
	"github.com/hpungsan/irdeck/internal/code"
	"github.com/hpungsan/irdeck/internal/config"
	"github.com/hpungsan/irdeck/internal/errors"
	"github.com/hpungsan/irdeck/internal/proto"
)

// Event is one decoded capture. The ID tags log lines and learn results
// so a capture can be traced across the worker boundary. Pulses is the
// captured burst the command was decoded from, kept so consumers can
// report signal timing even for protocol-form commands.
type Event struct {
	ID      string
	Command code.Command
	Pulses  code.PulseSequence
}

// Callback receives routed events on the worker goroutine. Store access
// from inside a callback is safe: the worker is the only goroutine
// touching the store during a session.
type Callback func(Event)

// Receiver wires a capture backend to the decoder and the learning state
// machine. The capture handler never blocks: bursts go into a bounded
// channel and are dropped with a warning when it is full.
type Receiver struct {
	backend capture.Backend
	queue   chan code.PulseSequence
	done    chan struct{}
	wg      sync.WaitGroup

	mu         sync.Mutex
	armed      bool
	continuous bool
	onLearned  Callback
	onCommand  Callback
}

// New creates a Receiver and starts its worker. The backend stays
// stopped until a learning session or StartCapture arms it.
func New(backend capture.Backend, cfg *config.Config) *Receiver {
	depth := cfg.QueueDepth
	if depth <= 0 {
		depth = config.DefaultConfig().QueueDepth
	}
	r := &Receiver{
		backend: backend,
		queue:   make(chan code.PulseSequence, depth),
		done:    make(chan struct{}),
	}
	backend.SetHandler(r.handleBurst)

	r.wg.Add(1)
	go r.worker()
	return r
}

// handleBurst runs in the capture backend's context. It must not block
// or allocate: it only moves the already-captured buffer into the queue.
// A full queue is a designed, non-fatal condition.
func (r *Receiver) handleBurst(pulses code.PulseSequence) {
	select {
	case r.queue <- pulses:
	default:
		log.Printf("capture queue full, dropping burst (%d pulses)", len(pulses))
	}
}

// worker is the single consumer: decode, then route. A closed done
// channel is the graceful exit signal, not an error.
func (r *Receiver) worker() {
	defer r.wg.Done()
	for {
		select {
		case <-r.done:
			return
		case pulses, ok := <-r.queue:
			if !ok {
				return
			}
			r.process(pulses)
		}
	}
}

func (r *Receiver) process(pulses code.PulseSequence) {
	cmd := proto.Decode(pulses)
	ev := Event{ID: newEventID(), Command: cmd, Pulses: pulses}

	r.mu.Lock()
	if r.armed {
		if ok, reason := code.Plausible(cmd); !ok {
			// Noise never ends a learning session: stay armed.
			r.mu.Unlock()
			log.Printf("event %s discarded (%s), still waiting", ev.ID, reason)
			return
		}
		cb := r.onLearned
		if !r.continuous {
			// Single-shot: disarm before invoking the callback so a
			// back-to-back second capture routes to normal mode.
			r.armed = false
			r.onLearned = nil
		}
		r.mu.Unlock()
		if cb != nil {
			cb(ev)
		}
		return
	}
	cb := r.onCommand
	r.mu.Unlock()

	log.Printf("event %s: %s (%d us burst)", ev.ID, cmd, ev.Pulses.Duration())
	if cb != nil {
		cb(ev)
	}
}

// SetCommandHandler registers the normal-mode callback for decoded
// commands that arrive outside a learning session.
func (r *Receiver) SetCommandHandler(cb Callback) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onCommand = cb
}

// Arm starts a single-shot learning session: the next plausible decoded
// command fires the callback exactly once and the session ends. Arming
// while already armed replaces the pending callback (last caller wins).
// The capture backend is started if it is not already running.
func (r *Receiver) Arm(cb Callback) error {
	if err := r.backend.Start(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.armed = true
	r.continuous = false
	r.onLearned = cb
	return nil
}

// ArmContinuous is the always-learn wrapper: the session re-arms itself
// after every capture until Disarm.
func (r *Receiver) ArmContinuous(cb Callback) error {
	if err := r.backend.Start(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.armed = true
	r.continuous = true
	r.onLearned = cb
	return nil
}

// Disarm ends any learning session without firing its callback.
func (r *Receiver) Disarm() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.armed = false
	r.continuous = false
	r.onLearned = nil
}

// Armed reports whether a learning session is active, and whether it is
// continuous.
func (r *Receiver) Armed() (armed, continuous bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.armed, r.continuous
}

// LearnOnce arms a session and blocks until one command is captured or
// the timeout elapses. The wait polls in one-second chunks so platform
// watchdogs are never starved by a single long block. On timeout the
// controller is back in Idle and the pending callback never fires.
func (r *Receiver) LearnOnce(timeout time.Duration) (Event, error) {
	got := make(chan Event, 1)
	if err := r.Arm(func(ev Event) {
		select {
		case got <- ev:
		default:
		}
	}); err != nil {
		return Event{}, err
	}

	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			r.Disarm()
			// The capture may have landed between the deadline check
			// and the disarm; prefer it over the timeout.
			select {
			case ev := <-got:
				return ev, nil
			default:
			}
			return Event{}, errors.NewTimeout(int(timeout.Round(time.Second) / time.Second))
		}
		chunk := remaining
		if chunk > time.Second {
			chunk = time.Second
		}
		select {
		case ev := <-got:
			return ev, nil
		case <-time.After(chunk):
		}
	}
}

// StartCapture arms the backend without a learning session, for
// normal-mode command routing.
func (r *Receiver) StartCapture() error {
	return r.backend.Start()
}

// StopCapture stops the backend. An armed session is left deterministic:
// the controller returns to Idle and a synchronous waiter times out
// rather than hanging.
func (r *Receiver) StopCapture() {
	r.Disarm()
	r.backend.Stop()
}

// Close tears the receiver down: the worker exits promptly and the
// backend releases its resources.
func (r *Receiver) Close() error {
	r.Disarm()
	close(r.done)
	r.wg.Wait()
	return r.backend.Close()
}

// newEventID generates a ULID for one capture event.
func newEventID() string {
	id, err := ulid.New(ulid.Timestamp(time.Now()), ulid.Monotonic(rand.Reader, 0))
	if err != nil {
		// Entropy exhaustion is not survivable in any useful way.
		return "00000000000000000000000000"
	}
	return id.String()
}
