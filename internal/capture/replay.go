package capture

import (
	"log"
	"os"
	"sync"

	"github.com/hpungsan/irdeck/internal/code"
	"github.com/hpungsan/irdeck/internal/errors"
)

// ReplayBackend is a capture backend fed from recordings instead of a
// photodiode: tests push frames directly, and the CLI's --from flag loads
// pulse files through it. It honors the full Backend contract, including
// idempotent Start and simulated resource contention.
type ReplayBackend struct {
	mu      sync.Mutex
	handler Handler
	running bool
	closed  bool

	// BusyWith, when non-empty, makes Start fail as if the named
	// collaborator held the capture resource.
	BusyWith string

	// MaxPulses bounds a delivered burst; longer frames are truncated
	// the way a fixed capture buffer would. Zero means unbounded.
	MaxPulses int

	// IdleThresholdMs splits a pushed recording at any space of at
	// least this many milliseconds, the way the hardware's idle timeout
	// terminates a frame. Zero delivers the recording as one burst.
	IdleThresholdMs int
}

// NewReplayBackend returns a stopped backend.
func NewReplayBackend() *ReplayBackend {
	return &ReplayBackend{}
}

// SetHandler registers the burst handler.
func (b *ReplayBackend) SetHandler(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handler = h
}

// Start arms the backend. Starting a running backend is a no-op.
func (b *ReplayBackend) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return errors.NewInternal(os.ErrClosed)
	}
	if b.BusyWith != "" {
		return errors.NewCaptureBusy(b.BusyWith)
	}
	if b.running {
		log.Printf("capture already running")
		return nil
	}
	b.running = true
	return nil
}

// Stop disarms the backend. Pushed frames are dropped while stopped.
func (b *ReplayBackend) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.running = false
}

// Close releases the backend; it cannot be restarted.
func (b *ReplayBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.running = false
	b.closed = true
	return nil
}

// Running reports whether the backend is armed.
func (b *ReplayBackend) Running() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.running
}

// Push delivers a recording to the handler, one burst per idle gap, as
// the hardware would. Frames pushed while stopped are dropped.
func (b *ReplayBackend) Push(pulses code.PulseSequence) {
	b.mu.Lock()
	h := b.handler
	running := b.running
	max := b.MaxPulses
	idle := b.IdleThresholdMs
	b.mu.Unlock()

	if !running || h == nil {
		return
	}
	for _, burst := range splitAtIdle(pulses, idle) {
		if max > 0 {
			burst = burst.Truncate(max)
		}
		h(burst)
	}
}

// splitAtIdle cuts the sequence after any space of at least thresholdMs.
// Spaces sit at odd offsets within a burst; the gap itself is dropped,
// the receiver hears it as silence.
func splitAtIdle(pulses code.PulseSequence, thresholdMs int) []code.PulseSequence {
	if thresholdMs <= 0 {
		return []code.PulseSequence{pulses}
	}
	gap := uint32(thresholdMs) * 1000
	var bursts []code.PulseSequence
	start := 0
	for i, d := range pulses {
		if (i-start)%2 == 1 && d >= gap {
			if i > start {
				bursts = append(bursts, pulses[start:i])
			}
			start = i + 1
		}
	}
	if start < len(pulses) {
		bursts = append(bursts, pulses[start:])
	}
	return bursts
}

// PushFile reads a pulse recording and delivers it.
func (b *ReplayBackend) PushFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	pulses, err := code.ParsePulses(string(data))
	if err != nil {
		return err
	}
	b.Push(pulses)
	return nil
}
