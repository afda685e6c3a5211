// Package capture defines the hardware collaborator boundary: a pulse
// capture backend feeding complete signal bursts to a registered handler,
// and a transmitter driving the IR LED. Host-side implementations (replay
// from recordings, file and in-memory transmitters) live here too; real
// hardware backends implement the same interfaces out of tree.
package capture

import "github.com/hpungsan/irdeck/internal/code"

// Handler receives one complete signal burst: a mark/space run terminated
// by an idle gap exceeding the backend's configured threshold. It is
// invoked from the backend's capture context and must not block or
// allocate; it may only move already-captured buffers onward.
type Handler func(pulses code.PulseSequence)

// Backend abstracts the capture hardware.
//
// Start is idempotent: starting a running backend is a no-op that logs.
// Start fails with a CAPTURE_BUSY error when the underlying resource is
// held by another consumer; callers may retry after a bounded delay.
// Stop disables the source but may keep resources allocated for fast
// restart; Close always releases them.
type Backend interface {
	SetHandler(h Handler)
	Start() error
	Stop()
	Close() error
}

// Transmitter drives the IR LED: pulses alternate mark/space starting
// with a mark, modulated at carrierHz during marks.
type Transmitter interface {
	Send(pulses code.PulseSequence, carrierHz int) error
}

// Gate is the capability interface for peripherals that share the
// capture/transmit hardware channel (status LEDs on the original boards).
// The dispatch boundary disables the gate around a learning session and
// re-enables it afterwards; which peripherals contend is board-specific,
// so the core never calls this itself.
type Gate interface {
	Disable()
	Enable()
}

// NopGate is the Gate for boards with nothing contending the channel.
type NopGate struct{}

func (NopGate) Disable() {}
func (NopGate) Enable()  {}
