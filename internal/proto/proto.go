// Package proto classifies captured pulse sequences into known IR
// protocols and encodes stored codes back into pulses. Decoding is pure:
// no side effects, no ownership retained.
package proto

import (
	"github.com/hpungsan/irdeck/internal/code"
)

// Protocol is a matcher/encoder pair for one IR protocol.
type Protocol interface {
	// Name is the protocol identifier used in stored records.
	Name() string
	// Match attempts to decode the sequence. ok is false when the
	// sequence does not fit the protocol's framing or timing.
	Match(pulses code.PulseSequence) (cmd code.Command, ok bool)
	// Encode produces the pulse sequence for a code value. bits beyond
	// the protocol's frame width are ignored.
	Encode(value uint64, bits uint16) code.PulseSequence
}

// protocols holds the matchers in fixed priority order. The order
// matters: tolerance windows of different protocols overlap at their
// edges (every NEC frame also satisfies the JVC matcher's first sixteen
// pairs, for instance), so the first confident match wins and decoding
// stops.
var protocols = []Protocol{
	NEC,
	Samsung,
	Sony,
	RC5,
	JVC,
}

// All returns the registered protocols in priority order.
func All() []Protocol {
	out := make([]Protocol, len(protocols))
	copy(out, protocols)
	return out
}

// Lookup finds a protocol by record name.
func Lookup(name string) (Protocol, bool) {
	for _, p := range protocols {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}

// Decode classifies a pulse sequence. It tries each protocol in priority
// order and falls back to a raw recording when none match. The fallback
// always succeeds; an unrecognized signal is a designed outcome, not an
// error.
func Decode(pulses code.PulseSequence) code.Command {
	for _, p := range protocols {
		if cmd, ok := p.Match(pulses); ok {
			return cmd
		}
	}
	return code.NewRawCommand(pulses)
}

// EncodeDefault encodes a value with NEC framing and timing. It is the
// documented fallback for stored records whose protocol has no dedicated
// encoder (records imported from other tools, or written by a newer
// firmware revision).
func EncodeDefault(value uint64, bits uint16) code.PulseSequence {
	return necTiming.encodeBits(value, bits)
}

// tolerancePct is the timing tolerance applied to every expected
// duration, inclusive at both edges. Receiver jitter on cheap demodulator
// modules runs well past 10%.
const tolerancePct = 25

// within reports whether d falls inside expected +/- tolerance.
func within(d, expected uint32) bool {
	tol := expected * tolerancePct / 100
	return d >= expected-tol && d <= expected+tol
}
