package proto

import (
	"github.com/hpungsan/irdeck/internal/code"
)

// Philips RC5 is Manchester-coded: every bit occupies a fixed 1778 us
// period split into two half-bits, and the bit value comes from the
// relative order of the two halves (space-then-mark is a one,
// mark-then-space is a zero). This is a different bit-extraction rule
// from the windowed protocols, not a tolerance variant: durations only
// classify as one half-bit or two, and the half-bit ordering carries the
// data.
//
// A frame is 14 bits: a fixed start bit, then 13 value bits (field,
// toggle, five address bits, six command bits). The start bit's leading
// space half and, for frames ending in a zero bit, the trailing space
// half are swallowed by idle time and reconstructed during matching. The
// decoded value is the 13 bits after the start bit, MSB-first as the
// frame transmits them.
type rc5Protocol struct{}

const (
	rc5HalfBit   = 889
	rc5FullBit   = 1778
	rc5FrameBits = 14
	rc5Bits      = 13
)

func (rc5Protocol) Name() string { return "rc5" }

func (rc5Protocol) Match(pulses code.PulseSequence) (code.Command, bool) {
	if len(pulses) < 3 {
		return code.Command{}, false
	}

	// Expand durations into half-bit units. Levels alternate starting
	// with mark; each duration spans one or two half-bits.
	units := make([]bool, 0, 2*rc5FrameBits)
	units = append(units, false) // unseen leading space half of the start bit
	level := true
	for _, d := range pulses {
		switch {
		case within(d, rc5HalfBit):
			units = append(units, level)
		case within(d, rc5FullBit):
			units = append(units, level, level)
		default:
			return code.Command{}, false
		}
		level = !level
	}

	// A frame ending in a zero bit loses its trailing space half to idle.
	if len(units) == 2*rc5FrameBits-1 {
		units = append(units, false)
	}
	if len(units) != 2*rc5FrameBits {
		return code.Command{}, false
	}

	var value uint64
	for i := 0; i < rc5FrameBits; i++ {
		first, second := units[2*i], units[2*i+1]
		if first == second {
			return code.Command{}, false
		}
		bit := uint64(0)
		if second {
			bit = 1
		}
		if i == 0 {
			if bit != 1 {
				return code.Command{}, false
			}
			continue
		}
		value = value<<1 | bit
	}

	return code.NewProtocolCommand("rc5", value, rc5Bits), true
}

func (rc5Protocol) Encode(value uint64, bits uint16) code.PulseSequence {
	if bits == 0 || bits > rc5Bits {
		bits = rc5Bits
	}

	// Half-bit levels for the full frame, start bit first.
	units := make([]bool, 0, 2*rc5FrameBits)
	units = append(units, false, true) // start bit
	for i := int(bits) - 1; i >= 0; i-- {
		if value>>uint(i)&1 == 1 {
			units = append(units, false, true)
		} else {
			units = append(units, true, false)
		}
	}

	// Trim the halves idle time swallows on the wire.
	start := 0
	for start < len(units) && !units[start] {
		start++
	}
	end := len(units)
	for end > start && !units[end-1] {
		end--
	}
	units = units[start:end]

	// Merge adjacent same-level halves into durations.
	var out code.PulseSequence
	i := 0
	for i < len(units) {
		run := 1
		if i+1 < len(units) && units[i+1] == units[i] {
			run = 2
		}
		if run == 2 {
			out = append(out, rc5FullBit)
		} else {
			out = append(out, rc5HalfBit)
		}
		i += run
	}
	return out
}

// RC5 is the 14-bit Philips RC5 protocol; the decoded value is the 13
// bits after the fixed start bit.
var RC5 Protocol = rc5Protocol{}
