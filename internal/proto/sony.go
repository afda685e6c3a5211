package proto

import (
	"github.com/hpungsan/irdeck/internal/code"
)

// Sony SIRC-12 carries the bit value in the mark length (600 us = 0,
// 1200 us = 1) with a constant 600 us space, under a 2.4 ms header mark.
// That makes it a pulse-width protocol, not a pulse-distance one, but the
// matcher contract is the same: two disjoint windows, anything in
// neither fails the match.
type sonyProtocol struct{}

const (
	sonyHeaderMark  = 2400
	sonyHeaderSpace = 600
	sonyZeroMark    = 600
	sonyOneMark     = 1200
	sonyBitSpace    = 600
	sonyBits        = 12
)

func (sonyProtocol) Name() string { return "sony" }

// Match decodes a SIRC-12 frame. The frame ends on a mark, so the final
// space belongs to the idle gap and is not validated; minimum pulse count
// is the header pair plus twelve marks with eleven interior spaces.
func (sonyProtocol) Match(pulses code.PulseSequence) (code.Command, bool) {
	minLen := 2 + 2*sonyBits - 1
	if len(pulses) < minLen {
		return code.Command{}, false
	}
	if !within(pulses[0], sonyHeaderMark) || !within(pulses[1], sonyHeaderSpace) {
		return code.Command{}, false
	}

	var value uint64
	for i := 0; i < sonyBits; i++ {
		mark := pulses[2+2*i]
		switch {
		case within(mark, sonyOneMark):
			value |= 1 << uint(i)
		case within(mark, sonyZeroMark):
			// zero bit
		default:
			return code.Command{}, false
		}
		// Interior spaces only; the space after the last mark is idle.
		if i < sonyBits-1 && !within(pulses[3+2*i], sonyBitSpace) {
			return code.Command{}, false
		}
	}

	return code.NewProtocolCommand("sony", value, sonyBits), true
}

func (sonyProtocol) Encode(value uint64, bits uint16) code.PulseSequence {
	if bits == 0 || bits > sonyBits {
		bits = sonyBits
	}
	out := make(code.PulseSequence, 0, 2+2*int(bits))
	out = append(out, sonyHeaderMark, sonyHeaderSpace)
	for i := 0; i < int(bits); i++ {
		if value>>uint(i)&1 == 1 {
			out = append(out, sonyOneMark)
		} else {
			out = append(out, sonyZeroMark)
		}
		if i < int(bits)-1 {
			out = append(out, sonyBitSpace)
		}
	}
	return out
}

// Sony is the 12-bit Sony SIRC protocol.
var Sony Protocol = sonyProtocol{}
