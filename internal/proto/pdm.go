package proto

import (
	"github.com/hpungsan/irdeck/internal/code"
)

// pdmProtocol is a pulse-distance-modulated protocol: a fixed header
// mark/space pair, a constant data mark, and a bit value carried by the
// length of the space that follows each data mark. NEC, Samsung, and JVC
// all share this shape and differ only in timing and frame width.
type pdmProtocol struct {
	name        string
	headerMark  uint32
	headerSpace uint32
	bitMark     uint32
	zeroSpace   uint32
	oneSpace    uint32
	trailMark   uint32
	bits        uint16
}

func (p *pdmProtocol) Name() string { return p.name }

// Match decodes a pulse-distance frame. Framing: minimum pulse count is
// the header pair plus one mark/space pair per bit; sequences longer than
// the frame are accepted (trailer marks and repeat bursts trail the data).
// A space that lands in neither the zero nor the one window fails the
// whole match, never a partial result. Bits accumulate LSB-first in
// capture order.
func (p *pdmProtocol) Match(pulses code.PulseSequence) (code.Command, bool) {
	minLen := 2 + 2*int(p.bits)
	if len(pulses) < minLen {
		return code.Command{}, false
	}
	if !within(pulses[0], p.headerMark) || !within(pulses[1], p.headerSpace) {
		return code.Command{}, false
	}

	var value uint64
	for i := 0; i < int(p.bits); i++ {
		mark := pulses[2+2*i]
		space := pulses[3+2*i]
		if !within(mark, p.bitMark) {
			return code.Command{}, false
		}
		switch {
		case within(space, p.oneSpace):
			value |= 1 << uint(i)
		case within(space, p.zeroSpace):
			// zero bit
		default:
			return code.Command{}, false
		}
	}

	return code.NewProtocolCommand(p.name, value, p.bits), true
}

// Encode produces header + data pairs + trailer mark.
func (p *pdmProtocol) Encode(value uint64, bits uint16) code.PulseSequence {
	return p.encodeBits(value, bits)
}

func (p *pdmProtocol) encodeBits(value uint64, bits uint16) code.PulseSequence {
	if bits == 0 || bits > p.bits {
		bits = p.bits
	}
	out := make(code.PulseSequence, 0, 2+2*int(bits)+1)
	out = append(out, p.headerMark, p.headerSpace)
	for i := 0; i < int(bits); i++ {
		out = append(out, p.bitMark)
		if value>>uint(i)&1 == 1 {
			out = append(out, p.oneSpace)
		} else {
			out = append(out, p.zeroSpace)
		}
	}
	out = append(out, p.trailMark)
	return out
}

// Timing references: sbprojects.net protocol pages, cross-checked against
// the receiver-side windows the capture firmware used.
var (
	necTiming = &pdmProtocol{
		name:        "nec",
		headerMark:  9000,
		headerSpace: 4500,
		bitMark:     562,
		zeroSpace:   562,
		oneSpace:    1687,
		trailMark:   562,
		bits:        32,
	}

	samsungTiming = &pdmProtocol{
		name:        "samsung",
		headerMark:  4500,
		headerSpace: 4500,
		bitMark:     562,
		zeroSpace:   562,
		oneSpace:    1687,
		trailMark:   562,
		bits:        32,
	}

	jvcTiming = &pdmProtocol{
		name:        "jvc",
		headerMark:  8400,
		headerSpace: 4200,
		bitMark:     526,
		zeroSpace:   524,
		oneSpace:    1574,
		trailMark:   526,
		bits:        16,
	}
)

// NEC is the 32-bit NEC consumer protocol (address, address complement,
// command, command complement).
var NEC Protocol = necTiming

// Samsung is the 32-bit Samsung TC9012 variant: NEC data timing under a
// symmetric 4.5 ms header.
var Samsung Protocol = samsungTiming

// JVC is the 16-bit JVC protocol. Its windows sit inside NEC's at the
// tolerance edges, which is why it is ordered after NEC.
var JVC Protocol = jvcTiming
