// Package code holds the domain model for learned IR codes: pulse
// sequences, decoded commands, the stored record format, and the name
// discipline the persistence backend imposes.
package code

import (
	"fmt"
	"strconv"
	"strings"
)

// PulseSequence is an ordered sequence of durations in microseconds,
// alternating mark and space, starting with a mark. Immutable once
// captured: stages hand the slice onward and never write through it.
type PulseSequence []uint32

// Clone returns an independent copy.
func (p PulseSequence) Clone() PulseSequence {
	if p == nil {
		return nil
	}
	out := make(PulseSequence, len(p))
	copy(out, p)
	return out
}

// Truncate caps the sequence at max pulses. Capture buffers are bounded;
// overflow is a fidelity loss, not an error.
func (p PulseSequence) Truncate(max int) PulseSequence {
	if max <= 0 || len(p) <= max {
		return p
	}
	return p[:max]
}

// Duration returns the total signal time in microseconds.
func (p PulseSequence) Duration() uint64 {
	var total uint64
	for _, d := range p {
		total += uint64(d)
	}
	return total
}

// ParsePulses parses a whitespace-separated list of microsecond durations,
// the on-disk recording format used by the replay backend and the file
// transmitter. Blank lines and lines starting with '#' are ignored.
func ParsePulses(text string) (PulseSequence, error) {
	var out PulseSequence
	for lineNo, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		for _, field := range strings.Fields(line) {
			v, err := strconv.ParseUint(field, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad duration %q: %w", lineNo+1, field, err)
			}
			out = append(out, uint32(v))
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no pulses found")
	}
	return out, nil
}

// FormatPulses renders the sequence in the recording format, sixteen
// durations per line.
func FormatPulses(p PulseSequence) string {
	var b strings.Builder
	for i, d := range p {
		if i > 0 {
			if i%16 == 0 {
				b.WriteByte('\n')
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteString(strconv.FormatUint(uint64(d), 10))
	}
	b.WriteByte('\n')
	return b.String()
}
