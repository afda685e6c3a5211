package code

import (
	"encoding/json"
	"fmt"
)

// ProtocolRaw is the protocol name reserved for unclassified captures.
const ProtocolRaw = "raw"

// Command is a decoded IR command: either a recognized protocol's numeric
// code, or a raw recording preserved verbatim. Exactly one form is
// populated; Protocol == ProtocolRaw selects the raw form.
type Command struct {
	Protocol string        `json:"protocol"`
	Value    uint64        `json:"value,omitempty"`
	Bits     uint16        `json:"bits,omitempty"`
	Pulses   PulseSequence `json:"pulses,omitempty"`
}

// NewProtocolCommand returns a protocol-form command.
func NewProtocolCommand(protocol string, value uint64, bits uint16) Command {
	return Command{Protocol: protocol, Value: value, Bits: bits}
}

// NewRawCommand returns a raw-form command.
func NewRawCommand(pulses PulseSequence) Command {
	return Command{Protocol: ProtocolRaw, Pulses: pulses}
}

// IsRaw reports whether the command is a raw recording.
func (c Command) IsRaw() bool {
	return c.Protocol == ProtocolRaw
}

// String renders the command for logs and status payloads.
func (c Command) String() string {
	if c.IsRaw() {
		return fmt.Sprintf("raw(%d pulses)", len(c.Pulses))
	}
	return fmt.Sprintf("%s(value=0x%x, bits=%d)", c.Protocol, c.Value, c.Bits)
}

// DefaultName generates the name used when the caller does not supply one.
// Protocol codes use the low six hex digits of the value, raw captures the
// low four hex digits of their pulse count, both short enough to survive
// the strictest backend key limit untruncated.
func (c Command) DefaultName() string {
	if c.IsRaw() {
		return fmt.Sprintf("raw_%04x", len(c.Pulses)&0xFFFF)
	}
	return fmt.Sprintf("ir_%06x", c.Value&0xFFFFFF)
}

// MarshalRecord serializes the command into the stored record format:
// {"protocol":"nec","value":2935838373,"bits":32} for protocol codes,
// {"protocol":"raw","pulses":[...]} for raw recordings.
func (c Command) MarshalRecord() (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal record: %w", err)
	}
	return string(b), nil
}

// UnmarshalRecord parses a stored record. A record whose protocol is
// empty, or whose populated form contradicts its tag, is rejected so
// corrupt storage entries can be skipped by callers.
func UnmarshalRecord(value string) (Command, error) {
	var c Command
	if err := json.Unmarshal([]byte(value), &c); err != nil {
		return Command{}, fmt.Errorf("unmarshal record: %w", err)
	}
	if c.Protocol == "" {
		return Command{}, fmt.Errorf("record missing protocol")
	}
	if c.IsRaw() {
		if len(c.Pulses) == 0 {
			return Command{}, fmt.Errorf("raw record has no pulses")
		}
	} else {
		if c.Bits == 0 || c.Bits > 64 {
			return Command{}, fmt.Errorf("record bits out of range: %d", c.Bits)
		}
	}
	return c, nil
}
