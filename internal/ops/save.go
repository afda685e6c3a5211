package ops

import (
	"context"

	"github.com/hpungsan/irdeck/internal/code"
	"github.com/hpungsan/irdeck/internal/errors"
)

// SaveInput contains parameters for the Save operation. Either a protocol
// record (protocol + value + bits) or a raw record (pulses) is given.
type SaveInput struct {
	Name     string
	Protocol string
	Value    uint64
	Bits     uint16
	Pulses   code.PulseSequence
}

// SaveOutput contains the result of the Save operation.
type SaveOutput struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Save stores a named code supplied by the caller rather than learned
// from the air. The record passes the same plausibility lint as captured
// commands so the store never holds codes that cannot be replayed.
func (e *Env) Save(ctx context.Context, input SaveInput) (*SaveOutput, error) {
	if input.Protocol == "" {
		return nil, errors.NewInvalidRequest("protocol is required (use \"raw\" for pulse recordings)")
	}

	var cmd code.Command
	if input.Protocol == code.ProtocolRaw {
		if len(input.Pulses) == 0 {
			return nil, errors.NewInvalidRequest("raw codes require pulses")
		}
		cmd = code.NewRawCommand(input.Pulses)
	} else {
		bits := input.Bits
		if bits == 0 {
			bits = 32
		}
		cmd = code.NewProtocolCommand(input.Protocol, input.Value, bits)
	}
	if ok, reason := code.Plausible(cmd); !ok {
		return nil, errors.NewInvalidRequest("implausible code: " + reason)
	}

	name := input.Name
	if name == "" {
		name = cmd.DefaultName()
	}
	if err := e.Store.Save(name, cmd); err != nil {
		return nil, err
	}

	count, err := e.Store.Count()
	if err != nil {
		return nil, err
	}
	return &SaveOutput{Name: e.Store.TruncateName(name), Count: count}, nil
}
