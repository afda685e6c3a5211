package ops

import (
	"context"
	"log"

	"github.com/hpungsan/irdeck/internal/code"
	"github.com/hpungsan/irdeck/internal/errors"
	"github.com/hpungsan/irdeck/internal/proto"
)

// SendInput contains parameters for the Send operation.
type SendInput struct {
	Name string
}

// SendOutput contains the result of the Send operation.
type SendOutput struct {
	Name      string `json:"name"`
	Protocol  string `json:"protocol"`
	Pulses    int    `json:"pulses"`
	CarrierHz int    `json:"carrier_hz"`
}

// Send transmits a stored code. Protocol records are re-encoded with the
// protocol's own encoder; a record naming a protocol with no registered
// encoder falls back to the default pulse-distance framing with a log
// line. Raw records replay their pulses verbatim at the default carrier.
func (e *Env) Send(ctx context.Context, input SendInput) (*SendOutput, error) {
	if input.Name == "" {
		return nil, errors.NewInvalidRequest("name is required")
	}

	cmd, err := e.Store.Get(input.Name)
	if err != nil {
		return nil, err
	}

	var pulses code.PulseSequence
	if cmd.IsRaw() {
		pulses = cmd.Pulses
	} else if p, ok := proto.Lookup(cmd.Protocol); ok {
		pulses = p.Encode(cmd.Value, cmd.Bits)
	} else {
		log.Printf("no encoder for protocol %q, sending with default framing", cmd.Protocol)
		pulses = proto.EncodeDefault(cmd.Value, cmd.Bits)
	}
	if len(pulses) == 0 {
		return nil, errors.NewEncodeUnsupported(cmd.Protocol)
	}

	carrier := e.Config.CarrierHz
	if err := e.Transmitter.Send(pulses, carrier); err != nil {
		return nil, errors.NewTransmitFailed(err)
	}
	return &SendOutput{
		Name:      e.Store.TruncateName(input.Name),
		Protocol:  cmd.Protocol,
		Pulses:    len(pulses),
		CarrierHz: carrier,
	}, nil
}
