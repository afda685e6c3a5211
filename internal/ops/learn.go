package ops

import (
	"context"
	"log"
	"time"

	"github.com/hpungsan/irdeck/internal/code"
	"github.com/hpungsan/irdeck/internal/errors"
	"github.com/hpungsan/irdeck/internal/learn"
)

// LearnInput contains parameters for the Learn operation.
type LearnInput struct {
	TimeoutSec int    // optional, default: cfg.LearnTimeoutSec, range 1-60
	Name       string // optional, save the learned code under this name
	Save       bool   // save even without a name, under the default name
}

// LearnOutput contains the result of the Learn operation. DurationUs is
// the total signal time of the captured burst, reported for both raw and
// protocol-form results.
type LearnOutput struct {
	EventID    string             `json:"event_id"`
	Protocol   string             `json:"protocol"`
	Value      uint64             `json:"value,omitempty"`
	Bits       uint16             `json:"bits,omitempty"`
	Pulses     code.PulseSequence `json:"pulses,omitempty"`
	DurationUs uint64             `json:"duration_us"`
	SavedAs    string             `json:"saved_as,omitempty"`
	Command    string             `json:"command"`
}

// Learn arms a single-shot learning session and blocks until one command
// is captured or the timeout elapses. The gate peripheral is disabled for
// the duration of the session and re-enabled on every exit path.
func (e *Env) Learn(ctx context.Context, input LearnInput) (*LearnOutput, error) {
	timeout, err := resolveTimeout(e.Config, input.TimeoutSec)
	if err != nil {
		return nil, err
	}

	gate := e.gate()
	gate.Disable()
	defer gate.Enable()

	type result struct {
		ev  learn.Event
		err error
	}
	done := make(chan result, 1)
	go func() {
		ev, err := e.Receiver.LearnOnce(timeout)
		done <- result{ev, err}
	}()

	var res result
	select {
	case res = <-done:
	case <-ctx.Done():
		e.Receiver.Disarm()
		return nil, errors.NewTimeout(int(timeout / time.Second))
	}
	if res.err != nil {
		return nil, res.err
	}

	out := &LearnOutput{
		EventID:    res.ev.ID,
		Protocol:   res.ev.Command.Protocol,
		Value:      res.ev.Command.Value,
		Bits:       res.ev.Command.Bits,
		Pulses:     res.ev.Command.Pulses,
		DurationUs: res.ev.Pulses.Duration(),
		Command:    res.ev.Command.String(),
	}

	if input.Name != "" || input.Save {
		name := input.Name
		if name == "" {
			name = res.ev.Command.DefaultName()
		}
		if err := e.Store.Save(name, res.ev.Command); err != nil {
			return nil, err
		}
		out.SavedAs = e.Store.TruncateName(name)
	}
	return out, nil
}

// LearnStartOutput contains the result of the LearnStart operation.
type LearnStartOutput struct {
	Started bool   `json:"started"`
	Message string `json:"message"`
}

// LearnStart enters continuous learning: every plausible capture is saved
// under its default name until LearnStop. The gate stays disabled for the
// whole continuous session.
func (e *Env) LearnStart(ctx context.Context) (*LearnStartOutput, error) {
	if armed, continuous := e.Receiver.Armed(); armed && continuous {
		return &LearnStartOutput{Started: false, Message: "continuous learning already active"}, nil
	}

	e.gate().Disable()
	err := e.Receiver.ArmContinuous(func(ev learn.Event) {
		name := ev.Command.DefaultName()
		if err := e.Store.Save(name, ev.Command); err != nil {
			log.Printf("event %s: auto-save as %q failed: %v", ev.ID, name, err)
			return
		}
		log.Printf("event %s: learned %s, saved as %q", ev.ID, ev.Command, name)
	})
	if err != nil {
		e.gate().Enable()
		return nil, err
	}
	return &LearnStartOutput{Started: true, Message: "continuous learning started"}, nil
}

// LearnStopOutput contains the result of the LearnStop operation.
type LearnStopOutput struct {
	Stopped bool   `json:"stopped"`
	Message string `json:"message"`
}

// LearnStop ends a continuous learning session. Stopping when no session
// is active is not an error.
func (e *Env) LearnStop(ctx context.Context) (*LearnStopOutput, error) {
	armed, _ := e.Receiver.Armed()
	e.Receiver.Disarm()
	e.gate().Enable()
	if !armed {
		return &LearnStopOutput{Stopped: false, Message: "no learning session active"}, nil
	}
	return &LearnStopOutput{Stopped: true, Message: "learning stopped"}, nil
}
