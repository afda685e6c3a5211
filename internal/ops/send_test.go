package ops

import (
	"context"
	"fmt"
	"testing"

	"github.com/hpungsan/irdeck/internal/code"
	"github.com/hpungsan/irdeck/internal/errors"
	"github.com/hpungsan/irdeck/internal/proto"
)

func TestSend_ProtocolRecord(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.Save(ctx, SaveInput{Name: "tv_power", Protocol: "nec", Value: 0xA25050AD, Bits: 32}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	out, err := env.Send(ctx, SendInput{Name: "tv_power"})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if out.Protocol != "nec" || out.CarrierHz != 38000 {
		t.Errorf("out = %+v", out)
	}

	sends := env.tx.Sends()
	if len(sends) != 1 {
		t.Fatalf("%d transmissions, want 1", len(sends))
	}
	// The transmitted frame decodes back to the stored value.
	got, ok := proto.NEC.Match(sends[0].Pulses)
	if !ok || got.Value != 0xA25050AD {
		t.Errorf("transmitted frame = (%+v, %v)", got, ok)
	}
}

func TestSend_RawReplayVerbatim(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	raw := code.PulseSequence{123, 456, 789, 1011, 1213, 1415}
	if _, err := env.Save(ctx, SaveInput{Name: "weird_ac", Protocol: "raw", Pulses: raw}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := env.Send(ctx, SendInput{Name: "weird_ac"}); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	sends := env.tx.Sends()
	if len(sends) != 1 || len(sends[0].Pulses) != len(raw) {
		t.Fatalf("sends = %+v", sends)
	}
	for i, p := range sends[0].Pulses {
		if p != raw[i] {
			t.Fatalf("pulse[%d] = %d, want %d (verbatim replay)", i, p, raw[i])
		}
	}
	if sends[0].CarrierHz != 38000 {
		t.Errorf("carrier = %d, want default 38000", sends[0].CarrierHz)
	}
}

func TestSend_UnknownProtocolFallsBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// A record naming a protocol with no registered encoder still sends,
	// with default framing.
	if _, err := env.Save(ctx, SaveInput{Name: "mystery", Protocol: "denon", Value: 0xBEEF, Bits: 16}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	out, err := env.Send(ctx, SendInput{Name: "mystery"})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if out.Pulses != 2+2*16+1 {
		t.Errorf("pulses = %d, want default framing length", out.Pulses)
	}
}

func TestSend_NotFound(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.Send(context.Background(), SendInput{Name: "missing"})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestSend_TransmitterFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.Save(ctx, SaveInput{Name: "x", Protocol: "nec", Value: 1, Bits: 32}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	env.tx.Err = fmt.Errorf("gpio busy")

	_, err := env.Send(ctx, SendInput{Name: "x"})
	if !errors.Is(err, errors.ErrTransmitFailed) {
		t.Errorf("err = %v, want TRANSMIT_FAILED", err)
	}
}
