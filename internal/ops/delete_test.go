package ops

import (
	"context"
	"testing"

	"github.com/hpungsan/irdeck/internal/errors"
)

func TestDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.Save(ctx, SaveInput{Name: "tv_power", Protocol: "nec", Value: 1, Bits: 32}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	out, err := env.Delete(ctx, DeleteInput{Name: "tv_power"})
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !out.Removed {
		t.Error("first delete should remove")
	}

	out, err = env.Delete(ctx, DeleteInput{Name: "tv_power"})
	if err != nil {
		t.Fatalf("second Delete errored: %v", err)
	}
	if out.Removed {
		t.Error("second delete should report nothing removed")
	}
}

func TestDelete_RequiresName(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.Delete(context.Background(), DeleteInput{}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}
