package ops

import (
	"context"
	"fmt"
	"testing"
)

func TestPurge(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := env.Save(ctx, SaveInput{Name: fmt.Sprintf("c%d", i), Protocol: "nec", Value: uint64(i + 1), Bits: 32}); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	out, err := env.Purge(ctx)
	if err != nil {
		t.Fatalf("Purge failed: %v", err)
	}
	if out.Deleted != 3 {
		t.Errorf("deleted = %d, want 3", out.Deleted)
	}

	// Purging an empty store succeeds.
	out, err = env.Purge(ctx)
	if err != nil || out.Deleted != 0 {
		t.Errorf("empty Purge = (%+v, %v)", out, err)
	}
}
