package ops

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/irdeck/internal/errors"
	"github.com/hpungsan/irdeck/internal/proto"
	"github.com/hpungsan/irdeck/internal/store"
)

// TestWorkflow_RemoteLifecycle walks the full tv_power lifecycle:
// learn, save, list, replay, delete.
func TestWorkflow_RemoteLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	go func() {
		time.Sleep(50 * time.Millisecond)
		env.backend.Push(proto.NEC.Encode(0xA25050AD, 32))
	}()

	learned, err := env.Learn(ctx, LearnInput{TimeoutSec: 5, Name: "tv_power"})
	require.NoError(t, err)
	assert.Equal(t, "nec", learned.Protocol)
	assert.Equal(t, uint64(0xA25050AD), learned.Value)
	assert.Equal(t, "tv_power", learned.SavedAs)

	list, err := env.List(ctx)
	require.NoError(t, err)
	require.Len(t, list.Codes, 1)
	assert.Equal(t, "tv_power", list.Codes[0].Name)

	sent, err := env.Send(ctx, SendInput{Name: "tv_power"})
	require.NoError(t, err)
	assert.Equal(t, "nec", sent.Protocol)

	// What went over the air is the same command that was learned.
	sends := env.tx.Sends()
	require.Len(t, sends, 1)
	decoded := proto.Decode(sends[0].Pulses)
	assert.Equal(t, "nec", decoded.Protocol)
	assert.Equal(t, uint64(0xA25050AD), decoded.Value)

	deleted, err := env.Delete(ctx, DeleteInput{Name: "tv_power"})
	require.NoError(t, err)
	assert.True(t, deleted.Removed)

	_, err = env.Send(ctx, SendInput{Name: "tv_power"})
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	status, err := env.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, status.Count)
	assert.False(t, status.Learning)
}

// TestWorkflow_StoreOverflow fills the store to its cap and verifies the
// overflow error, then that deleting frees a slot.
func TestWorkflow_StoreOverflow(t *testing.T) {
	env := newTestEnv(t)
	env.Config.MaxCodes = 3
	env.Store = store.New(env.kv, env.Config)
	ctx := context.Background()

	for i, name := range []string{"a", "b", "c"} {
		_, err := env.Save(ctx, SaveInput{Name: name, Protocol: "nec", Value: uint64(i + 1), Bits: 32})
		require.NoError(t, err)
	}

	_, err := env.Save(ctx, SaveInput{Name: "d", Protocol: "nec", Value: 4, Bits: 32})
	require.True(t, errors.Is(err, errors.ErrStoreFull))

	_, err = env.Delete(ctx, DeleteInput{Name: "b"})
	require.NoError(t, err)

	_, err = env.Save(ctx, SaveInput{Name: "d", Protocol: "nec", Value: 4, Bits: 32})
	assert.NoError(t, err, "a freed slot should accept a new code")

	list, err := env.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "d"}, []string{list.Codes[0].Name, list.Codes[1].Name, list.Codes[2].Name})
}
