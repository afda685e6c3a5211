package ops

import (
	"sync/atomic"
	"testing"

	"github.com/hpungsan/irdeck/internal/capture"
	"github.com/hpungsan/irdeck/internal/config"
	"github.com/hpungsan/irdeck/internal/db"
	"github.com/hpungsan/irdeck/internal/learn"
	"github.com/hpungsan/irdeck/internal/store"
)

// testGate records Disable/Enable calls.
type testGate struct {
	disables atomic.Int32
	enables  atomic.Int32
}

func (g *testGate) Disable() { g.disables.Add(1) }
func (g *testGate) Enable()  { g.enables.Add(1) }

type testEnv struct {
	*Env
	backend *capture.ReplayBackend
	tx      *capture.MemoryTransmitter
	gate    *testGate
	kv      db.KV
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	baseDir := t.TempDir()
	database, err := db.Init(baseDir)
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	cfg := config.DefaultConfig()
	backend := capture.NewReplayBackend()
	receiver := learn.New(backend, cfg)
	t.Cleanup(func() { receiver.Close() })

	tx := &capture.MemoryTransmitter{}
	gate := &testGate{}
	kv := db.NewKV(database, store.Namespace)
	env := &Env{
		Store:       store.New(kv, cfg),
		Receiver:    receiver,
		Transmitter: tx,
		Gate:        gate,
		Config:      cfg,
		BaseDir:     baseDir,
	}
	return &testEnv{Env: env, backend: backend, tx: tx, gate: gate, kv: kv}
}
