package store

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/hpungsan/irdeck/internal/code"
	"github.com/hpungsan/irdeck/internal/config"
	"github.com/hpungsan/irdeck/internal/db"
	"github.com/hpungsan/irdeck/internal/errors"
)

func newTestStore(t *testing.T) (*Store, db.KV) {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	kv := db.NewKV(database, Namespace)
	return New(kv, config.DefaultConfig()), kv
}

func TestSaveAndGet(t *testing.T) {
	s, _ := newTestStore(t)

	cmd := code.NewProtocolCommand("nec", 0xA25050AD, 32)
	if err := s.Save("tv_power", cmd); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := s.Get("tv_power")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Protocol != "nec" || got.Value != 0xA25050AD || got.Bits != 32 {
		t.Errorf("got %s", got)
	}
}

func TestSave_TruncatesName(t *testing.T) {
	s, _ := newTestStore(t)

	cmd := code.NewProtocolCommand("nec", 0x11, 32)
	if err := s.Save("living_room_tv_power", cmd); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Retrieval under the full name hits the same truncated key.
	if _, err := s.Get("living_room_tv_power"); err != nil {
		t.Errorf("Get under full name failed: %v", err)
	}
	if _, err := s.Get("living_roo"); err != nil {
		t.Errorf("Get under truncated name failed: %v", err)
	}

	entries, err := s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "living_roo" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestSave_TruncationCollisionOverwrites(t *testing.T) {
	s, _ := newTestStore(t)

	// Both names truncate to "living_roo": the second save is an
	// overwrite, not a second entry.
	if err := s.Save("living_room_tv", code.NewProtocolCommand("nec", 0x11, 32)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := s.Save("living_room_ac", code.NewProtocolCommand("nec", 0x22, 32)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if n, _ := s.Count(); n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
	got, err := s.Get("living_roo")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Value != 0x22 {
		t.Errorf("value = 0x%x, want overwrite to win", got.Value)
	}
}

func TestSave_RawCommand(t *testing.T) {
	s, _ := newTestStore(t)

	raw := code.NewRawCommand(code.PulseSequence{9000, 4500, 560, 560, 560, 1690})
	if err := s.Save("weird_ac", raw); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := s.Get("weird_ac")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !got.IsRaw() || len(got.Pulses) != 6 {
		t.Errorf("got %s", got)
	}
}

func TestSave_CommaNameKeepsIndexIntact(t *testing.T) {
	s, _ := newTestStore(t)

	// The index is comma-joined; a comma in the name must not split it
	// into phantom entries.
	if err := s.Save("a,b", code.NewProtocolCommand("nec", 1, 32)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if n, _ := s.Count(); n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
	entries, err := s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "a_b" {
		t.Errorf("entries = %+v, want one entry named a_b", entries)
	}

	// The original spelling addresses the same key.
	if _, err := s.Get("a,b"); err != nil {
		t.Errorf("Get under original spelling failed: %v", err)
	}
	if removed, err := s.Delete("a,b"); err != nil || !removed {
		t.Errorf("Delete under original spelling = (%v, %v)", removed, err)
	}
}

func TestSave_EmptyNameRejected(t *testing.T) {
	s, _ := newTestStore(t)
	err := s.Save("   ", code.NewProtocolCommand("nec", 1, 32))
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}

func TestSave_CapacityEnforced(t *testing.T) {
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	cfg := config.DefaultConfig()
	cfg.MaxCodes = 3
	s := New(db.NewKV(database, Namespace), cfg)

	for i := 0; i < 3; i++ {
		if err := s.Save(fmt.Sprintf("code%d", i), code.NewProtocolCommand("nec", uint64(i), 32)); err != nil {
			t.Fatalf("Save %d failed: %v", i, err)
		}
	}
	err = s.Save("one_more", code.NewProtocolCommand("nec", 99, 32))
	if !errors.Is(err, errors.ErrStoreFull) {
		t.Fatalf("err = %v, want STORE_FULL", err)
	}

	// Overwriting an existing name still works at capacity.
	if err := s.Save("code1", code.NewProtocolCommand("nec", 0xFF, 32)); err != nil {
		t.Errorf("overwrite at capacity failed: %v", err)
	}
}

func TestList_InsertionOrder(t *testing.T) {
	s, _ := newTestStore(t)

	names := []string{"zz", "aa", "mm"}
	for i, name := range names {
		if err := s.Save(name, code.NewProtocolCommand("nec", uint64(i), 32)); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	entries, err := s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	for i, e := range entries {
		if e.Name != names[i] {
			t.Errorf("entries[%d] = %q, want %q (insertion order)", i, e.Name, names[i])
		}
	}
}

func TestList_SkipsCorruptEntries(t *testing.T) {
	s, kv := newTestStore(t)

	if err := s.Save("good", code.NewProtocolCommand("nec", 1, 32)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := s.Save("bad", code.NewProtocolCommand("nec", 2, 32)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := kv.Set("code_bad", "{not json"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	entries, err := s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "good" {
		t.Errorf("entries = %+v, want only the intact entry", entries)
	}
}

func TestDelete(t *testing.T) {
	s, _ := newTestStore(t)

	if err := s.Save("tv_power", code.NewProtocolCommand("nec", 1, 32)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := s.Save("tv_mute", code.NewProtocolCommand("nec", 2, 32)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	removed, err := s.Delete("tv_power")
	if err != nil || !removed {
		t.Fatalf("Delete = (%v, %v), want removal", removed, err)
	}
	if _, err := s.Get("tv_power"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Get after delete = %v, want NOT_FOUND", err)
	}
	if n, _ := s.Count(); n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}

	removed, err = s.Delete("tv_power")
	if err != nil || removed {
		t.Errorf("second Delete = (%v, %v), want (false, nil)", removed, err)
	}
}

func TestDelete_LastEntryLeavesUsableStore(t *testing.T) {
	s, _ := newTestStore(t)

	if err := s.Save("only", code.NewProtocolCommand("nec", 1, 32)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if removed, err := s.Delete("only"); err != nil || !removed {
		t.Fatalf("Delete = (%v, %v)", removed, err)
	}

	if n, _ := s.Count(); n != 0 {
		t.Errorf("Count = %d, want 0", n)
	}
	if err := s.Save("again", code.NewProtocolCommand("nec", 2, 32)); err != nil {
		t.Errorf("Save after emptying failed: %v", err)
	}
}

// failingKV wraps a KV and fails Set for one key while failKey is set.
type failingKV struct {
	db.KV
	failKey string
}

func (f *failingKV) Set(key, value string) error {
	if f.failKey != "" && key == f.failKey {
		return fmt.Errorf("simulated write failure for %s", key)
	}
	return f.KV.Set(key, value)
}

func TestDelete_IndexWriteFailureIsRetryable(t *testing.T) {
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	kv := &failingKV{KV: db.NewKV(database, Namespace)}
	s := New(kv, config.DefaultConfig())

	if err := s.Save("a", code.NewProtocolCommand("nec", 1, 32)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := s.Save("b", code.NewProtocolCommand("nec", 2, 32)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	kv.failKey = indexKey
	removed, err := s.Delete("a")
	if removed || !errors.Is(err, errors.ErrBackendWriteFailed) {
		t.Fatalf("Delete = (%v, %v), want BACKEND_WRITE_FAILED", removed, err)
	}

	// The failed delete changed nothing: entry and index both intact,
	// so re-running the operation can still succeed.
	if _, err := s.Get("a"); err != nil {
		t.Errorf("Get after failed delete = %v, want entry intact", err)
	}
	if n, _ := s.Count(); n != 2 {
		t.Errorf("Count = %d, want 2", n)
	}

	kv.failKey = ""
	removed, err = s.Delete("a")
	if err != nil || !removed {
		t.Fatalf("retried Delete = (%v, %v), want removal", removed, err)
	}
	entries, err := s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "b" {
		t.Errorf("entries = %+v, want only b", entries)
	}
}

func TestDeleteAll(t *testing.T) {
	s, _ := newTestStore(t)

	for i := 0; i < 5; i++ {
		if err := s.Save(fmt.Sprintf("code%d", i), code.NewProtocolCommand("nec", uint64(i), 32)); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}
	if err := s.DeleteAll(); err != nil {
		t.Fatalf("DeleteAll failed: %v", err)
	}
	if n, _ := s.Count(); n != 0 {
		t.Errorf("Count = %d, want 0", n)
	}
	entries, err := s.List()
	if err != nil || len(entries) != 0 {
		t.Errorf("List = (%v, %v), want empty", entries, err)
	}
}

func TestRender_C(t *testing.T) {
	entries := []Entry{
		{Name: "tv_power", Command: code.NewProtocolCommand("nec", 0xA25050AD, 32)},
		{Name: "weird_ac", Command: code.NewRawCommand(code.PulseSequence{100, 200, 300})},
	}
	out, err := Render(entries, FormatC, time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(out, "#define TV_POWER 0xA25050AD") {
		t.Errorf("missing define:\n%s", out)
	}
	if !strings.Contains(out, "static const uint32_t WEIRD_AC[] = {100, 200, 300};") {
		t.Errorf("missing raw array:\n%s", out)
	}
}

func TestRender_CIdentifierCollision(t *testing.T) {
	entries := []Entry{
		{Name: "tv-power", Command: code.NewProtocolCommand("nec", 1, 32)},
		{Name: "tv power", Command: code.NewProtocolCommand("nec", 2, 32)},
		{Name: "9lives", Command: code.NewProtocolCommand("nec", 3, 32)},
	}
	out, err := Render(entries, FormatC, time.Now())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(out, "#define TV_POWER 0x1") || !strings.Contains(out, "#define TV_POWER_2 0x2") {
		t.Errorf("collision not deduplicated:\n%s", out)
	}
	if !strings.Contains(out, "#define IR_9LIVES 0x3") {
		t.Errorf("leading digit not prefixed:\n%s", out)
	}
}

func TestRender_HTML(t *testing.T) {
	entries := []Entry{
		{Name: "tv_power", Command: code.NewProtocolCommand("samsung", 0xE0E040BF, 32)},
	}
	out, err := Render(entries, FormatHTML, time.Now())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(out, "<h1") || !strings.Contains(out, "tv_power") {
		t.Errorf("unexpected html:\n%s", out)
	}
}

func TestRender_UnknownFormat(t *testing.T) {
	_, err := Render(nil, "yaml", time.Now())
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}
