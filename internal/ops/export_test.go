package ops

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hpungsan/irdeck/internal/errors"
)

func TestExport(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.Save(ctx, SaveInput{Name: "tv_power", Protocol: "nec", Value: 0xA25050AD, Bits: 32}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "codes.h")
	out, err := env.Export(ctx, ExportInput{Path: path})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if out.Count != 1 || out.Format != "c" {
		t.Errorf("out = %+v", out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), "#define TV_POWER 0xA25050AD") {
		t.Errorf("export content:\n%s", data)
	}
}

func TestExport_DefaultPathUnderBaseDir(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.Export(context.Background(), ExportInput{Format: "markdown"})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if !strings.HasPrefix(out.Path, filepath.Join(env.BaseDir, "exports")) {
		t.Errorf("path = %q, want under exports dir", out.Path)
	}
	if !strings.HasSuffix(out.Path, ".md") {
		t.Errorf("path = %q, want .md extension", out.Path)
	}
	if _, err := os.Stat(out.Path); err != nil {
		t.Errorf("export file missing: %v", err)
	}
}

func TestExport_UnknownFormat(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.Export(context.Background(), ExportInput{Format: "yaml"})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}
