package ops

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hpungsan/irdeck/internal/errors"
	"github.com/hpungsan/irdeck/internal/store"
)

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	Path   string // optional, default: <base>/exports/codes-<timestamp>.<ext>
	Format string // optional, default: "c"
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Path       string `json:"path"`
	Format     string `json:"format"`
	Count      int    `json:"count"`
	ExportedAt int64  `json:"exported_at"`
}

// Export writes stored codes as source-level constants. Corrupt entries
// are skipped by the listing, never fatal.
func (e *Env) Export(ctx context.Context, input ExportInput) (*ExportOutput, error) {
	now := time.Now()

	format := input.Format
	if format == "" {
		format = store.FormatC
	}

	entries, err := e.Store.List()
	if err != nil {
		return nil, err
	}
	rendered, err := store.Render(entries, format, now)
	if err != nil {
		return nil, err
	}

	path := input.Path
	if path == "" {
		path = filepath.Join(e.BaseDir, "exports",
			fmt.Sprintf("codes-%s.%s", now.Format("2006-01-02T150405"), exportExt(format)))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("create export directory: %w", err))
	}
	if err := os.WriteFile(path, []byte(rendered), 0600); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("write export file: %w", err))
	}

	return &ExportOutput{
		Path:       path,
		Format:     format,
		Count:      len(entries),
		ExportedAt: now.Unix(),
	}, nil
}

func exportExt(format string) string {
	switch format {
	case store.FormatMarkdown:
		return "md"
	case store.FormatHTML:
		return "html"
	default:
		return "h"
	}
}
