// Package ops implements the operation layer shared by the MCP tools and
// the CLI. Each operation takes a typed input and returns a typed output;
// all validation and error mapping happens here so both surfaces behave
// identically.
package ops

import (
	"time"

	"github.com/hpungsan/irdeck/internal/capture"
	"github.com/hpungsan/irdeck/internal/config"
	"github.com/hpungsan/irdeck/internal/errors"
	"github.com/hpungsan/irdeck/internal/learn"
	"github.com/hpungsan/irdeck/internal/store"
)

// Learn timeout bounds (seconds).
const (
	MinLearnTimeoutSec = 1
	MaxLearnTimeoutSec = 60
)

// Env bundles the collaborators every operation runs against.
type Env struct {
	Store       *store.Store
	Receiver    *learn.Receiver
	Transmitter capture.Transmitter
	// Gate is the contended peripheral handed off during learning.
	// Optional; capture.NopGate when there is nothing to yield.
	Gate    capture.Gate
	Config  *config.Config
	BaseDir string
}

func (e *Env) gate() capture.Gate {
	if e.Gate == nil {
		return capture.NopGate{}
	}
	return e.Gate
}

// resolveTimeout validates a learn timeout, applying the configured
// default when the caller passes zero.
func resolveTimeout(cfg *config.Config, seconds int) (time.Duration, error) {
	if seconds == 0 {
		seconds = cfg.LearnTimeoutSec
	}
	if seconds < MinLearnTimeoutSec || seconds > MaxLearnTimeoutSec {
		return 0, errors.NewInvalidRequest(
			"timeout_sec must be between 1 and 60")
	}
	return time.Duration(seconds) * time.Second, nil
}
