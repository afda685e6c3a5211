package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hpungsan/irdeck/internal/capture"
	"github.com/hpungsan/irdeck/internal/config"
	"github.com/hpungsan/irdeck/internal/db"
	"github.com/hpungsan/irdeck/internal/learn"
	"github.com/hpungsan/irdeck/internal/mcp"
	"github.com/hpungsan/irdeck/internal/ops"
	"github.com/hpungsan/irdeck/internal/store"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"learn": true, "save": true, "list": true, "delete": true,
	"purge": true, "send": true, "export": true, "status": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	// Known subcommand → CLI
	if cliCommands[arg] {
		return true
	}
	// --help or --version → CLI
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false // Default → MCP server
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
   _         __        __
  (_)______/ /__ ____/ /__
 / / __/ _  / -_) __/  '_/
/_/_/  \_,_/\__/\__/_/\_\

  IR remote learning and replay

  Usage: irdeck <command> [options]
         irdeck --help

  MCP server mode requires piped input.`)
}

// newEnv wires the operation environment: database, code store, capture
// backend, receiver and transmitter.
func newEnv(baseDir string, cfg *config.Config) (*ops.Env, *capture.ReplayBackend, func(), error) {
	database, err := db.Init(baseDir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("initialize database: %w", err)
	}

	backend := capture.NewReplayBackend()
	backend.MaxPulses = cfg.CaptureBufferPulses
	backend.IdleThresholdMs = cfg.IdleThresholdMs
	receiver := learn.New(backend, cfg)

	env := &ops.Env{
		Store:       store.New(db.NewKV(database, store.Namespace), cfg),
		Receiver:    receiver,
		Transmitter: &capture.FileTransmitter{Path: filepath.Join(baseDir, "transmit.pulses")},
		Gate:        capture.NopGate{},
		Config:      cfg,
		BaseDir:     baseDir,
	}
	cleanup := func() {
		receiver.Close()
		database.Close()
	}
	return env, backend, cleanup, nil
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before DB init (no DB needed)
	if isHelpOrVersion() {
		app := newCLIApp(nil, nil)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine home directory: %v\n", err)
		os.Exit(1)
	}

	baseDir := filepath.Join(homeDir, ".irdeck")

	cfg, err := config.Load(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	env, backend, cleanup, err := newEnv(baseDir, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	// CLI mode: known subcommand
	if isCLIMode() {
		app := newCLIApp(env, backend)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'irdeck --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default)
	if err := mcp.Run(env, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
