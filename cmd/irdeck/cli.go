package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/irdeck/internal/capture"
	"github.com/hpungsan/irdeck/internal/code"
	"github.com/hpungsan/irdeck/internal/errors"
	"github.com/hpungsan/irdeck/internal/ops"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(env *ops.Env, backend *capture.ReplayBackend) *cli.App {
	app := &cli.App{
		Name:    "irdeck",
		Usage:   "IR remote learning and replay",
		Version: Version,
		Commands: []*cli.Command{
			learnCmd(env, backend),
			saveCmd(env),
			listCmd(env),
			deleteCmd(env),
			purgeCmd(env),
			sendCmd(env),
			exportCmd(env),
			statusCmd(env),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// learnCmd creates the learn command.
func learnCmd(env *ops.Env, backend *capture.ReplayBackend) *cli.Command {
	return &cli.Command{
		Name:  "learn",
		Usage: "Capture one IR command (or run continuously with --continuous)",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "timeout", Aliases: []string{"t"}, Usage: "Seconds to wait for a signal (1-60, default from config)"},
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Save the learned code under this name"},
			&cli.BoolFlag{Name: "save", Aliases: []string{"s"}, Usage: "Save under an auto-generated name"},
			&cli.StringFlag{Name: "from", Usage: "Replay a pulse recording file into the capture backend"},
			&cli.BoolFlag{Name: "continuous", Usage: "Keep learning and auto-saving until interrupted"},
		},
		Action: func(c *cli.Context) error {
			if c.Bool("continuous") {
				return runContinuousLearn(env)
			}

			if from := c.String("from"); from != "" {
				go func() {
					// Let the session arm before the recording lands.
					time.Sleep(100 * time.Millisecond)
					if err := backend.PushFile(from); err != nil {
						fmt.Fprintf(os.Stderr, "warning: %v\n", err)
					}
				}()
			}

			output, err := env.Learn(context.Background(), ops.LearnInput{
				TimeoutSec: c.Int("timeout"),
				Name:       c.String("name"),
				Save:       c.Bool("save"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// runContinuousLearn starts a continuous session and blocks until
// interrupt, then stops it.
func runContinuousLearn(env *ops.Env) error {
	started, err := env.LearnStart(context.Background())
	if err != nil {
		return outputError(err)
	}
	fmt.Fprintf(os.Stderr, "%s (ctrl-c to stop)\n", started.Message)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	<-sig

	stopped, err := env.LearnStop(context.Background())
	if err != nil {
		return outputError(err)
	}
	return outputJSON(stopped)
}

// saveCmd creates the save command.
func saveCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "save",
		Usage: "Store a named code from protocol/value/bits or raw pulses",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Code name (auto-generated when omitted)"},
			&cli.StringFlag{Name: "protocol", Aliases: []string{"p"}, Required: true, Usage: "Protocol name or \"raw\""},
			&cli.Uint64Flag{Name: "value", Usage: "Decoded code value"},
			&cli.UintFlag{Name: "bits", Usage: "Bit count 1-64 (default 32)"},
			&cli.StringFlag{Name: "pulses", Usage: "Space-separated microsecond durations (raw codes)"},
			&cli.StringFlag{Name: "pulses-file", Usage: "Pulse recording file (raw codes)"},
		},
		Action: func(c *cli.Context) error {
			input := ops.SaveInput{
				Name:     c.String("name"),
				Protocol: c.String("protocol"),
				Value:    c.Uint64("value"),
				Bits:     uint16(c.Uint("bits")),
			}

			if raw := c.String("pulses"); raw != "" {
				pulses, err := code.ParsePulses(raw)
				if err != nil {
					return outputError(errors.NewInvalidRequest(err.Error()))
				}
				input.Pulses = pulses
			} else if path := c.String("pulses-file"); path != "" {
				data, err := os.ReadFile(path)
				if err != nil {
					return outputError(errors.NewInvalidRequest(err.Error()))
				}
				pulses, err := code.ParsePulses(string(data))
				if err != nil {
					return outputError(errors.NewInvalidRequest(err.Error()))
				}
				input.Pulses = pulses
			}

			output, err := env.Save(context.Background(), input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List stored codes in saved order",
		Action: func(c *cli.Context) error {
			output, err := env.List(context.Background())
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete one stored code",
		ArgsUsage: "<name>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("usage: irdeck delete <name>"))
			}
			output, err := env.Delete(context.Background(), ops.DeleteInput{Name: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// purgeCmd creates the purge command.
func purgeCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "purge",
		Usage: "Delete every stored code",
		Action: func(c *cli.Context) error {
			output, err := env.Purge(context.Background())
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// sendCmd creates the send command.
func sendCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "send",
		Usage:     "Transmit a stored code",
		ArgsUsage: "<name>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("usage: irdeck send <name>"))
			}
			output, err := env.Send(context.Background(), ops.SendInput{Name: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export stored codes as source-level constants",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Output file path (default: under the exports directory)"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "Export format: c (default), markdown, html"},
		},
		Action: func(c *cli.Context) error {
			output, err := env.Export(context.Background(), ops.ExportInput{
				Path:   c.String("path"),
				Format: c.String("format"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// statusCmd creates the status command.
func statusCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show learning state and store occupancy",
		Action: func(c *cli.Context) error {
			output, err := env.Status(context.Background())
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if irErr, ok := err.(*errors.IRError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", irErr.Code, irErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
