// Package cli parses flags and drives one switch or restore operation end
// to end: connect, settle, pick targets, apply.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"wlrmode/internal/apply"
	"wlrmode/internal/client"
	"wlrmode/internal/config"
	"wlrmode/internal/statefile"
	"wlrmode/internal/track"
)

type operation string

const (
	opFullscreen operation = "fullscreen"
	opRestore    operation = "restore"
)

// Session is the slice of the Wayland session the runner drives.
type Session interface {
	apply.Conn
	Close() error
}

// ConnectFunc dials the compositor and wires events into the tracker.
type ConnectFunc func(config.Config, *track.Tracker) (Session, error)

type Runner struct {
	connect ConnectFunc
	out     io.Writer
	errOut  io.Writer
}

func NewRunner(out, errOut io.Writer) *Runner {
	return NewRunnerWithConnect(func(cfg config.Config, tracker *track.Tracker) (Session, error) {
		return client.Connect(cfg, tracker)
	}, out, errOut)
}

func NewRunnerWithConnect(connect ConnectFunc, out, errOut io.Writer) *Runner {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return &Runner{connect: connect, out: out, errOut: errOut}
}

// Run executes one invocation and returns the process exit code: 0 on a
// confirmed apply, 1 on any failure. Usage errors never touch the
// connection.
func (r *Runner) Run(ctx context.Context, args []string) int {
	op, cfg, err := parseArgs(args)
	if err != nil {
		_, _ = fmt.Fprintf(r.errOut, "wlrmode: %v\n", err)
		r.printUsage()
		return 1
	}

	tracker := track.New()
	sess, err := r.connect(cfg, tracker)
	if err != nil {
		r.logErr(err)
		return 1
	}
	defer sess.Close() //nolint:errcheck

	if err := awaitReady(ctx, sess, tracker); err != nil {
		r.logErr(err)
		return 1
	}

	switch op {
	case opFullscreen:
		return r.runFullscreen(cfg, sess, tracker)
	case opRestore:
		return r.runRestore(cfg, sess, tracker)
	}
	return 1
}

func parseArgs(args []string) (operation, config.Config, error) {
	cfg := config.DefaultConfig()

	fs := flag.NewFlagSet("wlrmode", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fullscreen := fs.Bool("fullscreen", false, "switch outputs to preferred/max modes")
	restore := fs.Bool("restore", false, "restore modes from --state-file")
	fs.StringVar(&cfg.StateFile, "state-file", cfg.StateFile, "file used to save/restore modes")
	fs.StringVar(&cfg.Display, "display", cfg.Display, "wayland display to connect to")
	if err := fs.Parse(args); err != nil {
		return "", cfg, err
	}
	if fs.NArg() > 0 {
		return "", cfg, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	if *fullscreen == *restore {
		return "", cfg, fmt.Errorf("exactly one of --fullscreen or --restore is required")
	}
	if *restore {
		if cfg.StateFile == "" {
			return "", cfg, fmt.Errorf("--restore requires --state-file")
		}
		return opRestore, cfg, nil
	}
	return opFullscreen, cfg, nil
}

// awaitReady drives roundtrips until the initial enumeration has settled and
// no event has touched the registries since the last done. Submitting with
// anything but the freshest serial is a fatal protocol violation
// server-side, so this never short-cuts.
func awaitReady(ctx context.Context, sess Session, tracker *track.Tracker) error {
	for {
		if tracker.Terminated() {
			return track.ErrTerminated
		}
		if tracker.Ready() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := sess.Roundtrip(); err != nil {
			return fmt.Errorf("wayland roundtrip: %w", err)
		}
	}
}

func (r *Runner) runFullscreen(cfg config.Config, sess Session, tracker *track.Tracker) int {
	if cfg.StateFile != "" {
		// Saving and applying are independent: a failed save is reported
		// but the switch still happens.
		if err := statefile.Save(cfg.StateFile, tracker.State().Heads); err != nil {
			r.logErr(err)
		}
	}
	if _, err := apply.Run(sess, tracker.State().Heads, tracker.Serial(), apply.Fullscreen()); err != nil {
		r.logErr(err)
		return 1
	}
	return 0
}

func (r *Runner) runRestore(cfg config.Config, sess Session, tracker *track.Tracker) int {
	entries, err := statefile.Load(cfg.StateFile)
	if err != nil {
		r.logErr(err)
		return 1
	}
	if len(entries) == 0 {
		_, _ = fmt.Fprintf(r.errOut, "wlrmode: no state entries found in %s\n", cfg.StateFile)
		return 1
	}
	if _, err := apply.Run(sess, tracker.State().Heads, tracker.Serial(), apply.Restore(entries)); err != nil {
		r.logErr(err)
		return 1
	}
	return 0
}

func (r *Runner) printUsage() {
	_, _ = fmt.Fprint(r.errOut, `Usage: wlrmode --fullscreen|--restore [options]
Options:
  --fullscreen         switch outputs to preferred/max modes
  --restore            restore modes from --state-file
  --state-file <path>  file used to save/restore modes
  --display <name>     wayland display to connect to
`)
}

func (r *Runner) logErr(err error) {
	_, _ = fmt.Fprintf(r.errOut, "wlrmode: %v\n", err)
}
