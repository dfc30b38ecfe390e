// wlrmode switches Wayland outputs to their best fullscreen modes and
// restores previously saved modes, via zwlr_output_manager_v1.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"wlrmode/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	runner := cli.NewRunner(os.Stdout, os.Stderr)
	os.Exit(runner.Run(ctx, os.Args[1:]))
}
