package cli

import (
	"context"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"

	"github.com/matzehuels/svgbundle/pkg/buildinfo"
)

// Execute runs the svgbundle CLI and returns an error if any command fails.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// Interrupts cancel the command context; long-running commands (build
// --watch, serve) shut down cleanly.
func Execute(ctx context.Context) error {
	c := New(os.Stderr, LogInfo)
	return fang.Execute(ctx, c.RootCommand(),
		fang.WithVersion(buildinfo.Short()),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	)
}
