package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tasker/internal/config"
	"tasker/internal/devserver"
	"tasker/internal/exitcode"
	"tasker/internal/logging"
	"tasker/internal/tracker"
)

func init() {
	Register(&ServeCmd{})
}

// ServeCmd implements the serve command.
type ServeCmd struct {
	addr string
}

func (c *ServeCmd) Name() string      { return "serve" }
func (c *ServeCmd) Aliases() []string { return nil }
func (c *ServeCmd) Synopsis() string  { return "Run the in-memory development backend" }
func (c *ServeCmd) Usage() string     { return "tasker serve [--addr <host:port>]" }
func (c *ServeCmd) NeedsAuth() bool   { return false }

func (c *ServeCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.addr, "addr", "", "")
}

func (c *ServeCmd) Run(ctx context.Context, cfg *config.Config, tr *tracker.Coordinator, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		return usageError(errOut, "unexpected argument: %s", args[0])
	}
	addr := c.addr
	if addr == "" {
		addr = cfg.ServeAddr
	}

	srv := devserver.New(devserver.Options{
		Logger: logging.New(errOut, cfg.Debug),
		Quiet:  cfg.Quiet,
	})
	if !cfg.Quiet {
		fmt.Fprintf(errOut, "serving on %s (api at /api)\n", addr)
	}
	if err := srv.Run(ctx, addr); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
