package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"runtime/debug"

	"tasker/internal/config"
	"tasker/internal/exitcode"
	"tasker/internal/tracker"
)

// Version is the application version. Set at build time with
// -ldflags "-X tasker/internal/commands.Version=...".
var Version = "0.1.0"

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

func init() {
	Register(&VersionCmd{})
}

// VersionCmd implements the version command. With --verbose it also
// shows the build and the backend the current environment selects.
type VersionCmd struct {
	verbose bool
}

func (c *VersionCmd) Name() string      { return "version" }
func (c *VersionCmd) Aliases() []string { return nil }
func (c *VersionCmd) Synopsis() string  { return "Print version" }
func (c *VersionCmd) Usage() string     { return "tasker version [--verbose]" }
func (c *VersionCmd) NeedsAuth() bool   { return false }

func (c *VersionCmd) RegisterFlags(fs *flag.FlagSet) {
	c.verbose = false
	fs.BoolVar(&c.verbose, "verbose", false, "")
	fs.BoolVar(&c.verbose, "v", false, "")
}

func (c *VersionCmd) Run(ctx context.Context, cfg *config.Config, tr *tracker.Coordinator, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		return usageError(errOut, "unexpected argument: %s", args[0])
	}
	fmt.Fprintf(out, "tasker %s\n", Version)
	if !c.verbose {
		return exitcode.Success
	}

	if info, ok := readBuildInfo(); ok {
		fmt.Fprintf(out, "go:       %s\n", info.GoVersion)
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				fmt.Fprintf(out, "revision: %s\n", s.Value)
			}
		}
	}
	backend := cfg.Backend
	if cfg.Offline {
		backend = "offline"
	}
	fmt.Fprintf(out, "backend:  %s\n", backend)
	if backend == config.BackendREST {
		fmt.Fprintf(out, "api:      %s\n", cfg.APIURL)
	}
	fmt.Fprintf(out, "config:   %s\n", cfg.Dir)
	return exitcode.Success
}
