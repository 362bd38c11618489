// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"tasker/internal/config"
	"tasker/internal/tracker"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsAuth returns true if the command requires a stored session.
	// Commands like help, version, login, logout return false.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided (config dir, paths, environment).
	// tr is nil unless NeedsAuth returns true or the command implements
	// BackendCommand and asks for a backend. When NeedsAuth is true the
	// stored session has already been resumed.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, tr *tracker.Coordinator, args []string, out, errOut io.Writer) int
}

// BackendCommand is implemented by commands that talk to the backend
// without a stored session (login, signup). NeedsBackend is called after
// flags are parsed.
type BackendCommand interface {
	Command
	NeedsBackend(cfg *config.Config) bool
}
