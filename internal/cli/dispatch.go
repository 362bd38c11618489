package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"tasker/internal/commands"
	"tasker/internal/config"
	"tasker/internal/exitcode"
	"tasker/internal/logging"
	"tasker/internal/service"
	"tasker/internal/tracker"
)

// BackendFactory creates the Backend commands talk to.
// Used to inject the backend during dispatch.
type BackendFactory func(ctx context.Context, cfg *config.Config, log *slog.Logger) (service.Backend, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  BackendFactory
}

// NewDispatcher creates a new dispatcher with the given registry and backend
// factory. A nil factory uses NewBackend.
func NewDispatcher(registry *commands.Registry, factory BackendFactory) *Dispatcher {
	if factory == nil {
		factory = NewBackend
	}
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> dispatch to "list" command with no args
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, out, errOut)
	}

	cmdName := args[0]

	// If first token starts with -, it's an error (flags require a command)
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatch(ctx, cmdName, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	// Create flag set with custom error handling
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir string
	var quiet bool
	var debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	// Register command-specific flags
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		return flagError(errOut, err)
	}

	// Check if first positional arg starts with - (should have been parsed as flag)
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug
	log := logging.New(errOut, debug)

	needsBackend := cmd.NeedsAuth()
	if bc, ok := cmd.(commands.BackendCommand); ok && bc.NeedsBackend(cfg) {
		needsBackend = true
	}

	var tr *tracker.Coordinator
	if needsBackend {
		var sess service.Session
		if cmd.NeedsAuth() {
			sess, err = storedSession(cfg)
			if err != nil {
				fmt.Fprintf(errOut, "error: %v\n", err)
				return exitcode.AuthError
			}
		}

		backend, err := d.factory(ctx, cfg, log)
		if err != nil {
			if service.IsAuth(err) {
				fmt.Fprintf(errOut, "error: %v\n", err)
				return exitcode.AuthError
			}
			fmt.Fprintf(errOut, "error: backend error: %v\n", err)
			return exitcode.BackendError
		}

		tr = tracker.New(backend, log)
		if cmd.NeedsAuth() {
			tr.Resume(sess)
		}
		log.Debug("dispatch", "command", cmd.Name(), "backend", cfg.Backend, "offline", cfg.Offline)
	}

	return cmd.Run(ctx, cfg, tr, positionalArgs, out, errOut)
}

// storedSession returns the session a command runs under. The Google
// backend authenticates with its own OAuth token instead.
func storedSession(cfg *config.Config) (service.Session, error) {
	if cfg.Backend == config.BackendGoogle && !cfg.Offline {
		if !cfg.HasOAuthClient() {
			return service.Session{}, fmt.Errorf("oauth_client.json not found in %s", cfg.Dir)
		}
		if !cfg.HasToken() {
			return service.Session{}, fmt.Errorf("not logged in (run: tasker login --google)")
		}
		return service.Session{User: service.User{Name: "Google account"}}, nil
	}

	sess, ok, err := cfg.LoadSession()
	if err != nil {
		return service.Session{}, err
	}
	if !ok {
		return service.Session{}, fmt.Errorf("not logged in (run: tasker login)")
	}
	return sess, nil
}

// flagError reports a flag parse failure.
func flagError(errOut io.Writer, err error) int {
	errStr := err.Error()

	// Check for missing flag value
	if strings.Contains(errStr, "needs a value") || strings.Contains(errStr, "flag needs an argument") {
		parts := strings.Split(errStr, ":")
		if len(parts) > 0 {
			flagPart := strings.TrimSpace(parts[len(parts)-1])
			fmt.Fprintf(errOut, "error: flag needs an argument: %s\n", flagPart)
			return exitcode.UserError
		}
	}

	// Check for unknown flag
	if strings.HasPrefix(errStr, "flag provided but not defined:") {
		flagName := strings.TrimPrefix(errStr, "flag provided but not defined: ")
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", flagName)
		return exitcode.UserError
	}

	fmt.Fprintf(errOut, "error: %s\n", errStr)
	return exitcode.UserError
}
