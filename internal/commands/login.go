package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"tasker/internal/backend/googletasks"
	"tasker/internal/config"
	"tasker/internal/exitcode"
	"tasker/internal/service"
	"tasker/internal/tracker"
)

func init() {
	Register(&LoginCmd{})
	Register(&SignupCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct {
	email    string
	password string
	google   bool
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Sign in" }
func (c *LoginCmd) Usage() string {
	return "tasker login --email <email> --password <password> | tasker login --google"
}
func (c *LoginCmd) NeedsAuth() bool { return false }
func (c *LoginCmd) Section() string { return SectionAccount }

// NeedsBackend implements BackendCommand. The Google flow talks to Google
// directly and needs no task backend.
func (c *LoginCmd) NeedsBackend(cfg *config.Config) bool {
	return !c.useGoogle(cfg)
}

func (c *LoginCmd) useGoogle(cfg *config.Config) bool {
	return c.google || cfg.Backend == config.BackendGoogle
}

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.email, "e", "", "")
	fs.StringVar(&c.password, "password", "", "")
	fs.BoolVar(&c.google, "google", false, "")
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, tr *tracker.Coordinator, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		return usageError(errOut, "unexpected argument: %s", args[0])
	}
	if c.useGoogle(cfg) {
		return c.runGoogle(ctx, cfg, out, errOut)
	}

	creds := service.Credentials{Email: strings.TrimSpace(c.email), Password: c.password}
	if creds.Email == "" || creds.Password == "" {
		return usageError(errOut, "--email and --password required")
	}

	sess, err := tr.Login(ctx, creds)
	if err != nil {
		return report(errOut, err)
	}
	return saveSession(cfg, sess, "logged in", out, errOut)
}

func (c *LoginCmd) runGoogle(ctx context.Context, cfg *config.Config, out, errOut io.Writer) int {
	if cfg.HasToken() && googletasks.TokenValid(ctx, cfg) {
		if !cfg.Quiet {
			fmt.Fprintln(out, "already logged in")
		}
		return exitcode.Success
	}

	if _, err := googletasks.Authorize(ctx, cfg, errOut); err != nil {
		if errors.Is(err, googletasks.ErrNoOAuthClient) {
			printOAuthSetup(cfg, errOut)
			return exitcode.AuthError
		}
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

func printOAuthSetup(cfg *config.Config, errOut io.Writer) {
	fmt.Fprintf(errOut, "error: oauth_client.json not found in %s\n\n", cfg.Dir)
	fmt.Fprintln(errOut, "To use Google Tasks as the backend, you need OAuth credentials:")
	fmt.Fprintln(errOut, "")
	fmt.Fprintln(errOut, "1. Go to https://console.cloud.google.com/apis/credentials")
	fmt.Fprintln(errOut, "2. Create a project (or select an existing one)")
	fmt.Fprintln(errOut, "3. Enable the Google Tasks API:")
	fmt.Fprintln(errOut, "   https://console.cloud.google.com/apis/library/tasks.googleapis.com")
	fmt.Fprintln(errOut, "4. Create OAuth 2.0 credentials:")
	fmt.Fprintln(errOut, "   - Click 'Create Credentials' > 'OAuth client ID'")
	fmt.Fprintln(errOut, "   - Choose 'Desktop app' as application type")
	fmt.Fprintln(errOut, "   - Download the JSON file")
	fmt.Fprintln(errOut, "5. Save it as:")
	fmt.Fprintf(errOut, "   %s/oauth_client.json\n", cfg.Dir)
	fmt.Fprintln(errOut, "")
	fmt.Fprintln(errOut, "Then run 'tasker login --google' again.")
}

// SignupCmd implements the signup command.
type SignupCmd struct {
	name     string
	email    string
	password string
}

func (c *SignupCmd) Name() string      { return "signup" }
func (c *SignupCmd) Aliases() []string { return []string{"register"} }
func (c *SignupCmd) Synopsis() string  { return "Create an account and sign in" }
func (c *SignupCmd) Usage() string {
	return "tasker signup --name <name> --email <email> --password <password>"
}
func (c *SignupCmd) NeedsAuth() bool { return false }
func (c *SignupCmd) Section() string { return SectionAccount }

// NeedsBackend implements BackendCommand.
func (c *SignupCmd) NeedsBackend(cfg *config.Config) bool { return true }

func (c *SignupCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.name, "name", "", "")
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.email, "e", "", "")
	fs.StringVar(&c.password, "password", "", "")
}

func (c *SignupCmd) Run(ctx context.Context, cfg *config.Config, tr *tracker.Coordinator, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		return usageError(errOut, "unexpected argument: %s", args[0])
	}
	req := service.SignupRequest{
		Name:     strings.TrimSpace(c.name),
		Email:    strings.TrimSpace(c.email),
		Password: c.password,
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return usageError(errOut, "--name, --email and --password required")
	}

	sess, err := tr.Signup(ctx, req)
	if err != nil {
		return report(errOut, err)
	}
	return saveSession(cfg, sess, "signed up", out, errOut)
}

// saveSession stores sess for later commands and reports who is signed in.
func saveSession(cfg *config.Config, sess service.Session, verb string, out, errOut io.Writer) int {
	if err := cfg.SaveSession(sess); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}
	if !cfg.Quiet {
		name := sess.User.Name
		if name == "" {
			name = sess.User.Email
		}
		if sess.Offline {
			fmt.Fprintf(out, "%s as %s (offline demo session)\n", verb, name)
		} else {
			fmt.Fprintf(out, "%s as %s\n", verb, name)
		}
	}
	return exitcode.Success
}
