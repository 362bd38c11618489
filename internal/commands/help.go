package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"tasker/internal/config"
	"tasker/internal/exitcode"
	"tasker/internal/tracker"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command. It lists the commands of Registry,
// or of DefaultRegistry when Registry is nil.
type HelpCmd struct {
	Registry *Registry
}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "tasker help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, tr *tracker.Coordinator, args []string, out, errOut io.Writer) int {
	reg := c.Registry
	if reg == nil {
		reg = DefaultRegistry
	}
	writeHelp(out, reg)
	return exitcode.Success
}

// writeHelp prints one entry per command, grouped by section: the names
// and synopsis, then the usage line indented below.
func writeHelp(w io.Writer, reg *Registry) {
	fmt.Fprint(w, helpHeader)
	for _, sec := range reg.Sections() {
		fmt.Fprintf(w, "\n%s:\n", sec.Title)
		for _, cmd := range sec.Commands {
			names := strings.Join(append([]string{cmd.Name()}, cmd.Aliases()...), ", ")
			fmt.Fprintf(w, "  %-16s %s\n", names, cmd.Synopsis())
			fmt.Fprintf(w, "  %-16s %s\n", "", cmd.Usage())
		}
	}
	fmt.Fprint(w, helpFooter)
}

const helpHeader = `Usage:
  tasker <command> [common flags] [flags] [args]
  tasker                 Same as tasker list
`

const helpFooter = `
<n> is the task number shown by list.

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr

Environment:
  TASKER_API_URL      Backend base URL (default http://localhost:5000/api)
  TASKER_BACKEND      rest or google (default rest)
  TASKER_TIMEOUT      Request timeout, e.g. 10s or 10 (default 10s)
  TASKER_STRICT_AUTH  Refuse offline login when the backend is unreachable
  TASKER_OFFLINE      Work on local demo data without contacting a backend
  TASKER_SERVE_ADDR   Listen address for serve (default :5000)
`
