package commands_test

import (
	"bytes"
	"context"
	"flag"
	"io"
	"runtime/debug"
	"strings"
	"testing"
	"time"

	"tasker/internal/commands"
	"tasker/internal/config"
	"tasker/internal/exitcode"
	"tasker/internal/logging"
	"tasker/internal/service"
	"tasker/internal/testutil"
	"tasker/internal/tracker"
)

var fixedNow = time.Date(2024, 1, 21, 9, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	restore := commands.SetNow(func() time.Time { return fixedNow })
	defer restore()
	m.Run()
}

// runCommand is a helper to run a command against a FakeBackend with a
// session already held. flags are parsed the way the dispatcher does.
func runCommand(t *testing.T, cmd commands.Command, fake *testutil.FakeBackend, flags []string, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()

	parseFlags(t, cmd, flags...)

	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{
		Dir:   t.TempDir(),
		Quiet: quiet,
	}

	var tr *tracker.Coordinator
	if fake != nil {
		tr = tracker.New(fake, logging.Discard())
		tr.Resume(service.Session{Token: "tok", User: service.User{ID: "1", Name: "Ash"}})
	}

	code = cmd.Run(context.Background(), cfg, tr, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func parseFlags(t *testing.T, cmd commands.Command, flags ...string) {
	t.Helper()
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cmd.RegisterFlags(fs)
	if err := fs.Parse(flags); err != nil {
		t.Fatalf("parse flags %v: %v", flags, err)
	}
}

// groceries returns a backend holding one overdue open task and one
// completed task.
func groceries() *testutil.FakeBackend {
	fake := testutil.NewFakeBackend()
	fake.AddTask(service.Task{ID: "1", Title: "Buy milk", Description: "2%", DueDate: "2024-01-10", Priority: service.PriorityHigh})
	fake.AddTask(service.Task{ID: "2", Title: "Buy eggs", Description: "a dozen", Priority: service.PriorityLow, Completed: true})
	return fake
}

// Tests for version command
func TestVersionCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.VersionCmd{}, nil, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "tasker 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

func TestVersionCommand_Verbose(t *testing.T) {
	restore := commands.SetBuildInfo(&debug.BuildInfo{
		GoVersion: "go1.24.0",
		Settings:  []debug.BuildSetting{{Key: "vcs.revision", Value: "abc123"}},
	})
	defer restore()

	tests := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{
			name: "rest",
			cfg:  config.Config{Dir: "/cfg", Backend: config.BackendREST, APIURL: "http://localhost:5000/api"},
			want: "tasker 0.1.0\ngo:       go1.24.0\nrevision: abc123\nbackend:  rest\napi:      http://localhost:5000/api\nconfig:   /cfg\n",
		},
		{
			name: "offline",
			cfg:  config.Config{Dir: "/cfg", Backend: config.BackendREST, Offline: true},
			want: "tasker 0.1.0\ngo:       go1.24.0\nrevision: abc123\nbackend:  offline\nconfig:   /cfg\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &commands.VersionCmd{}
			parseFlags(t, cmd, "--verbose")

			var out, errOut bytes.Buffer
			code := cmd.Run(context.Background(), &tt.cfg, nil, nil, &out, &errOut)

			if code != exitcode.Success {
				t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
			}
			if out.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, out.String())
			}
		})
	}
}

// Tests for help command
func TestHelpCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.HelpCmd{}, nil, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	for _, name := range []string{"Usage:", "tasker add", "tasker serve", "TASKER_API_URL"} {
		if !strings.Contains(stdout, name) {
			t.Errorf("help output should contain %q", name)
		}
	}
}

// Tests for list command
func TestListCommand(t *testing.T) {
	tests := []struct {
		name   string
		flags  []string
		quiet  bool
		stdout string
	}{
		{
			name: "all",
			stdout: "   1  [ ] high    2024-01-10  Buy milk (overdue)\n" +
				"   2  [x] low     -           Buy eggs\n" +
				"2 tasks, 1 completed, 1 pending (50%)\n",
		},
		{
			name:  "completed keeps full-list numbers",
			flags: []string{"--filter", "completed"},
			stdout: "   2  [x] low     -           Buy eggs\n" +
				"2 tasks, 1 completed, 1 pending (50%)\n",
		},
		{
			name:   "pending quiet",
			flags:  []string{"-f", "pending"},
			quiet:  true,
			stdout: "   1  [ ] high    2024-01-10  Buy milk (overdue)\n",
		},
		{
			name:  "long",
			flags: []string{"--long", "--filter", "pending"},
			stdout: "   1  [ ] high    2024-01-10  Buy milk (overdue)\n" +
				"      2%\n" +
				"2 tasks, 1 completed, 1 pending (50%)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, code := runCommand(t, &commands.ListCmd{}, groceries(), tt.flags, nil, tt.quiet)

			if code != exitcode.Success {
				t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
			}
			if stderr != "" {
				t.Errorf("expected no stderr, got %q", stderr)
			}
			if stdout != tt.stdout {
				t.Errorf("expected %q, got %q", tt.stdout, stdout)
			}
		})
	}
}

func TestListCommand_Empty(t *testing.T) {
	stdout, _, code := runCommand(t, &commands.ListCmd{}, testutil.NewFakeBackend(), nil, nil, false)
	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "no tasks found\n" {
		t.Errorf("expected %q, got %q", "no tasks found\n", stdout)
	}

	stdout, _, _ = runCommand(t, &commands.ListCmd{}, testutil.NewFakeBackend(), nil, nil, true)
	if stdout != "" {
		t.Errorf("expected no stdout in quiet mode, got %q", stdout)
	}
}

func TestListCommand_FilterMatchesNothing(t *testing.T) {
	fake := testutil.NewFakeBackend()
	fake.AddTask(service.Task{ID: "1", Title: "open", Description: "d"})

	stdout, _, code := runCommand(t, &commands.ListCmd{}, fake, []string{"--filter", "completed"}, nil, false)
	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "no tasks found\n" {
		t.Errorf("expected %q, got %q", "no tasks found\n", stdout)
	}
}

func TestListCommand_InvalidFilter(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.ListCmd{}, groceries(), []string{"--filter", "done"}, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: invalid filter: done (want all, pending or completed)\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestListCommand_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		stderr   string
	}{
		{
			name:     "remote",
			err:      &service.RemoteError{Status: 500, Message: "down"},
			wantCode: exitcode.BackendError,
			stderr:   "error: backend error: failed to fetch tasks: down (status 500)\n",
		},
		{
			name:     "auth",
			err:      &service.AuthError{Message: "Invalid token"},
			wantCode: exitcode.AuthError,
			stderr:   "error: failed to fetch tasks: authentication failed: Invalid token\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := groceries()
			fake.ListErr = tt.err

			stdout, stderr, code := runCommand(t, &commands.ListCmd{}, fake, nil, nil, false)

			if code != tt.wantCode {
				t.Errorf("expected exit code %d, got %d", tt.wantCode, code)
			}
			if stdout != "" {
				t.Errorf("expected no stdout, got %q", stdout)
			}
			if stderr != tt.stderr {
				t.Errorf("expected %q, got %q", tt.stderr, stderr)
			}
		})
	}
}

// Tests for add command
func TestAddCommand(t *testing.T) {
	fake := testutil.NewFakeBackend()
	flags := []string{"--desc", "before noon", "--due", "2024-02-01", "-p", "HIGH"}

	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, fake, flags, []string{"Buy", "milk"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}

	tasks := fake.Tasks()
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	want := service.Task{ID: "101", Title: "Buy milk", Description: "before noon", DueDate: "2024-02-01", Priority: service.PriorityHigh}
	if tasks[0] != want {
		t.Errorf("expected %+v, got %+v", want, tasks[0])
	}
	if fake.Tokens[0] != "tok" {
		t.Errorf("expected session token, got %q", fake.Tokens[0])
	}
}

func TestAddCommand_DefaultsAndQuiet(t *testing.T) {
	fake := testutil.NewFakeBackend()

	stdout, _, code := runCommand(t, &commands.AddCmd{}, fake, []string{"-d", "x"}, []string{"Walk"}, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout in quiet mode, got %q", stdout)
	}
	got := fake.Tasks()[0]
	if got.Priority != service.PriorityMedium || got.DueDate != "" || got.Completed {
		t.Errorf("unexpected defaults: %+v", got)
	}
}

func TestAddCommand_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		flags  []string
		args   []string
		stderr string
	}{
		{"no title", []string{"--desc", "d"}, nil, "error: title required\n"},
		{"blank title", []string{"--desc", "d"}, []string{"  "}, "error: title required\n"},
		{"no description", nil, []string{"t"}, "error: description required (--desc)\n"},
		{"bad due", []string{"--desc", "d", "--due", "tomorrow"}, []string{"t"}, "error: invalid due date: tomorrow (want YYYY-MM-DD)\n"},
		{"bad priority", []string{"--desc", "d", "--priority", "urgent"}, []string{"t"}, "error: invalid priority: urgent (want low, medium or high)\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := testutil.NewFakeBackend()

			_, stderr, code := runCommand(t, &commands.AddCmd{}, fake, tt.flags, tt.args, false)

			if code != exitcode.UserError {
				t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
			}
			if stderr != tt.stderr {
				t.Errorf("expected %q, got %q", tt.stderr, stderr)
			}
			if len(fake.Tokens) != 0 {
				t.Errorf("expected no backend calls, got %d", len(fake.Tokens))
			}
		})
	}
}

func TestAddCommand_BackendError(t *testing.T) {
	fake := testutil.NewFakeBackend()
	fake.CreateErr = &service.RemoteError{Status: 500, Message: "boom"}

	_, stderr, code := runCommand(t, &commands.AddCmd{}, fake, []string{"--desc", "d"}, []string{"t"}, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	expected := "error: backend error: add task: boom (status 500)\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

// Tests for edit command
func TestEditCommand(t *testing.T) {
	fake := groceries()

	_, stderr, code := runCommand(t, &commands.EditCmd{}, fake, []string{"--title", "Buy oat milk", "--due", "", "-p", "low"}, []string{"1"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	want := service.Task{ID: "1", Title: "Buy oat milk", Description: "2%", Priority: service.PriorityLow}
	if got := fake.Tasks()[0]; got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestEditCommand_KeepsCompletion(t *testing.T) {
	fake := groceries()

	_, _, code := runCommand(t, &commands.EditCmd{}, fake, []string{"--desc", "two dozen"}, []string{"2"}, true)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	got := fake.Tasks()[1]
	if !got.Completed || got.Description != "two dozen" || got.Title != "Buy eggs" {
		t.Errorf("unexpected record after edit: %+v", got)
	}
}

func TestEditCommand_Errors(t *testing.T) {
	tests := []struct {
		name     string
		flags    []string
		args     []string
		wantCode int
		stderr   string
	}{
		{"nothing to change", nil, []string{"1"}, exitcode.UserError, "error: nothing to change (use --title, --desc, --due or --priority)\n"},
		{"empty title", []string{"--title", " "}, []string{"1"}, exitcode.UserError, "error: title must not be empty\n"},
		{"out of range", []string{"--title", "x"}, []string{"3"}, exitcode.UserError, "error: task number out of range: 3\n"},
		{"missing ref", []string{"--title", "x"}, nil, exitcode.UserError, "error: task reference required\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, code := runCommand(t, &commands.EditCmd{}, groceries(), tt.flags, tt.args, false)
			if code != tt.wantCode {
				t.Errorf("expected exit code %d, got %d", tt.wantCode, code)
			}
			if stderr != tt.stderr {
				t.Errorf("expected %q, got %q", tt.stderr, stderr)
			}
		})
	}
}

func TestEditCommand_RemoteNotFound(t *testing.T) {
	fake := groceries()
	fake.UpdateErr = &service.NotFoundError{ID: "1"}

	_, stderr, code := runCommand(t, &commands.EditCmd{}, fake, []string{"--title", "x"}, []string{"1"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: edit task 1: task not found: 1\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

// Tests for done and toggle commands
func TestDoneCommand(t *testing.T) {
	fake := groceries()

	stdout, _, code := runCommand(t, &commands.DoneCmd{}, fake, nil, []string{"1"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	got := fake.Tasks()[0]
	want := service.Task{ID: "1", Title: "Buy milk", Description: "2%", DueDate: "2024-01-10", Priority: service.PriorityHigh, Completed: true}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestDoneCommand_AlreadyCompleted(t *testing.T) {
	fake := groceries()
	calls := len(fake.Tokens)

	stdout, _, code := runCommand(t, &commands.DoneCmd{}, fake, nil, []string{"2"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "already completed\n" {
		t.Errorf("expected 'already completed\\n', got %q", stdout)
	}
	if len(fake.Tokens) != calls+1 {
		t.Errorf("expected only the list call, got %d calls", len(fake.Tokens)-calls)
	}
}

func TestDoneCommand_BadRefs(t *testing.T) {
	tests := []struct {
		args   []string
		stderr string
	}{
		{nil, "error: task reference required\n"},
		{[]string{"abc"}, "error: invalid task reference: abc\n"},
		{[]string{"1", "2"}, "error: unexpected argument: 2\n"},
		{[]string{"0"}, "error: task number out of range: 0\n"},
		{[]string{"5"}, "error: task number out of range: 5\n"},
	}
	for _, tt := range tests {
		_, stderr, code := runCommand(t, &commands.DoneCmd{}, groceries(), nil, tt.args, false)
		if code != exitcode.UserError {
			t.Errorf("%v: expected exit code %d, got %d", tt.args, exitcode.UserError, code)
		}
		if stderr != tt.stderr {
			t.Errorf("%v: expected %q, got %q", tt.args, tt.stderr, stderr)
		}
	}
}

func TestToggleCommand(t *testing.T) {
	fake := groceries()

	stdout, _, code := runCommand(t, &commands.ToggleCmd{}, fake, nil, []string{"2"}, false)
	if code != exitcode.Success || stdout != "pending\n" {
		t.Errorf("first toggle: got code %d, output %q", code, stdout)
	}
	if fake.Tasks()[1].Completed {
		t.Error("task 2 should be pending")
	}

	stdout, _, code = runCommand(t, &commands.ToggleCmd{}, fake, nil, []string{"2"}, false)
	if code != exitcode.Success || stdout != "completed\n" {
		t.Errorf("second toggle: got code %d, output %q", code, stdout)
	}
	if !fake.Tasks()[1].Completed {
		t.Error("task 2 should be completed again")
	}
}

// Tests for rm command
func TestRmCommand(t *testing.T) {
	fake := groceries()

	stdout, stderr, code := runCommand(t, &commands.RmCmd{}, fake, nil, []string{"1"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "removed: Buy milk\n" {
		t.Errorf("expected 'removed: Buy milk\\n', got %q", stdout)
	}
	tasks := fake.Tasks()
	if len(tasks) != 1 || tasks[0].ID != "2" {
		t.Errorf("expected only task 2 left, got %+v", tasks)
	}
}

func TestRmCommand_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"gone", &service.NotFoundError{ID: "1"}, exitcode.UserError},
		{"expired", &service.AuthError{Message: "Invalid token"}, exitcode.AuthError},
		{"server", &service.RemoteError{Status: 503}, exitcode.BackendError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := groceries()
			fake.DeleteErr = tt.err

			_, _, code := runCommand(t, &commands.RmCmd{}, fake, nil, []string{"1"}, false)

			if code != tt.wantCode {
				t.Errorf("expected exit code %d, got %d", tt.wantCode, code)
			}
			if len(fake.Tasks()) != 2 {
				t.Error("no task should have been removed")
			}
		})
	}
}

// Tests for stats command
func TestStatsCommand(t *testing.T) {
	fake := groceries()
	fake.AddTask(service.Task{ID: "3", Title: "Buy bread", Description: "rye"})

	stdout, _, code := runCommand(t, &commands.StatsCmd{}, fake, nil, nil, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	expected := "total:      3\ncompleted:  1\npending:    2\ncompletion: 33%\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestStatsCommand_Empty(t *testing.T) {
	stdout, _, _ := runCommand(t, &commands.StatsCmd{}, testutil.NewFakeBackend(), nil, nil, false)

	expected := "total:      0\ncompleted:  0\npending:    0\ncompletion: 0%\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestRegistry(t *testing.T) {
	for _, name := range []string{"list", "ls", "add", "create", "edit", "done", "toggle", "rm", "delete", "stats", "login", "signup", "register", "logout", "serve", "help", "version"} {
		if _, ok := commands.DefaultRegistry.Find(name); !ok {
			t.Errorf("command %q not registered", name)
		}
	}

	r := commands.NewRegistry()
	if err := r.Register(&commands.AddCmd{}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.Register(&commands.AddCmd{}); err == nil {
		t.Error("expected duplicate registration to fail")
	}
	if got := len(r.All()); got != 1 {
		t.Errorf("expected 1 unique command, got %d", got)
	}
}

// stubCmd is a minimal Command for registry tests.
type stubCmd struct {
	name    string
	aliases []string
	auth    bool
}

func (c *stubCmd) Name() string                   { return c.name }
func (c *stubCmd) Aliases() []string              { return c.aliases }
func (c *stubCmd) Synopsis() string               { return "stub " + c.name }
func (c *stubCmd) Usage() string                  { return "tasker " + c.name }
func (c *stubCmd) NeedsAuth() bool                { return c.auth }
func (c *stubCmd) RegisterFlags(fs *flag.FlagSet) {}
func (c *stubCmd) Run(ctx context.Context, cfg *config.Config, tr *tracker.Coordinator, args []string, out, errOut io.Writer) int {
	return exitcode.Success
}

func TestRegistry_NameClashes(t *testing.T) {
	tests := []struct {
		name    string
		second  *stubCmd
		wantErr string
	}{
		{"alias takes existing name", &stubCmd{name: "remove", aliases: []string{"rm"}}, "command alias already registered: rm (used by rm)"},
		{"name takes existing alias", &stubCmd{name: "del"}, "command already registered: del"},
		{"alias repeats own name", &stubCmd{name: "x", aliases: []string{"x"}}, "command x lists x twice"},
		{"alias listed twice", &stubCmd{name: "y", aliases: []string{"z", "z"}}, "command y lists z twice"},
		{"empty name", &stubCmd{name: " "}, "command has no name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := commands.NewRegistry()
			if err := r.Register(&stubCmd{name: "rm", aliases: []string{"del"}}); err != nil {
				t.Fatalf("register: %v", err)
			}

			err := r.Register(tt.second)
			if err == nil {
				t.Fatal("expected registration to fail")
			}
			if err.Error() != tt.wantErr {
				t.Errorf("expected %q, got %q", tt.wantErr, err.Error())
			}
			if _, ok := r.Find(tt.second.name); ok && tt.second.name != "del" {
				t.Errorf("failed registration must not leave %q behind", tt.second.name)
			}
			if got := len(r.All()); got != 1 {
				t.Errorf("expected 1 command after failed registration, got %d", got)
			}
		})
	}
}

func TestRegistry_Sections(t *testing.T) {
	var titles []string
	names := make(map[string][]string)
	for _, sec := range commands.DefaultRegistry.Sections() {
		titles = append(titles, sec.Title)
		for _, cmd := range sec.Commands {
			names[sec.Title] = append(names[sec.Title], cmd.Name())
		}
	}

	wantTitles := []string{commands.SectionTasks, commands.SectionAccount, commands.SectionOther}
	if strings.Join(titles, ",") != strings.Join(wantTitles, ",") {
		t.Fatalf("expected sections %v, got %v", wantTitles, titles)
	}
	want := map[string]string{
		commands.SectionTasks:   "add,done,edit,list,rm,stats,toggle",
		commands.SectionAccount: "login,logout,signup",
		commands.SectionOther:   "help,serve,version",
	}
	for title, list := range want {
		if got := strings.Join(names[title], ","); got != list {
			t.Errorf("%s: expected %s, got %s", title, list, got)
		}
	}
}

func TestHelpCommand_ListsRegistry(t *testing.T) {
	r := commands.NewRegistry()
	for _, c := range []*stubCmd{{name: "zap", auth: true, aliases: []string{"z"}}, {name: "about"}} {
		if err := r.Register(c); err != nil {
			t.Fatal(err)
		}
	}

	stdout, _, code := runCommand(t, &commands.HelpCmd{Registry: r}, nil, nil, nil, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	wantLines := []string{
		"Tasks:",
		"  zap, z           stub zap",
		"                   tasker zap",
		"Other:",
		"  about            stub about",
	}
	for _, line := range wantLines {
		if !strings.Contains(stdout, line+"\n") {
			t.Errorf("help output should contain line %q, got:\n%s", line, stdout)
		}
	}
	if strings.Contains(stdout, "Account:") {
		t.Error("empty sections should be omitted")
	}
	if strings.Index(stdout, "Tasks:") > strings.Index(stdout, "Other:") {
		t.Error("Tasks should come before Other")
	}
}

func TestListCommand_LongGolden(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, groceries(), []string{"--long"}, nil, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	testutil.GoldenString(t, "list_long", stdout)
}

func TestStatsCommand_Golden(t *testing.T) {
	stdout, _, code := runCommand(t, &commands.StatsCmd{}, groceries(), nil, nil, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	testutil.GoldenString(t, "stats", stdout)
}
