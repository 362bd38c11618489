package commands

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Help sections, in the order help prints them.
const (
	SectionTasks   = "Tasks"
	SectionAccount = "Account"
	SectionOther   = "Other"
)

var sectionOrder = []string{SectionTasks, SectionAccount, SectionOther}

// sectioned is implemented by commands that pick their own help section.
// Others land in SectionTasks when they need a session and in
// SectionOther when they do not.
type sectioned interface {
	Section() string
}

// Section is a titled group of commands for help output.
type Section struct {
	Title    string
	Commands []Command
}

// Registry maps command names and aliases to commands. Names and aliases
// share one namespace.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Command
	cmds   []Command
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Command)}
}

// Register adds a command. It fails when the command has no name, when an
// alias repeats the command's own name or another alias, or when any of
// its names is already taken by another command's name or alias.
func (r *Registry) Register(c Command) error {
	name := c.Name()
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("command has no name")
	}

	keys := append([]string{name}, c.Aliases()...)
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if seen[k] {
			return fmt.Errorf("command %s lists %s twice", name, k)
		}
		seen[k] = true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i, k := range keys {
		other, exists := r.byName[k]
		if !exists {
			continue
		}
		if i == 0 {
			return fmt.Errorf("command already registered: %s", k)
		}
		return fmt.Errorf("command alias already registered: %s (used by %s)", k, other.Name())
	}

	for _, k := range keys {
		r.byName[k] = c
	}
	r.cmds = append(r.cmds, c)
	return nil
}

// Find looks up a command by name or alias.
func (r *Registry) Find(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.byName[name]
	return cmd, ok
}

// All returns the registered commands sorted by name.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Command, len(r.cmds))
	copy(out, r.cmds)
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Sections groups All by help section. Empty sections are omitted.
func (r *Registry) Sections() []Section {
	groups := make(map[string][]Command)
	for _, c := range r.All() {
		s := sectionOf(c)
		groups[s] = append(groups[s], c)
	}

	var out []Section
	for _, title := range sectionOrder {
		if cmds := groups[title]; len(cmds) > 0 {
			out = append(out, Section{Title: title, Commands: cmds})
		}
	}
	return out
}

func sectionOf(c Command) string {
	if s, ok := c.(sectioned); ok {
		return s.Section()
	}
	if c.NeedsAuth() {
		return SectionTasks
	}
	return SectionOther
}

// DefaultRegistry is the global command registry.
var DefaultRegistry = NewRegistry()

// Register adds a command to the default registry and panics on a name
// clash, which can only come from a programming error in an init func.
func Register(c Command) {
	if err := DefaultRegistry.Register(c); err != nil {
		panic(err)
	}
}
