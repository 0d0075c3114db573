package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/envchain/internal/backend"
)

// PromptFunc asks for the value of one variable. label is "namespace.NAME".
type PromptFunc func(label string, noecho bool) (string, error)

// SetOptions configures the set workflow.
type SetOptions struct {
	Backend backend.Backend

	Namespace string

	// Names are the variables to prompt for, in order. Repeated names are
	// prompted once.
	Names []string

	// NoEcho hides typed values when reading from a terminal.
	NoEcho bool

	Prompt PromptFunc
}

// SetResult contains the outcome of a set operation.
type SetResult struct {
	Namespace string
	Names     []string
}

// Set prompts for every name and stores all values in one backend write.
// Nothing is stored if any prompt fails.
//
// Returns ErrInvalidNamespace or ErrInvalidEntry for names that cannot be
// exported to a process environment.
func Set(ctx context.Context, opts SetOptions) (*SetResult, error) {
	if err := validateNamespace(opts.Namespace); err != nil {
		return nil, err
	}

	var names []string
	seen := make(map[string]bool)
	for _, name := range opts.Names {
		if err := validateName(name); err != nil {
			return nil, err
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	entries := make(map[string]string, len(names))
	for _, name := range names {
		value, err := opts.Prompt(opts.Namespace+"."+name, opts.NoEcho)
		if err != nil {
			return nil, fmt.Errorf("reading %s.%s: %w", opts.Namespace, name, err)
		}
		entries[name] = value
	}

	if err := opts.Backend.SetEntries(ctx, opts.Namespace, entries); err != nil {
		return nil, err
	}

	return &SetResult{Namespace: opts.Namespace, Names: names}, nil
}
