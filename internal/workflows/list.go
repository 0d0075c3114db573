package workflows

import (
	"context"
	"maps"
	"slices"

	"github.com/PolarWolf314/envchain/internal/backend"
)

// ListOptions configures the list workflow.
type ListOptions struct {
	Backend backend.Backend

	// Namespace selects one namespace. Empty lists namespace names only.
	Namespace string

	// ShowValues includes values in the result.
	ShowValues bool
}

// Entry is one listed variable. Value is empty unless values were requested.
type Entry struct {
	Name  string
	Value string
}

// ListResult contains the outcome of a list operation.
type ListResult struct {
	// Namespaces is set when no namespace was selected.
	Namespaces []string

	// Entries is set when a namespace was selected, sorted by name.
	Entries []Entry
}

// List returns the namespace names, or the entries of one namespace.
//
// Returns ErrNamespaceNotFound if the selected namespace has no entries.
func List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	if opts.Namespace == "" {
		namespaces, err := opts.Backend.ListNamespaces(ctx)
		if err != nil {
			return nil, err
		}
		return &ListResult{Namespaces: namespaces}, nil
	}

	if !opts.ShowValues {
		names, err := opts.Backend.ListEntries(ctx, opts.Namespace)
		if err != nil {
			return nil, err
		}
		entries := make([]Entry, 0, len(names))
		for _, name := range names {
			entries = append(entries, Entry{Name: name})
		}
		return &ListResult{Entries: entries}, nil
	}

	values, err := opts.Backend.GetNamespace(ctx, opts.Namespace)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(values))
	for _, name := range slices.Sorted(maps.Keys(values)) {
		entries = append(entries, Entry{Name: name, Value: values[name]})
	}
	return &ListResult{Entries: entries}, nil
}
