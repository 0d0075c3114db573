package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/envchain/internal/backend"
)

// MigrateOptions configures the migrate workflow.
type MigrateOptions struct {
	From backend.Backend
	To   backend.Backend

	// Namespaces limits the copy. Empty copies every namespace of From.
	Namespaces []string

	// DryRun reports what would be copied without writing.
	DryRun bool
}

// MigratedNamespace describes one copied namespace.
type MigratedNamespace struct {
	Name    string
	Entries int
}

// MigrateResult contains the outcome of a migrate operation.
type MigrateResult struct {
	Namespaces []MigratedNamespace
	DryRun     bool
}

// Entries returns the total number of copied variables.
func (r *MigrateResult) Entries() int {
	total := 0
	for _, ns := range r.Namespaces {
		total += ns.Entries
	}
	return total
}

// Migrate copies namespaces from one backend to another. Existing variables
// in the target are overwritten; variables only present in the target are
// kept. The source is never modified.
//
// Returns ErrNamespaceNotFound if a requested namespace is absent in From.
func Migrate(ctx context.Context, opts MigrateOptions) (*MigrateResult, error) {
	namespaces := opts.Namespaces
	if len(namespaces) == 0 {
		var err error
		namespaces, err = opts.From.ListNamespaces(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing %s namespaces: %w", opts.From.Name(), err)
		}
	}

	result := &MigrateResult{DryRun: opts.DryRun}
	for _, ns := range namespaces {
		entries, err := opts.From.GetNamespace(ctx, ns)
		if err != nil {
			return nil, fmt.Errorf("reading '%s' from %s: %w", ns, opts.From.Name(), err)
		}

		if !opts.DryRun {
			if err := opts.To.SetEntries(ctx, ns, entries); err != nil {
				return nil, fmt.Errorf("writing '%s' to %s: %w", ns, opts.To.Name(), err)
			}
		}
		result.Namespaces = append(result.Namespaces, MigratedNamespace{Name: ns, Entries: len(entries)})
	}

	return result, nil
}
