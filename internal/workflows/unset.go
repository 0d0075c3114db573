package workflows

import (
	"context"
	"slices"

	"github.com/PolarWolf314/envchain/internal/backend"
)

// UnsetOptions configures the unset workflow.
type UnsetOptions struct {
	Backend   backend.Backend
	Namespace string
	Names     []string
}

// UnsetResult contains the outcome of an unset operation.
type UnsetResult struct {
	Namespace string

	// Removed lists the names that were set before the call.
	Removed []string

	// Missing lists the names that were not set.
	Missing []string
}

// Unset removes names from a namespace. Names that are not set are reported
// in Missing rather than failing the call.
//
// Returns ErrNamespaceNotFound if the namespace has no entries.
func Unset(ctx context.Context, opts UnsetOptions) (*UnsetResult, error) {
	existing, err := opts.Backend.ListEntries(ctx, opts.Namespace)
	if err != nil {
		return nil, err
	}

	result := &UnsetResult{Namespace: opts.Namespace}
	for _, name := range opts.Names {
		if slices.Contains(existing, name) {
			if !slices.Contains(result.Removed, name) {
				result.Removed = append(result.Removed, name)
			}
		} else if !slices.Contains(result.Missing, name) {
			result.Missing = append(result.Missing, name)
		}
	}

	if err := opts.Backend.UnsetEntries(ctx, opts.Namespace, opts.Names); err != nil {
		return nil, err
	}
	return result, nil
}
