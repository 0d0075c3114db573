package workflows

import (
	"os"

	"github.com/PolarWolf314/envchain/internal/secrets"
)

// IdentityOptions configures the identity workflow.
type IdentityOptions struct {
	Store *secrets.AgeStore
}

// IdentityResult describes the identity of the age store.
type IdentityResult struct {
	Kind        secrets.IdentityKind
	Path        string
	PublicKey   string
	SecretsPath string

	// SecretsExist reports whether the secrets file has been written yet.
	SecretsExist bool
}

// Identity resolves the identity of the age store, creating the default
// native identity if there is none yet.
func Identity(opts IdentityOptions) (*IdentityResult, error) {
	id, err := opts.Store.Identity()
	if err != nil {
		return nil, err
	}

	_, statErr := os.Stat(opts.Store.Path())
	return &IdentityResult{
		Kind:         id.Kind(),
		Path:         id.Path(),
		PublicKey:    id.PublicKey(),
		SecretsPath:  opts.Store.Path(),
		SecretsExist: statErr == nil,
	}, nil
}
