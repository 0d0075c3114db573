package secrets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	kerrors "github.com/PolarWolf314/envchain/internal/errors"
	logger "github.com/PolarWolf314/envchain/internal/logging"
)

// AgeStoreName is the backend name of the encrypted file store.
const AgeStoreName = "age"

type AgeStoreOptions struct {
	// Path of the encrypted secrets file.
	Path string
	// IdentityPath selects an explicit identity. Empty means the default
	// native identity of Identities.
	IdentityPath string
	Identities   *IdentityManager
	Logger       logger.Logger
}

// AgeStore keeps all namespaces in one age-encrypted file. Each operation
// loads the file, and mutating operations write it back whole.
type AgeStore struct {
	path         string
	identityPath string
	identities   *IdentityManager
	log          logger.Logger

	// rename is swapped in tests to simulate a crash mid-write.
	rename func(oldpath, newpath string) error

	mu       sync.Mutex
	identity *Identity
}

func NewAgeStore(opts AgeStoreOptions) *AgeStore {
	return &AgeStore{
		path:         opts.Path,
		identityPath: opts.IdentityPath,
		identities:   opts.Identities,
		log:          opts.Logger,
		rename:       os.Rename,
	}
}

func (s *AgeStore) Name() string { return AgeStoreName }

func (s *AgeStore) Path() string { return s.path }

// Identity resolves the store's identity on first call and caches it.
func (s *AgeStore) Identity() (*Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.identity != nil {
		return s.identity, nil
	}
	id, err := s.identities.Resolve(s.identityPath)
	if err != nil {
		return nil, err
	}
	s.identity = id
	return id, nil
}

// Load reads and decrypts the secrets file. A missing or empty file is an
// empty container and does not touch the identity.
func (s *AgeStore) Load(ctx context.Context) (*Container, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.log.Debugf("Secrets file %s does not exist yet", s.path)
			return NewContainer(), nil
		}
		return nil, fmt.Errorf("failed to read %s: %w: %w", s.path, kerrors.ErrIOFailure, err)
	}
	if len(data) == 0 {
		return NewContainer(), nil
	}

	id, err := s.Identity()
	if err != nil {
		return nil, err
	}

	c, err := DecodeContainer(data, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	s.log.Debugf("Loaded %d namespace(s) from %s", c.Len(), s.path)
	return c, nil
}

// Save encrypts c and atomically replaces the secrets file with it.
func (s *AgeStore) Save(ctx context.Context, c *Container) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	id, err := s.Identity()
	if err != nil {
		return err
	}

	ciphertext, err := EncodeContainer(c, id)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create %s: %w: %w", dir, kerrors.ErrIOFailure, err)
	}

	if err := replaceFile(ctx, s.path, ciphertext, 0600, s.rename); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("failed to write %s: %w: %w", s.path, kerrors.ErrIOFailure, err)
	}
	s.log.Debugf("Wrote %d namespace(s) to %s", c.Len(), s.path)
	return nil
}

func (s *AgeStore) GetNamespace(ctx context.Context, namespace string) (map[string]string, error) {
	c, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return c.Namespace(namespace)
}

// SetEntries inserts or overwrites entries in namespace.
func (s *AgeStore) SetEntries(ctx context.Context, namespace string, entries map[string]string) error {
	if err := validateEntries(namespace, entries); err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	c, err := s.Load(ctx)
	if err != nil {
		return err
	}
	for name, value := range entries {
		c.Set(namespace, name, value)
	}
	return s.Save(ctx, c)
}

// UnsetEntries removes names from namespace. Names that are not set are
// ignored, but the namespace itself must exist.
func (s *AgeStore) UnsetEntries(ctx context.Context, namespace string, names []string) error {
	c, err := s.Load(ctx)
	if err != nil {
		return err
	}
	if !c.Has(namespace) {
		return fmt.Errorf("namespace %q: %w", namespace, kerrors.ErrNamespaceNotFound)
	}

	for _, name := range names {
		c.Unset(namespace, name)
	}
	return s.Save(ctx, c)
}

func (s *AgeStore) ListNamespaces(ctx context.Context) ([]string, error) {
	c, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return c.Namespaces(), nil
}

func (s *AgeStore) ListEntries(ctx context.Context, namespace string) ([]string, error) {
	c, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return c.Entries(namespace)
}

func validateEntries(namespace string, entries map[string]string) error {
	if namespace == "" {
		return fmt.Errorf("namespace must not be empty: %w", kerrors.ErrInvalidNamespace)
	}
	for name := range entries {
		if name == "" {
			return fmt.Errorf("%s: variable name must not be empty: %w", namespace, kerrors.ErrInvalidEntry)
		}
	}
	return nil
}
