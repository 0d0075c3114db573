package backend

import (
	"context"
	"fmt"
	"strings"

	kerrors "github.com/PolarWolf314/envchain/internal/errors"
	"github.com/PolarWolf314/envchain/internal/secrets"
)

// Backend stores namespaced secrets. Listings are sorted. Reading a
// namespace that has no entries returns ErrNamespaceNotFound.
type Backend interface {
	Name() string
	GetNamespace(ctx context.Context, namespace string) (map[string]string, error)
	SetEntries(ctx context.Context, namespace string, entries map[string]string) error
	UnsetEntries(ctx context.Context, namespace string, names []string) error
	ListNamespaces(ctx context.Context) ([]string, error)
	ListEntries(ctx context.Context, namespace string) ([]string, error)
}

var _ Backend = (*secrets.AgeStore)(nil)

const (
	Age           = secrets.AgeStoreName
	SecretService = "secret-service"
	Keychain      = "keychain"
	WinCred       = "wincred"
)

var aliases = map[string]string{
	"age":                        Age,
	"file":                       Age,
	"secret-service":             SecretService,
	"secretservice":              SecretService,
	"dbus":                       SecretService,
	"keychain":                   Keychain,
	"wincred":                    WinCred,
	"windows":                    WinCred,
	"windows-credential-manager": WinCred,
}

// Names returns the canonical backend names.
func Names() []string {
	return []string{Age, SecretService, Keychain, WinCred}
}

// Normalize maps a backend name or alias to its canonical name.
func Normalize(name string) (string, error) {
	canonical, ok := aliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("%w %q (expected one of: %s)", kerrors.ErrUnknownBackend, name, strings.Join(Names(), ", "))
	}
	return canonical, nil
}
