package backend

import (
	"context"
	"errors"
	"testing"

	"github.com/PolarWolf314/envchain/internal/configs"
	kerrors "github.com/PolarWolf314/envchain/internal/errors"
	"github.com/PolarWolf314/envchain/internal/secrets"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"age":                        Age,
		"file":                       Age,
		" AGE ":                      Age,
		"secret-service":             SecretService,
		"secretservice":              SecretService,
		"dbus":                       SecretService,
		"keychain":                   Keychain,
		"wincred":                    WinCred,
		"windows":                    WinCred,
		"Windows-Credential-Manager": WinCred,
	}

	for input, want := range tests {
		t.Run(input, func(t *testing.T) {
			got, err := Normalize(input)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}

	_, err := Normalize("vault")
	assert.ErrorIs(t, err, kerrors.ErrUnknownBackend)
	assert.Contains(t, err.Error(), "secret-service")
}

func TestOpen_Age(t *testing.T) {
	settings := configs.NewUserSettings(t.TempDir())

	b, err := Open(Options{Name: "file", Settings: settings})
	require.NoError(t, err)
	assert.Equal(t, Age, b.Name())

	store, ok := b.(*secrets.AgeStore)
	require.True(t, ok)
	assert.Equal(t, settings.SecretsPath, store.Path())
}

func TestOpen_Keyring(t *testing.T) {
	var got keyring.Config
	b, err := Open(Options{
		Name: "dbus",
		OpenKeyring: func(cfg keyring.Config) (keyring.Keyring, error) {
			got = cfg
			return keyring.NewArrayKeyring(nil), nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, SecretService, b.Name())
	assert.Equal(t, "envchain", got.ServiceName)
	assert.Equal(t, []keyring.BackendType{keyring.SecretServiceBackend}, got.AllowedBackends)
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(Options{Name: "vault"})
	assert.ErrorIs(t, err, kerrors.ErrUnknownBackend)

	_, err = Open(Options{
		Name: "keychain",
		OpenKeyring: func(keyring.Config) (keyring.Keyring, error) {
			return nil, keyring.ErrNoAvailImpl
		},
	})
	assert.ErrorIs(t, err, kerrors.ErrBackendUnavailable)

	_, err = Open(Options{
		Name: "wincred",
		OpenKeyring: func(keyring.Config) (keyring.Keyring, error) {
			return nil, errors.New("access denied")
		},
	})
	assert.ErrorIs(t, err, kerrors.ErrBackendUnavailable)
}

// Both implementations must behave identically through the interface.
func TestBackendContract(t *testing.T) {
	impls := map[string]func(t *testing.T) Backend{
		"age": func(t *testing.T) Backend {
			b, err := Open(Options{Name: Age, Settings: configs.NewUserSettings(t.TempDir())})
			require.NoError(t, err)
			return b
		},
		"keyring": func(t *testing.T) Backend {
			return NewKeyringBackend(SecretService, keyring.NewArrayKeyring(nil))
		},
	}

	for name, newBackend := range impls {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			b := newBackend(t)

			_, err := b.GetNamespace(ctx, "aws")
			assert.ErrorIs(t, err, kerrors.ErrNamespaceNotFound)

			namespaces, err := b.ListNamespaces(ctx)
			require.NoError(t, err)
			assert.Empty(t, namespaces)

			require.NoError(t, b.SetEntries(ctx, "aws", map[string]string{"B": "2", "A": "line\nbreak"}))
			require.NoError(t, b.SetEntries(ctx, "gcp", map[string]string{"TOKEN": ""}))
			require.NoError(t, b.SetEntries(ctx, "aws", map[string]string{"B": "changed"}))

			entries, err := b.GetNamespace(ctx, "aws")
			require.NoError(t, err)
			assert.Equal(t, map[string]string{"A": "line\nbreak", "B": "changed"}, entries)

			names, err := b.ListEntries(ctx, "aws")
			require.NoError(t, err)
			assert.Equal(t, []string{"A", "B"}, names)

			namespaces, err = b.ListNamespaces(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"aws", "gcp"}, namespaces)

			require.NoError(t, b.UnsetEntries(ctx, "gcp", []string{"TOKEN", "ABSENT"}))
			namespaces, err = b.ListNamespaces(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"aws"}, namespaces)

			err = b.UnsetEntries(ctx, "gcp", []string{"TOKEN"})
			assert.ErrorIs(t, err, kerrors.ErrNamespaceNotFound)

			err = b.SetEntries(ctx, "", map[string]string{"K": "v"})
			assert.ErrorIs(t, err, kerrors.ErrInvalidNamespace)

			err = b.SetEntries(ctx, "aws", map[string]string{"": "v"})
			assert.ErrorIs(t, err, kerrors.ErrInvalidEntry)
		})
	}
}

func TestKeyringBackend_Layout(t *testing.T) {
	ctx := context.Background()
	ring := keyring.NewArrayKeyring([]keyring.Item{
		{Key: "unrelated", Data: []byte("x")},
	})
	b := NewKeyringBackend(Keychain, ring)

	require.NoError(t, b.SetEntries(ctx, "aws", map[string]string{"KEY": "value"}))

	item, err := ring.Get("aws/KEY")
	require.NoError(t, err)
	assert.Equal(t, "value", string(item.Data))
	assert.Equal(t, "envchain aws.KEY", item.Label)

	namespaces, err := b.ListNamespaces(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"aws"}, namespaces)

	err = b.SetEntries(ctx, "a/b", map[string]string{"K": "v"})
	assert.ErrorIs(t, err, kerrors.ErrInvalidNamespace)
}
