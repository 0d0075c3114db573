package secrets

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/PolarWolf314/envchain/internal/configs"
	kerrors "github.com/PolarWolf314/envchain/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgeStore_SetAndGet(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := newTestStore(t, dir)

	require.NoError(t, store.SetEntries(ctx, "aws", map[string]string{
		"AWS_ACCESS_KEY_ID":     "AKIA",
		"AWS_SECRET_ACCESS_KEY": "s3cr3t\nwith newline",
	}))
	require.NoError(t, store.SetEntries(ctx, "gcp", map[string]string{"TOKEN": ""}))

	// A fresh store stands in for a second invocation.
	reopened := newTestStore(t, dir)

	entries, err := reopened.GetNamespace(ctx, "aws")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"AWS_ACCESS_KEY_ID":     "AKIA",
		"AWS_SECRET_ACCESS_KEY": "s3cr3t\nwith newline",
	}, entries)

	namespaces, err := reopened.ListNamespaces(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"aws", "gcp"}, namespaces)

	names, err := reopened.ListEntries(ctx, "aws")
	require.NoError(t, err)
	assert.Equal(t, []string{"AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY"}, names)

	gcp, err := reopened.GetNamespace(ctx, "gcp")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"TOKEN": ""}, gcp)
}

func TestAgeStore_OverwriteKeepsOtherEntries(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, t.TempDir())

	require.NoError(t, store.SetEntries(ctx, "ns", map[string]string{"A": "1", "B": "2"}))
	require.NoError(t, store.SetEntries(ctx, "ns", map[string]string{"A": "changed"}))

	entries, err := store.GetNamespace(ctx, "ns")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A": "changed", "B": "2"}, entries)
}

func TestAgeStore_EmptyRead(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	settings := configs.NewUserSettings(dir)
	store := newTestStore(t, dir)

	namespaces, err := store.ListNamespaces(ctx)
	require.NoError(t, err)
	assert.Empty(t, namespaces)

	_, err = store.GetNamespace(ctx, "aws")
	assert.ErrorIs(t, err, kerrors.ErrNamespaceNotFound)

	_, err = store.ListEntries(ctx, "aws")
	assert.ErrorIs(t, err, kerrors.ErrNamespaceNotFound)

	assert.NoFileExists(t, settings.SecretsPath)
	assert.NoFileExists(t, settings.IdentityPath)
}

func TestAgeStore_FirstWriteCreatesFiles(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", "envchain")
	settings := configs.NewUserSettings(dir)
	store := newTestStore(t, dir)

	require.NoError(t, store.SetEntries(ctx, "ns", map[string]string{"K": "v"}))

	assert.FileExists(t, settings.IdentityPath)
	assert.FileExists(t, settings.SecretsPath)

	data, err := os.ReadFile(settings.SecretsPath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"K"`)

	if runtime.GOOS != "windows" {
		info, err := os.Stat(settings.SecretsPath)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

		info, err = os.Stat(dir)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
	}
}

func TestAgeStore_UnsetEntries(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, t.TempDir())

	require.NoError(t, store.SetEntries(ctx, "ns", map[string]string{"A": "1", "B": "2"}))
	require.NoError(t, store.SetEntries(ctx, "other", map[string]string{"C": "3"}))

	require.NoError(t, store.UnsetEntries(ctx, "ns", []string{"A", "NOT_SET"}))
	names, err := store.ListEntries(ctx, "ns")
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, names)

	require.NoError(t, store.UnsetEntries(ctx, "ns", []string{"B"}))
	namespaces, err := store.ListNamespaces(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"other"}, namespaces)

	err = store.UnsetEntries(ctx, "ns", []string{"B"})
	assert.ErrorIs(t, err, kerrors.ErrNamespaceNotFound)
}

func TestAgeStore_RejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, t.TempDir())

	err := store.SetEntries(ctx, "", map[string]string{"K": "v"})
	assert.ErrorIs(t, err, kerrors.ErrInvalidNamespace)

	err = store.SetEntries(ctx, "ns", map[string]string{"": "v"})
	assert.ErrorIs(t, err, kerrors.ErrInvalidEntry)

	err = store.SetEntries(ctx, "ns", map[string]string{"K": string([]byte{0xc3, 0x28})})
	assert.ErrorIs(t, err, kerrors.ErrInvalidEntry)
}

func TestAgeStore_WrongIdentity(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	settings := configs.NewUserSettings(dir)

	require.NoError(t, newTestStore(t, dir).SetEntries(ctx, "ns", map[string]string{"K": "v"}))
	before, err := os.ReadFile(settings.SecretsPath)
	require.NoError(t, err)

	other, err := newTestManager(t, t.TempDir()).Resolve("")
	require.NoError(t, err)

	intruder := NewAgeStore(AgeStoreOptions{
		Path:         settings.SecretsPath,
		IdentityPath: other.Path(),
		Identities:   newTestManager(t, t.TempDir()),
	})

	_, err = intruder.GetNamespace(ctx, "ns")
	assert.ErrorIs(t, err, kerrors.ErrDecryption)

	err = intruder.SetEntries(ctx, "ns", map[string]string{"K": "overwritten"})
	assert.ErrorIs(t, err, kerrors.ErrDecryption)

	after, err := os.ReadFile(settings.SecretsPath)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestAgeStore_CorruptFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	settings := configs.NewUserSettings(dir)
	require.NoError(t, os.WriteFile(settings.SecretsPath, []byte("this is not age"), 0600))

	_, err := newTestStore(t, dir).ListNamespaces(ctx)
	assert.ErrorIs(t, err, kerrors.ErrCorruptContainer)
}

func TestAgeStore_InterruptedWriteKeepsPreviousFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	settings := configs.NewUserSettings(dir)
	store := newTestStore(t, dir)

	require.NoError(t, store.SetEntries(ctx, "ns", map[string]string{"K": "original"}))
	before, err := os.ReadFile(settings.SecretsPath)
	require.NoError(t, err)

	store.rename = func(string, string) error { return errors.New("killed mid-write") }
	err = store.SetEntries(ctx, "ns", map[string]string{"K": "replacement"})
	assert.ErrorIs(t, err, kerrors.ErrIOFailure)

	after, err := os.ReadFile(settings.SecretsPath)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	leftovers, err := filepath.Glob(filepath.Join(dir, ".*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)

	store.rename = os.Rename
	entries, err := store.GetNamespace(ctx, "ns")
	require.NoError(t, err)
	assert.Equal(t, "original", entries["K"])
}

func TestAgeStore_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	store := newTestStore(t, dir)
	require.NoError(t, store.SetEntries(context.Background(), "ns", map[string]string{"K": "v"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.SetEntries(ctx, "ns", map[string]string{"K": "w"})
	assert.ErrorIs(t, err, context.Canceled)

	entries, err := store.GetNamespace(context.Background(), "ns")
	require.NoError(t, err)
	assert.Equal(t, "v", entries["K"])
}

// Two writers that both load before either saves: the second save wins and
// the first writer's namespace is lost. There is no cross-process locking.
func TestAgeStore_ConcurrentWritersLoseUpdates(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	require.NoError(t, newTestStore(t, dir).SetEntries(ctx, "base", map[string]string{"K": "v"}))

	a := newTestStore(t, dir)
	b := newTestStore(t, dir)

	snapshot, err := a.Load(ctx)
	require.NoError(t, err)

	require.NoError(t, b.SetEntries(ctx, "gcp", map[string]string{"TOKEN": "t"}))

	snapshot.Set("aws", "KEY", "k")
	require.NoError(t, a.Save(ctx, snapshot))

	namespaces, err := newTestStore(t, dir).ListNamespaces(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"aws", "base"}, namespaces)
}

func TestAgeStore_SSHIdentity(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	keyPath := writeSSHKey(t, generateEd25519(t), "")
	settings := configs.NewUserSettings(dir)

	store := NewAgeStore(AgeStoreOptions{
		Path:         settings.SecretsPath,
		IdentityPath: keyPath,
		Identities:   newTestManager(t, dir),
	})

	require.NoError(t, store.SetEntries(ctx, "ns", map[string]string{"K": "v"}))
	assert.NoFileExists(t, settings.IdentityPath)

	entries, err := store.GetNamespace(ctx, "ns")
	require.NoError(t, err)
	assert.Equal(t, "v", entries["K"])

	_, err = newTestStore(t, dir).GetNamespace(ctx, "ns")
	assert.ErrorIs(t, err, kerrors.ErrDecryption)
}
