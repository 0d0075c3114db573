package backend

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	kerrors "github.com/PolarWolf314/envchain/internal/errors"

	"github.com/99designs/keyring"
)

const keySeparator = "/"

// KeyringBackend stores each variable as one item of an OS secret store.
type KeyringBackend struct {
	name string
	ring keyring.Keyring
}

func NewKeyringBackend(name string, ring keyring.Keyring) *KeyringBackend {
	return &KeyringBackend{name: name, ring: ring}
}

func (k *KeyringBackend) Name() string { return k.name }

func itemKey(namespace, name string) string {
	return namespace + keySeparator + name
}

func splitKey(key string) (namespace, name string, ok bool) {
	namespace, name, ok = strings.Cut(key, keySeparator)
	if !ok || namespace == "" || name == "" {
		return "", "", false
	}
	return namespace, name, true
}

func validateNamespace(namespace string) error {
	if namespace == "" {
		return fmt.Errorf("namespace must not be empty: %w", kerrors.ErrInvalidNamespace)
	}
	if strings.Contains(namespace, keySeparator) {
		return fmt.Errorf("namespace %q must not contain %q: %w", namespace, keySeparator, kerrors.ErrInvalidNamespace)
	}
	return nil
}

// names returns the sorted variable names stored under namespace.
func (k *KeyringBackend) names(namespace string) ([]string, error) {
	keys, err := k.ring.Keys()
	if err != nil {
		return nil, fmt.Errorf("failed to list %s items: %w", k.name, err)
	}

	var names []string
	for _, key := range keys {
		ns, name, ok := splitKey(key)
		if ok && ns == namespace {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("namespace %q: %w", namespace, kerrors.ErrNamespaceNotFound)
	}
	slices.Sort(names)
	return names, nil
}

func (k *KeyringBackend) GetNamespace(ctx context.Context, namespace string) (map[string]string, error) {
	names, err := k.names(namespace)
	if err != nil {
		return nil, err
	}

	entries := make(map[string]string, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		item, err := k.ring.Get(itemKey(namespace, name))
		if err != nil {
			if errors.Is(err, keyring.ErrKeyNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to read %s.%s from %s: %w", namespace, name, k.name, err)
		}
		entries[name] = string(item.Data)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("namespace %q: %w", namespace, kerrors.ErrNamespaceNotFound)
	}
	return entries, nil
}

func (k *KeyringBackend) SetEntries(ctx context.Context, namespace string, entries map[string]string) error {
	if err := validateNamespace(namespace); err != nil {
		return err
	}

	for _, name := range slices.Sorted(maps.Keys(entries)) {
		if name == "" {
			return fmt.Errorf("%s: variable name must not be empty: %w", namespace, kerrors.ErrInvalidEntry)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		err := k.ring.Set(keyring.Item{
			Key:         itemKey(namespace, name),
			Data:        []byte(entries[name]),
			Label:       fmt.Sprintf("envchain %s.%s", namespace, name),
			Description: "envchain secret",
		})
		if err != nil {
			return fmt.Errorf("failed to store %s.%s in %s: %w", namespace, name, k.name, err)
		}
	}
	return nil
}

func (k *KeyringBackend) UnsetEntries(ctx context.Context, namespace string, names []string) error {
	if _, err := k.names(namespace); err != nil {
		return err
	}

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := k.ring.Remove(itemKey(namespace, name))
		if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
			return fmt.Errorf("failed to remove %s.%s from %s: %w", namespace, name, k.name, err)
		}
	}
	return nil
}

func (k *KeyringBackend) ListNamespaces(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	keys, err := k.ring.Keys()
	if err != nil {
		return nil, fmt.Errorf("failed to list %s items: %w", k.name, err)
	}

	seen := make(map[string]struct{})
	for _, key := range keys {
		if ns, _, ok := splitKey(key); ok {
			seen[ns] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(seen)), nil
}

func (k *KeyringBackend) ListEntries(ctx context.Context, namespace string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return k.names(namespace)
}
