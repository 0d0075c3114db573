package secrets

import (
	"fmt"
	"maps"
	"slices"

	kerrors "github.com/PolarWolf314/envchain/internal/errors"
)

// Container holds every namespace of a store in memory. Namespaces with no
// entries are never kept. The zero value is not usable; call NewContainer.
type Container struct {
	namespaces map[string]map[string]string
}

func NewContainer() *Container {
	return &Container{namespaces: make(map[string]map[string]string)}
}

// Get returns the value of name in namespace.
func (c *Container) Get(namespace, name string) (string, error) {
	entries, ok := c.namespaces[namespace]
	if !ok {
		return "", fmt.Errorf("namespace %q: %w", namespace, kerrors.ErrNamespaceNotFound)
	}
	value, ok := entries[name]
	if !ok {
		return "", fmt.Errorf("%s.%s: %w", namespace, name, kerrors.ErrEntryNotFound)
	}
	return value, nil
}

// Set inserts or overwrites name in namespace, creating the namespace if needed.
func (c *Container) Set(namespace, name, value string) {
	entries, ok := c.namespaces[namespace]
	if !ok {
		entries = make(map[string]string)
		c.namespaces[namespace] = entries
	}
	entries[name] = value
}

// Unset removes name from namespace. Removing the last entry removes the
// namespace. Absent names are ignored.
func (c *Container) Unset(namespace, name string) {
	entries, ok := c.namespaces[namespace]
	if !ok {
		return
	}
	delete(entries, name)
	if len(entries) == 0 {
		delete(c.namespaces, namespace)
	}
}

// Has reports whether namespace holds at least one entry.
func (c *Container) Has(namespace string) bool {
	_, ok := c.namespaces[namespace]
	return ok
}

// Namespaces returns the sorted namespace names.
func (c *Container) Namespaces() []string {
	return slices.Sorted(maps.Keys(c.namespaces))
}

// Entries returns the sorted variable names of namespace.
func (c *Container) Entries(namespace string) ([]string, error) {
	entries, ok := c.namespaces[namespace]
	if !ok {
		return nil, fmt.Errorf("namespace %q: %w", namespace, kerrors.ErrNamespaceNotFound)
	}
	return slices.Sorted(maps.Keys(entries)), nil
}

// Namespace returns a copy of the entries of namespace.
func (c *Container) Namespace(namespace string) (map[string]string, error) {
	entries, ok := c.namespaces[namespace]
	if !ok {
		return nil, fmt.Errorf("namespace %q: %w", namespace, kerrors.ErrNamespaceNotFound)
	}
	return maps.Clone(entries), nil
}

// Len returns the number of namespaces.
func (c *Container) Len() int {
	return len(c.namespaces)
}

// Equal reports whether both containers hold the same entries.
func (c *Container) Equal(other *Container) bool {
	if other == nil {
		return false
	}
	return maps.EqualFunc(c.namespaces, other.namespaces, func(a, b map[string]string) bool {
		return maps.Equal(a, b)
	})
}
