package workflows

import (
	"fmt"
	"strings"

	kerrors "github.com/PolarWolf314/envchain/internal/errors"
)

// validateNamespace rejects names that cannot be addressed from the exec
// form, where namespaces are comma separated.
func validateNamespace(namespace string) error {
	if namespace == "" {
		return fmt.Errorf("namespace must not be empty: %w", kerrors.ErrInvalidNamespace)
	}
	if strings.ContainsAny(namespace, ",\x00") {
		return fmt.Errorf("namespace %q must not contain ',' or NUL: %w", namespace, kerrors.ErrInvalidNamespace)
	}
	return nil
}

// validateName rejects names that cannot be placed in a process environment.
func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("variable name must not be empty: %w", kerrors.ErrInvalidEntry)
	}
	if strings.ContainsAny(name, "=\x00") {
		return fmt.Errorf("variable name %q must not contain '=' or NUL: %w", name, kerrors.ErrInvalidEntry)
	}
	return nil
}

// SplitNamespaces splits the comma separated namespace list of the exec form.
// Empty elements are dropped.
func SplitNamespaces(csv string) []string {
	var namespaces []string
	for _, ns := range strings.Split(csv, ",") {
		if ns = strings.TrimSpace(ns); ns != "" {
			namespaces = append(namespaces, ns)
		}
	}
	return namespaces
}
