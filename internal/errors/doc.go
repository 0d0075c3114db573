// Package errors provides typed error values for envchain.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching. The CLI
// layer relies on this to pick exit codes and to tell a key mismatch apart
// from a damaged secrets file.
//
// # Error Categories
//
// Errors are grouped by category:
//
//   - Store errors: lookups that found nothing (ErrNamespaceNotFound, ErrEntryNotFound)
//   - Identity errors: key material problems (ErrIdentityLoad, ErrPassphraseUnavailable)
//   - Container errors: ciphertext problems (ErrDecryption, ErrCorruptContainer)
//   - Backend errors: selection and availability (ErrUnknownBackend, ErrBackendUnavailable)
//   - File errors: filesystem failures (ErrIOFailure)
//
// # Usage
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("loading identity %s: %w", path, errors.ErrIdentityLoad)
//
// Handle errors in the CLI layer:
//
//	if errors.Is(err, kerrors.ErrNamespaceNotFound) {
//	    // Show a warning instead of a failure
//	}
//
// Error messages never include secret values.
package errors
