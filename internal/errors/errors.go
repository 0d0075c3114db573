package errors

import "errors"

// Store errors indicate a lookup that found nothing.
var (
	// ErrNamespaceNotFound indicates the namespace has no entries.
	ErrNamespaceNotFound = errors.New("namespace not found")

	// ErrEntryNotFound indicates the variable is not set in the namespace.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrInvalidNamespace indicates a namespace name the backend cannot store.
	ErrInvalidNamespace = errors.New("invalid namespace")

	// ErrInvalidEntry indicates a variable name or value the backend cannot store.
	ErrInvalidEntry = errors.New("invalid entry")
)

// Identity errors indicate problems with the key material used for the age store.
var (
	// ErrIdentityLoad indicates the identity file is missing, malformed or unsupported.
	ErrIdentityLoad = errors.New("failed to load identity")

	// ErrPassphraseUnavailable indicates a passphrase is required but no terminal is available.
	ErrPassphraseUnavailable = errors.New("passphrase required but no interactive input is available")
)

// Container errors indicate problems with the encrypted secrets file.
var (
	// ErrDecryption indicates the identity is not a recipient of the secrets file.
	ErrDecryption = errors.New("identity does not match the secrets file")

	// ErrCorruptContainer indicates the secrets file is damaged or not a secrets file.
	ErrCorruptContainer = errors.New("secrets file is corrupt")
)

// Backend errors indicate problems selecting or reaching a storage backend.
var (
	// ErrUnknownBackend indicates the requested backend name is not recognised.
	ErrUnknownBackend = errors.New("unknown backend")

	// ErrBackendUnavailable indicates the backend exists but cannot be opened on this system.
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// File errors indicate filesystem failures.
var (
	// ErrIOFailure indicates a read, write or rename failed.
	ErrIOFailure = errors.New("i/o failure")
)
