// Package backend selects and opens the store that holds envchain's secrets.
//
// Every store implements Backend. The portable store is the age-encrypted
// file from package secrets; the others delegate to the operating system's
// secret store through github.com/99designs/keyring:
//
//	age            (aliases: file)
//	secret-service (aliases: secretservice, dbus)
//	keychain
//	wincred        (aliases: windows, windows-credential-manager)
//
// OS stores keep one item per variable under the service "envchain", keyed
// "<namespace>/<NAME>".
package backend
