// Package secrets implements envchain's portable encrypted store.
//
// Secrets are grouped into namespaces. A namespace maps variable names to
// values, and the whole set of namespaces (a Container) is kept in a single
// age-encrypted file, secrets.age, under the user config directory.
//
// # File Format
//
// The plaintext is a JSON object of objects with sorted keys:
//
//	{
//	  "aws": {
//	    "AWS_ACCESS_KEY_ID": "AKIA...",
//	    "AWS_SECRET_ACCESS_KEY": "..."
//	  }
//	}
//
// which is then encrypted to a single age recipient. Encryption is not
// deterministic: every write uses a fresh file key.
//
// # Identities
//
// The file is encrypted to one identity:
//   - Native: an age X25519 identity stored unencrypted in identity.txt,
//     created on first use.
//   - SSH: an existing Ed25519 or RSA private key passed with
//     --age-identity or ENVCHAIN_AGE_IDENTITY. Encrypted keys prompt for
//     their passphrase once per process.
//
// # Writes
//
// Every mutation rewrites the whole file. The new contents go to a temp
// file in the same directory which is synced and renamed over secrets.age,
// so an interrupted write leaves the previous file in place.
//
// There is no locking between processes. Two concurrent writers race and
// the last rename wins; the other writer's change is lost.
package secrets
