// Package configs manages envchain's file locations and user configuration.
//
// # Settings
//
// UserEnvchainSettings is initialized at startup from the platform config
// directory (os.UserConfigDir) and holds the paths of every file envchain
// owns:
//
//   - secrets.age:   the encrypted secrets file of the age backend
//   - identity.txt:  the default native age identity (created on first use)
//   - recipient.txt: the public key matching identity.txt
//   - config.toml:   optional user configuration
//
// Tests replace UserEnvchainSettings with NewUserSettings(t.TempDir()).
//
// # Configuration
//
// config.toml is optional and may set:
//
//	backend      = "age"
//	age_identity = "~/.ssh/id_ed25519"
//
// Resolve applies the precedence flag > environment > config file > default.
// The environment variables are ENVCHAIN_BACKEND and ENVCHAIN_AGE_IDENTITY.
package configs
