package configs

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	// EnvBackend selects the backend when --backend is not given.
	EnvBackend = "ENVCHAIN_BACKEND"

	// EnvAgeIdentity selects the age identity when --age-identity is not given.
	EnvAgeIdentity = "ENVCHAIN_AGE_IDENTITY"
)

// Config is the content of config.toml.
type Config struct {
	Backend     string `toml:"backend,omitempty"`
	AgeIdentity string `toml:"age_identity,omitempty"`
}

// Overrides carries values given on the command line. Empty means unset.
type Overrides struct {
	Backend     string
	AgeIdentity string
}

// Resolved is the effective configuration for one invocation.
type Resolved struct {
	Backend       string
	BackendSource string

	// AgeIdentity is the explicit identity path, or empty for the default native identity.
	AgeIdentity       string
	AgeIdentitySource string
}

// LoadConfig loads config.toml. A missing file yields an empty Config.
func LoadConfig() (*Config, error) {
	configPath := UserEnvchainSettings.ConfigFilePath

	config := &Config{}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return config, nil
	}

	if err := LoadTOML(configPath, config); err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", configPath, err)
	}

	return config, nil
}

// SaveConfig writes config.toml.
func SaveConfig(config *Config) error {
	if err := SaveTOML(UserEnvchainSettings.ConfigFilePath, config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// Resolve merges flags, environment, config file and platform defaults.
func Resolve(flags Overrides, getenv func(string) string) (*Resolved, error) {
	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	resolved := &Resolved{}

	switch {
	case flags.Backend != "":
		resolved.Backend, resolved.BackendSource = flags.Backend, "flag"
	case getenv(EnvBackend) != "":
		resolved.Backend, resolved.BackendSource = getenv(EnvBackend), "environment"
	case config.Backend != "":
		resolved.Backend, resolved.BackendSource = config.Backend, "config file"
	default:
		resolved.Backend, resolved.BackendSource = DefaultBackend(runtime.GOOS, getenv), "default"
	}
	resolved.Backend = strings.ToLower(strings.TrimSpace(resolved.Backend))

	switch {
	case flags.AgeIdentity != "":
		resolved.AgeIdentity, resolved.AgeIdentitySource = flags.AgeIdentity, "flag"
	case getenv(EnvAgeIdentity) != "":
		resolved.AgeIdentity, resolved.AgeIdentitySource = getenv(EnvAgeIdentity), "environment"
	case config.AgeIdentity != "":
		resolved.AgeIdentity, resolved.AgeIdentitySource = config.AgeIdentity, "config file"
	default:
		resolved.AgeIdentitySource = "default"
	}

	if resolved.AgeIdentity != "" {
		expanded, err := ExpandHome(resolved.AgeIdentity)
		if err != nil {
			return nil, err
		}
		resolved.AgeIdentity = expanded
	}

	return resolved, nil
}

// DefaultBackend picks the OS secret store of the platform. On Linux and the
// BSDs the Secret Service needs a session bus; without one the age file is
// the only backend that can work.
func DefaultBackend(goos string, getenv func(string) string) string {
	switch goos {
	case "darwin":
		return "keychain"
	case "windows":
		return "wincred"
	}
	if getenv("DBUS_SESSION_BUS_ADDRESS") != "" {
		return "secret-service"
	}
	return "age"
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}
