package configs

import (
	"log"
	"os"
	"path/filepath"
)

type UserSettings struct {
	ConfigDir      string
	SecretsPath    string
	IdentityPath   string
	RecipientPath  string
	ConfigFilePath string
}

var UserEnvchainSettings *UserSettings

func init() {
	configDir, err := os.UserConfigDir()
	if err != nil {
		log.Fatalf("error getting config directory: %s", err)
	}

	UserEnvchainSettings = NewUserSettings(filepath.Join(configDir, "envchain"))
}

// NewUserSettings lays out envchain's files under dir.
func NewUserSettings(dir string) *UserSettings {
	return &UserSettings{
		ConfigDir:      dir,
		SecretsPath:    filepath.Join(dir, "secrets.age"),
		IdentityPath:   filepath.Join(dir, "identity.txt"),
		RecipientPath:  filepath.Join(dir, "recipient.txt"),
		ConfigFilePath: filepath.Join(dir, "config.toml"),
	}
}
