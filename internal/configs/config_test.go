package configs

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// useTempSettings points UserEnvchainSettings at a fresh directory for the test.
func useTempSettings(t *testing.T) *UserSettings {
	t.Helper()
	original := UserEnvchainSettings
	UserEnvchainSettings = NewUserSettings(t.TempDir())
	t.Cleanup(func() { UserEnvchainSettings = original })
	return UserEnvchainSettings
}

func envFrom(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestNewUserSettings(t *testing.T) {
	settings := NewUserSettings("/tmp/envchain")

	expected := map[string]string{
		"SecretsPath":    filepath.Join("/tmp/envchain", "secrets.age"),
		"IdentityPath":   filepath.Join("/tmp/envchain", "identity.txt"),
		"RecipientPath":  filepath.Join("/tmp/envchain", "recipient.txt"),
		"ConfigFilePath": filepath.Join("/tmp/envchain", "config.toml"),
	}
	actual := map[string]string{
		"SecretsPath":    settings.SecretsPath,
		"IdentityPath":   settings.IdentityPath,
		"RecipientPath":  settings.RecipientPath,
		"ConfigFilePath": settings.ConfigFilePath,
	}
	for name, want := range expected {
		if actual[name] != want {
			t.Errorf("%s = %q, want %q", name, actual[name], want)
		}
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	useTempSettings(t)

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if config.Backend != "" || config.AgeIdentity != "" {
		t.Errorf("Expected empty config, got %+v", config)
	}
}

func TestLoadConfig_Malformed(t *testing.T) {
	settings := useTempSettings(t)
	if err := os.WriteFile(settings.ConfigFilePath, []byte("backend = "), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	if _, err := LoadConfig(); err == nil {
		t.Fatal("Expected error for malformed config")
	}
}

func TestResolve_Precedence(t *testing.T) {
	settings := useTempSettings(t)
	if err := SaveConfig(&Config{Backend: "keychain", AgeIdentity: "/file/identity"}); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}
	if _, err := os.Stat(settings.ConfigFilePath); err != nil {
		t.Fatalf("config.toml not written: %v", err)
	}

	testCases := []struct {
		name         string
		flags        Overrides
		env          map[string]string
		wantBackend  string
		wantSource   string
		wantIdentity string
	}{
		{
			name:         "ConfigFile",
			wantBackend:  "keychain",
			wantSource:   "config file",
			wantIdentity: "/file/identity",
		},
		{
			name:         "EnvironmentBeatsFile",
			env:          map[string]string{EnvBackend: "AGE", EnvAgeIdentity: "/env/identity"},
			wantBackend:  "age",
			wantSource:   "environment",
			wantIdentity: "/env/identity",
		},
		{
			name:         "FlagBeatsEnvironment",
			flags:        Overrides{Backend: "wincred", AgeIdentity: "/flag/identity"},
			env:          map[string]string{EnvBackend: "age", EnvAgeIdentity: "/env/identity"},
			wantBackend:  "wincred",
			wantSource:   "flag",
			wantIdentity: "/flag/identity",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resolved, err := Resolve(tc.flags, envFrom(tc.env))
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if resolved.Backend != tc.wantBackend {
				t.Errorf("Backend = %q, want %q", resolved.Backend, tc.wantBackend)
			}
			if resolved.BackendSource != tc.wantSource {
				t.Errorf("BackendSource = %q, want %q", resolved.BackendSource, tc.wantSource)
			}
			if resolved.AgeIdentity != tc.wantIdentity {
				t.Errorf("AgeIdentity = %q, want %q", resolved.AgeIdentity, tc.wantIdentity)
			}
		})
	}
}

func TestResolve_DefaultIdentityIsEmpty(t *testing.T) {
	useTempSettings(t)

	resolved, err := Resolve(Overrides{Backend: "age"}, envFrom(nil))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if resolved.AgeIdentity != "" {
		t.Errorf("Expected empty identity path, got %q", resolved.AgeIdentity)
	}
	if resolved.AgeIdentitySource != "default" {
		t.Errorf("Expected default source, got %q", resolved.AgeIdentitySource)
	}
}

func TestDefaultBackend(t *testing.T) {
	testCases := []struct {
		goos string
		env  map[string]string
		want string
	}{
		{"darwin", nil, "keychain"},
		{"windows", nil, "wincred"},
		{"linux", map[string]string{"DBUS_SESSION_BUS_ADDRESS": "unix:path=/run/user/1000/bus"}, "secret-service"},
		{"linux", nil, "age"},
		{"freebsd", nil, "age"},
	}

	for _, tc := range testCases {
		if got := DefaultBackend(tc.goos, envFrom(tc.env)); got != tc.want {
			t.Errorf("DefaultBackend(%q, %v) = %q, want %q", tc.goos, tc.env, got, tc.want)
		}
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	got, err := ExpandHome("~/.ssh/id_ed25519")
	if err != nil {
		t.Fatalf("ExpandHome failed: %v", err)
	}
	if want := filepath.Join(home, ".ssh", "id_ed25519"); got != want {
		t.Errorf("ExpandHome = %q, want %q", got, want)
	}

	if runtime.GOOS != "windows" {
		if got, _ := ExpandHome("/abs/path"); got != "/abs/path" {
			t.Errorf("absolute path changed: %q", got)
		}
	}
	if got, _ := ExpandHome("~alice/key"); got != "~alice/key" {
		t.Errorf("~user form should be left alone, got %q", got)
	}
}
