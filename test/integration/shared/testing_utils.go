// Package shared contains testing utilities shared between integration tests.
// It points envchain at a temporary config directory and runs the real CLI
// in-process, capturing its output and exit status.
package shared

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PolarWolf314/envchain/cmd"
	"github.com/PolarWolf314/envchain/internal/configs"

	"github.com/fatih/color"
)

// Result is the outcome of one CLI invocation.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Env is the environment seen by envchain during a test.
type Env map[string]string

// SetupTestEnvironment redirects envchain's config directory into a temp
// directory and restores the original settings when the test ends.
func SetupTestEnvironment(t *testing.T, env Env) *configs.UserSettings {
	t.Helper()
	color.NoColor = true

	originalUserSettings := configs.UserEnvchainSettings
	settings := configs.NewUserSettings(filepath.Join(t.TempDir(), "envchain"))
	configs.UserEnvchainSettings = settings

	t.Cleanup(func() {
		configs.UserEnvchainSettings = originalUserSettings
		cmd.ResetGlobalState()
		cmd.RootCmd.SetIn(nil)
		cmd.RootCmd.SetOut(nil)
		cmd.RootCmd.SetErr(nil)
	})

	cmd.ResetGlobalState()
	cmd.SetGetenv(func(key string) string { return env[key] })
	return settings
}

// Run executes envchain with args, feeding stdin to prompts.
func Run(t *testing.T, env Env, stdin string, args ...string) Result {
	t.Helper()

	cmd.ResetGlobalState()
	cmd.SetGetenv(func(key string) string { return env[key] })

	var stdout, stderr bytes.Buffer
	cmd.RootCmd.SetIn(strings.NewReader(stdin))
	cmd.RootCmd.SetOut(&stdout)
	cmd.RootCmd.SetErr(&stderr)

	code := cmd.Execute(context.Background(), args)
	return Result{Stdout: stdout.String(), Stderr: stderr.String(), ExitCode: code}
}

// MustRun is Run that fails the test on a non-zero exit status.
func MustRun(t *testing.T, env Env, stdin string, args ...string) Result {
	t.Helper()

	res := Run(t, env, stdin, args...)
	if res.ExitCode != 0 {
		t.Fatalf("envchain %s exited %d\nstdout: %s\nstderr: %s",
			strings.Join(args, " "), res.ExitCode, res.Stdout, res.Stderr)
	}
	return res
}

// VerifyPermissions fails the test when path's permission bits differ from want.
// It is a no-op on Windows.
func VerifyPermissions(t *testing.T, path string, want os.FileMode) {
	t.Helper()

	if isWindows() {
		return
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Failed to stat %s: %v", path, err)
	}
	if got := info.Mode().Perm(); got != want {
		t.Errorf("Expected %s to have mode %o, got %o", path, want, got)
	}
}
