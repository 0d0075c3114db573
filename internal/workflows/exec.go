package workflows

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"slices"
	"strings"

	"github.com/PolarWolf314/envchain/internal/backend"
	kerrors "github.com/PolarWolf314/envchain/internal/errors"
	logger "github.com/PolarWolf314/envchain/internal/logging"
)

// BuildEnvOptions configures how a child environment is assembled.
type BuildEnvOptions struct {
	Backend backend.Backend

	// Namespaces are applied in order; later namespaces override earlier
	// ones on name clashes.
	Namespaces []string

	// BaseEnv is the inherited environment in "KEY=value" form.
	BaseEnv []string

	// GOOS decides whether WSLENV is extended. Defaults to runtime.GOOS.
	GOOS string

	Logger logger.Logger
}

// BuildEnvResult contains the assembled environment.
type BuildEnvResult struct {
	// Env is BaseEnv with the secrets applied, in "KEY=value" form.
	Env []string

	// Names lists the variables taken from the backend, sorted.
	Names []string

	// Missing lists requested namespaces that had no entries.
	Missing []string
}

// BuildEnv reads every namespace and overlays its entries on BaseEnv. A
// namespace with no entries is reported in Missing and skipped. On Windows
// the secret names are appended to WSLENV so they cross into WSL.
func BuildEnv(ctx context.Context, opts BuildEnvOptions) (*BuildEnvResult, error) {
	goos := opts.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}

	secrets := make(map[string]string)
	result := &BuildEnvResult{}
	for _, ns := range opts.Namespaces {
		entries, err := opts.Backend.GetNamespace(ctx, ns)
		if errors.Is(err, kerrors.ErrNamespaceNotFound) {
			opts.Logger.WarnfAlways("namespace '%s' not defined", ns)
			result.Missing = append(result.Missing, ns)
			continue
		}
		if err != nil {
			return nil, err
		}
		opts.Logger.Debugf("Loaded %d variable(s) from '%s'", len(entries), ns)
		maps.Copy(secrets, entries)
	}

	result.Names = slices.Sorted(maps.Keys(secrets))

	env := overlayEnv(opts.BaseEnv, secrets, goos == "windows")
	if goos == "windows" && len(result.Names) > 0 {
		wslenv := lookupEnv(env, "WSLENV", true)
		parts := []string{}
		if wslenv != "" {
			parts = append(parts, wslenv)
		}
		parts = append(parts, result.Names...)
		env = overlayEnv(env, map[string]string{"WSLENV": strings.Join(parts, ":")}, true)
	}
	result.Env = env

	return result, nil
}

// overlayEnv replaces or appends vars in base. Windows variable names are
// case-insensitive.
func overlayEnv(base []string, vars map[string]string, foldCase bool) []string {
	keyOf := func(name string) string {
		if foldCase {
			return strings.ToUpper(name)
		}
		return name
	}

	overrides := make(map[string]string, len(vars))
	for name := range vars {
		overrides[keyOf(name)] = name
	}

	env := make([]string, 0, len(base)+len(vars))
	for _, kv := range base {
		name, _, _ := strings.Cut(kv, "=")
		if _, ok := overrides[keyOf(name)]; ok {
			continue
		}
		env = append(env, kv)
	}
	for _, name := range slices.Sorted(maps.Keys(vars)) {
		env = append(env, name+"="+vars[name])
	}
	return env
}

func lookupEnv(env []string, name string, foldCase bool) string {
	for _, kv := range env {
		k, v, _ := strings.Cut(kv, "=")
		if k == name || (foldCase && strings.EqualFold(k, name)) {
			return v
		}
	}
	return ""
}

// ExecOptions configures the exec workflow.
type ExecOptions struct {
	Env     []string
	Command string
	Args    []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Logger logger.Logger
}

// Exec runs a command with env and waits for it. Interrupts received while
// it runs are forwarded to the child. The returned code is the child's
// exit status; err is only set when the command could not be started.
func Exec(ctx context.Context, opts ExecOptions) (int, error) {
	cmd := exec.CommandContext(ctx, opts.Command, opts.Args...)
	cmd.Env = opts.Env
	cmd.Stdin = orDefault[io.Reader](opts.Stdin, os.Stdin)
	cmd.Stdout = orDefault[io.Writer](opts.Stdout, os.Stdout)
	cmd.Stderr = orDefault[io.Writer](opts.Stderr, os.Stderr)

	if err := cmd.Start(); err != nil {
		return 1, fmt.Errorf("failed to start %s: %w", opts.Command, err)
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, forwardedSignals...)
	defer signal.Stop(signals)

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case sig := <-signals:
				opts.Logger.Debugf("Forwarding %s to %s", sig, opts.Command)
				if err := cmd.Process.Signal(sig); err != nil && !errors.Is(err, os.ErrProcessDone) {
					opts.Logger.Errorf("Could not forward %s to %s: %v", sig, opts.Command, err)
				}
			case <-done:
				return
			}
		}
	}()

	err := cmd.Wait()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code >= 0 {
			return code, nil
		}
		// Killed by a signal.
		return 1, nil
	}
	return 1, fmt.Errorf("failed to run %s: %w", opts.Command, err)
}

func orDefault[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
