package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/PolarWolf314/envchain/internal/backend"
	"github.com/PolarWolf314/envchain/internal/configs"
	kerrors "github.com/PolarWolf314/envchain/internal/errors"
	logger "github.com/PolarWolf314/envchain/internal/logging"
	"github.com/PolarWolf314/envchain/internal/utils"
	"github.com/PolarWolf314/envchain/internal/workflows"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	verbose     bool
	debug       bool
	backendName string
	ageIdentity string

	Logger   logger.Logger
	resolved *configs.Resolved

	// getenv is swapped in tests.
	getenv = os.Getenv

	RootCmd = &cobra.Command{
		Use:   "envchain [flags] NAMESPACE[,NAMESPACE...] COMMAND [ARGS...]",
		Short: "Environment variables meet secret storage",
		Long: `envchain stores secrets in namespaces and hands them to a single command
as environment variables, so they never sit in plaintext on disk or in your
shell's environment.

Examples:
  envchain set aws AWS_ACCESS_KEY_ID AWS_SECRET_ACCESS_KEY
  envchain aws aws s3 ls
  envchain aws,github terraform apply

Backends (--backend or ENVCHAIN_BACKEND):
  age             portable age-encrypted file (aliases: file)
  secret-service  freedesktop Secret Service over D-Bus (aliases: secretservice, dbus)
  keychain        macOS Keychain
  wincred         Windows Credential Manager (aliases: windows, windows-credential-manager)`,
		Args:              cobra.ArbitraryArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
		RunE:              runExec,
	}
)

func init() {
	RootCmd.PersistentFlags().StringVar(&backendName, "backend", "", "backend type: age, secret-service, keychain or wincred")
	RootCmd.PersistentFlags().StringVar(&ageIdentity, "age-identity", "", "path to an age identity or SSH private key for the age backend")
	RootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")

	// Everything after NAMESPACE belongs to the command being run.
	RootCmd.Flags().SetInterspersed(false)

	RootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageErrorf("%s", err)
	})

	RootCmd.AddCommand(setCmd)
	RootCmd.AddCommand(listCmd)
	RootCmd.AddCommand(unsetCmd)
	RootCmd.AddCommand(completionsCmd)
	RootCmd.AddCommand(migrateCmd)
	RootCmd.AddCommand(identityCmd)
	RootCmd.AddCommand(configCmd)
}

func setup(cmd *cobra.Command, _ []string) error {
	Logger = logger.Logger{
		Verbose: verbose,
		Debug:   debug,
		Out:     cmd.ErrOrStderr(),
	}
	Logger.Debugf("Initializing %s with verbose=%t, debug=%t", cmd.CommandPath(), verbose, debug)

	r, err := configs.Resolve(configs.Overrides{Backend: backendName, AgeIdentity: ageIdentity}, getenv)
	if err != nil {
		return err
	}
	resolved = r
	Logger.Debugf("Backend %s (from %s)", r.Backend, r.BackendSource)
	if r.AgeIdentity != "" {
		Logger.Debugf("Age identity %s (from %s)", r.AgeIdentity, r.AgeIdentitySource)
	}
	return nil
}

// Execute runs the root command with args and returns the exit status.
func Execute(ctx context.Context, args []string) int {
	RootCmd.SetArgs(RewriteClassicArgs(args))
	err := RootCmd.ExecuteContext(ctx)
	if err != nil {
		printError(RootCmd.ErrOrStderr(), err)
	}
	return ExitCode(err)
}

// openBackend opens name, or the resolved backend when name is empty.
func openBackend(cmd *cobra.Command, name string) (backend.Backend, error) {
	if name == "" {
		name = resolved.Backend
	}
	return backend.Open(backend.Options{
		Name:        name,
		AgeIdentity: resolved.AgeIdentity,
		Settings:    configs.UserEnvchainSettings,
		Passphrase:  readPassphrase,
		Logger:      Logger,
	})
}

func readPassphrase(prompt string) ([]byte, error) {
	switch {
	case utils.IsTerminal():
		return utils.ReadPassphrase(prompt)
	case utils.IsTTYAvailable():
		Logger.Debugf("stdin is not a terminal, asking for the passphrase on the controlling terminal")
		return utils.ReadPassphraseFromTTY(prompt)
	default:
		return nil, fmt.Errorf("no terminal to ask for a passphrase: %w", kerrors.ErrPassphraseUnavailable)
	}
}

func runExec(cmd *cobra.Command, args []string) error {
	if len(args) < 2 {
		if len(args) == 0 {
			_ = cmd.Help()
			return usageErrorf("missing subcommand or namespace")
		}
		return usageErrorf("missing command to run after namespace %q", args[0])
	}

	namespaces := workflows.SplitNamespaces(args[0])
	if len(namespaces) == 0 {
		return usageErrorf("no namespace given")
	}

	b, err := openBackend(cmd, "")
	if err != nil {
		return err
	}

	env, err := workflows.BuildEnv(cmd.Context(), workflows.BuildEnvOptions{
		Backend:    b,
		Namespaces: namespaces,
		BaseEnv:    os.Environ(),
		Logger:     Logger,
	})
	if err != nil {
		return err
	}
	Logger.Infof("Running %s with %d variable(s) from %s", args[1], len(env.Names), b.Name())

	code, err := workflows.Exec(cmd.Context(), workflows.ExecOptions{
		Env:     env.Env,
		Command: args[1],
		Args:    args[2:],
		Stdin:   cmd.InOrStdin(),
		Stdout:  cmd.OutOrStdout(),
		Stderr:  cmd.ErrOrStderr(),
		Logger:  Logger,
	})
	if err != nil {
		return err
	}
	if code != 0 {
		return &exitError{code: code}
	}
	return nil
}

// Helper functions for testing

// ResetGlobalState resets flags and globals to their defaults for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	backendName = ""
	ageIdentity = ""
	resolved = nil
	Logger = logger.Logger{}
	getenv = os.Getenv
	resetFlags(RootCmd)
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}

// SetGetenv replaces the environment lookup for testing.
func SetGetenv(fn func(string) string) {
	getenv = fn
}
