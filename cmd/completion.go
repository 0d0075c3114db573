package cmd

import (
	"github.com/spf13/cobra"
)

var completionsCmd = &cobra.Command{
	Use:       "get-completions SHELL",
	Short:     "Generate a shell completion script (bash, zsh, fish, powershell)",
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return usageErrorf("expected exactly one SHELL")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return RootCmd.GenBashCompletionV2(out, true)
		case "zsh":
			return RootCmd.GenZshCompletion(out)
		case "fish":
			return RootCmd.GenFishCompletion(out, true)
		case "powershell":
			return RootCmd.GenPowerShellCompletionWithDesc(out)
		default:
			return usageErrorf("unsupported shell %q (expected bash, zsh, fish or powershell)", args[0])
		}
	},
}

func init() {
	RootCmd.CompletionOptions.DisableDefaultCmd = true
}

// completeNamespaces offers stored namespace names for the first argument.
// Completion runs without the root pre-run, so settings are resolved here.
func completeNamespaces(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	if resolved == nil {
		if err := setup(cmd, args); err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
	}

	b, err := openBackend(cmd, "")
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	namespaces, err := b.ListNamespaces(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return namespaces, cobra.ShellCompDirectiveNoFileComp
}
