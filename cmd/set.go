package cmd

import (
	"github.com/PolarWolf314/envchain/internal/ui"
	"github.com/PolarWolf314/envchain/internal/utils"
	"github.com/PolarWolf314/envchain/internal/workflows"

	"github.com/spf13/cobra"
)

var setNoEcho bool

var setCmd = &cobra.Command{
	Use:   "set [flags] NAMESPACE NAME...",
	Short: "Set environment variables in a namespace",
	Long: `Prompts for the value of each NAME and stores them in NAMESPACE.

Values are read one line each, so they can be piped:
  printf '%s\n' "$KEY" "$SECRET" | envchain set aws AWS_ACCESS_KEY_ID AWS_SECRET_ACCESS_KEY`,
	Args:              requireArgs(2, "NAMESPACE NAME..."),
	ValidArgsFunction: completeNamespaces,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting set command")

		b, err := openBackend(cmd, "")
		if err != nil {
			return err
		}

		prompter := utils.NewPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
		result, err := workflows.Set(cmd.Context(), workflows.SetOptions{
			Backend:   b,
			Namespace: args[0],
			Names:     args[1:],
			NoEcho:    setNoEcho,
			Prompt:    prompter.Prompt,
		})
		if err != nil {
			return err
		}

		Logger.Infof("%s", ui.Successf("Stored %d variable(s) in %s using %s",
			len(result.Names), ui.Namespace.Sprint(result.Namespace), b.Name()))
		return nil
	},
}

func init() {
	setCmd.Flags().BoolVarP(&setNoEcho, "noecho", "n", false, "do not echo user input")
}
