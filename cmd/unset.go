package cmd

import (
	"errors"

	kerrors "github.com/PolarWolf314/envchain/internal/errors"
	"github.com/PolarWolf314/envchain/internal/ui"
	"github.com/PolarWolf314/envchain/internal/workflows"

	"github.com/spf13/cobra"
)

var unsetCmd = &cobra.Command{
	Use:               "unset NAMESPACE NAME...",
	Short:             "Remove variables from a namespace",
	Args:              requireArgs(2, "NAMESPACE NAME..."),
	ValidArgsFunction: completeNamespaces,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting unset command")

		b, err := openBackend(cmd, "")
		if err != nil {
			return err
		}

		result, err := workflows.Unset(cmd.Context(), workflows.UnsetOptions{
			Backend:   b,
			Namespace: args[0],
			Names:     args[1:],
		})
		if errors.Is(err, kerrors.ErrNamespaceNotFound) {
			warnNamespaceNotDefined(cmd, args[0])
			return &exitError{code: ExitNamespaceNotFound}
		}
		if err != nil {
			return err
		}

		for _, name := range result.Missing {
			Logger.Warnf("%s was not set in %s", ui.Namespace.Sprint(name), ui.Namespace.Sprint(result.Namespace))
		}
		Logger.Infof("%s", ui.Successf("Removed %d variable(s) from %s", len(result.Removed), ui.Namespace.Sprint(result.Namespace)))
		return nil
	},
}
