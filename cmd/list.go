package cmd

import (
	"errors"
	"fmt"

	kerrors "github.com/PolarWolf314/envchain/internal/errors"
	"github.com/PolarWolf314/envchain/internal/ui"
	"github.com/PolarWolf314/envchain/internal/workflows"

	"github.com/spf13/cobra"
)

var listShowValue bool

var listCmd = &cobra.Command{
	Use:               "list [flags] [NAMESPACE]",
	Short:             "List namespaces, or the variables of one namespace",
	Args:              maxArgs(1, "at most one NAMESPACE"),
	ValidArgsFunction: completeNamespaces,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting list command")

		b, err := openBackend(cmd, "")
		if err != nil {
			return err
		}

		opts := workflows.ListOptions{Backend: b, ShowValues: listShowValue}
		if len(args) == 1 {
			opts.Namespace = args[0]
		}

		result, err := workflows.List(cmd.Context(), opts)
		if errors.Is(err, kerrors.ErrNamespaceNotFound) {
			warnNamespaceNotDefined(cmd, opts.Namespace)
			return &exitError{code: ExitNamespaceNotFound}
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if opts.Namespace == "" {
			for _, ns := range result.Namespaces {
				fmt.Fprintln(out, ns)
			}
			return nil
		}
		for _, entry := range result.Entries {
			if listShowValue {
				fmt.Fprintf(out, "%s=%s\n", entry.Name, entry.Value)
			} else {
				fmt.Fprintln(out, entry.Name)
			}
		}
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVarP(&listShowValue, "show-value", "v", false, "show values when listing a namespace")
}

func warnNamespaceNotDefined(cmd *cobra.Command, namespace string) {
	w := cmd.ErrOrStderr()
	fmt.Fprintln(w, ui.Warningf("Namespace %s is not defined", ui.Namespace.Sprint(namespace)))
	fmt.Fprintln(w, ui.Hintf("Set it with %s", ui.Code.Sprintf("envchain set %s SOME_ENV_NAME", namespace)))
}
