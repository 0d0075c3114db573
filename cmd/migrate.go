package cmd

import (
	"github.com/PolarWolf314/envchain/internal/backend"
	"github.com/PolarWolf314/envchain/internal/ui"
	"github.com/PolarWolf314/envchain/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	migrateFrom   string
	migrateTo     string
	migrateDryRun bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate --to BACKEND [--from BACKEND] [NAMESPACE...]",
	Short: "Copy namespaces from one backend to another",
	Long: `Copies every namespace (or only the given ones) from the --from backend,
which defaults to the configured backend, into the --to backend. Variables
already present in the target are overwritten. The source is not modified.`,
	ValidArgsFunction: completeNamespaces,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting migrate command")

		if migrateTo == "" {
			return usageErrorf("--to is required")
		}
		from, err := backend.Normalize(orResolved(migrateFrom))
		if err != nil {
			return err
		}
		to, err := backend.Normalize(migrateTo)
		if err != nil {
			return err
		}
		if from == to {
			return usageErrorf("--from and --to are both %s", from)
		}

		source, err := openBackend(cmd, from)
		if err != nil {
			return err
		}
		target, err := openBackend(cmd, to)
		if err != nil {
			return err
		}

		spinner, cleanup := startSpinner(cmd.ErrOrStderr(), "Copying secrets from "+from+" to "+to+"...")
		defer cleanup()

		result, err := workflows.Migrate(cmd.Context(), workflows.MigrateOptions{
			From:       source,
			To:         target,
			Namespaces: args,
			DryRun:     migrateDryRun,
		})
		if err != nil {
			spinner.FinalMSG = ui.Failuref("Migration from %s to %s failed", from, to)
			return err
		}

		if result.DryRun {
			msg := ui.Hintf("Would copy %d variable(s) in %d namespace(s) from %s to %s",
				result.Entries(), len(result.Namespaces), from, to)
			for _, ns := range result.Namespaces {
				msg += "\n  " + ui.Namespace.Sprint(ns.Name) + " " + ui.Muted.Sprintf("%d", ns.Entries)
			}
			spinner.FinalMSG = msg
			return nil
		}

		spinner.FinalMSG = ui.Successf("Copied %d variable(s) in %d namespace(s) from %s to %s",
			result.Entries(), len(result.Namespaces), from, to)
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateFrom, "from", "", "backend to copy from (defaults to the configured backend)")
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "backend to copy to")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "show what would be copied without writing")
}

func orResolved(name string) string {
	if name != "" {
		return name
	}
	return resolved.Backend
}
