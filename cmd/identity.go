package cmd

import (
	"fmt"

	"github.com/PolarWolf314/envchain/internal/backend"
	"github.com/PolarWolf314/envchain/internal/secrets"
	"github.com/PolarWolf314/envchain/internal/ui"
	"github.com/PolarWolf314/envchain/internal/workflows"

	"github.com/spf13/cobra"
)

var identityCmd = &cobra.Command{
	Use:   "identity",
	Short: "Show the identity used by the age backend",
	Long: `Prints the kind, location and public key of the identity that encrypts the
age backend's secrets file. The default identity is created if it does not
exist yet.`,
	Args: maxArgs(0, "no arguments"),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting identity command")

		b, err := openBackend(cmd, backend.Age)
		if err != nil {
			return err
		}
		store, ok := b.(*secrets.AgeStore)
		if !ok {
			return Logger.ErrorfAndReturn("unexpected backend %s", b.Name())
		}

		result, err := workflows.Identity(workflows.IdentityOptions{Store: store})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Kind:        %s\n", result.Kind)
		fmt.Fprintf(out, "Identity:    %s\n", ui.Path.Sprint(result.Path))
		fmt.Fprintf(out, "Public key:  %s\n", result.PublicKey)
		secretsState := "not created yet"
		if result.SecretsExist {
			secretsState = "present"
		}
		fmt.Fprintf(out, "Secrets:     %s %s\n", ui.Path.Sprint(result.SecretsPath), ui.Muted.Sprint(secretsState))
		return nil
	},
}
