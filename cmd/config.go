package cmd

import (
	"fmt"

	"github.com/PolarWolf314/envchain/internal/backend"
	"github.com/PolarWolf314/envchain/internal/configs"
	"github.com/PolarWolf314/envchain/internal/ui"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the settings stored in config.toml",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective settings and where each one comes from",
	Args:  maxArgs(0, "no arguments"),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		settings := configs.UserEnvchainSettings

		identity := resolved.AgeIdentity
		if identity == "" {
			identity = settings.IdentityPath
		}

		fmt.Fprintf(out, "backend:       %s %s\n", resolved.Backend, ui.Muted.Sprint(resolved.BackendSource))
		fmt.Fprintf(out, "age identity:  %s %s\n", ui.Path.Sprint(identity), ui.Muted.Sprint(resolved.AgeIdentitySource))
		fmt.Fprintf(out, "secrets file:  %s\n", ui.Path.Sprint(settings.SecretsPath))
		fmt.Fprintf(out, "config file:   %s\n", ui.Path.Sprint(settings.ConfigFilePath))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Store a setting (backend, age-identity); an empty VALUE clears it",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 2 {
			return usageErrorf("expected KEY VALUE")
		}
		return nil
	},
	ValidArgs: []string{"backend", "age-identity"},
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		config, err := configs.LoadConfig()
		if err != nil {
			return err
		}

		switch key {
		case "backend":
			if value != "" {
				if value, err = backend.Normalize(value); err != nil {
					return err
				}
			}
			config.Backend = value
		case "age-identity", "age_identity":
			config.AgeIdentity = value
		default:
			return usageErrorf("unknown setting %q (expected backend or age-identity)", key)
		}

		if err := configs.SaveConfig(config); err != nil {
			return err
		}

		if value == "" {
			fmt.Fprintln(cmd.ErrOrStderr(), ui.Successf("Cleared %s", key))
		} else {
			fmt.Fprintln(cmd.ErrOrStderr(), ui.Successf("Set %s to %s", key, ui.Code.Sprint(value)))
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
