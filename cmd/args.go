package cmd

import "github.com/spf13/cobra"

// classicCommands maps the flag spellings of the original envchain to
// subcommands, so `envchain --set aws KEY` keeps working.
var classicCommands = map[string]string{
	"--set":   "set",
	"--list":  "list",
	"--unset": "unset",
}

// globalFlagsWithValue are root flags whose value is the next argument.
var globalFlagsWithValue = map[string]bool{
	"--backend":      true,
	"--age-identity": true,
}

// RewriteClassicArgs replaces the first non-flag argument with a
// subcommand when it is one of the classic spellings. Global flags before
// it are kept as they are.
func RewriteClassicArgs(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)

	for i := 0; i < len(out); i++ {
		arg := out[i]
		if arg == "--" {
			return out
		}
		if globalFlagsWithValue[arg] {
			i++
			continue
		}
		if sub, ok := classicCommands[arg]; ok {
			out[i] = sub
			return out
		}
		if len(arg) > 0 && arg[0] == '-' {
			continue
		}
		return out
	}
	return out
}

func requireArgs(min int, usage string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) < min {
			return usageErrorf("missing arguments, expected %s", usage)
		}
		return nil
	}
}

func maxArgs(max int, usage string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) > max {
			return usageErrorf("too many arguments, expected %s", usage)
		}
		return nil
	}
}
