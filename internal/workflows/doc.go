// Package workflows provides high-level orchestration for envchain commands.
//
// Each workflow implements one command's logic against a backend.Backend,
// independent of CLI concerns like flag parsing, prompts on the terminal,
// spinners and output formatting. The cmd/ package parses arguments, opens
// the backend, calls the workflow and prints the result.
//
// # Available Workflows
//
//   - Set: prompts for values and stores them in one write
//   - List: lists namespaces, or the names (and values) of one namespace
//   - Unset: removes variables from a namespace
//   - BuildEnv / Exec: assembles a child environment and runs a command in it
//   - Migrate: copies namespaces between backends
//   - Identity: reports the age store's identity
//
// # Error Handling
//
// Workflows return typed errors from the internal/errors package so the CLI
// layer can choose messages and exit codes without string matching:
//
//	_, err := workflows.List(ctx, opts)
//	if errors.Is(err, kerrors.ErrNamespaceNotFound) {
//	    // warn that the namespace is not defined
//	}
//
// # Context Usage
//
// Workflows that reach a backend accept a context.Context as their first
// parameter.
package workflows
