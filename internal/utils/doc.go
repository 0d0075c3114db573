// Package utils provides terminal and input helpers shared by envchain's
// commands and the age identity loader.
//
// # Terminal Utilities
//
//   - ReadPassphrase / ReadPassphraseFromTTY: hidden input for SSH key passphrases
//   - IsTerminal / IsTTYAvailable: interactivity checks
//
// # Prompting
//
// Prompter reads variable values either from a terminal (optionally without
// echo) or line by line from piped standard input, so that
//
//	printf 'a\nb\n' | envchain set ns A B
//
// assigns both values.
package utils
