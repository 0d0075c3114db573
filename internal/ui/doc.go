// Package ui provides semantic text formatting for envchain output.
//
// Formatters render with color on capable terminals. When NO_COLOR is set
// or the terminal doesn't support colors, a plain-text decoration is used
// instead so the meaning survives (backticks around commands, quotes around
// namespaces).
//
//	ui.Code.Sprint("envchain set aws AWS_ACCESS_KEY_ID")
//	ui.Path.Sprint("~/.config/envchain/secrets.age")
//	ui.Namespace.Sprint("aws")
//	ui.Success.Sprint("✓")
//	ui.Error.Sprint("✗")
//
// Status lines are built with Successf, Failuref and Hintf, which prefix
// the message with the matching marker.
package ui
