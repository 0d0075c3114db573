package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Formatter applies semantic formatting to text.
type Formatter struct {
	color  *color.Color
	prefix string
	suffix string
}

// Sprint formats the arguments and returns the resulting string.
func (f Formatter) Sprint(a ...any) string {
	return f.render(fmt.Sprint(a...))
}

// Sprintf formats according to a format specifier and returns the resulting string.
func (f Formatter) Sprintf(format string, a ...any) string {
	return f.render(fmt.Sprintf(format, a...))
}

func (f Formatter) render(text string) string {
	if noColor() {
		return f.prefix + text + f.suffix
	}
	return f.color.Sprint(text)
}

// noColor reports whether color output is disabled, either through
// NO_COLOR (https://no-color.org/) or fatih/color's terminal detection.
func noColor() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return true
	}
	return color.NoColor
}

var (
	// Code formats runnable commands. `backticks` without color.
	Code = Formatter{color.New(color.FgYellow), "`", "`"}

	// Path formats file or directory paths.
	Path = Formatter{color.New(color.FgYellow), "", ""}

	// Flag formats CLI flags like --backend.
	Flag = Formatter{color.New(color.FgYellow), "", ""}

	// Namespace formats namespace and variable names. 'quotes' without color.
	Namespace = Formatter{color.New(color.FgCyan), "'", "'"}

	Success = Formatter{color.New(color.FgGreen), "", ""}
	Error   = Formatter{color.New(color.FgRed), "", ""}
	Warning = Formatter{color.New(color.FgYellow), "", ""}
	Info    = Formatter{color.New(color.FgCyan), "", ""}

	// Muted formats secondary text. (parentheses) without color.
	Muted = Formatter{color.New(color.FgHiBlack), "(", ")"}
)

// Successf returns a "✓ message" status line.
func Successf(format string, a ...any) string {
	return Success.Sprint("✓") + " " + fmt.Sprintf(format, a...)
}

// Failuref returns a "✗ message" status line.
func Failuref(format string, a ...any) string {
	return Error.Sprint("✗") + " " + fmt.Sprintf(format, a...)
}

// Warningf returns a "⚠ message" status line.
func Warningf(format string, a ...any) string {
	return Warning.Sprint("⚠") + " " + fmt.Sprintf(format, a...)
}

// Hintf returns a "→ message" hint line.
func Hintf(format string, a ...any) string {
	return Info.Sprint("→") + " " + fmt.Sprintf(format, a...)
}

// EnsureNewline ensures the string ends with a newline character.
func EnsureNewline(s string) string {
	if len(s) == 0 || s[len(s)-1] != '\n' {
		return s + "\n"
	}
	return s
}
