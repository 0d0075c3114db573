package cmd

import (
	"errors"
	"fmt"
	"io"

	kerrors "github.com/PolarWolf314/envchain/internal/errors"
	"github.com/PolarWolf314/envchain/internal/ui"
)

// Exit codes.
const (
	ExitOK                    = 0
	ExitFailure               = 1
	ExitUsage                 = 2
	ExitNamespaceNotFound     = 3
	ExitIdentity              = 4
	ExitPassphraseUnavailable = 5
	ExitIO                    = 6
)

// UsageError reports a malformed command line.
type UsageError struct {
	msg string
}

func (e *UsageError) Error() string { return e.msg }

func usageErrorf(format string, args ...any) error {
	return &UsageError{msg: fmt.Sprintf(format, args...)}
}

// exitError carries a child process status out of exec mode. It has
// nothing to print.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// ExitCode maps an error returned by a command to the process exit status.
func ExitCode(err error) int {
	var (
		usage *UsageError
		exit  *exitError
	)
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &exit):
		return exit.code
	case errors.As(err, &usage):
		return ExitUsage
	case errors.Is(err, kerrors.ErrNamespaceNotFound):
		return ExitNamespaceNotFound
	case errors.Is(err, kerrors.ErrPassphraseUnavailable):
		return ExitPassphraseUnavailable
	case errors.Is(err, kerrors.ErrIdentityLoad),
		errors.Is(err, kerrors.ErrDecryption),
		errors.Is(err, kerrors.ErrCorruptContainer):
		return ExitIdentity
	case errors.Is(err, kerrors.ErrIOFailure):
		return ExitIO
	default:
		return ExitFailure
	}
}

// printError writes a user-facing description of err to w.
func printError(w io.Writer, err error) {
	var (
		usage *UsageError
		exit  *exitError
	)
	switch {
	case errors.As(err, &exit):
		return
	case errors.As(err, &usage):
		fmt.Fprintln(w, ui.Failuref("%s", err))
		fmt.Fprintln(w, ui.Hintf("Run %s for usage", ui.Code.Sprint("envchain --help")))
	case errors.Is(err, kerrors.ErrDecryption):
		fmt.Fprintln(w, ui.Failuref("The identity in use cannot decrypt the secrets file"))
		fmt.Fprintln(w, ui.Hintf("Pass the identity the file was written with using %s or %s",
			ui.Flag.Sprint("--age-identity"), ui.Code.Sprint("ENVCHAIN_AGE_IDENTITY")))
	case errors.Is(err, kerrors.ErrCorruptContainer):
		fmt.Fprintln(w, ui.Failuref("The secrets file is damaged or is not an envchain secrets file"))
		fmt.Fprintln(w, ui.Muted.Sprint(err.Error()))
	case errors.Is(err, kerrors.ErrPassphraseUnavailable):
		fmt.Fprintln(w, ui.Failuref("%s", err))
		fmt.Fprintln(w, ui.Hintf("Run envchain from a terminal, or use an identity without a passphrase"))
	default:
		fmt.Fprintln(w, ui.Failuref("%s", err))
	}
}
