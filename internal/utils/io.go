package utils

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter asks for one value per call. Values come from the terminal when
// In is one, otherwise one line at a time from In.
type Prompter struct {
	In  io.Reader
	Out io.Writer

	// ReadHidden reads without echo from the terminal behind In.
	// Nil means term.ReadPassword on In's file descriptor.
	ReadHidden func() ([]byte, error)

	reader *bufio.Reader
}

// NewPrompter reads values from in and writes prompts to out. Nil
// arguments mean stdin and stderr.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stderr
	}
	return &Prompter{In: in, Out: out}
}

// Prompt writes label and reads one value. With noecho set and a terminal
// on In, typed characters are not shown. Trailing CR/LF is removed; all
// other whitespace is kept.
func (p *Prompter) Prompt(label string, noecho bool) (string, error) {
	if noecho {
		fmt.Fprintf(p.Out, "%s (noecho):", label)
	} else {
		fmt.Fprintf(p.Out, "%s: ", label)
	}

	if noecho {
		if read, ok := p.hiddenReader(); ok {
			value, err := read()
			fmt.Fprintln(p.Out)
			if err != nil {
				return "", fmt.Errorf("failed to read value: %w", err)
			}
			return string(value), nil
		}
	}

	return p.readLine()
}

func (p *Prompter) hiddenReader() (func() ([]byte, error), bool) {
	if p.ReadHidden != nil {
		return p.ReadHidden, true
	}
	f, ok := p.In.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return nil, false
	}
	return func() ([]byte, error) { return term.ReadPassword(int(f.Fd())) }, true
}

func (p *Prompter) readLine() (string, error) {
	if p.reader == nil {
		p.reader = bufio.NewReader(p.In)
	}

	line, err := p.reader.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("failed to read value: %w", err)
		}
		if line == "" {
			return "", fmt.Errorf("failed to read value: %w", io.ErrUnexpectedEOF)
		}
	}

	return strings.TrimRight(line, "\r\n"), nil
}
