// Package ioprompt satisfies the Disambiguator contract with terminal
// prompts. The pipeline blocks on every call until the operator supplies
// a valid answer; there is no cancellation beyond the context.
package ioprompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/SPI-Birds/metadata/pkg/pipeline"
	"github.com/gnames/gn"
)

// Compile-time contract assertion.
var _ pipeline.Disambiguator = (*Prompter)(nil)

// Prompter reads operator answers line by line.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a Prompter on stdin/stdout.
func New() *Prompter {
	return &Prompter{
		in:  bufio.NewReader(os.Stdin),
		out: os.Stdout,
	}
}

// NewWithIO creates a Prompter on the given streams, used by tests.
func NewWithIO(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// ChooseOne prints the numbered options and blocks until the operator
// enters a valid 1-based row number. Invalid answers reprompt.
func (p *Prompter) ChooseOne(
	ctx context.Context, prompt string, options []string,
) (int, error) {
	gn.Message("<em>%s</em>", prompt)
	for i, opt := range options {
		fmt.Fprintf(p.out, "  %d. %s\n", i+1, opt)
	}

	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		fmt.Fprintf(p.out, "Enter a number (1-%d): ", len(options))
		line, err := p.in.ReadString('\n')
		if err != nil {
			return 0, err
		}
		n, convErr := strconv.Atoi(strings.TrimSpace(line))
		if convErr != nil || n < 1 || n > len(options) {
			gn.Warn("Not a valid row number, try again")
			continue
		}
		return n - 1, nil
	}
}

// ProvideValue blocks until the operator enters a non-empty value.
// Validation beyond non-emptiness is the caller's job; callers reprompt
// by calling again.
func (p *Prompter) ProvideValue(
	ctx context.Context, prompt string,
) (string, error) {
	gn.Message("<em>%s</em>", prompt)
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		fmt.Fprint(p.out, "> ")
		line, err := p.in.ReadString('\n')
		if err != nil {
			return "", err
		}
		res := strings.TrimSpace(line)
		if res == "" {
			gn.Warn("An answer is required to proceed")
			continue
		}
		return res, nil
	}
}
