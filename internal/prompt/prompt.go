// Package prompt asks the operator for values that were not configured.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrNoInput is returned when input ends before a value was entered.
var ErrNoInput = errors.New("no input")

// Prompter reads answers from a terminal or any line-oriented reader.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
	fd  int
}

// NewTerminal prompts on stdin/stderr. Secrets are read without echo when
// stdin is a terminal.
func NewTerminal() *Prompter {
	return &Prompter{
		in:  bufio.NewReader(os.Stdin),
		out: os.Stderr,
		fd:  int(os.Stdin.Fd()),
	}
}

// New prompts on arbitrary streams; secrets are read as plain lines.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out, fd: -1}
}

// Line asks for a visible value.
func (p *Prompter) Line(label string) (string, error) {
	fmt.Fprint(p.out, label)
	return p.readLine()
}

// Secret asks for a value without echoing it.
func (p *Prompter) Secret(label string) (string, error) {
	fmt.Fprint(p.out, label)
	if p.fd >= 0 && term.IsTerminal(p.fd) {
		b, err := term.ReadPassword(p.fd)
		fmt.Fprintln(p.out)
		if err != nil {
			return "", fmt.Errorf("failed to read secret: %w", err)
		}
		return string(b), nil
	}
	return p.readLine()
}

// TOTP asks for a second-factor token. It matches studio.TOTPPrompter.
func (p *Prompter) TOTP(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return p.Secret("Enter your TOTP (MFA) token: ")
}

// Default returns value when set, otherwise asks with label.
func (p *Prompter) Default(value, label string) (string, error) {
	if value = strings.TrimSpace(value); value != "" {
		return value, nil
	}
	return p.Line(label)
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if errors.Is(err, io.EOF) && line == "" {
		return "", ErrNoInput
	}
	return strings.TrimSpace(line), nil
}
