// Copyright 2026 The Gridshare Authors
// SPDX-License-Identifier: Apache-2.0

package credential

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/gridshare-foundation/gridshare/lib/secret"
)

// PasswordPrompter acquires a password for basic-auth mode. The real
// implementation reads from the terminal with echo disabled; tests
// substitute a canned password.
type PasswordPrompter interface {
	Prompt(username string) (*secret.Buffer, error)
}

// TerminalPrompt reads a password interactively from stdin with echo
// disabled. The prompt itself goes to stderr so stdout stays clean for
// piped token output.
type TerminalPrompt struct{}

func (TerminalPrompt) Prompt(username string) (*secret.Buffer, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("no terminal available for password prompt (use --password-file)")
	}

	fmt.Fprintf(os.Stderr, "Password for %s: ", username)
	passwordBytes, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}
	if len(passwordBytes) == 0 {
		return nil, fmt.Errorf("empty password")
	}

	return secret.NewFromBytes(passwordBytes)
}
