// Copyright 2026 The Gridshare Authors
// SPDX-License-Identifier: Apache-2.0

package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gridshare-foundation/gridshare/lib/caveat"
	"github.com/gridshare-foundation/gridshare/lib/macaroon"
)

// Logger appends issuance records to a per-user log file.
type Logger struct {
	// Path is the log file. Empty means DefaultPath().
	Path string

	// Now is the timestamp source. Nil means time.Now.
	Now func() time.Time
}

// DefaultPath is $XDG_STATE_HOME/gridshare/issued.log, falling back to
// ~/.local/state/gridshare/issued.log.
func DefaultPath() string {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		stateDir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateDir, "gridshare", "issued.log")
}

// Record appends one issuance block: timestamp, origin, the caveat set
// as sent, and the token's redacted dump. The signature never appears.
// The whole block is written in a single append so concurrent
// invocations cannot interleave partial records.
func (l *Logger) Record(scope caveat.Scope, set caveat.Set, response *macaroon.TokenResponse) error {
	path := l.Path
	if path == "" {
		path = DefaultPath()
	}

	var block strings.Builder
	now := time.Now()
	if l.Now != nil {
		now = l.Now()
	}
	fmt.Fprintf(&block, "issued: %s\n", now.UTC().Format(time.RFC3339))
	fmt.Fprintf(&block, "origin: %s\n", scope.Origin)
	for _, entry := range set {
		fmt.Fprintf(&block, "caveat: %s\n", entry)
	}
	if decoded, err := macaroon.Decode(response.Macaroon); err == nil {
		block.WriteString(macaroon.RedactedDump(decoded))
	}
	block.WriteString("--\n")

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("audit: creating log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("audit: opening log: %w", err)
	}
	defer file.Close()

	// Re-tighten permissions on every append, not only on creation:
	// some filesystems and rotation tools reset the mode.
	if err := file.Chmod(0o600); err != nil {
		return fmt.Errorf("audit: restricting log permissions: %w", err)
	}

	if _, err := file.WriteString(block.String()); err != nil {
		return fmt.Errorf("audit: appending record: %w", err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("audit: flushing log: %w", err)
	}
	return nil
}
