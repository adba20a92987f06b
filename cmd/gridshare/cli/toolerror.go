// Copyright 2026 The Gridshare Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"

	"github.com/gridshare-foundation/gridshare/lib/caveat"
	"github.com/gridshare-foundation/gridshare/lib/credential"
	"github.com/gridshare-foundation/gridshare/lib/macaroon"
	"github.com/gridshare-foundation/gridshare/lib/render"
)

// Category classifies a failed command for the top-level reporter and
// for scripts parsing stderr.
type Category string

const (
	// CategoryConfig is invalid user input: malformed URL, bad
	// validity grammar, conflicting flags, missing required value.
	// Detected before any network call.
	CategoryConfig Category = "config"

	// CategoryCredential is unusable authentication material:
	// expired or absent proxy, missing username. Also pre-network.
	CategoryCredential Category = "credential"

	// CategoryIssuance means the server was reachable but returned
	// no token.
	CategoryIssuance Category = "issuance"

	// CategoryTooling means a required external capability (the
	// profile writer) is unavailable.
	CategoryTooling Category = "tooling"

	// CategoryInternal is everything else: bugs, I/O failures.
	CategoryInternal Category = "internal"
)

// ToolError wraps a command failure with its category. The category
// prefixes the rendered message; the inner error chain stays intact
// for errors.Is/As.
type ToolError struct {
	Category Category
	Err      error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s: %v", e.Category, e.Err)
}

func (e *ToolError) Unwrap() error { return e.Err }

// Config builds a config-category error.
func Config(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryConfig, Err: fmt.Errorf(format, args...)}
}

// Internal builds an internal-category error.
func Internal(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}

// Categorize maps a library error onto its category by the typed
// errors the lib packages return. Errors that already carry a category
// pass through unchanged.
func Categorize(err error) *ToolError {
	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		return toolErr
	}

	category := CategoryInternal
	var (
		configErr     *caveat.ConfigError
		credentialErr *credential.CredentialError
		issuanceErr   *macaroon.IssuanceError
		toolingErr    *render.ToolingError
	)
	switch {
	case errors.As(err, &configErr):
		category = CategoryConfig
	case errors.As(err, &credentialErr):
		category = CategoryCredential
	case errors.As(err, &issuanceErr):
		category = CategoryIssuance
	case errors.As(err, &toolingErr):
		category = CategoryTooling
	}
	return &ToolError{Category: category, Err: err}
}
