// Copyright 2026 The Gridshare Authors
// SPDX-License-Identifier: Apache-2.0

package credential

import (
	"fmt"

	"github.com/gridshare-foundation/gridshare/lib/secret"
)

// CredentialError reports an unusable or contradictory authentication
// configuration. It is always detected before any network call.
type CredentialError struct {
	Reason string
}

func (e *CredentialError) Error() string { return e.Reason }

func credentialErrorf(format string, args ...any) *CredentialError {
	return &CredentialError{Reason: fmt.Sprintf(format, args...)}
}

// Credential is the authentication material presented to the issuing
// endpoint. Exactly one variant exists per invocation: ProxyCertificate
// or BasicAuth. The interface is sealed so a switch over variants is
// exhaustive.
type Credential interface {
	credential()
}

// ProxyCertificate authenticates with an X.509 proxy certificate file
// (certificate and key concatenated in one PEM file), presented as a
// TLS client certificate.
type ProxyCertificate struct {
	Path string
}

func (ProxyCertificate) credential() {}

// BasicAuth authenticates with a username and an interactively supplied
// (or file-sourced) password. The password buffer is owned by the
// caller and must be closed after the request completes.
type BasicAuth struct {
	Username string
	Password *secret.Buffer
}

func (BasicAuth) credential() {}

// Selection is the user's requested authentication mode.
type Selection struct {
	// Proxy requests proxy-certificate mode.
	Proxy bool

	// ProxyPath is the proxy certificate file. Empty means
	// DefaultProxyPath().
	ProxyPath string

	// Username requests basic-auth mode when non-empty.
	Username string

	// PasswordFile sources the password from a file ("-" for stdin)
	// instead of prompting on the terminal.
	PasswordFile string
}

// Select resolves a Selection into a ready-to-use Credential. It fails
// with *CredentialError when both modes are requested, neither is, or
// the chosen material is unusable (absent or expired proxy). checker
// and prompter are the external capability seams; pass FileProxyCheck
// and TerminalPrompt for real invocations.
func Select(s Selection, checker ProxyChecker, prompter PasswordPrompter) (Credential, error) {
	switch {
	case s.Proxy && s.Username != "":
		return nil, credentialErrorf("--proxy and --user are mutually exclusive: pick one authentication mode")

	case s.Proxy:
		path := s.ProxyPath
		if path == "" {
			path = DefaultProxyPath()
		}
		if err := checker.Check(path); err != nil {
			return nil, credentialErrorf("proxy certificate %s unusable: %v", path, err)
		}
		return ProxyCertificate{Path: path}, nil

	case s.Username != "":
		password, err := readPassword(s, prompter)
		if err != nil {
			return nil, err
		}
		return BasicAuth{Username: s.Username, Password: password}, nil

	default:
		return nil, credentialErrorf("no authentication mode selected: pass --proxy or --user <name>")
	}
}

func readPassword(s Selection, prompter PasswordPrompter) (*secret.Buffer, error) {
	if s.PasswordFile != "" {
		buffer, err := secret.ReadFromPath(s.PasswordFile)
		if err != nil {
			return nil, credentialErrorf("password file: %v", err)
		}
		return buffer, nil
	}

	buffer, err := prompter.Prompt(s.Username)
	if err != nil {
		return nil, credentialErrorf("password prompt: %v", err)
	}
	return buffer, nil
}
