// Copyright 2026 The Gridshare Authors
// SPDX-License-Identifier: Apache-2.0

package caveat

import (
	"fmt"
	"net/url"
)

// ConfigError reports user-supplied configuration that cannot produce a
// valid token request: a malformed target URL, a validity string outside
// the ISO-8601 grammar, or an unparseable size limit. It is always
// detected before any network call.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return e.Reason }

func configErrorf(format string, args ...any) *ConfigError {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// Scope identifies the storage subtree a token is confined to.
type Scope struct {
	// Target is the URL exactly as the user supplied it.
	Target string

	// Origin is the scheme://host[:port] prefix of Target. Token
	// requests are POSTed here, and rooted uploads target it.
	Origin string

	// Path is the absolute resource path within the store. "/" when
	// Target carries no path.
	Path string

	// Root marks the path as the token's root: the holder sees Path
	// as "/" and ancestor directories are hidden. When false the
	// token is a constrained subpath of the full tree.
	Root bool
}

// ParseScope splits a target URL into origin and path. The URL must
// carry a scheme and a host; anything else is a ConfigError.
func ParseScope(target string, root bool) (Scope, error) {
	parsed, err := url.Parse(target)
	if err != nil {
		return Scope{}, configErrorf("malformed target URL %q: %v", target, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return Scope{}, configErrorf("target URL %q must include scheme and host (e.g. https://dav.example.org/data)", target)
	}

	path := parsed.Path
	if path == "" {
		path = "/"
	}

	return Scope{
		Target: target,
		Origin: parsed.Scheme + "://" + parsed.Host,
		Path:   path,
		Root:   root,
	}, nil
}
