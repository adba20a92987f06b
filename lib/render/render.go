// Copyright 2026 The Gridshare Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"fmt"
	"io"

	"github.com/gridshare-foundation/gridshare/lib/caveat"
	"github.com/gridshare-foundation/gridshare/lib/macaroon"
)

// Mode selects the output artifact. Exactly one per invocation.
type Mode string

const (
	// ModeLink prints the share URL with the token embedded.
	ModeLink Mode = "link"
	// ModeToken prints the bare token.
	ModeToken Mode = "token"
	// ModeCommands prints curl commands matching the permitted
	// activities.
	ModeCommands Mode = "commands"
	// ModeProfile writes a named rclone profile instead of printing.
	ModeProfile Mode = "profile"
)

// ParseMode validates an --output value.
func ParseMode(value string) (Mode, error) {
	switch Mode(value) {
	case ModeLink, ModeToken, ModeCommands, ModeProfile:
		return Mode(value), nil
	}
	return "", fmt.Errorf("unknown output mode %q (link, token, commands, or profile)", value)
}

// Renderer produces the requested artifact for an issued token.
type Renderer struct {
	// Stdout receives the artifact (capturable/pipeable).
	Stdout io.Writer

	// Stderr receives advisory text.
	Stderr io.Writer

	// Profiles is the client-profile writer capability used by
	// ModeProfile. Nil means RcloneProfile.
	Profiles ProfileWriter
}

// Render writes the artifact for mode. profileName is consulted only
// for ModeProfile. The caveat set is inspected (never modified) to
// decide which transfer commands apply.
func (r *Renderer) Render(mode Mode, profileName string, response *macaroon.TokenResponse, scope caveat.Scope, set caveat.Set) error {
	switch mode {
	case ModeLink:
		// A link is a bearer credential: opening it authenticates
		// the holder as the token's creator.
		fmt.Fprintln(r.Stderr, "Warning: anyone with this link has the token's full authority until it expires.")
		fmt.Fprintln(r.Stdout, response.TargetWithMacaroon)
		return nil

	case ModeToken:
		fmt.Fprintln(r.Stdout, response.Macaroon)
		return nil

	case ModeCommands:
		r.renderCommands(response, scope, set)
		return nil

	case ModeProfile:
		if profileName == "" {
			return fmt.Errorf("output mode profile requires a profile name")
		}
		profiles := r.Profiles
		if profiles == nil {
			profiles = RcloneProfile{}
		}
		if err := profiles.Write(profileName, scope.Origin, response.Macaroon); err != nil {
			return err
		}
		fmt.Fprintf(r.Stderr, "Wrote client profile %q for %s\n", profileName, scope.Origin)
		return nil

	default:
		return fmt.Errorf("unknown output mode %q", mode)
	}
}

// renderCommands emits one curl command per permitted transfer
// direction. Downloads and listings always target the scoped URL.
// Uploads target the origin when the scope is rooted — a rooted token
// can write anywhere under the origin — and the scoped URL otherwise,
// where the server constrains writes to that subtree.
func (r *Renderer) renderCommands(response *macaroon.TokenResponse, scope caveat.Scope, set caveat.Set) {
	bearer := fmt.Sprintf("-H \"Authorization: Bearer %s\"", response.Macaroon)

	if set.Permits("DOWNLOAD") || set.Permits("LIST") {
		fmt.Fprintf(r.Stdout, "curl %s %s\n", bearer, scope.Target)
	}
	if set.Permits("UPLOAD") {
		target := scope.Target
		if scope.Root {
			target = scope.Origin
		}
		fmt.Fprintf(r.Stdout, "curl %s -T FILE %s\n", bearer, target)
	}
}
