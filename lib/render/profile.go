// Copyright 2026 The Gridshare Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"fmt"
	"os/exec"
)

// ToolingError reports that an external capability this output mode
// depends on is unavailable or failed. It occurs only when the mode
// needing the capability is selected.
type ToolingError struct {
	Reason string
}

func (e *ToolingError) Error() string { return e.Reason }

// ProfileWriter persists a named client-configuration profile usable
// by a generic WebDAV-capable transfer tool.
type ProfileWriter interface {
	Write(name, origin, token string) error
}

// RcloneProfile writes profiles through "rclone config create". The
// resulting remote speaks WebDAV with the token as a bearer credential.
type RcloneProfile struct{}

func (RcloneProfile) Write(name, origin, token string) error {
	rclone, err := exec.LookPath("rclone")
	if err != nil {
		return &ToolingError{Reason: "rclone not found on PATH: install rclone or choose another output mode"}
	}

	command := exec.Command(rclone, "config", "create", name, "webdav",
		"url="+origin,
		"vendor=other",
		"bearer_token="+token,
	)
	// rclone echoes the created section, token included. Capture it
	// instead of letting it reach the terminal.
	if output, err := command.CombinedOutput(); err != nil {
		return &ToolingError{Reason: fmt.Sprintf("rclone config create failed: %v: %s", err, output)}
	}
	return nil
}
