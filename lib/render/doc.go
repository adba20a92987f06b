// Copyright 2026 The Gridshare Authors
// SPDX-License-Identifier: Apache-2.0

// Package render turns an issued token into the artifact the user
// asked for: a sharable link, the bare token, ready-to-run transfer
// commands, or a named rclone profile.
//
// Rendering is pure output — no network calls happen here. Artifacts
// go to stdout so scripts can capture them; advisory text (the
// bearer-credential warning on links) goes to stderr.
package render
