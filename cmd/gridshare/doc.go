// Copyright 2026 The Gridshare Authors
// SPDX-License-Identifier: Apache-2.0

// gridshare requests scoped, delegated authorization tokens
// (macaroons) from WebDAV-capable grid storage and renders them as
// sharable links, bare tokens, transfer commands, or rclone profiles.
//
// Every issued token's caveats are appended, signature excluded, to a
// private audit log under $XDG_STATE_HOME/gridshare/.
package main
