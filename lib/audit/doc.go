// Copyright 2026 The Gridshare Authors
// SPDX-License-Identifier: Apache-2.0

// Package audit keeps a private, append-only record of every issued
// token's caveats.
//
// The log deliberately stores less than the tool knows: the token's
// signature — the part that makes it a usable credential — is never
// written, so a leaked log file cannot be replayed. Failure to write
// the log is degraded to a warning by callers; it never blocks
// delivery of the token.
package audit
