// Copyright 2026 The Gridshare Authors
// SPDX-License-Identifier: Apache-2.0

// Package caveat turns user-supplied restriction intents into the
// ordered caveat set sent to the issuing endpoint.
//
// A caveat is a string restriction appended to a delegated token:
// the path subtree it covers, the activities it permits, the source
// networks it accepts, and the upload volume it allows. The issuing
// server is authoritative for caveat semantics; this package only
// guarantees that the set it builds is well-formed, deterministic,
// and rejected locally when the parts it can check (target URL,
// validity grammar, size syntax) are malformed — before any network
// round-trip happens.
//
// The set order is fixed: path scope, activity, ip, max-upload.
// Servers use the order for diagnostics only, but determinism keeps
// issuance reproducible and testable.
package caveat
