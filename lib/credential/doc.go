// Copyright 2026 The Gridshare Authors
// SPDX-License-Identifier: Apache-2.0

// Package credential selects the authentication mode for a token
// request and validates the chosen material before any caveat work or
// network traffic.
//
// The two modes — X.509 proxy certificate and username/password — are
// mutually exclusive by construction: Select returns a sealed
// Credential union and refuses to build both. Validity checking
// (proxy expiry) and password acquisition are injected capabilities,
// so the selection logic is testable without certificate files or a
// terminal.
package credential
