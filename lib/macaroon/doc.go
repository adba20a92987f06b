// Copyright 2026 The Gridshare Authors
// SPDX-License-Identifier: Apache-2.0

// Package macaroon requests delegated authorization tokens from a
// storage endpoint and inspects the tokens it gets back.
//
// # Request protocol
//
// A token is minted by a single POST to the storage origin with
// Content-Type application/macaroon-request and body
//
//	{"caveats": ["path:/data", "activity:DOWNLOAD,LIST"], "validity": "PT5M"}
//
// authenticated either with a TLS client certificate (proxy mode) or
// HTTP basic auth. A successful reply is JSON carrying a "macaroon"
// field and a ready-to-share "uri.targetWithMacaroon" URL; any other
// shape — an HTML error page, a JSON error object — is an
// IssuanceError. There is no retry: the validity window is measured
// from issuance time, so a blind retry would mint a token with a
// different window. That decision belongs to the user.
//
// # Inspection
//
// The macaroon cryptographic construction is owned by the issuing
// server; this package treats tokens as opaque except for decoding
// them (gopkg.in/macaroon.v2) to render their caveats. RedactedDump
// never includes the signature — it is the form safe to persist in
// the audit log.
package macaroon
