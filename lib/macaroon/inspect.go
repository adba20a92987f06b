// Copyright 2026 The Gridshare Authors
// SPDX-License-Identifier: Apache-2.0

package macaroon

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	macaroonv2 "gopkg.in/macaroon.v2"
)

// Decode parses a serialized token. Doors emit unpadded base64url, but
// padded and standard-alphabet encodings show up once tokens have been
// through copy-paste and shell quoting, so all four variants are
// accepted.
func Decode(token string) (*macaroonv2.Macaroon, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("macaroon: empty token")
	}

	raw, err := decodeBase64(token)
	if err != nil {
		return nil, fmt.Errorf("macaroon: token is not base64: %w", err)
	}

	var m macaroonv2.Macaroon
	if err := m.UnmarshalBinary(raw); err != nil {
		return nil, fmt.Errorf("macaroon: decoding token: %w", err)
	}
	return &m, nil
}

func decodeBase64(s string) ([]byte, error) {
	stripped := strings.TrimRight(s, "=")
	if strings.ContainsAny(stripped, "+/") {
		return base64.RawStdEncoding.DecodeString(stripped)
	}
	return base64.RawURLEncoding.DecodeString(stripped)
}

// Dump renders a decoded token in the conventional inspection layout:
// location, identifier, one cid line per caveat, then the signature.
func Dump(m *macaroonv2.Macaroon) string {
	var b strings.Builder
	writeDump(&b, m)
	fmt.Fprintf(&b, "signature: %s\n", Signature(m))
	return b.String()
}

// RedactedDump is Dump without the signature line. This is the only
// form that may be persisted: the signature is the token's proof of
// authority, and a log holding it would itself be a credential store.
func RedactedDump(m *macaroonv2.Macaroon) string {
	var b strings.Builder
	writeDump(&b, m)
	return b.String()
}

// Signature returns the token's signature as lowercase hex.
func Signature(m *macaroonv2.Macaroon) string {
	return hex.EncodeToString(m.Signature())
}

func writeDump(b *strings.Builder, m *macaroonv2.Macaroon) {
	fmt.Fprintf(b, "location: %s\n", m.Location())
	fmt.Fprintf(b, "identifier: %s\n", printable(m.Id()))
	for _, c := range m.Caveats() {
		if len(c.VerificationId) > 0 {
			fmt.Fprintf(b, "cid: %s (third party, location %s)\n", printable(c.Id), c.Location)
			continue
		}
		fmt.Fprintf(b, "cid: %s\n", printable(c.Id))
	}
}

// printable renders identifier bytes as text when they are text, hex
// otherwise.
func printable(data []byte) string {
	for _, r := range string(data) {
		if r == '�' || (r < ' ' && r != '\t') {
			return hex.EncodeToString(data)
		}
	}
	return string(data)
}
