// Copyright 2026 The Gridshare Authors
// SPDX-License-Identifier: Apache-2.0

package credential

import (
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"time"
)

// ProxyChecker reports whether a proxy certificate file is usable for
// authentication. The real implementation reads the filesystem; tests
// substitute their own.
type ProxyChecker interface {
	Check(path string) error
}

// FileProxyCheck validates a proxy certificate file on disk: the file
// must exist, contain at least one PEM CERTIFICATE block, and the
// leading (leaf) certificate must be inside its validity window.
type FileProxyCheck struct {
	// Now is the clock used for expiry checks. Nil means time.Now.
	Now func() time.Time
}

func (c FileProxyCheck) Check(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading proxy: %w", err)
	}

	leaf, err := leafCertificate(data)
	if err != nil {
		return err
	}

	now := time.Now()
	if c.Now != nil {
		now = c.Now()
	}
	if now.Before(leaf.NotBefore) {
		return fmt.Errorf("proxy not valid until %s", leaf.NotBefore.Format(time.RFC3339))
	}
	if now.After(leaf.NotAfter) {
		return fmt.Errorf("proxy expired at %s", leaf.NotAfter.Format(time.RFC3339))
	}
	return nil
}

// leafCertificate parses the first CERTIFICATE block in a PEM bundle.
// Proxy files hold the leaf first, followed by its key and the chain.
func leafCertificate(data []byte) (*x509.Certificate, error) {
	rest := data
	for len(rest) > 0 {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("parsing proxy certificate: %w", err)
		}
		return cert, nil
	}
	return nil, fmt.Errorf("no certificate found in proxy file")
}

// DefaultProxyPath is the conventional proxy location: $X509_USER_PROXY
// when set, otherwise /tmp/x509up_u<uid>.
func DefaultProxyPath() string {
	if path := os.Getenv("X509_USER_PROXY"); path != "" {
		return path
	}
	return fmt.Sprintf("/tmp/x509up_u%d", os.Getuid())
}
