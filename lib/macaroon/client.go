// Copyright 2026 The Gridshare Authors
// SPDX-License-Identifier: Apache-2.0

package macaroon

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/gridshare-foundation/gridshare/lib/caveat"
	"github.com/gridshare-foundation/gridshare/lib/credential"
)

// requestContentType is the media type the issuing endpoint dispatches
// token requests on.
const requestContentType = "application/macaroon-request"

// maxResponseBytes bounds how much of a reply is read. Token responses
// are small; anything larger is an error page.
const maxResponseBytes = 1 << 20

// IssuanceError reports that the server was reachable but did not
// return a token. Body holds the response rendered as readably as
// possible (HTML error pages are stripped to text).
type IssuanceError struct {
	StatusCode int
	Body       string
}

func (e *IssuanceError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("token issuance failed: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("token issuance failed: HTTP %d: %s", e.StatusCode, e.Body)
}

// ClientConfig configures a token request client.
type ClientConfig struct {
	// Scope is the storage subtree the token is requested for. The
	// POST goes to Scope.Origin.
	Scope caveat.Scope

	// Credential authenticates the request: ProxyCertificate becomes
	// a TLS client certificate, BasicAuth an Authorization header.
	Credential credential.Credential

	// HTTPClient overrides the transport. Nil derives one from the
	// credential. The client's default timeouts apply; the tool
	// configures none of its own.
	HTTPClient *http.Client

	// Logger receives debug-level request/response records. Nil
	// means slog.Default(). Response bodies are logged at debug
	// level only — they can embed secrets from the server round-trip
	// encoding.
	Logger *slog.Logger
}

// Client issues a single token request. It is not safe for concurrent
// use and is built for exactly one invocation.
type Client struct {
	scope      caveat.Scope
	cred       credential.Credential
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient builds a client for the given scope and credential.
func NewClient(config ClientConfig) (*Client, error) {
	if config.Scope.Origin == "" {
		return nil, fmt.Errorf("macaroon: scope origin is required")
	}
	if config.Credential == nil {
		return nil, fmt.Errorf("macaroon: credential is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		var err error
		httpClient, err = transportFor(config.Credential)
		if err != nil {
			return nil, err
		}
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		scope:      config.Scope,
		cred:       config.Credential,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// transportFor builds the HTTP client matching the credential variant.
// Proxy files carry certificate and key in one PEM bundle, so the same
// path serves as both arguments to the keypair loader.
func transportFor(cred credential.Credential) (*http.Client, error) {
	switch c := cred.(type) {
	case credential.ProxyCertificate:
		pair, err := tls.LoadX509KeyPair(c.Path, c.Path)
		if err != nil {
			return nil, fmt.Errorf("macaroon: loading proxy certificate %s: %w", c.Path, err)
		}
		return &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{Certificates: []tls.Certificate{pair}},
			},
		}, nil

	case credential.BasicAuth:
		return http.DefaultClient, nil

	default:
		return nil, fmt.Errorf("macaroon: unsupported credential variant %T", cred)
	}
}

// TokenResponse is the issuing server's structured reply: the opaque
// token and a share URL that embeds it. It is consumed immediately by
// the renderer and the audit logger and never persisted whole.
type TokenResponse struct {
	Macaroon           string
	TargetWithMacaroon string
}

// issueRequest is the JSON body of a token request.
type issueRequest struct {
	Caveats  []string `json:"caveats"`
	Validity string   `json:"validity"`
}

// issueResponse mirrors the issuing endpoint's success reply.
type issueResponse struct {
	Macaroon string `json:"macaroon"`
	URI      struct {
		Target             string `json:"target"`
		TargetWithMacaroon string `json:"targetWithMacaroon"`
	} `json:"uri"`
}

// Issue performs the single token request. A reply without a macaroon
// field is a hard failure (*IssuanceError) — never a partial success,
// never retried.
func (c *Client) Issue(ctx context.Context, set caveat.Set, validity string) (*TokenResponse, error) {
	body, err := json.Marshal(issueRequest{Caveats: []string(set), Validity: validity})
	if err != nil {
		return nil, fmt.Errorf("macaroon: encoding request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.scope.Origin, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("macaroon: building request: %w", err)
	}
	request.Header.Set("Content-Type", requestContentType)

	if basic, ok := c.cred.(credential.BasicAuth); ok {
		// The password string copy lives only for the duration of
		// the request.
		request.SetBasicAuth(basic.Username, basic.Password.String())
	}

	c.logger.Debug("requesting token", "origin", c.scope.Origin, "caveats", []string(set), "validity", validity)

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("macaroon: requesting token from %s: %w", c.scope.Origin, err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("macaroon: reading response: %w", err)
	}

	c.logger.Debug("issuance response", "status", response.StatusCode, "body", string(responseBody))

	var parsed issueResponse
	if err := json.Unmarshal(responseBody, &parsed); err != nil || parsed.Macaroon == "" {
		return nil, &IssuanceError{
			StatusCode: response.StatusCode,
			Body:       readableBody(response.Header.Get("Content-Type"), responseBody),
		}
	}

	target := parsed.URI.TargetWithMacaroon
	if target == "" {
		// Older doors omit the pre-built share URL; the query
		// parameter form is equivalent.
		target = c.scope.Target + "?authz=" + parsed.Macaroon
	}

	return &TokenResponse{Macaroon: parsed.Macaroon, TargetWithMacaroon: target}, nil
}

var (
	htmlTagPattern    = regexp.MustCompile(`(?s)<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`[ \t]*\n[ \t\n]*`)
)

// readableBody renders a failed response for the error message. HTML
// error pages (the usual shape for auth failures on WebDAV doors) are
// stripped to their text content.
func readableBody(contentType string, body []byte) string {
	text := strings.TrimSpace(string(body))
	if strings.Contains(contentType, "html") || strings.HasPrefix(text, "<") {
		text = htmlTagPattern.ReplaceAllString(text, " ")
		text = whitespacePattern.ReplaceAllString(text, "\n")
		text = strings.Join(strings.Fields(text), " ")
	}
	return text
}
