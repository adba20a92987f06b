// Copyright 2026 The Gridshare Authors
// SPDX-License-Identifier: Apache-2.0

package macaroon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gridshare-foundation/gridshare/lib/caveat"
	"github.com/gridshare-foundation/gridshare/lib/credential"
	"github.com/gridshare-foundation/gridshare/lib/secret"
)

func basicAuthCredential(t *testing.T) credential.BasicAuth {
	t.Helper()
	password, err := secret.NewFromBytes([]byte("donuts"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { password.Close() })
	return credential.BasicAuth{Username: "homer", Password: password}
}

func testClient(t *testing.T, server *httptest.Server, target string) *Client {
	t.Helper()
	scope, err := caveat.ParseScope(target, false)
	if err != nil {
		t.Fatal(err)
	}
	client, err := NewClient(ClientConfig{
		Scope:      scope,
		Credential: basicAuthCredential(t),
		HTTPClient: server.Client(),
	})
	if err != nil {
		t.Fatal(err)
	}
	return client
}

func TestIssueSendsMacaroonRequest(t *testing.T) {
	var gotContentType string
	var gotBody struct {
		Caveats  []string `json:"caveats"`
		Validity string   `json:"validity"`
	}
	var gotUser, gotPassword string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotUser, gotPassword, _ = r.BasicAuth()
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		fmt.Fprintf(w, `{"macaroon": "MDAxoPretendToken", "uri": {"target": "%[1]s/data", "targetWithMacaroon": "%[1]s/data?authz=MDAxoPretendToken"}}`, "https://dav.example.org")
	}))
	defer server.Close()

	client := testClient(t, server, server.URL+"/data")

	set := caveat.Set{"path:/data", "activity:DOWNLOAD,LIST"}
	response, err := client.Issue(context.Background(), set, "PT5M")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if gotContentType != "application/macaroon-request" {
		t.Errorf("Content-Type = %q, want application/macaroon-request", gotContentType)
	}
	if gotUser != "homer" || gotPassword != "donuts" {
		t.Errorf("basic auth = %q/%q, want homer/donuts", gotUser, gotPassword)
	}
	if len(gotBody.Caveats) != 2 || gotBody.Caveats[0] != "path:/data" {
		t.Errorf("request caveats = %v, want the composed set in order", gotBody.Caveats)
	}
	if gotBody.Validity != "PT5M" {
		t.Errorf("request validity = %q, want PT5M", gotBody.Validity)
	}
	if response.Macaroon != "MDAxoPretendToken" {
		t.Errorf("Macaroon = %q, want MDAxoPretendToken", response.Macaroon)
	}
	if response.TargetWithMacaroon != "https://dav.example.org/data?authz=MDAxoPretendToken" {
		t.Errorf("TargetWithMacaroon = %q, want the server-provided share URL", response.TargetWithMacaroon)
	}
}

func TestIssueMissingTokenFieldIsIssuanceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"detail": "permission denied"}`)
	}))
	defer server.Close()

	client := testClient(t, server, server.URL+"/data")
	_, err := client.Issue(context.Background(), caveat.Set{"path:/data", "activity:LIST"}, "PT5M")

	var issuanceErr *IssuanceError
	if !errors.As(err, &issuanceErr) {
		t.Fatalf("Issue = %v, want *IssuanceError", err)
	}
	if issuanceErr.StatusCode != http.StatusForbidden {
		t.Errorf("StatusCode = %d, want 403", issuanceErr.StatusCode)
	}
	if !strings.Contains(issuanceErr.Body, "permission denied") {
		t.Errorf("Body = %q, want the server response surfaced", issuanceErr.Body)
	}
}

func TestIssueRendersHTMLErrorReadably(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, "<html><head><title>401</title></head><body><h1>Unauthorized</h1><p>credentials rejected</p></body></html>")
	}))
	defer server.Close()

	client := testClient(t, server, server.URL+"/data")
	_, err := client.Issue(context.Background(), caveat.Set{"path:/data", "activity:LIST"}, "PT5M")

	var issuanceErr *IssuanceError
	if !errors.As(err, &issuanceErr) {
		t.Fatalf("Issue = %v, want *IssuanceError", err)
	}
	if strings.Contains(issuanceErr.Body, "<") {
		t.Errorf("Body = %q, want HTML stripped", issuanceErr.Body)
	}
	if !strings.Contains(issuanceErr.Body, "credentials rejected") {
		t.Errorf("Body = %q, want the page text preserved", issuanceErr.Body)
	}
}

func TestIssueSynthesizesShareURLWhenMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"macaroon": "MDAxoPretendToken"}`)
	}))
	defer server.Close()

	target := server.URL + "/users/homer"
	client := testClient(t, server, target)

	response, err := client.Issue(context.Background(), caveat.Set{"path:/users/homer", "activity:LIST"}, "PT5M")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	want := target + "?authz=MDAxoPretendToken"
	if response.TargetWithMacaroon != want {
		t.Errorf("TargetWithMacaroon = %q, want %q", response.TargetWithMacaroon, want)
	}
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient(ClientConfig{Credential: basicAuthCredential(t)}); err == nil {
		t.Error("NewClient without scope succeeded, want error")
	}

	scope, _ := caveat.ParseScope("https://dav.example.org/data", false)
	if _, err := NewClient(ClientConfig{Scope: scope}); err == nil {
		t.Error("NewClient without credential succeeded, want error")
	}
}
