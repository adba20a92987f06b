// Copyright 2026 The Gridshare Authors
// SPDX-License-Identifier: Apache-2.0

package request

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	macaroonv2 "gopkg.in/macaroon.v2"
)

// captureOutput redirects the package's output seams for one test.
func captureOutput(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	outBuffer, errBuffer := &bytes.Buffer{}, &bytes.Buffer{}
	savedStdout, savedStderr := stdout, stderr
	stdout, stderr = outBuffer, errBuffer
	t.Cleanup(func() { stdout, stderr = savedStdout, savedStderr })
	return outBuffer, errBuffer
}

// isolateEnvironment points the audit log at a temp directory and the
// defaults file at a path that does not exist.
func isolateEnvironment(t *testing.T) string {
	t.Helper()
	stateDir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", stateDir)
	t.Setenv("GRIDSHARE_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
	return stateDir
}

func writePasswordFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "password")
	if err := os.WriteFile(path, []byte("hunter2\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func mintToken(t *testing.T, location string, caveats []string) string {
	t.Helper()
	m, err := macaroonv2.New([]byte("0123456789abcdef0123456789abcdef"), []byte("request-test-id"), location, macaroonv2.V1)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range caveats {
		if err := m.AddFirstPartyCaveat([]byte(c)); err != nil {
			t.Fatal(err)
		}
	}
	raw, err := m.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	return base64.RawURLEncoding.EncodeToString(raw)
}

// issuingServer mimics a storage door's token endpoint: it checks the
// media type and basic auth, records the request body, and mints a
// token carrying the requested caveats.
func issuingServer(t *testing.T, requests *int, lastBody *map[string]any) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*requests++
		if contentType := r.Header.Get("Content-Type"); contentType != "application/macaroon-request" {
			t.Errorf("Content-Type = %q, want application/macaroon-request", contentType)
		}
		user, password, ok := r.BasicAuth()
		if !ok || user != "homer" || password != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `<html><body>authentication failed</body></html>`)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatal(err)
		}
		if err := json.Unmarshal(body, lastBody); err != nil {
			t.Fatalf("request body is not JSON: %v", err)
		}

		var caveats []string
		for _, entry := range (*lastBody)["caveats"].([]any) {
			caveats = append(caveats, entry.(string))
		}
		token := mintToken(t, "http://"+r.Host, caveats)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"macaroon": %q, "uri": {"target": "http://%s/data", "targetWithMacaroon": "http://%s/data?authz=%s"}}`,
			token, r.Host, r.Host, token)
	}))
	t.Cleanup(server.Close)
	return server
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	return Command().Execute(context.Background(), args, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRequestIssuesAndPrintsToken(t *testing.T) {
	stateDir := isolateEnvironment(t)
	outBuffer, _ := captureOutput(t)

	requests := 0
	lastBody := map[string]any{}
	server := issuingServer(t, &requests, &lastBody)

	err := execute(t, server.URL+"/data",
		"--user", "homer",
		"--password-file", writePasswordFile(t),
		"--validity", "PT5M",
		"--output", "token")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if requests != 1 {
		t.Errorf("server saw %d requests, want exactly 1", requests)
	}

	if lastBody["validity"] != "PT5M" {
		t.Errorf("request validity = %v, want PT5M", lastBody["validity"])
	}
	wantCaveats := []string{"path:/data", "activity:DOWNLOAD,LIST"}
	var gotCaveats []string
	for _, entry := range lastBody["caveats"].([]any) {
		gotCaveats = append(gotCaveats, entry.(string))
	}
	if len(gotCaveats) != len(wantCaveats) {
		t.Fatalf("caveats = %v, want %v", gotCaveats, wantCaveats)
	}
	for i := range wantCaveats {
		if gotCaveats[i] != wantCaveats[i] {
			t.Errorf("caveat[%d] = %q, want %q", i, gotCaveats[i], wantCaveats[i])
		}
	}

	token := strings.TrimSpace(outBuffer.String())
	if token == "" {
		t.Fatal("no token on stdout")
	}
	if strings.ContainsAny(token, " \n") {
		t.Errorf("token output is not a bare token: %q", token)
	}

	// The issuance must leave an audit record, and that record must
	// never contain the token (its signature is embedded in it).
	logData, err := os.ReadFile(filepath.Join(stateDir, "gridshare", "issued.log"))
	if err != nil {
		t.Fatalf("audit log: %v", err)
	}
	log := string(logData)
	for _, want := range []string{"origin: http://", "caveat: path:/data", "caveat: activity:DOWNLOAD,LIST", "--\n"} {
		if !strings.Contains(log, want) {
			t.Errorf("audit log missing %q:\n%s", want, log)
		}
	}
	if strings.Contains(log, token) {
		t.Error("audit log contains the issued token")
	}

	info, err := os.Stat(filepath.Join(stateDir, "gridshare", "issued.log"))
	if err != nil {
		t.Fatal(err)
	}
	if mode := info.Mode().Perm(); mode != 0o600 {
		t.Errorf("audit log mode = %o, want 600", mode)
	}
}

func TestRequestLinkModeWarnsOnStderr(t *testing.T) {
	isolateEnvironment(t)
	outBuffer, errBuffer := captureOutput(t)

	requests := 0
	lastBody := map[string]any{}
	server := issuingServer(t, &requests, &lastBody)

	err := execute(t, server.URL+"/data",
		"--user", "homer",
		"--password-file", writePasswordFile(t))
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	link := strings.TrimSpace(outBuffer.String())
	if !strings.Contains(link, "?authz=") {
		t.Errorf("stdout = %q, want a share link with the token embedded", link)
	}
	if !strings.Contains(errBuffer.String(), "Warning") {
		t.Errorf("stderr = %q, want the bearer warning", errBuffer.String())
	}
}

func TestRequestProfileNameCheckedBeforeNetwork(t *testing.T) {
	isolateEnvironment(t)
	captureOutput(t)

	requests := 0
	lastBody := map[string]any{}
	server := issuingServer(t, &requests, &lastBody)

	err := execute(t, server.URL+"/data",
		"--user", "homer",
		"--password-file", writePasswordFile(t),
		"--output", "profile")
	if err == nil {
		t.Fatal("expected an error for --output profile without --profile")
	}
	if !strings.Contains(err.Error(), "--profile") {
		t.Errorf("error = %v, want a hint about --profile", err)
	}
	if requests != 0 {
		t.Errorf("server saw %d requests, want none before validation", requests)
	}
}

func TestRequestRejectsBothCredentialModes(t *testing.T) {
	isolateEnvironment(t)
	captureOutput(t)

	err := execute(t, "https://dav.example.org/data", "--proxy", "--user", "homer")
	if err == nil {
		t.Fatal("expected an error for --proxy together with --user")
	}
	if !strings.Contains(err.Error(), "mutually exclusive") {
		t.Errorf("error = %v, want the mutual-exclusion message", err)
	}
}

func TestRequestRejectsBadValidityBeforeNetwork(t *testing.T) {
	isolateEnvironment(t)
	captureOutput(t)

	requests := 0
	lastBody := map[string]any{}
	server := issuingServer(t, &requests, &lastBody)

	err := execute(t, server.URL+"/data",
		"--user", "homer",
		"--password-file", writePasswordFile(t),
		"--validity", "5M")
	if err == nil {
		t.Fatal("expected an error for a non-ISO-8601 validity")
	}
	if requests != 0 {
		t.Errorf("server saw %d requests, want none for an invalid validity", requests)
	}
}

func TestRequestSurfacesServerRejection(t *testing.T) {
	isolateEnvironment(t)
	captureOutput(t)

	path := filepath.Join(t.TempDir(), "password")
	if err := os.WriteFile(path, []byte("wrong\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	requests := 0
	lastBody := map[string]any{}
	server := issuingServer(t, &requests, &lastBody)

	err := execute(t, server.URL+"/data", "--user", "homer", "--password-file", path)
	if err == nil {
		t.Fatal("expected an error for rejected credentials")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("error = %v, want the HTTP status", err)
	}
	if strings.Contains(err.Error(), "<html>") {
		t.Errorf("error = %v, want the HTML error page stripped", err)
	}
	if requests != 1 {
		t.Errorf("server saw %d requests, want exactly 1 (no retries)", requests)
	}
}

func TestRequestDefaultsFileFillsUnsetFlags(t *testing.T) {
	isolateEnvironment(t)
	captureOutput(t)

	requests := 0
	lastBody := map[string]any{}
	server := issuingServer(t, &requests, &lastBody)

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	configData := "validity: P1D\nactivity: DOWNLOAD\nuser: homer\npassword-file: " + writePasswordFile(t) + "\n"
	if err := os.WriteFile(configPath, []byte(configData), 0o600); err != nil {
		t.Fatal(err)
	}

	// --validity on the command line wins over the defaults file; the
	// unset flags fall back to it.
	err := execute(t, server.URL+"/data", "--config", configPath, "--validity", "PT30M")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if lastBody["validity"] != "PT30M" {
		t.Errorf("validity = %v, want the command line's PT30M", lastBody["validity"])
	}

	var gotCaveats []string
	for _, entry := range lastBody["caveats"].([]any) {
		gotCaveats = append(gotCaveats, entry.(string))
	}
	foundActivity := false
	for _, c := range gotCaveats {
		if c == "activity:DOWNLOAD" {
			foundActivity = true
		}
	}
	if !foundActivity {
		t.Errorf("caveats = %v, want activity:DOWNLOAD from the defaults file", gotCaveats)
	}
}

func TestRequestJSONResult(t *testing.T) {
	isolateEnvironment(t)
	outBuffer, _ := captureOutput(t)

	requests := 0
	lastBody := map[string]any{}
	server := issuingServer(t, &requests, &lastBody)

	err := execute(t, server.URL+"/data",
		"--user", "homer",
		"--password-file", writePasswordFile(t),
		"--json")
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	var result struct {
		Macaroon           string   `json:"macaroon"`
		TargetWithMacaroon string   `json:"targetWithMacaroon"`
		Origin             string   `json:"origin"`
		Caveats            []string `json:"caveats"`
		Validity           string   `json:"validity"`
	}
	if err := json.Unmarshal(outBuffer.Bytes(), &result); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, outBuffer.String())
	}
	if result.Macaroon == "" {
		t.Error("JSON result has no macaroon")
	}
	if !strings.Contains(result.TargetWithMacaroon, "?authz=") {
		t.Errorf("targetWithMacaroon = %q, want an embedded token", result.TargetWithMacaroon)
	}
	if result.Validity != "PT1H" {
		t.Errorf("validity = %q, want the default PT1H", result.Validity)
	}
	if len(result.Caveats) == 0 || !strings.HasPrefix(result.Caveats[0], "path:") {
		t.Errorf("caveats = %v, want the path caveat first", result.Caveats)
	}
}

func TestRequestJSONRejectsProfileMode(t *testing.T) {
	isolateEnvironment(t)
	captureOutput(t)

	err := execute(t, "https://dav.example.org/data",
		"--user", "homer",
		"--password-file", writePasswordFile(t),
		"--json", "--output", "profile", "--profile", "shared")
	if err == nil {
		t.Fatal("expected an error for --json with --output profile")
	}
}

func TestRequestRequiresExactlyOneURL(t *testing.T) {
	isolateEnvironment(t)
	captureOutput(t)

	if err := execute(t); err == nil {
		t.Error("expected an error for a missing URL")
	}
	if err := execute(t, "https://a.example.org/x", "https://b.example.org/y", "--user", "homer"); err == nil {
		t.Error("expected an error for two URLs")
	}
}
