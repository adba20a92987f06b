// Copyright 2026 The Gridshare Authors
// SPDX-License-Identifier: Apache-2.0

// Package request implements "gridshare request": the full
// credential-selection, caveat-composition, token-issuance workflow.
package request

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/gridshare-foundation/gridshare/cmd/gridshare/cli"
	"github.com/gridshare-foundation/gridshare/lib/audit"
	"github.com/gridshare-foundation/gridshare/lib/caveat"
	"github.com/gridshare-foundation/gridshare/lib/config"
	"github.com/gridshare-foundation/gridshare/lib/credential"
	"github.com/gridshare-foundation/gridshare/lib/macaroon"
	"github.com/gridshare-foundation/gridshare/lib/render"
)

// Output destinations, overridable in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

type requestParams struct {
	Root         bool     `flag:"root" desc:"treat the path as the token's root (hides ancestor directories)"`
	Activity     string   `flag:"activity" desc:"comma-separated permitted activities" default:"DOWNLOAD,LIST"`
	Validity     string   `flag:"validity" desc:"token lifetime as an ISO-8601 duration (e.g. PT5M)" default:"PT1H"`
	IP           []string `flag:"ip" desc:"restrict the token to these source IPs or CIDR subnets"`
	MaxUpload    string   `flag:"max-upload" desc:"cap the upload volume (e.g. 5GB)"`
	Proxy        bool     `flag:"proxy" desc:"authenticate with an X.509 proxy certificate"`
	ProxyPath    string   `flag:"proxy-path" desc:"proxy certificate file (default: $X509_USER_PROXY or /tmp/x509up_u<uid>)"`
	User         string   `flag:"user" desc:"authenticate with username and password"`
	PasswordFile string   `flag:"password-file" desc:"read the password from a file instead of prompting (- for stdin)"`
	Output       string   `flag:"output,o" desc:"artifact to produce: link, token, commands, or profile" default:"link"`
	Profile      string   `flag:"profile" desc:"profile name for --output profile"`
	JSON         bool     `flag:"json" desc:"print the full result as JSON instead of the selected artifact"`
	Config       string   `flag:"config" desc:"defaults file (lowest precedence; default: $GRIDSHARE_CONFIG)"`
	Debug        bool     `flag:"debug" desc:"log the issuance round-trip and echo the decoded token"`
}

// Command returns the "request" command.
func Command() *cli.Command {
	var params requestParams
	var flagSet *pflag.FlagSet

	return &cli.Command{
		Name:    "request",
		Summary: "Request a scoped authorization token",
		Description: `Request a delegated authorization token (macaroon) from a storage
endpoint, restricted to a path, a set of activities, and a validity
window, and optionally to source networks and an upload-size limit.

The result is printed as a sharable link by default. Anyone holding
the link (or the bare token) acts with the token's full authority
until it expires — share accordingly.`,
		Usage: "gridshare request <url> [flags]",
		Examples: []cli.Example{
			{
				Description: "Share a directory read-only for a day",
				Command:     "gridshare request https://dav.example.org/users/homer/disk-shared/ --validity P1D",
			},
			{
				Description: "Accept uploads from one subnet, capped at 5GB",
				Command:     "gridshare request https://dav.example.org/drop --activity UPLOAD --ip 192.168.1.0/24 --max-upload 5GB",
			},
			{
				Description: "Write an rclone profile instead of printing a link",
				Command:     "gridshare request https://dav.example.org/data --user homer --output profile --profile shared",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet = cli.FlagsFromParams("request", &params)
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			return run(ctx, args, logger, &params, flagSet)
		},
	}
}

func run(ctx context.Context, args []string, logger *slog.Logger, params *requestParams, flagSet *pflag.FlagSet) error {
	if len(args) != 1 {
		return cli.Config("exactly one target URL is required\n\nUsage: gridshare request <url> [flags]")
	}

	if err := applyDefaults(params.Config, flagSet); err != nil {
		return cli.Config("%v", err)
	}

	// Credential availability is checked before any caveat work so a
	// dead proxy fails immediately, not after composing a request
	// that could never be sent.
	cred, err := credential.Select(credential.Selection{
		Proxy:        params.Proxy || params.ProxyPath != "",
		ProxyPath:    params.ProxyPath,
		Username:     params.User,
		PasswordFile: params.PasswordFile,
	}, credential.FileProxyCheck{}, credential.TerminalPrompt{})
	if err != nil {
		return cli.Categorize(err)
	}
	if basic, ok := cred.(credential.BasicAuth); ok {
		defer basic.Password.Close()
	}

	scope, err := caveat.ParseScope(args[0], params.Root)
	if err != nil {
		return cli.Categorize(err)
	}

	set, err := caveat.Compose(scope, caveat.Restrictions{
		Activities: params.Activity,
		Validity:   params.Validity,
		IPs:        params.IP,
		MaxUpload:  params.MaxUpload,
	})
	if err != nil {
		return cli.Categorize(err)
	}

	// Resolve the output mode before the network call: a missing
	// profile name should not cost a minted token.
	mode, err := render.ParseMode(params.Output)
	if err != nil {
		return cli.Config("%v", err)
	}
	if mode == render.ModeProfile && params.Profile == "" {
		return cli.Config("--output profile requires --profile <name>")
	}
	if params.JSON && mode == render.ModeProfile {
		return cli.Config("--json and --output profile are incompatible: a profile is written, not printed")
	}

	client, err := macaroon.NewClient(macaroon.ClientConfig{
		Scope:      scope,
		Credential: cred,
		Logger:     logger,
	})
	if err != nil {
		return cli.Categorize(err)
	}

	response, err := client.Issue(ctx, set, params.Validity)
	if err != nil {
		return cli.Categorize(err)
	}

	if params.Debug {
		if decoded, err := macaroon.Decode(response.Macaroon); err == nil {
			fmt.Fprint(stderr, macaroon.Dump(decoded))
		} else {
			logger.Debug("issued token is not locally decodable", "error", err)
		}
	}

	auditLogger := &audit.Logger{}
	if err := auditLogger.Record(scope, set, response); err != nil {
		// Never block token delivery on the audit trail.
		logger.Warn("audit log append failed", "error", err)
	}

	if params.JSON {
		return writeJSONResult(scope, set, params.Validity, response)
	}

	renderer := &render.Renderer{Stdout: stdout, Stderr: stderr}
	if err := renderer.Render(mode, params.Profile, response, scope, set); err != nil {
		return cli.Categorize(err)
	}
	return nil
}

// writeJSONResult emits the machine-readable form of an issuance for
// scripts, one document per invocation.
func writeJSONResult(scope caveat.Scope, set caveat.Set, validity string, response *macaroon.TokenResponse) error {
	result := struct {
		Macaroon           string   `json:"macaroon"`
		TargetWithMacaroon string   `json:"targetWithMacaroon"`
		Target             string   `json:"target"`
		Origin             string   `json:"origin"`
		Caveats            []string `json:"caveats"`
		Validity           string   `json:"validity"`
	}{
		Macaroon:           response.Macaroon,
		TargetWithMacaroon: response.TargetWithMacaroon,
		Target:             scope.Target,
		Origin:             scope.Origin,
		Caveats:            []string(set),
		Validity:           validity,
	}

	encoder := json.NewEncoder(stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return cli.Internal("encoding result: %w", err)
	}
	return nil
}

// applyDefaults loads the defaults file and fills in flags the user
// did not set. An explicit --config must exist; the conventional path
// is optional.
func applyDefaults(explicitPath string, flagSet *pflag.FlagSet) error {
	var defaults config.Defaults
	var err error
	if explicitPath != "" {
		defaults, err = config.Load(explicitPath)
	} else {
		defaults, err = config.LoadOptional(config.DefaultPath())
	}
	if err != nil {
		return err
	}
	return defaults.Apply(flagSet)
}
