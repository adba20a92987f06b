// Copyright 2026 The Gridshare Authors
// SPDX-License-Identifier: Apache-2.0

// Package inspect implements "gridshare inspect": a local, offline
// dump of a serialized token's location, caveats, and signature.
package inspect

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gridshare-foundation/gridshare/cmd/gridshare/cli"
	"github.com/gridshare-foundation/gridshare/lib/macaroon"
)

var stdout io.Writer = os.Stdout

// Command returns the "inspect" command.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "inspect",
		Summary: "Decode a token and print its caveats",
		Description: `Decode a serialized token without contacting any server and print
its location, identifier, caveats, and signature. Useful for checking
what a token actually permits before sharing it.`,
		Usage: "gridshare inspect <token>",
		Examples: []cli.Example{
			{
				Description: "Inspect a token from the clipboard",
				Command:     "gridshare inspect MDAxY2xvY2F0aW9uIC4uLg",
			},
			{
				Description: "Inspect a token piped from a request",
				Command:     "gridshare request https://dav.example.org/data --output token | gridshare inspect -",
			},
		},
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if len(args) != 1 {
				return cli.Config("exactly one token is required (\"-\" reads stdin)\n\nUsage: gridshare inspect <token>")
			}

			token := args[0]
			if token == "-" {
				data, err := io.ReadAll(os.Stdin)
				if err != nil {
					return cli.Internal("reading stdin: %w", err)
				}
				token = string(data)
			}

			decoded, err := macaroon.Decode(token)
			if err != nil {
				return cli.Config("%v", err)
			}
			fmt.Fprint(stdout, macaroon.Dump(decoded))
			return nil
		},
	}
}
