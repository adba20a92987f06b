// Copyright 2026 The Gridshare Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands assembles the gridshare command tree.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gridshare-foundation/gridshare/cmd/gridshare/cli"
	"github.com/gridshare-foundation/gridshare/cmd/gridshare/inspect"
	"github.com/gridshare-foundation/gridshare/cmd/gridshare/request"
	"github.com/gridshare-foundation/gridshare/lib/version"
)

// Root builds the complete command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "gridshare",
		Description: `gridshare: scoped, delegated authorization tokens for grid storage.

Request a token restricted to a path, a set of activities, and a
validity window, then share it as a link, a bare token, transfer
commands, or an rclone profile.`,
		Subcommands: []*cli.Command{
			request.Command(),
			inspect.Command(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, _ []string, _ *slog.Logger) error {
					fmt.Printf("gridshare %s\n", version.Info())
					return nil
				},
			},
		},
	}
}
