// Copyright 2026 The Gridshare Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/gridshare-foundation/gridshare/cmd/gridshare/cli"
	"github.com/gridshare-foundation/gridshare/cmd/gridshare/commands"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The logger exists before flag parsing, so the debug level is
	// detected from the raw arguments.
	logger := cli.NewCommandLogger(slices.Contains(os.Args, "--debug"))

	return commands.Root().Execute(ctx, os.Args[1:], logger)
}
