// Copyright 2026 The Gridshare Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the optional defaults file.
//
// The file is flat YAML mapping request flag names to default values
// ("validity: PT10M"). Defaults sit at the bottom of the precedence
// order: they fill in only flags the user did not set on the command
// line. Unknown keys are rejected rather than ignored — a typo in a
// defaults file should fail loudly, not silently change what gets
// requested.
//
// The file location is $GRIDSHARE_CONFIG, or --config, or
// ~/.config/gridshare/config.yaml. There is no other discovery.
package config
