// Copyright 2026 The Gridshare Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the command framework for the gridshare binary: a
// small command tree where each command declares its flags as a
// tagged parameter struct and receives a context and a structured
// logger. Errors carry a category (config, credential, issuance,
// tooling, internal) so the top level can report them uniformly.
package cli
