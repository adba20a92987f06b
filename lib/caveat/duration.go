// Copyright 2026 The Gridshare Authors
// SPDX-License-Identifier: Apache-2.0

package caveat

import (
	"regexp"
	"strings"
)

// durationPattern is the accepted ISO-8601 duration shape. Every
// component is optional in the pattern; ValidateDuration additionally
// requires at least one component, since a bare "P" (or a dangling
// "T" designator) names no interval at all.
var durationPattern = regexp.MustCompile(`^P(?:\d+Y)?(?:\d+M)?(?:\d+W)?(?:\d+D)?(?:T(?:\d+H)?(?:\d+M)?(?:\d+S)?)?$`)

// ValidateDuration checks value against the ISO-8601 duration grammar
// accepted by the issuing endpoint. The validity window is measured by
// the server from issuance time, so the string travels verbatim; this
// check exists only to fail before the request is sent.
func ValidateDuration(value string) error {
	if !durationPattern.MatchString(value) || value == "P" || strings.HasSuffix(value, "T") {
		return configErrorf("invalid validity %q: must be an ISO-8601 duration such as PT5M (5 minutes) or P1D (1 day)", value)
	}
	return nil
}
