// Copyright 2026 The Gridshare Authors
// SPDX-License-Identifier: Apache-2.0

package caveat

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// Set is the ordered caveat list sent to the issuing endpoint. The
// first entry is always the path-scope caveat, the second the activity
// caveat; ip and max-upload follow only when requested. Composing the
// same inputs twice yields byte-identical sets.
type Set []string

// Restrictions are the user's intents for the token being requested.
type Restrictions struct {
	// Activities is the comma-separated permitted-operation list
	// (e.g. "DOWNLOAD,LIST"). It is passed through verbatim: the
	// issuing server is authoritative on accepted activity names.
	Activities string

	// Validity is the ISO-8601 token lifetime (e.g. "PT5M").
	Validity string

	// IPs optionally confines the token to source addresses or
	// subnets. Syntax is validated by the server, not here.
	IPs []string

	// MaxUpload optionally caps the upload volume. Accepts
	// human-readable sizes ("5GB", "512MiB") or plain byte counts.
	MaxUpload string
}

// Compose builds the caveat set for scope and r. Order is fixed (path,
// activity, ip, max-upload); no caveat is dropped or merged. Validity
// and MaxUpload are the only locally validated fields — everything the
// server owns travels verbatim.
func Compose(scope Scope, r Restrictions) (Set, error) {
	if strings.TrimSpace(r.Activities) == "" {
		return nil, configErrorf("no activities requested (e.g. DOWNLOAD,LIST)")
	}
	if err := ValidateDuration(r.Validity); err != nil {
		return nil, err
	}

	prefix := "path"
	if scope.Root {
		prefix = "root"
	}
	set := Set{
		prefix + ":" + scope.Path,
		"activity:" + r.Activities,
	}

	if len(r.IPs) > 0 {
		set = append(set, "ip:"+strings.Join(r.IPs, ","))
	}

	if r.MaxUpload != "" {
		size, err := humanize.ParseBytes(r.MaxUpload)
		if err != nil {
			return nil, configErrorf("invalid max upload size %q: %v (e.g. 5GB or 1073741824)", r.MaxUpload, err)
		}
		set = append(set, "max-upload:"+strconv.FormatUint(size, 10))
	}

	return set, nil
}

// Permits reports whether the set's activity caveat names the given
// activity (case-insensitive). Used by the renderer to decide which
// transfer commands to emit.
func (s Set) Permits(activity string) bool {
	for _, entry := range s {
		list, ok := strings.CutPrefix(entry, "activity:")
		if !ok {
			continue
		}
		for _, name := range strings.Split(list, ",") {
			if strings.EqualFold(strings.TrimSpace(name), activity) {
				return true
			}
		}
	}
	return false
}
