// Package urlnorm normalizes a registry-declared source URL into the
// canonical form the rest of the pipeline keys on, ported from
// score/utils/normalize_source_url.py.
package urlnorm

import (
	"net/url"
	"regexp"
	"strings"
)

// twoComponentHosts are hosting providers whose URLs are reduced to
// exactly org/repo, dropping any deeper path (subpath, .git suffix, query
// string, ref).
var twoComponentHosts = map[string]bool{
	"github.com":    true,
	"gitlab.com":    true,
	"bitbucket.org": true,
}

var gitSSHPattern = regexp.MustCompile(`^git@([^:]+):(.+)$`)

// Normalize rewrites url into its canonical form, or returns "" if url is
// empty or (for a recognized two-component host) doesn't reduce to exactly
// org/repo. Other hosts pass through unchanged (§3 invariant on
// Package.source_url).
//
// Normalize is idempotent: Normalize(Normalize(u)) == Normalize(u).
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	// git@host:org/repo -> https://host/org/repo
	if m := gitSSHPattern.FindStringSubmatch(raw); m != nil {
		raw = "https://" + m[1] + "/" + m[2]
	}

	// git+https://, git+ssh://git@, git:// prefixes used by npm
	// "repository.url" fields.
	switch {
	case strings.HasPrefix(raw, "git+ssh://git@"):
		raw = "https://" + strings.TrimPrefix(raw, "git+ssh://git@")
	case strings.HasPrefix(raw, "git+"):
		raw = strings.TrimPrefix(raw, "git+")
	case strings.HasPrefix(raw, "git://"):
		raw = "https://" + strings.TrimPrefix(raw, "git://")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	if twoComponentHosts[strings.ToLower(u.Hostname())] {
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(parts) != 2 {
			return ""
		}
		org, repo := parts[0], parts[1]
		repo = strings.TrimSuffix(repo, ".git")
		if org == "" || repo == "" {
			return ""
		}
		return "https://" + u.Hostname() + "/" + org + "/" + repo
	}

	return raw
}
