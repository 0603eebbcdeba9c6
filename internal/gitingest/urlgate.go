package gitingest

import (
	"net/url"
	"strings"

	"github.com/openteamsinc/opensourcescore.dev/internal/model"
	"github.com/openteamsinc/opensourcescore.dev/internal/notes"
)

// gateCheck validates a normalized source URL before any clone is
// attempted, ported from score/git_vcs/check_url.py's check_url_str.
// A non-empty returned error code means the URL gate rejected the URL;
// the caller must not attempt a clone.
func gateCheck(sourceURL string) notes.Code {
	u, err := url.Parse(sourceURL)
	if err != nil {
		return notes.NoSourceInvalidURL
	}

	switch u.Scheme {
	case "https", "git":
		// fall through to hostname validation below
	case "http":
		return notes.NoSourceInsecureConn
	default:
		return notes.NoSourceInvalidURL
	}

	hostname := u.Hostname()
	if hostname == "localhost" || strings.HasPrefix(hostname, "127.") {
		return notes.NoSourceLocalhostURL
	}
	if !isValidHostname(hostname) {
		return notes.NoSourceInvalidURL
	}

	return ""
}

// isValidHostname mirrors check_url.py's is_valid_hostname: non-empty,
// length in [3,255], contains a dot, and no embedded colon (a colon
// means the port survived into the "hostname" component, i.e. malformed
// input from a scheme-less URL).
func isValidHostname(hostname string) bool {
	if hostname == "" {
		return false
	}
	if len(hostname) < 3 || len(hostname) > 255 {
		return false
	}
	if !strings.Contains(hostname, ".") {
		return false
	}
	if strings.Contains(hostname, ":") {
		return false
	}
	return true
}

// rejected builds the short-circuit Source result for a gate failure.
func rejected(sourceURL string, code notes.Code) model.Source {
	return model.Source{SourceURL: sourceURL, Error: code}
}
