package gitingest

import (
	"testing"

	"github.com/openteamsinc/opensourcescore.dev/internal/notes"
)

func TestGateCheck(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want notes.Code
	}{
		{"https ok", "https://github.com/org/repo", ""},
		{"git scheme ok", "git://example.com/org/repo", ""},
		{"http insecure", "http://github.com/org/repo", notes.NoSourceInsecureConn},
		{"localhost", "https://localhost/org/repo", notes.NoSourceLocalhostURL},
		{"loopback ip", "https://127.0.0.1/org/repo", notes.NoSourceLocalhostURL},
		{"missing host", "https:///org/repo", notes.NoSourceInvalidURL},
		{"no dot in host", "https://github/org/repo", notes.NoSourceInvalidURL},
		{"too short host", "https://ab/org/repo", notes.NoSourceInvalidURL},
		{"ftp scheme", "ftp://github.com/org/repo", notes.NoSourceInvalidURL},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := gateCheck(tc.url)
			if got != tc.want {
				t.Errorf("gateCheck(%q) = %q, want %q", tc.url, got, tc.want)
			}
		})
	}
}

func TestIsValidHostname(t *testing.T) {
	cases := map[string]bool{
		"github.com": true,
		"":           false,
		"ab":         false,
		"nodothost":  false,
		"host:1234":  false,
	}
	for host, want := range cases {
		if got := isValidHostname(host); got != want {
			t.Errorf("isValidHostname(%q) = %v, want %v", host, got, want)
		}
	}
}
