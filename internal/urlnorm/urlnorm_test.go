package urlnorm

import "testing"

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"":                                 "",
		"git@github.com:pallets/flask.git": "https://github.com/pallets/flask",
		"git+https://github.com/pallets/flask.git":   "https://github.com/pallets/flask",
		"https://github.com/pallets/flask.git":       "https://github.com/pallets/flask",
		"https://github.com/pallets/flask":           "https://github.com/pallets/flask",
		"https://github.com/pallets/flask/tree/main": "", // more than 2 path components
		"git://gitlab.com/group/project.git":         "https://gitlab.com/group/project",
		"https://bitbucket.org/org/repo":             "https://bitbucket.org/org/repo",
		"https://example.com/some/deep/path":         "https://example.com/some/deep/path",
		"git+ssh://git@github.com/pallets/flask.git": "https://github.com/pallets/flask",
	}

	for in, want := range cases {
		got := Normalize(in)
		if got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"git@github.com:pallets/flask.git",
		"https://example.com/foo/bar/baz",
		"git+https://gitlab.com/a/b.git",
		"",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: once=%q twice=%q", in, once, twice)
		}
	}
}
