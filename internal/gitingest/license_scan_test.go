package gitingest

import (
	"testing"

	"github.com/openteamsinc/opensourcescore.dev/internal/license"
)

func TestFindLicenseFilesMatchesKnownNames(t *testing.T) {
	tree := buildTestTree(t, map[string]string{
		"LICENSE":         "MIT License text",
		"vendor/COPYING":  "GPL text",
		"notice.json":     `{"license": "MIT"}`,
		"docs/LICENSE.md": ".. literalinclude:: ../LICENSE\n",
		"README.md":       "not a license",
	})

	paths, err := findLicenseFiles(tree)
	if err != nil {
		t.Fatalf("findLicenseFiles: %v", err)
	}

	got := map[string]bool{}
	for _, p := range paths {
		got[p] = true
	}
	if !got["LICENSE"] {
		t.Error("expected LICENSE to be found")
	}
	if !got["vendor/COPYING"] {
		t.Error("expected vendor/COPYING to be found")
	}
	if got["notice.json"] {
		t.Error("notice.json should be excluded by extension")
	}
	if got["docs/LICENSE.md"] {
		t.Error("docs/LICENSE.md should be excluded as a literalinclude reference")
	}
	if got["README.md"] {
		t.Error("README.md should not match the license filename pattern")
	}
}

func TestScanLicensesClassifiesContent(t *testing.T) {
	tree := buildTestTree(t, map[string]string{
		"LICENSE": "This is a completely custom proprietary text with no relation to any known license.",
	})

	licenses, err := scanLicenses("https://example.com/repo", tree, license.New())
	if err != nil {
		t.Fatalf("scanLicenses: %v", err)
	}
	if len(licenses) != 1 {
		t.Fatalf("expected 1 license result, got %d", len(licenses))
	}
	if licenses[0].Path != "LICENSE" {
		t.Fatalf("expected path LICENSE, got %q", licenses[0].Path)
	}
}
