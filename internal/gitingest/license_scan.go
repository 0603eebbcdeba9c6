package gitingest

import (
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/openteamsinc/opensourcescore.dev/internal/license"
	"github.com/openteamsinc/opensourcescore.dev/internal/model"
)

// maxLicenseFiles bounds how many license candidates are fed to the
// matcher, guarding against pathological repos with thousands of
// LICENSE-named files (§4.D.4).
const maxLicenseFiles = 2500

var licenseFilenameRe = regexp.MustCompile(`(?i)^(license|licence|copying)(\.[a-z0-9]+)?$`)

var excludedLicenseExt = map[string]bool{
	".json": true, ".csv": true, ".svg": true, ".jpg": true, ".jpeg": true,
}

// docIncludeMarkers flags a docs/ file that merely references an
// external license file rather than containing license text itself
// (§4.D.4's "documentation files ... that merely include an external
// license"). Not present in scrape.py's simpler root-only scan; added
// per spec.md, which supersedes that scan with a recursive one.
var docIncludeMarkers = []string{".. literalinclude::", ".. include::", "{include} ../LICENSE", "{include} ../LICENCE"}

// findLicenseFiles walks the HEAD tree for files matching the license
// filename patterns, applying spec.md §4.D.4's extension and
// doc-reference exclusions, then sorts by (length, lexicographic) and
// caps the result at maxLicenseFiles.
func findLicenseFiles(tree *object.Tree) ([]string, error) {
	var candidates []string

	err := tree.Files().ForEach(func(f *object.File) error {
		base := path.Base(f.Name)
		ext := strings.ToLower(path.Ext(base))
		if excludedLicenseExt[ext] {
			return nil
		}
		if !licenseFilenameRe.MatchString(base) {
			return nil
		}
		if strings.HasPrefix(f.Name, "docs/") {
			content, err := f.Contents()
			if err == nil && referencesExternalLicense(content) {
				return nil
			}
		}
		candidates = append(candidates, f.Name)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(candidates, func(i, j int) bool {
		if len(candidates[i]) != len(candidates[j]) {
			return len(candidates[i]) < len(candidates[j])
		}
		return candidates[i] < candidates[j]
	})

	if len(candidates) > maxLicenseFiles {
		candidates = candidates[:maxLicenseFiles]
	}
	return candidates, nil
}

func referencesExternalLicense(content string) bool {
	for _, marker := range docIncludeMarkers {
		if strings.Contains(content, marker) {
			return true
		}
	}
	return false
}

// scanLicenses finds and classifies every license file in the tree.
func scanLicenses(sourceURL string, tree *object.Tree, matcher *license.Matcher) ([]model.License, error) {
	paths, err := findLicenseFiles(tree)
	if err != nil {
		return nil, err
	}

	licenses := make([]model.License, 0, len(paths))
	for _, p := range paths {
		f, err := tree.File(p)
		if err != nil {
			continue
		}
		content, err := f.Contents()
		if err != nil {
			continue
		}
		licenses = append(licenses, matcher.Identify(sourceURL, p, strings.TrimSpace(content)))
	}
	return licenses, nil
}
