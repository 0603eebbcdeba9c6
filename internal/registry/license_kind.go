package registry

import "strings"

// kindMap groups common SPDX-ish license identifiers and free-text license
// names into the coarse "kind" families License.kind reports (e.g. "BSD",
// "GPL"). Grounded on score/utils/common_license_names.py and score/utils/
// license_name_to_kind.py's KIND_MAP in original_source/ (the KIND_MAP
// table itself wasn't present in the retrieval pack, so entries here are
// reconstructed from the families spec.md §3 names as examples, plus the
// SPDX identifiers each kind groups under the identity and OSI-approved
// license list's family names).
var kindMap = map[string]string{
	"mit":                                   "MIT",
	"bsd-2-clause":                          "BSD",
	"bsd-3-clause":                          "BSD",
	"bsd-3-clause-clear":                    "BSD",
	"bsd license":                           "BSD",
	"apache-2.0":                            "APACHE",
	"apache software license":               "APACHE",
	"apache license 2.0":                    "APACHE",
	"gpl-2.0":                               "GPL",
	"gpl-3.0":                               "GPL",
	"gnu general public license":            "GPL",
	"gnu general public license v2 (gplv2)": "GPL",
	"gnu general public license v3 (gplv3)": "GPL",
	"lgpl-2.1":                              "LGPL",
	"lgpl-3.0":                              "LGPL",
	"gnu lesser general public license":     "LGPL",
	"agpl-3.0":                              "AGPL",
	"gnu affero general public license v3":  "AGPL",
	"mpl-2.0":                               "MPL",
	"mozilla-public-license-2.0-(mpl-2.0)":  "MPL",
	"mozilla public license 2.0 (mpl 2.0)":  "MPL",
	"isc":                                   "ISC",
	"isc license (iscl)":                    "ISC",
	"the-unlicense-(unlicense)":             "UNLICENSE",
	"the unlicense (unlicense)":             "UNLICENSE",
	"unlicense":                             "UNLICENSE",
	"cc0-1.0":                               "CC0",
	"bsl-1.0":                               "BSL",
	"boost software license 1.0 (bsl-1.0)":  "BSL",
	"zlib":                                  "ZLIB",
	"zlib/libpng license":                   "ZLIB",
	"epl-2.0":                               "EPL",
	"eclipse public license 2.0 (epl-2.0)":  "EPL",
	"wtfpl":                                 "WTFPL",
	"python-2.0":                            "PYTHON",
	"python software foundation license":    "PYTHON",
}

// kindFromCommonLicenseName normalizes a free-text or SPDX-style license
// name to its coarse kind family, falling back to the lowercased input
// itself when no family is recognized (matching
// common_license_names.py's `.get(license_name, license_name)` default).
func kindFromCommonLicenseName(licenseName string) string {
	if licenseName == "" {
		return ""
	}
	name := strings.ToLower(strings.TrimSpace(licenseName))
	if kind, ok := kindMap[name]; ok {
		return kind
	}
	if kind, ok := kindMap[strings.TrimSuffix(name, " license")]; ok {
		return kind
	}
	return name
}
