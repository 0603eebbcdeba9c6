// Package notes defines the Note catalog: the domain-wide enum of
// observations the scoring pipeline can emit, data-driven from an embedded
// CSV table so that group/category/description stay out of Go source and
// in one place, the same split the Python original kept between
// notes/notes.py (the enums) and notes/data.py (the CSV loader).
package notes

import (
	"bytes"
	_ "embed"
	"fmt"
	"sort"

	"github.com/jszwec/csvutil"
)

//go:embed catalog.csv
var catalogCSV []byte

// Group gates which CategorizedScore a note contributes to.
type Group string

const (
	GroupAny      Group = "Any"
	GroupHealth   Group = "Health"
	GroupLegal    Group = "Legal"
	GroupMaturity Group = "Maturity"
	GroupSecurity Group = "Security"
)

func (g Group) valid() bool {
	switch g {
	case GroupAny, GroupHealth, GroupLegal, GroupMaturity, GroupSecurity:
		return true
	}
	return false
}

// Category is one of the ten ordered severity labels a CategorizedScore can
// take. Order matters: it is the total order used to compute a sub-score's
// value as the maximum category among its notes (§4.F.6).
type Category string

const (
	CategoryHealthy       Category = "Healthy"
	CategoryMature        Category = "Mature"
	CategoryCautionNeeded Category = "Caution Needed"
	CategoryModerateRisk  Category = "Moderate Risk"
	CategoryHighRisk      Category = "High Risk"
	CategoryExperimental  Category = "Experimental"
	CategoryStale         Category = "Stale"
	CategoryLegacy        Category = "Legacy"
	CategoryUnknown       Category = "Unknown"
	CategoryPlaceholder   Category = "Placeholder"
)

// categoryOrder is the severity order from least to most severe, per
// spec §4.F.6: Healthy < Mature < Caution Needed < Moderate Risk <
// High Risk < Experimental < Stale < Legacy < Unknown < Placeholder.
var categoryOrder = []Category{
	CategoryHealthy,
	CategoryMature,
	CategoryCautionNeeded,
	CategoryModerateRisk,
	CategoryHighRisk,
	CategoryExperimental,
	CategoryStale,
	CategoryLegacy,
	CategoryUnknown,
	CategoryPlaceholder,
}

var categoryRank = func() map[Category]int {
	m := make(map[Category]int, len(categoryOrder))
	for i, c := range categoryOrder {
		m[c] = i
	}
	return m
}()

func (c Category) valid() bool {
	_, ok := categoryRank[c]
	return ok
}

// Max returns the more severe of a and b under categoryOrder.
func Max(a, b Category) Category {
	if categoryRank[b] > categoryRank[a] {
		return b
	}
	return a
}

// Code is a stable note identifier, e.g. "NO_LICENSE". It is the unit of
// dedup and the thing Score.notes sorts.
type Code string

// Descr is the catalog row for one note code: what the HTTP API's
// /notes/categories endpoint serves, and what the catalog rejects unknown
// runtime codes against.
type Descr struct {
	Code        Code     `csv:"code" json:"code"`
	Group       Group    `csv:"group" json:"group"`
	Category    Category `csv:"category" json:"category"`
	Description string   `csv:"description" json:"description"`
	OSSRisk     string   `csv:"oss_risk" json:"oss_risk,omitempty"`
}

var catalog map[Code]Descr

func init() {
	var rows []Descr
	if err := csvutil.Unmarshal(catalogCSV, &rows); err != nil {
		panic(fmt.Sprintf("notes: failed to parse embedded catalog.csv: %v", err))
	}
	catalog = make(map[Code]Descr, len(rows))
	for _, row := range rows {
		if !row.Group.valid() {
			panic(fmt.Sprintf("notes: invalid group %q for note %q", row.Group, row.Code))
		}
		if !row.Category.valid() {
			panic(fmt.Sprintf("notes: invalid category %q for note %q", row.Category, row.Code))
		}
		catalog[row.Code] = row
	}
}

// Lookup returns the catalog row for code, or false if code is not a known
// note. Callers that construct Score documents at runtime must reject any
// code that fails this check (§6, "Note catalog": "This table IS the
// contract").
func Lookup(code Code) (Descr, bool) {
	d, ok := catalog[code]
	return d, ok
}

// MustLookup panics if code is not in the catalog. It is meant for call
// sites deriving notes from code-literal constants below, where an unknown
// code is a programming error, not user input.
func MustLookup(code Code) Descr {
	d, ok := catalog[code]
	if !ok {
		panic(fmt.Sprintf("notes: unknown code %q referenced by a rule", code))
	}
	return d
}

// All returns every catalog row, sorted by code, for the /notes/categories
// endpoint.
func All() []Descr {
	out := make([]Descr, 0, len(catalog))
	for _, d := range catalog {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Categories returns the ordered category labels, least to most severe.
func Categories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// Groups returns the group labels and, for documentation purposes, which
// notes currently belong to each (mirrors the Python app's
// `{"groups": GROUPS}` response shape).
func Groups() map[Group][]Code {
	out := map[Group][]Code{
		GroupAny:      {},
		GroupHealth:   {},
		GroupLegal:    {},
		GroupMaturity: {},
		GroupSecurity: {},
	}
	for _, d := range All() {
		out[d.Group] = append(out[d.Group], d.Code)
	}
	return out
}

// Render returns the embedded CSV with leading and trailing whitespace
// trimmed.
func Render() []byte {
	return bytes.TrimSpace(catalogCSV)
}

// The note codes referenced directly by rule code in internal/score and
// internal/gitingest. Declaring them as typed constants here means a typo
// in a rule fails at init() time via MustLookup, not silently at runtime.
const (
	NotOpenSource         Code = "NOT_OPEN_SOURCE"
	NoSourceRepoNotFound  Code = "NO_SOURCE_REPO_NOT_FOUND"
	NoSourceInsecureConn  Code = "NO_SOURCE_INSECURE_CONNECTION"
	NoSourceLocalhostURL  Code = "NO_SOURCE_LOCALHOST_URL"
	NoSourceInvalidURL    Code = "NO_SOURCE_INVALID_URL"
	NoSourceUnsafeProto   Code = "NO_SOURCE_UNSAFE_GIT_PROTOCOL"
	NoSourcePrivateRepo   Code = "NO_SOURCE_PRIVATE_REPO"
	NoSourceOtherGitError Code = "NO_SOURCE_OTHER_GIT_ERROR"
	NoSourceCloneTimeout  Code = "NO_SOURCE_CLONE_TIMEOUT"
	RepoEmpty             Code = "REPO_EMPTY"

	NoCommits            Code = "NO_COMMITS"
	LastCommitOver5Years Code = "LAST_COMMIT_OVER_5_YEARS"
	LastCommitOverAYear  Code = "LAST_COMMIT_OVER_A_YEAR"
	FirstCommitThisYear  Code = "FIRST_COMMIT_THIS_YEAR"

	FewMaxMonthlyAuthors Code = "FEW_MAX_MONTHLY_AUTHORS"
	OneAuthorThisYear    Code = "ONE_AUTHOR_THIS_YEAR"
	NoProjectName        Code = "NO_PROJECT_NAME"
	PackageNameMismatch  Code = "PACKAGE_NAME_MISMATCH"

	NoLicense             Code = "NO_LICENSE"
	LicenseUnknown        Code = "LICENSE_UNKNOWN"
	LicenseAdditionalText Code = "LICENSE_ADDITIONAL_TEXT"
	LicenseNotInSPDX      Code = "LICENSE_NOT_IN_SPDX"
	LicenseNotOSIApproved Code = "LICENSE_NOT_OSI_APPROVED"
	LicenseModified       Code = "LICENSE_MODIFIED"

	LicenseRestrictionDerivativeWorkCopyleft Code = "LICENSE_RESTRICTION_DERIVATIVE_WORK_COPYLEFT"
	LicenseRestrictionNetworkCopyleft        Code = "LICENSE_RESTRICTION_NETWORK_COPYLEFT"
	LicenseRestrictionPatentGrant            Code = "LICENSE_RESTRICTION_PATENT_GRANT"
	LicenseRestrictionCommercialRestrictions Code = "LICENSE_RESTRICTION_COMMERCIAL_RESTRICTIONS"
	LicenseRestrictionUserDataAccess         Code = "LICENSE_RESTRICTION_USER_DATA_ACCESS"
	LicenseRestrictionCryptographicAutonomy  Code = "LICENSE_RESTRICTION_CRYPTOGRAPHIC_AUTONOMY"
	LicenseRestrictionWeakCopyleft           Code = "LICENSE_RESTRICTION_WEAK_COPYLEFT"

	PackageSkewNotUpdated   Code = "PACKAGE_SKEW_NOT_UPDATED"
	PackageSkewNotReleased  Code = "PACKAGE_SKEW_NOT_RELEASED"
	PackageNoLicense        Code = "PACKAGE_NO_LICENSE"
	PackageLicenseNotSPDXID Code = "PACKAGE_LICENSE_NOT_SPDX_ID"
	PackageLicenseMismatch  Code = "PACKAGE_LICENSE_MISMATCH"

	VulnerabilitiesCheckFailed   Code = "VULNERABILITIES_CHECK_FAILED"
	VulnerabilitiesLongTimeToFix Code = "VULNERABILITIES_LONG_TIME_TO_FIX"
	VulnerabilitiesRecent        Code = "VULNERABILITIES_RECENT"
	VulnerabilitiesSevere        Code = "VULNERABILITIES_SEVERE"
)

// restrictionNotes maps the restriction tags carried on a License to the
// note code that surfaces them (§4.F.3).
var restrictionNotes = map[string]Code{
	"derivative-work-copyleft": LicenseRestrictionDerivativeWorkCopyleft,
	"network-copyleft":         LicenseRestrictionNetworkCopyleft,
	"patent-grant":             LicenseRestrictionPatentGrant,
	"commercial-restrictions":  LicenseRestrictionCommercialRestrictions,
	"user-data-access":         LicenseRestrictionUserDataAccess,
	"cryptographic-autonomy":   LicenseRestrictionCryptographicAutonomy,
	"weak-copyleft":            LicenseRestrictionWeakCopyleft,
}

// RestrictionNote returns the note code for a license restriction tag, and
// whether that tag is recognized.
func RestrictionNote(tag string) (Code, bool) {
	c, ok := restrictionNotes[tag]
	return c, ok
}

func init() {
	// Fail loudly at startup if any code referenced by rules is absent
	// from the catalog (§9, "fail loudly on any code referenced in rules
	// but absent from the catalog").
	for _, c := range []Code{
		NotOpenSource, NoSourceRepoNotFound, NoSourceInsecureConn, NoSourceLocalhostURL,
		NoSourceInvalidURL, NoSourceUnsafeProto, NoSourcePrivateRepo, NoSourceOtherGitError,
		NoSourceCloneTimeout, RepoEmpty, NoCommits, LastCommitOver5Years, LastCommitOverAYear,
		FirstCommitThisYear, FewMaxMonthlyAuthors, OneAuthorThisYear, NoProjectName,
		PackageNameMismatch, NoLicense, LicenseUnknown, LicenseAdditionalText, LicenseNotInSPDX,
		LicenseNotOSIApproved, LicenseModified, LicenseRestrictionDerivativeWorkCopyleft,
		LicenseRestrictionNetworkCopyleft, LicenseRestrictionPatentGrant,
		LicenseRestrictionCommercialRestrictions, LicenseRestrictionUserDataAccess,
		LicenseRestrictionCryptographicAutonomy, LicenseRestrictionWeakCopyleft,
		PackageSkewNotUpdated, PackageSkewNotReleased, PackageNoLicense, PackageLicenseNotSPDXID,
		PackageLicenseMismatch, VulnerabilitiesCheckFailed, VulnerabilitiesLongTimeToFix,
		VulnerabilitiesRecent, VulnerabilitiesSevere,
	} {
		MustLookup(c)
	}
}
