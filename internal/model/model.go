// Package model defines the data model shared by every component in the
// scoring pipeline: Package, Dependency, Source, License, Vulnerability,
// Note-bearing Score. These mirror score/models.py in the Python original,
// generalized to Go structs with explicit JSON tags since they are also
// the cache's wire format (§6, "Cache file format").
package model

import (
	"time"

	"github.com/openteamsinc/opensourcescore.dev/internal/notes"
)

// PackageStatus is the outcome of a registry lookup.
type PackageStatus string

const (
	StatusOK       PackageStatus = "ok"
	StatusNotFound PackageStatus = "not_found"
)

// Dependency is one entry of Package.Dependencies, parsed from the
// registry's dependency grammar (PyPI requires_dist, npm dependencies,
// conda depends).
type Dependency struct {
	Name              string   `json:"name"`
	Specifiers        []string `json:"specifiers"`
	Extras            []string `json:"extras,omitempty"`
	EnvironmentMarker string   `json:"environment_marker,omitempty"`
	ExtraMarker       string   `json:"extra_marker,omitempty"`
}

// Package is the registry-derived identity and metadata for
// (ecosystem, name). Immutable once constructed by a Fetcher.
type Package struct {
	Ecosystem    string        `json:"ecosystem"`
	Name         string        `json:"name"`
	Version      string        `json:"version,omitempty"`
	License      string        `json:"license,omitempty"`
	SourceURL    string        `json:"source_url,omitempty"`
	SourceURLKey string        `json:"source_url_key,omitempty"`
	ReleaseDate  *time.Time    `json:"release_date,omitempty"`
	Status       PackageStatus `json:"status"`
	Dependencies []Dependency  `json:"dependencies"`
}

// PackageDestination is a (ecosystem/name, manifest_path) pair discovered
// while scanning a repository's build manifests (§4.D.5).
type PackageDestination struct {
	Name         string `json:"name"`
	ManifestPath string `json:"manifest_path"`
}

// License describes one license file found in a repository, after being
// run through the License Matcher (§4.E).
type License struct {
	Path           string     `json:"path"`
	SPDXID         string     `json:"spdx_id,omitempty"`
	Kind           string     `json:"kind,omitempty"`
	LicenseName    string     `json:"license,omitempty"`
	BestMatch      string     `json:"best_match,omitempty"`
	Similarity     *float64   `json:"similarity,omitempty"`
	Modified       bool       `json:"modified"`
	Diff           string     `json:"diff,omitempty"`
	MD5            string     `json:"md5,omitempty"`
	AdditionalText string     `json:"additional_text,omitempty"`
	Restrictions   []string   `json:"restrictions,omitempty"`
	IsOSIApproved  *bool      `json:"is_osi_approved,omitempty"`
	Error          notes.Code `json:"error,omitempty"`
}

// Source is the git-ingestion-derived evidence for a source_url.
type Source struct {
	SourceURL              string               `json:"source_url"`
	Error                  notes.Code           `json:"error,omitempty"`
	Licenses               []License            `json:"licenses"`
	PackageDestinations    []PackageDestination `json:"package_destinations"`
	RecentAuthorsCount     *int                 `json:"recent_authors_count,omitempty"`
	MaxMonthlyAuthorsCount *int                 `json:"max_monthly_authors_count,omitempty"`
	FirstCommit            *time.Time           `json:"first_commit,omitempty"`
	LatestCommit           *time.Time           `json:"latest_commit,omitempty"`
}

// Severity is the bucketed CVSS severity of a Vulnerability.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityModerate Severity = "MODERATE"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
	SeverityUnknown  Severity = "UNKNOWN"
)

// Vulnerability is one normalized OSV record.
type Vulnerability struct {
	ID          string     `json:"id"`
	PublishedOn time.Time  `json:"published_on"`
	FixedOn     *time.Time `json:"fixed_on,omitempty"`
	Severity    Severity   `json:"severity"`
	SeverityNum *float64   `json:"severity_num,omitempty"`
	DaysToFix   *int       `json:"days_to_fix,omitempty"`
}

// Vulnerabilities wraps the vulnerability list for a package, plus an
// optional fetch-level error.
type Vulnerabilities struct {
	Vulns []Vulnerability `json:"vulns"`
	Error notes.Code      `json:"error,omitempty"`
}

// CategorizedScore is one of the four sub-scores making up a Score.
type CategorizedScore struct {
	Value notes.Category `json:"value"`
	Notes []notes.Code   `json:"notes"`
}

// Score is the final, request-scoped output of the pipeline. Never
// persisted by the core (§3 invariants).
type Score struct {
	Notes      []notes.Code     `json:"notes"`
	Legal      CategorizedScore `json:"legal"`
	HealthRisk CategorizedScore `json:"health_risk"`
	Maturity   CategorizedScore `json:"maturity"`
	Security   CategorizedScore `json:"security"`
}
