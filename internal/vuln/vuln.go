// Package vuln queries the OSV vulnerability database for a package and
// normalizes the response into model.Vulnerabilities (§4.C). Grounded on
// score/vulnerabilities/scrape_vulnerabilities.py in original_source/, with
// the outbound POST shaped like the teacher's clients/osv_client.go (same
// endpoint, same json.Marshal/Decode pattern, but query-by-package rather
// than query-by-commit).
package vuln

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	gocvss20 "github.com/pandatix/go-cvss/20"
	gocvss30 "github.com/pandatix/go-cvss/30"
	gocvss31 "github.com/pandatix/go-cvss/31"
	gocvss40 "github.com/pandatix/go-cvss/40"

	"github.com/openteamsinc/opensourcescore.dev/internal/model"
	"github.com/openteamsinc/opensourcescore.dev/internal/notes"
)

const osvQueryEndpoint = "https://api.osv.dev/v1/query"

// ecosystems maps this system's lowercase ecosystem identifiers onto OSV's
// capitalized ecosystem names. Conda packages are not in OSV's schema, so
// they're intentionally absent, matching scrape_vulnerability's `ecosystems`
// dict exactly.
var ecosystems = map[string]string{
	"pypi": "PyPI",
	"npm":  "npm",
}

type osvQuery struct {
	Package osvPackage `json:"package"`
}

type osvPackage struct {
	Name      string `json:"name"`
	Ecosystem string `json:"ecosystem"`
}

type osvSeverity struct {
	Type  string `json:"type"`
	Score string `json:"score"`
}

type osvVuln struct {
	ID        string        `json:"id"`
	Aliases   []string      `json:"aliases"`
	Severity  []osvSeverity `json:"severity"`
	Published string        `json:"published"`
	Modified  string        `json:"modified"`
}

type osvResponse struct {
	Vulns []osvVuln `json:"vulns"`
}

// Fetcher queries OSV over HTTP.
type Fetcher struct {
	client   *http.Client
	endpoint string
}

// New returns a Fetcher using client for outbound requests. client should
// come from internal/httpclient.New so 5xx responses are retried.
func New(client *http.Client) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{client: client, endpoint: osvQueryEndpoint}
}

// Fetch returns the normalized, deduplicated vulnerability list for
// (ecosystem, name). A non-pypi/npm ecosystem or a transport/HTTP failure
// is reported as VULNERABILITIES_CHECK_FAILED rather than a Go error, since
// the rest of the pipeline must keep scoring the other categories.
func (f *Fetcher) Fetch(ctx context.Context, ecosystem, name string) model.Vulnerabilities {
	osvEcosystem, ok := ecosystems[strings.ToLower(ecosystem)]
	if !ok {
		return model.Vulnerabilities{Error: notes.VulnerabilitiesCheckFailed}
	}

	body, err := json.Marshal(osvQuery{Package: osvPackage{Name: name, Ecosystem: osvEcosystem}})
	if err != nil {
		return model.Vulnerabilities{Error: notes.VulnerabilitiesCheckFailed}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint, bytes.NewReader(body))
	if err != nil {
		return model.Vulnerabilities{Error: notes.VulnerabilitiesCheckFailed}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return model.Vulnerabilities{Error: notes.VulnerabilitiesCheckFailed}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.Vulnerabilities{Error: notes.VulnerabilitiesCheckFailed}
	}

	var parsed osvResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return model.Vulnerabilities{Error: notes.VulnerabilitiesCheckFailed}
	}

	out, err := normalize(parsed.Vulns)
	if err != nil {
		return model.Vulnerabilities{Error: notes.VulnerabilitiesCheckFailed}
	}
	return out
}

// normalize dedups by id ∪ aliases (a seen-set keyed on every identifier a
// vuln answers to, since OSV, GHSA, and CVE ids for the same vulnerability
// can each appear as the "id" of a different entry in the same response)
// and converts each surviving OSV record to a model.Vulnerability. published
// is mandatory in the OSV schema — scrape_vulnerabilities.py raises
// ValueError when it's missing rather than drop the record — so a record
// that fails to parse here fails the whole fetch instead of vanishing
// silently from the result.
func normalize(vulns []osvVuln) (model.Vulnerabilities, error) {
	seen := make(map[string]bool)
	out := model.Vulnerabilities{Vulns: []model.Vulnerability{}}

	for _, v := range vulns {
		knownIDs := append([]string{v.ID}, v.Aliases...)

		alreadySeen := false
		for _, id := range knownIDs {
			if seen[id] {
				alreadySeen = true
				break
			}
		}
		for _, id := range knownIDs {
			seen[id] = true
		}
		if alreadySeen {
			continue
		}

		published, err := time.Parse(time.RFC3339, v.Published)
		if err != nil {
			return model.Vulnerabilities{}, fmt.Errorf("vuln: vuln %s has missing or unparsable published date: %w", v.ID, err)
		}

		var fixedOn *time.Time
		var daysToFix *int
		if modified, err := time.Parse(time.RFC3339, v.Modified); err == nil {
			fixedOn = &modified
			d := int(modified.Sub(published).Hours() / 24)
			daysToFix = &d
		}

		num, severity := extractSeverity(v.Severity)
		out.Vulns = append(out.Vulns, model.Vulnerability{
			ID:          v.ID,
			PublishedOn: published,
			FixedOn:     fixedOn,
			Severity:    severity,
			SeverityNum: num,
			DaysToFix:   daysToFix,
		})
	}

	return out, nil
}

// severityTypeRank prefers CVSS v4 over v3 over v2 when a vuln carries more
// than one severity vector, matching extract_severity_number's
// sorted(..., key=lambda sev: sev.get("type"), reverse=True) — which,
// because the strings sort CVSS_V4 > CVSS_V3 > CVSS_V2 lexicographically,
// happens to produce the same preference order this ranks explicitly.
var severityTypeRank = map[string]int{
	"CVSS_V4": 3,
	"CVSS_V3": 2,
	"CVSS_V2": 1,
}

func extractSeverity(severities []osvSeverity) (*float64, model.Severity) {
	if len(severities) == 0 {
		return nil, model.SeverityUnknown
	}

	sorted := append([]osvSeverity(nil), severities...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return severityTypeRank[sorted[i].Type] > severityTypeRank[sorted[j].Type]
	})

	for _, sev := range sorted {
		score, ok := baseScore(sev.Type, sev.Score)
		if ok {
			return &score, categorizeSeverity(score)
		}
	}
	return nil, model.SeverityUnknown
}

// baseScore parses a CVSS vector string into its base score, picking the
// CVSS v3 sub-parser by the vector's own "CVSS:3.0"/"CVSS:3.1" prefix since
// OSV's severity.type only distinguishes v2/v3/v4, not the v3 minor version.
func baseScore(cvssType, vector string) (float64, bool) {
	switch cvssType {
	case "CVSS_V4":
		c, err := gocvss40.ParseVector(vector)
		if err != nil {
			return 0, false
		}
		return c.BaseScore(), true
	case "CVSS_V3":
		if strings.HasPrefix(vector, "CVSS:3.0") {
			c, err := gocvss30.ParseVector(vector)
			if err != nil {
				return 0, false
			}
			return c.BaseScore(), true
		}
		c, err := gocvss31.ParseVector(vector)
		if err != nil {
			return 0, false
		}
		return c.BaseScore(), true
	case "CVSS_V2":
		c, err := gocvss20.ParseVector(vector)
		if err != nil {
			return 0, false
		}
		return c.BaseScore(), true
	default:
		return 0, false
	}
}

// categorizeSeverity buckets a CVSS base score per
// https://ossf.github.io/osv-schema/#severitytype-field.
func categorizeSeverity(score float64) model.Severity {
	switch {
	case score >= 9.0:
		return model.SeverityCritical
	case score >= 7.0:
		return model.SeverityHigh
	case score >= 4.0:
		return model.SeverityModerate
	default:
		return model.SeverityLow
	}
}
