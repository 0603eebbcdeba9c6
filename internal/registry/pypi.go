package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openteamsinc/opensourcescore.dev/internal/model"
	"github.com/openteamsinc/opensourcescore.dev/internal/urlnorm"
)

// pypiSourceURLKeys is the preferred-key order for selecting a source URL
// out of project_urls, per spec.md §4.B and score/pypi/json_scraper.py's
// extract_source_url.
var pypiSourceURLKeys = []string{"code", "repository", "source", "source code", "github", "homepage"}

type pypiResponse struct {
	Info struct {
		Version      string            `json:"version"`
		License      string            `json:"license"`
		Classifiers  []string          `json:"classifiers"`
		RequiresDist []string          `json:"requires_dist"`
		ProjectURLs  map[string]string `json:"project_urls"`
	} `json:"info"`
	Releases map[string][]struct {
		UploadTime string `json:"upload_time_iso_8601"`
	} `json:"releases"`
}

// PyPI is the Registry Fetcher for the Python Package Index.
type PyPI struct {
	client  *http.Client
	baseURL string
}

// NewPyPI returns a Fetcher for https://pypi.org/pypi/{name}/json.
func NewPyPI(client *http.Client) *PyPI {
	if client == nil {
		client = http.DefaultClient
	}
	return &PyPI{client: client, baseURL: "https://pypi.org"}
}

// Fetch implements Fetcher.
func (p *PyPI) Fetch(ctx context.Context, name string) (model.Package, error) {
	url := fmt.Sprintf("%s/pypi/%s/json", p.baseURL, name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return model.Package{}, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return model.Package{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return model.Package{
			Ecosystem: "pypi",
			Name:      name,
			Status:    model.StatusNotFound,
		}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return model.Package{}, fmt.Errorf("registry: pypi %s: unexpected status %d", name, resp.StatusCode)
	}

	var parsed pypiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return model.Package{}, fmt.Errorf("registry: pypi %s: decoding response: %w", name, err)
	}

	var releaseDate *time.Time
	if parsed.Info.Version != "" {
		if files, ok := parsed.Releases[parsed.Info.Version]; ok {
			var earliest time.Time
			for _, f := range files {
				t, err := time.Parse(time.RFC3339, f.UploadTime)
				if err != nil {
					continue
				}
				if earliest.IsZero() || t.Before(earliest) {
					earliest = t
				}
			}
			if !earliest.IsZero() {
				releaseDate = &earliest
			}
		}
	}

	license := parsed.Info.License
	if license == "" {
		license = licenseFromClassifiers(parsed.Info.Classifiers)
	}
	license = kindFromCommonLicenseName(license)

	sourceURLKey, sourceURL := extractPyPISourceURL(parsed.Info.ProjectURLs)

	return model.Package{
		Ecosystem:    "pypi",
		Name:         name,
		Version:      parsed.Info.Version,
		License:      license,
		SourceURL:    sourceURL,
		SourceURLKey: sourceURLKey,
		ReleaseDate:  releaseDate,
		Status:       model.StatusOK,
		Dependencies: parsePyPIDependencies(parsed.Info.RequiresDist),
	}, nil
}

// licenseFromClassifier extracts a license name from one PyPI trove
// classifier of the form "License :: [OSI Approved ::] X", stripping the
// "OSI Approved" segment when present, per score/pypi/json_scraper.py's
// get_license_from_classifier.
func licenseFromClassifier(classifier string) string {
	parts := strings.Split(classifier, " :: ")
	if len(parts) == 0 || !strings.EqualFold(parts[0], "license") {
		return ""
	}
	rest := parts[1:]
	if len(rest) > 0 && rest[0] == "OSI Approved" {
		rest = rest[1:]
	}
	if len(rest) == 0 {
		return ""
	}
	return strings.Join(rest, " :: ")
}

func licenseFromClassifiers(classifiers []string) string {
	for _, c := range classifiers {
		if l := licenseFromClassifier(c); l != "" {
			return l
		}
	}
	return ""
}

// extractPyPISourceURL scans project_urls (case-insensitively keyed) for
// the first preferred key that normalizes to a usable source URL.
func extractPyPISourceURL(projectURLs map[string]string) (key, sourceURL string) {
	if len(projectURLs) == 0 {
		return "", ""
	}
	lowered := make(map[string]string, len(projectURLs))
	for k, v := range projectURLs {
		lowered[strings.ToLower(k)] = v
	}
	for _, k := range pypiSourceURLKeys {
		raw, ok := lowered[k]
		if !ok {
			continue
		}
		if normalized := urlnorm.Normalize(raw); normalized != "" {
			return k, normalized
		}
	}
	return "", ""
}
