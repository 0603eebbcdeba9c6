package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/openteamsinc/opensourcescore.dev/internal/model"
	"github.com/openteamsinc/opensourcescore.dev/internal/urlnorm"
)

type npmRepository struct {
	URL string `json:"url"`
}

// npmResponse models the handful of fields this fetcher needs out of
// https://registry.npmjs.org/{name}. "repository" and "license" are typed
// as json.RawMessage because npm's registry accepts both an object and a
// bare-string form for each.
type npmResponse struct {
	DistTags struct {
		Latest string `json:"latest"`
	} `json:"dist-tags"`
	Time     map[string]string          `json:"time"`
	Versions map[string]npmVersionEntry `json:"versions"`
}

type npmVersionEntry struct {
	Repository   json.RawMessage   `json:"repository"`
	License      json.RawMessage   `json:"license"`
	Dependencies map[string]string `json:"dependencies"`
}

// NPM is the Registry Fetcher for the npm registry.
type NPM struct {
	client  *http.Client
	baseURL string
}

// NewNPM returns a Fetcher for https://registry.npmjs.org/{name}.
func NewNPM(client *http.Client) *NPM {
	if client == nil {
		client = http.DefaultClient
	}
	return &NPM{client: client, baseURL: "https://registry.npmjs.org"}
}

// Fetch implements Fetcher.
func (n *NPM) Fetch(ctx context.Context, name string) (model.Package, error) {
	url := fmt.Sprintf("%s/%s", n.baseURL, name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return model.Package{}, err
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return model.Package{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return model.Package{
			Ecosystem: "npm",
			Name:      name,
			Status:    model.StatusNotFound,
		}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return model.Package{}, fmt.Errorf("registry: npm %s: unexpected status %d", name, resp.StatusCode)
	}

	var parsed npmResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return model.Package{}, fmt.Errorf("registry: npm %s: decoding response: %w", name, err)
	}

	version := parsed.DistTags.Latest
	entry := parsed.Versions[version]

	var releaseDate *time.Time
	if raw, ok := parsed.Time[version]; ok {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			releaseDate = &t
		}
	}

	sourceURL := urlnorm.Normalize(extractNPMRepositoryURL(entry.Repository))

	return model.Package{
		Ecosystem:    "npm",
		Name:         name,
		Version:      version,
		License:      extractNPMLicense(entry.License),
		SourceURL:    sourceURL,
		ReleaseDate:  releaseDate,
		Status:       model.StatusOK,
		Dependencies: parseNPMDependencies(entry.Dependencies),
	}, nil
}

// extractNPMRepositoryURL reads package.json's "repository" field, which
// npm accepts either as a bare string or as {"type": "git", "url": "..."}.
func extractNPMRepositoryURL(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString
	}
	var asObject npmRepository
	if err := json.Unmarshal(raw, &asObject); err == nil {
		return asObject.URL
	}
	return ""
}

// extractNPMLicense reads package.json's "license" field as declared,
// unlike the PyPI fetcher this does not run it through the common-name
// normalizer — spec.md only calls for that on the PyPI path (§4.B), npm's
// license field is already SPDX-shaped in the overwhelming majority of
// packages. Covers both the current bare-string form and the deprecated
// {"type": "..."} object form.
func extractNPMLicense(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString
	}
	var asObject struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &asObject); err == nil {
		return asObject.Type
	}
	return ""
}
