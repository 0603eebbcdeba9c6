// Package registry implements the Registry Fetchers (§4.B): one
// implementation of a shared Fetcher capability per ecosystem (pypi, npm,
// conda), dispatched by ecosystem tag rather than reflection, per
// SPEC_FULL.md §9's design note on cyclic/dynamic dispatch across
// ecosystems. Grounded on score/pypi/json_scraper.py, score/npm/
// scrape_npm.py, and score/conda/scrape_conda.py in original_source/, with
// the outbound HTTP shaped like the teacher's cmd/packagemanager_client.go.
package registry

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/openteamsinc/opensourcescore.dev/internal/model"
)

// Fetcher retrieves registry metadata for name and normalizes it into a
// model.Package.
type Fetcher interface {
	Fetch(ctx context.Context, name string) (model.Package, error)
}

// Registry dispatches to the Fetcher for a given ecosystem tag.
type Registry struct {
	fetchers map[string]Fetcher
}

// New wires the three built-in ecosystem fetchers behind shared client.
func New(client *http.Client) *Registry {
	return &Registry{
		fetchers: map[string]Fetcher{
			"pypi":  NewPyPI(client),
			"npm":   NewNPM(client),
			"conda": NewConda(client),
		},
	}
}

// Fetch dispatches to the Fetcher registered for ecosystem.
func (r *Registry) Fetch(ctx context.Context, ecosystem, name string) (model.Package, error) {
	f, ok := r.fetchers[strings.ToLower(ecosystem)]
	if !ok {
		return model.Package{}, fmt.Errorf("registry: unsupported ecosystem %q", ecosystem)
	}
	return f.Fetch(ctx, name)
}
