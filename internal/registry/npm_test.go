package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNPMFetchOK(t *testing.T) {
	const body = `{
		"dist-tags": {"latest": "1.2.3"},
		"time": {"1.2.3": "2023-05-01T00:00:00.000Z"},
		"versions": {
			"1.2.3": {
				"repository": {"type": "git", "url": "git+https://github.com/lodash/lodash.git"},
				"license": "MIT",
				"dependencies": {"foo": "^1.0.0"}
			}
		}
	}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	n := &NPM{client: srv.Client(), baseURL: srv.URL}
	got, err := n.Fetch(context.Background(), "lodash")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got.Version != "1.2.3" {
		t.Errorf("Version = %q", got.Version)
	}
	if got.License != "MIT" {
		t.Errorf("License = %q, want MIT", got.License)
	}
	if got.SourceURL != "https://github.com/lodash/lodash" {
		t.Errorf("SourceURL = %q", got.SourceURL)
	}
	if len(got.Dependencies) != 1 || got.Dependencies[0].Name != "foo" {
		t.Errorf("Dependencies = %+v", got.Dependencies)
	}
}

func TestNPMFetchRepositoryAsBareString(t *testing.T) {
	const body = `{
		"dist-tags": {"latest": "1.0.0"},
		"time": {"1.0.0": "2023-05-01T00:00:00.000Z"},
		"versions": {
			"1.0.0": {"repository": "github:user/repo"}
		}
	}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	n := &NPM{client: srv.Client(), baseURL: srv.URL}
	got, err := n.Fetch(context.Background(), "pkg")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	// "github:user/repo" isn't a URL urlnorm recognizes, so it passes
	// through unchanged, exactly as the two-component-host fallback rule
	// dictates for a host that doesn't parse as one of the known three.
	if got.SourceURL != "github:user/repo" {
		t.Errorf("SourceURL = %q", got.SourceURL)
	}
}

func TestNPMFetchNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	n := &NPM{client: srv.Client(), baseURL: srv.URL}
	got, err := n.Fetch(context.Background(), "does-not-exist")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got.Status != "not_found" {
		t.Errorf("Status = %q, want not_found", got.Status)
	}
}
