package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openteamsinc/opensourcescore.dev/internal/model"
)

func TestPyPIFetchNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p := &PyPI{client: srv.Client(), baseURL: srv.URL}
	got, err := p.Fetch(context.Background(), "does-not-exist")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got.Status != model.StatusNotFound {
		t.Errorf("Status = %q, want not_found", got.Status)
	}
}

func TestPyPIFetchOK(t *testing.T) {
	const body = `{
		"info": {
			"version": "3.0.0",
			"license": "",
			"classifiers": ["License :: OSI Approved :: BSD License"],
			"requires_dist": ["click>=8.1.3"],
			"project_urls": {"Repository": "https://github.com/pallets/flask.git"}
		},
		"releases": {
			"3.0.0": [{"upload_time_iso_8601": "2024-01-02T03:04:05Z"}]
		}
	}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	p := &PyPI{client: srv.Client(), baseURL: srv.URL}
	got, err := p.Fetch(context.Background(), "flask")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got.Version != "3.0.0" {
		t.Errorf("Version = %q, want 3.0.0", got.Version)
	}
	if got.License != "BSD" {
		t.Errorf("License = %q, want BSD", got.License)
	}
	if got.SourceURL != "https://github.com/pallets/flask" {
		t.Errorf("SourceURL = %q", got.SourceURL)
	}
	if got.SourceURLKey != "repository" {
		t.Errorf("SourceURLKey = %q, want repository", got.SourceURLKey)
	}
	if len(got.Dependencies) != 1 || got.Dependencies[0].Name != "click" {
		t.Errorf("Dependencies = %+v", got.Dependencies)
	}
	if got.ReleaseDate == nil {
		t.Fatal("ReleaseDate is nil")
	}
}

func TestLicenseFromClassifier(t *testing.T) {
	cases := map[string]string{
		"License :: OSI Approved :: MIT License": "MIT License",
		"License :: OSI Approved":                "",
		"Programming Language :: Python :: 3":    "",
		"License :: Public Domain":               "Public Domain",
	}
	for in, want := range cases {
		if got := licenseFromClassifier(in); got != want {
			t.Errorf("licenseFromClassifier(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExtractPyPISourceURL(t *testing.T) {
	urls := map[string]string{
		"Homepage":   "https://example.com",
		"Repository": "https://github.com/pallets/flask.git",
	}
	key, source := extractPyPISourceURL(urls)
	if key != "repository" {
		t.Errorf("key = %q, want repository", key)
	}
	if source != "https://github.com/pallets/flask" {
		t.Errorf("source = %q, want normalized github URL", source)
	}
}

func TestExtractPyPISourceURLNoneUsable(t *testing.T) {
	key, source := extractPyPISourceURL(map[string]string{"Docs": "https://example.com/docs"})
	if key != "" || source != "" {
		t.Errorf("expected no usable source url, got key=%q source=%q", key, source)
	}
}
