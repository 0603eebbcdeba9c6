package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCondaFetchOK(t *testing.T) {
	const body = `{
		"full_name": "conda-forge/numpy",
		"latest_version": "1.26.0",
		"dev_url": "https://github.com/numpy/numpy",
		"modified_at": "2023-09-01T00:00:00Z",
		"files": [
			{"version": "1.26.0", "depends": ["python >=3.9", "libblas"]},
			{"version": "1.25.0", "depends": ["python >=3.8"]}
		]
	}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	c := &Conda{client: srv.Client(), baseURL: srv.URL}
	got, err := c.Fetch(context.Background(), "conda-forge/numpy")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got.Version != "1.26.0" {
		t.Errorf("Version = %q", got.Version)
	}
	if got.SourceURL != "https://github.com/numpy/numpy" {
		t.Errorf("SourceURL = %q", got.SourceURL)
	}
	if len(got.Dependencies) != 2 {
		t.Fatalf("got %d dependencies, want 2 (only the latest_version's files)", len(got.Dependencies))
	}
	if got.Dependencies[0].Name != "conda-forge/python" {
		t.Errorf("Dependencies[0].Name = %q", got.Dependencies[0].Name)
	}
}

func TestCondaFetchRejectsNameWithoutChannel(t *testing.T) {
	c := &Conda{client: http.DefaultClient, baseURL: "https://api.anaconda.org"}
	if _, err := c.Fetch(context.Background(), "numpy"); err == nil {
		t.Fatal("expected an error for a name with no channel/ prefix")
	}
}

func TestCondaFetchSourceGitURLFallback(t *testing.T) {
	const body = `{
		"full_name": "conda-forge/pkg",
		"latest_version": "1.0.0",
		"source_git_url": "https://gitlab.com/group/pkg",
		"modified_at": "2023-09-01T00:00:00Z",
		"files": [{"version": "1.0.0", "depends": []}]
	}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	c := &Conda{client: srv.Client(), baseURL: srv.URL}
	got, err := c.Fetch(context.Background(), "conda-forge/pkg")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got.SourceURL != "https://gitlab.com/group/pkg" {
		t.Errorf("SourceURL = %q, want source_git_url fallback", got.SourceURL)
	}
}
