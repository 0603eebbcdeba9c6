package batch

import (
	"context"
	"testing"

	"github.com/openteamsinc/opensourcescore.dev/internal/cache"
	"github.com/openteamsinc/opensourcescore.dev/internal/model"
	"github.com/openteamsinc/opensourcescore.dev/internal/notes"
)

type fakeRegistry struct {
	pkg model.Package
	err error
}

func (f *fakeRegistry) Fetch(ctx context.Context, ecosystem, name string) (model.Package, error) {
	return f.pkg, f.err
}

type fakeGit struct {
	src model.Source
	err error
}

func (f *fakeGit) Ingest(ctx context.Context, sourceURL string) (model.Source, error) {
	return f.src, f.err
}

type fakeVuln struct {
	vulns model.Vulnerabilities
}

func (f *fakeVuln) Fetch(ctx context.Context, ecosystem, name string) model.Vulnerabilities {
	return f.vulns
}

func newTestRunner(t *testing.T, reg PackageFetcher, git SourceFetcher, vuln VulnFetcher) *Runner {
	t.Helper()
	c, err := cache.Open(context.Background(), "mem://", nil)
	if err != nil {
		t.Fatalf("cache.Open: %v", err)
	}
	return &Runner{Registry: reg, Git: git, Vuln: vuln, Cache: c}
}

func TestRunnerProcessNoSourceURL(t *testing.T) {
	reg := &fakeRegistry{pkg: model.Package{Ecosystem: "pypi", Name: "flask", Status: model.StatusOK}}
	ru := newTestRunner(t, reg, &fakeGit{}, &fakeVuln{})

	res, err := ru.Process(context.Background(), "pypi", "flask")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Source != nil {
		t.Errorf("expected nil Source when Package has no source_url")
	}
	if len(res.Score.Notes) != 1 || res.Score.Notes[0] != notes.NoSourceRepoNotFound {
		t.Fatalf("expected [NO_SOURCE_REPO_NOT_FOUND], got %v", res.Score.Notes)
	}
}

func TestRunnerProcessWithSource(t *testing.T) {
	reg := &fakeRegistry{pkg: model.Package{
		Ecosystem: "pypi", Name: "flask", Status: model.StatusOK,
		SourceURL: "https://github.com/pallets/flask",
	}}
	git := &fakeGit{src: model.Source{SourceURL: "https://github.com/pallets/flask"}}
	ru := newTestRunner(t, reg, git, &fakeVuln{})

	res, err := ru.Process(context.Background(), "pypi", "flask")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Source == nil {
		t.Fatalf("expected a non-nil Source")
	}
}

func TestRunnerProcessRegistryError(t *testing.T) {
	reg := &fakeRegistry{err: context.DeadlineExceeded}
	ru := newTestRunner(t, reg, &fakeGit{}, &fakeVuln{})

	if _, err := ru.Process(context.Background(), "pypi", "flask"); err == nil {
		t.Fatalf("expected an error from a failing registry fetch")
	}
}

func TestRunnerProcessCachesPackage(t *testing.T) {
	reg := &fakeRegistry{pkg: model.Package{Ecosystem: "pypi", Name: "flask", Status: model.StatusOK}}
	ru := newTestRunner(t, reg, &fakeGit{}, &fakeVuln{})

	if _, err := ru.Process(context.Background(), "pypi", "flask"); err != nil {
		t.Fatalf("Process: %v", err)
	}

	var cached model.Package
	res := ru.Cache.Get(context.Background(), cache.PackageKey("pypi", "flask"), cache.PackageTTL, false, &cached)
	if !res.Hit {
		t.Errorf("expected the package result to be cached after Process")
	}
}
