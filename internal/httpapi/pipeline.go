package httpapi

import (
	"context"
	"net/http"

	"github.com/openteamsinc/opensourcescore.dev/internal/cache"
	"github.com/openteamsinc/opensourcescore.dev/internal/gitingest"
	"github.com/openteamsinc/opensourcescore.dev/internal/model"
)

// headerAppender mirrors app_utils.py's AppendHeader callback: handlers
// hand fetchers a way to record cache-file/cache-hit headers without the
// fetcher needing to know about http.ResponseWriter.
type headerAppender func(key, value string)

func headerFunc(w http.ResponseWriter) headerAppender {
	return func(key, value string) { w.Header().Add(key, value) }
}

// fetchPackage implements get_package_data_cached: check the cache first
// (unless invalidate is set), fall back to a live Registry.Fetch on miss,
// and write the result back to the cache before returning.
func (s *Server) fetchPackage(ctx context.Context, ecosystem, name string, invalidate bool, header headerAppender) (model.Package, error) {
	key := cache.PackageKey(ecosystem, name)
	header("pkg-cache-file", key)

	var pkg model.Package
	if res := s.cache.Get(ctx, key, cache.PackageTTL, invalidate, &pkg); res.Hit {
		header("pkg-cache-hit", "true")
		return pkg, nil
	}
	header("pkg-cache-hit", "false")

	pkg, err := s.registry.Fetch(ctx, ecosystem, name)
	if err != nil {
		return model.Package{}, err
	}

	if err := s.cache.Put(ctx, key, pkg); err != nil && s.logger != nil {
		s.logger.Error(err, "httpapi: writing package cache entry", "key", key)
	}
	return pkg, nil
}

// fetchSource implements create_git_metadata_cached. gitingest.Ingest
// only ever returns a non-nil error for the clone-timeout case
// (gitingest.ErrRetryable); the Source it returns alongside that error
// already carries a structured NO_SOURCE_CLONE_TIMEOUT note, so it is
// cached and returned the same as any other outcome rather than
// surfacing as a 500 (§7 category 3: a structured failure is cacheable).
func (s *Server) fetchSource(ctx context.Context, sourceURL string, invalidate bool, header headerAppender) (model.Source, error) {
	key := cache.GitKey(sourceURL)
	header("git-cache-file", key)

	var src model.Source
	if res := s.cache.Get(ctx, key, cache.GitTTL, invalidate, &src); res.Hit {
		header("git-cache-hit", "true")
		return src, nil
	}
	header("git-cache-hit", "false")

	src, err := s.git.Ingest(ctx, sourceURL)
	if err != nil && !gitingest.ErrRetryable(err) {
		return model.Source{}, err
	}

	if perr := s.cache.Put(ctx, key, src); perr != nil && s.logger != nil {
		s.logger.Error(perr, "httpapi: writing git cache entry", "key", key)
	}
	return src, nil
}

// fetchVuln implements get_vuln_data_cached. vuln.Fetcher.Fetch never
// returns a Go error; upstream failures are already folded into
// Vulnerabilities.Error (VULNERABILITIES_CHECK_FAILED), so there is no
// failure path here that would warrant a 500.
func (s *Server) fetchVuln(ctx context.Context, ecosystem, name string, invalidate bool, header headerAppender) model.Vulnerabilities {
	key := cache.VulnKey(ecosystem, name)
	header("vuln-cache-file", key)

	var vulns model.Vulnerabilities
	if res := s.cache.Get(ctx, key, cache.VulnTTL, invalidate, &vulns); res.Hit {
		header("vuln-cache-hit", "true")
		return vulns
	}
	header("vuln-cache-hit", "false")

	vulns = s.vuln.Fetch(ctx, ecosystem, name)

	if err := s.cache.Put(ctx, key, vulns); err != nil && s.logger != nil {
		s.logger.Error(err, "httpapi: writing vuln cache entry", "key", key)
	}
	return vulns
}
