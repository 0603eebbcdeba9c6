package batch

import (
	"context"
	"time"

	"github.com/openteamsinc/opensourcescore.dev/internal/cache"
	"github.com/openteamsinc/opensourcescore.dev/internal/gitingest"
	"github.com/openteamsinc/opensourcescore.dev/internal/log"
	"github.com/openteamsinc/opensourcescore.dev/internal/model"
	"github.com/openteamsinc/opensourcescore.dev/internal/score"
)

// PackageFetcher, SourceFetcher and VulnFetcher are the same capability
// shapes internal/httpapi declares, so *registry.Registry,
// *gitingest.Ingestor and *vuln.Fetcher satisfy all three surfaces
// without this package importing either caller's concrete type.
type PackageFetcher interface {
	Fetch(ctx context.Context, ecosystem, name string) (model.Package, error)
}
type SourceFetcher interface {
	Ingest(ctx context.Context, sourceURL string) (model.Source, error)
}
type VulnFetcher interface {
	Fetch(ctx context.Context, ecosystem, name string) model.Vulnerabilities
}

// Result is the batch path's persisted row: the same fields /score
// returns over HTTP, plus the (ecosystem, name) key so a result file
// stands on its own once written to the corpus.
type Result struct {
	Ecosystem       string                `json:"ecosystem"`
	PackageName     string                `json:"package_name"`
	Package         model.Package         `json:"package"`
	Source          *model.Source         `json:"source"`
	Score           model.Score           `json:"score"`
	Vulnerabilities model.Vulnerabilities `json:"vulnerabilities"`
}

// Runner processes one (ecosystem, name) pair through the full pipeline,
// sharing the cache namespace the HTTP API uses so a package scored once
// through either path warms the other's cache, per §5.
type Runner struct {
	Registry PackageFetcher
	Git      SourceFetcher
	Vuln     VulnFetcher
	Cache    *cache.Cache
	Logger   *log.Logger
}

// Process runs the registry -> git -> vuln -> score pipeline for one
// package, mirroring internal/httpapi's handleScore but without the
// cache-hit response headers a batch run has no client to receive.
func (ru *Runner) Process(ctx context.Context, ecosystem, name string) (Result, error) {
	pkg, err := ru.fetchPackage(ctx, ecosystem, name)
	if err != nil {
		return Result{}, err
	}

	var source *model.Source
	var vulns model.Vulnerabilities

	done := make(chan struct{})
	go func() {
		defer close(done)
		vulns = ru.fetchVuln(ctx, ecosystem, name)
	}()

	if pkg.SourceURL != "" {
		src, serr := ru.fetchSource(ctx, pkg.SourceURL)
		if serr != nil {
			<-done
			return Result{}, serr
		}
		source = &src
	}
	<-done

	result := score.Build(time.Now(), ecosystem, &pkg, source, &vulns)

	return Result{
		Ecosystem:       ecosystem,
		PackageName:     name,
		Package:         pkg,
		Source:          source,
		Score:           result,
		Vulnerabilities: vulns,
	}, nil
}

func (ru *Runner) fetchPackage(ctx context.Context, ecosystem, name string) (model.Package, error) {
	key := cache.PackageKey(ecosystem, name)

	var pkg model.Package
	if res := ru.Cache.Get(ctx, key, cache.PackageTTL, false, &pkg); res.Hit {
		return pkg, nil
	}

	pkg, err := ru.Registry.Fetch(ctx, ecosystem, name)
	if err != nil {
		return model.Package{}, err
	}
	ru.logCachePut(ctx, key, pkg)
	return pkg, nil
}

func (ru *Runner) fetchSource(ctx context.Context, sourceURL string) (model.Source, error) {
	key := cache.GitKey(sourceURL)

	var src model.Source
	if res := ru.Cache.Get(ctx, key, cache.GitTTL, false, &src); res.Hit {
		return src, nil
	}

	src, err := ru.Git.Ingest(ctx, sourceURL)
	if err != nil && !gitingest.ErrRetryable(err) {
		return model.Source{}, err
	}
	// gitingest only returns a non-nil error for the clone-timeout
	// sentinel, whose Source already carries a structured note; that
	// outcome is cached and returned the same as any other.
	ru.logCachePut(ctx, key, src)
	return src, nil
}

func (ru *Runner) fetchVuln(ctx context.Context, ecosystem, name string) model.Vulnerabilities {
	key := cache.VulnKey(ecosystem, name)

	var vulns model.Vulnerabilities
	if res := ru.Cache.Get(ctx, key, cache.VulnTTL, false, &vulns); res.Hit {
		return vulns
	}

	vulns = ru.Vuln.Fetch(ctx, ecosystem, name)
	ru.logCachePut(ctx, key, vulns)
	return vulns
}

func (ru *Runner) logCachePut(ctx context.Context, key string, value any) {
	if err := ru.Cache.Put(ctx, key, value); err != nil && ru.Logger != nil {
		ru.Logger.Error(err, "batch: writing cache entry", "key", key)
	}
}
