// Package httpapi wires the HTTP interface of §6: the four routes
// (/pkg, /score, /source/git, /notes/categories) over the registry,
// git, and vulnerability fetchers, with the cache-hit headers and
// error-response shapes app.py establishes (404 for input errors, 500
// with a logged reference id for everything else, per §7).
package httpapi

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/openteamsinc/opensourcescore.dev/internal/cache"
	"github.com/openteamsinc/opensourcescore.dev/internal/log"
	"github.com/openteamsinc/opensourcescore.dev/internal/model"
)

// maxAge is the Cache-control max-age this API advertises on every
// response, matching app.py's `max_age = 60 * 60`.
const maxAge = "3600"

// PackageFetcher is the capability *registry.Registry provides: resolve
// (ecosystem, name) to a model.Package. Declared here, rather than
// depending on *registry.Registry directly, so handlers can be tested
// against a stub the way the teacher's clients package interfaces let
// its checks run against fake RepoClients.
type PackageFetcher interface {
	Fetch(ctx context.Context, ecosystem, name string) (model.Package, error)
}

// SourceFetcher is the capability *gitingest.Ingestor provides.
type SourceFetcher interface {
	Ingest(ctx context.Context, sourceURL string) (model.Source, error)
}

// VulnFetcher is the capability *vuln.Fetcher provides.
type VulnFetcher interface {
	Fetch(ctx context.Context, ecosystem, name string) model.Vulnerabilities
}

// Server holds the wired pipeline components a request handler needs.
// It carries no per-request state; one Server serves the whole process.
type Server struct {
	registry PackageFetcher
	vuln     VulnFetcher
	git      SourceFetcher
	cache    *cache.Cache
	logger   *log.Logger
	version  string
}

// New returns a Server ready to be mounted with Router.
func New(reg PackageFetcher, vulnFetcher VulnFetcher, ingestor SourceFetcher, c *cache.Cache, logger *log.Logger, version string) *Server {
	return &Server{
		registry: reg,
		vuln:     vulnFetcher,
		git:      ingestor,
		cache:    c,
		logger:   logger,
		version:  version,
	}
}

// Router builds the gorilla/mux router this service exposes, the same
// routing library the teacher's badge server uses (mux.Vars, path
// variables with an embedded regexp for the trailing `:path`-style
// segments this API's routes need).
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.commonHeaders)

	r.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	r.HandleFunc("/notes", s.handleNotesDeprecated).Methods(http.MethodGet)
	r.HandleFunc("/notes/categories", s.handleNotesCategories).Methods(http.MethodGet)
	r.HandleFunc("/pkg/{ecosystem}/{name:.+}", s.handlePkg).Methods(http.MethodGet)
	r.HandleFunc("/score/{ecosystem}/{name:.+}", s.handleScore).Methods(http.MethodGet)
	r.HandleFunc("/source/git/{sourceURL:.+}", s.handleSourceGit).Methods(http.MethodGet)
	return r
}

// commonHeaders sets the headers spec.md §6 says apply to every response.
func (s *Server) commonHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-control", "max-age="+maxAge+", public")
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
