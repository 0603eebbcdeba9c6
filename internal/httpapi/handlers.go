package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/openteamsinc/opensourcescore.dev/internal/model"
	"github.com/openteamsinc/opensourcescore.dev/internal/notes"
	"github.com/openteamsinc/opensourcescore.dev/internal/score"
	"github.com/openteamsinc/opensourcescore.dev/internal/urlnorm"
)

// handleRoot mirrors app.py's root(): a small, stable payload useful as a
// liveness check and a pointer to this build's version.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(map[string]string{"version": s.version})
}

// notesResponse matches §6's /notes/categories response shape:
// {notes: {code -> NoteDescr}, categories: [...], groups: [...]}.
type notesResponse struct {
	Notes      map[notes.Code]notes.Descr `json:"notes"`
	Categories []notes.Category           `json:"categories"`
	Groups     []notes.Group              `json:"groups"`
}

func buildNotesResponse() notesResponse {
	byCode := make(map[notes.Code]notes.Descr)
	for _, d := range notes.All() {
		byCode[d.Code] = d
	}
	return notesResponse{
		Notes:      byCode,
		Categories: notes.Categories(),
		Groups:     []notes.Group{notes.GroupAny, notes.GroupHealth, notes.GroupLegal, notes.GroupMaturity, notes.GroupSecurity},
	}
}

func (s *Server) handleNotesCategories(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(buildNotesResponse())
}

// handleNotesDeprecated mirrors app.py's deprecated `/notes` route: the
// flat {code -> NoteDescr} map without the categories/groups wrapper.
func (s *Server) handleNotesDeprecated(w http.ResponseWriter, r *http.Request) {
	byCode := make(map[notes.Code]notes.Descr)
	for _, d := range notes.All() {
		byCode[d.Code] = d
	}
	_ = json.NewEncoder(w).Encode(byCode)
}

func (s *Server) handlePkg(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	ecosystem, name := vars["ecosystem"], vars["name"]

	if !validateEcosystem(w, ecosystem) || !validatePackageName(w, ecosystem, name) {
		return
	}

	invalidate := parseBoolQuery(r, "invalidate_cache")
	pkg, err := s.fetchPackage(r.Context(), ecosystem, name, invalidate, headerFunc(w))
	if err != nil {
		s.writeInternalError(w, r, err)
		return
	}
	_ = json.NewEncoder(w).Encode(pkg)
}

// scoreResponse matches §6's /score response body shape.
type scoreResponse struct {
	Ecosystem       string                `json:"ecosystem"`
	PackageName     string                `json:"package_name"`
	Package         model.Package         `json:"package"`
	Source          *model.Source         `json:"source"`
	Score           model.Score           `json:"score"`
	Status          model.PackageStatus   `json:"status"`
	Vulnerabilities model.Vulnerabilities `json:"vulnerabilities"`
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	ecosystem, name := vars["ecosystem"], vars["name"]

	if !validateEcosystem(w, ecosystem) || !validatePackageName(w, ecosystem, name) {
		return
	}

	invalidate := parseBoolQuery(r, "invalidate_cache")
	ctx := r.Context()
	header := headerFunc(w)

	pkg, err := s.fetchPackage(ctx, ecosystem, name, invalidate, header)
	if err != nil {
		s.writeInternalError(w, r, err)
		return
	}

	sourceURL := urlnorm.Normalize(r.URL.Query().Get("source_url"))
	if sourceURL == "" {
		sourceURL = pkg.SourceURL
	}

	// §5: the registry fetch is already resolved; the source and
	// vulnerability fetches are independent of each other and run
	// concurrently once the package (and therefore source_url) is known.
	var source *model.Source
	var sourceErr error
	var vulns model.Vulnerabilities

	done := make(chan struct{})
	go func() {
		defer close(done)
		vulns = s.fetchVuln(ctx, ecosystem, name, invalidate, header)
	}()

	if sourceURL != "" {
		var src model.Source
		src, sourceErr = s.fetchSource(ctx, sourceURL, invalidate, header)
		if sourceErr == nil {
			source = &src
		}
	}
	<-done

	if sourceErr != nil {
		s.writeInternalError(w, r, sourceErr)
		return
	}

	result := score.Build(time.Now(), ecosystem, &pkg, source, &vulns)

	_ = json.NewEncoder(w).Encode(scoreResponse{
		Ecosystem:       ecosystem,
		PackageName:     name,
		Package:         pkg,
		Source:          source,
		Score:           result,
		Status:          pkg.Status,
		Vulnerabilities: vulns,
	})
}

func (s *Server) handleSourceGit(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sourceURL := urlnorm.Normalize(vars["sourceURL"])

	invalidate := parseBoolQuery(r, "invalidate_cache")
	src, err := s.fetchSource(r.Context(), sourceURL, invalidate, headerFunc(w))
	if err != nil {
		s.writeInternalError(w, r, err)
		return
	}
	_ = json.NewEncoder(w).Encode(src)
}

func parseBoolQuery(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && v
}
