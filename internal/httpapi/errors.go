package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

var supportedEcosystems = map[string]bool{
	"pypi":  true,
	"npm":   true,
	"conda": true,
}

// errorBody404 matches §6's 404 error shape: {detail, error}.
type errorBody404 struct {
	Detail string `json:"detail"`
	Error  string `json:"error"`
}

// errorBody500 matches §6's 500 error shape: {detail, reference_id}.
type errorBody500 struct {
	Detail      string `json:"detail"`
	ReferenceID string `json:"reference_id"`
}

func writeNotFound(w http.ResponseWriter, detail, errCode string) {
	w.WriteHeader(http.StatusNotFound)
	_ = json.NewEncoder(w).Encode(errorBody404{Detail: detail, Error: errCode})
}

// writeInternalError logs err under a freshly minted reference id and
// returns it to the client without leaking internal detail, per §7
// category 4: "logged with a generated reference id, surfaced as 500".
func (s *Server) writeInternalError(w http.ResponseWriter, r *http.Request, err error) {
	referenceID := uuid.NewString()
	if s.logger != nil {
		s.logger.Error(err, "httpapi: internal error", "reference_id", referenceID, "path", r.URL.Path)
	}
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(errorBody500{
		Detail:      "Oops! Something went wrong - Reference ID: " + referenceID,
		ReferenceID: referenceID,
	})
}

// validateEcosystem reports whether ecosystem is one of the three
// supported registries, writing the 404 response itself on rejection so
// callers can simply `if !ok { return }`.
func validateEcosystem(w http.ResponseWriter, ecosystem string) bool {
	if supportedEcosystems[strings.ToLower(ecosystem)] {
		return true
	}
	writeNotFound(w, "Unsupported ecosystem: "+ecosystem, "unsupported_ecosystem")
	return false
}

// validatePackageName rejects a conda name missing its "channel/"
// prefix before any fetch is attempted, per §7 category 1 (input
// errors never reach the upstream or the cache).
func validatePackageName(w http.ResponseWriter, ecosystem, name string) bool {
	if strings.ToLower(ecosystem) == "conda" && !strings.Contains(name, "/") {
		writeNotFound(w, "Conda package name must be \"channel/package\": "+name, "invalid_package_name")
		return false
	}
	return true
}
