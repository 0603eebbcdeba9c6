package vuln

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestFetcher(t *testing.T, handler http.HandlerFunc) (*Fetcher, func()) {
	t.Helper()
	srv := httptest.NewServer(handler)
	f := &Fetcher{client: srv.Client(), endpoint: srv.URL}
	return f, srv.Close
}

func TestFetchUnsupportedEcosystem(t *testing.T) {
	f, close := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach the network for an unsupported ecosystem")
	})
	defer close()

	got := f.Fetch(context.Background(), "conda", "numpy")
	if got.Error != "VULNERABILITIES_CHECK_FAILED" {
		t.Errorf("Error = %q, want VULNERABILITIES_CHECK_FAILED", got.Error)
	}
}

func TestFetchDedupesByIDAndAliases(t *testing.T) {
	f, close := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		var req osvQuery
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Package.Ecosystem != "PyPI" {
			t.Errorf("ecosystem = %q, want PyPI", req.Package.Ecosystem)
		}
		_ = json.NewEncoder(w).Encode(osvResponse{
			Vulns: []osvVuln{
				{
					ID:        "GHSA-xxxx",
					Aliases:   []string{"CVE-2024-0001"},
					Published: "2024-01-01T00:00:00Z",
					Modified:  "2024-01-10T00:00:00Z",
					Severity: []osvSeverity{
						{Type: "CVSS_V3", Score: "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H"},
					},
				},
				{
					// Same vulnerability under its CVE id, must be dropped.
					ID:        "CVE-2024-0001",
					Aliases:   []string{"GHSA-xxxx"},
					Published: "2024-01-01T00:00:00Z",
				},
			},
		})
	})
	defer close()

	got := f.Fetch(context.Background(), "pypi", "example")
	if got.Error != "" {
		t.Fatalf("unexpected error: %q", got.Error)
	}
	if len(got.Vulns) != 1 {
		t.Fatalf("got %d vulns, want 1 after dedup", len(got.Vulns))
	}
	v := got.Vulns[0]
	if v.ID != "GHSA-xxxx" {
		t.Errorf("ID = %q, want GHSA-xxxx", v.ID)
	}
	if v.Severity != "CRITICAL" {
		t.Errorf("Severity = %q, want CRITICAL", v.Severity)
	}
	if v.DaysToFix == nil || *v.DaysToFix != 9 {
		t.Errorf("DaysToFix = %v, want 9", v.DaysToFix)
	}
}

func TestFetchUpstreamErrorBecomesNote(t *testing.T) {
	f, close := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer close()

	got := f.Fetch(context.Background(), "npm", "left-pad")
	if got.Error != "VULNERABILITIES_CHECK_FAILED" {
		t.Errorf("Error = %q, want VULNERABILITIES_CHECK_FAILED", got.Error)
	}
}

func TestCategorizeSeverityBoundaries(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{9.8, "CRITICAL"},
		{9.0, "CRITICAL"},
		{8.9, "HIGH"},
		{7.0, "HIGH"},
		{6.9, "MODERATE"},
		{4.0, "MODERATE"},
		{3.9, "LOW"},
		{0.0, "LOW"},
	}
	for _, c := range cases {
		if got := string(categorizeSeverity(c.score)); got != c.want {
			t.Errorf("categorizeSeverity(%v) = %q, want %q", c.score, got, c.want)
		}
	}
}
