package score

import (
	"sort"
	"time"

	"github.com/openteamsinc/opensourcescore.dev/internal/model"
	"github.com/openteamsinc/opensourcescore.dev/internal/notes"
)

const (
	longTimeToFixDays = 600
	recentVulnWindow  = 600 * 24 * time.Hour
	recentVulnCap     = 2
	severeCVSSFloor   = 7.0
)

// securityNotes implements §4.F.5, grounded on score/score/security.py's
// score_security, generalized with the VULNERABILITIES_SEVERE rule
// SPEC_FULL.md adds on top of the severity_num the License/CVSS fetcher
// already attaches to each Vulnerability.
func securityNotes(now time.Time, vulns *model.Vulnerabilities) []notes.Code {
	if vulns == nil {
		return nil
	}
	if vulns.Error != "" {
		return []notes.Code{vulns.Error}
	}

	var out []notes.Code

	var daysToFix []int
	for _, v := range vulns.Vulns {
		if v.DaysToFix != nil {
			daysToFix = append(daysToFix, *v.DaysToFix)
		}
	}
	if m, ok := median(daysToFix); ok && m > longTimeToFixDays {
		out = append(out, notes.VulnerabilitiesLongTimeToFix)
	}

	cutoff := now.Add(-recentVulnWindow)
	var recent []model.Vulnerability
	for _, v := range vulns.Vulns {
		if v.PublishedOn.After(cutoff) {
			recent = append(recent, v)
		}
	}
	if len(recent) > recentVulnCap {
		out = append(out, notes.VulnerabilitiesRecent)
		for _, v := range recent {
			if v.SeverityNum != nil && *v.SeverityNum >= severeCVSSFloor {
				out = append(out, notes.VulnerabilitiesSevere)
				break
			}
		}
	}

	return out
}

// median implements §4.F.5's median rule: odd-length lists return the
// middle element, even-length lists return the integer floor of the
// average of the two middle elements, matching security.py's median()
// (Python's `//` floor-division on ints).
func median(values []int) (int, bool) {
	if len(values) == 0 {
		return 0, false
	}
	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)

	n := len(sorted)
	mid := n / 2
	if n%2 == 1 {
		return sorted[mid], true
	}
	return floorDiv(sorted[mid-1]+sorted[mid], 2), true
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
