// Package score implements the pure note-derivation and score-assembly
// rules of §4.F: Maturity, Health, Legal, and Security notes derived
// from a Package/Source/Vulnerabilities triple, then folded into the
// four CategorizedScores and the top-level Score. Grounded on
// score/score/{maturity,health_risk,legal,security,app_score,
// score_type}.py in original_source/, restructured into one Go package
// per spec.md's richer per-license and per-note-group rules.
package score

import (
	"sort"
	"time"

	"github.com/openteamsinc/opensourcescore.dev/internal/model"
	"github.com/openteamsinc/opensourcescore.dev/internal/notes"
)

// Build assembles the final Score for one (ecosystem, package, source,
// vulnerabilities) tuple, per §4.F.6. now is threaded through explicitly
// rather than read from time.Now() so note derivation stays a pure,
// testable function of its inputs.
func Build(now time.Time, ecosystem string, pkg *model.Package, source *model.Source, vulns *model.Vulnerabilities) model.Score {
	var allNotes []notes.Code

	if source == nil {
		if pkg != nil && pkg.Status == model.StatusNotFound {
			allNotes = []notes.Code{notes.NotOpenSource}
		} else {
			allNotes = []notes.Code{notes.NoSourceRepoNotFound}
		}
	} else {
		allNotes = append(allNotes, maturityNotes(now, source)...)
		allNotes = append(allNotes, healthNotes(source)...)
		allNotes = append(allNotes, legalNotes(source)...)
		allNotes = append(allNotes, packageCheckNotes(ecosystem, pkg, source)...)
		allNotes = append(allNotes, securityNotes(now, vulns)...)
	}

	return model.Score{
		Notes:      dedupSorted(allNotes),
		Legal:      categorize(notes.CategoryHealthy, notes.GroupLegal, allNotes),
		HealthRisk: categorize(notes.CategoryHealthy, notes.GroupHealth, allNotes),
		Maturity:   categorize(notes.CategoryMature, notes.GroupMaturity, allNotes),
		Security:   categorize(notes.CategoryHealthy, notes.GroupSecurity, allNotes),
	}
}

// categorize folds the flat note list into one CategorizedScore: a note
// contributes iff its catalog group is Any or matches group, duplicates
// within the sub-score are skipped, and value is the max severity among
// accepted notes, per §4.F.6 and score_type.py's ScoreBuilder.add_note.
func categorize(seed notes.Category, group notes.Group, allNotes []notes.Code) model.CategorizedScore {
	value := seed
	seen := make(map[notes.Code]bool, len(allNotes))
	var accepted []notes.Code

	for _, code := range allNotes {
		if seen[code] {
			continue
		}
		d, ok := notes.Lookup(code)
		if !ok {
			continue
		}
		if d.Group != notes.GroupAny && d.Group != group {
			continue
		}
		seen[code] = true
		accepted = append(accepted, code)
		value = notes.Max(value, d.Category)
	}

	return model.CategorizedScore{Value: value, Notes: accepted}
}

// dedupSorted implements the top-level Score.notes rule: "deduplicated,
// lexicographically sorted union".
func dedupSorted(codes []notes.Code) []notes.Code {
	seen := make(map[notes.Code]bool, len(codes))
	var out []notes.Code
	for _, c := range codes {
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
