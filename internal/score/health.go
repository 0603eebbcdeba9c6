package score

import (
	"github.com/openteamsinc/opensourcescore.dev/internal/model"
	"github.com/openteamsinc/opensourcescore.dev/internal/notes"
)

// fewMaxMonthlyAuthorsThreshold and oneAuthorThisYearThreshold are the
// constants health_risk.py calls FEW_MAX_MONTHLY_AUTHORS_CONST and its
// inline "< 2", per §4.F.2.
const (
	fewMaxMonthlyAuthorsThreshold = 3
	oneAuthorThisYearThreshold    = 2
)

// healthNotes implements §4.F.2, grounded on score/score/health_risk.py's
// build_health_risk_score + score_contributors.
func healthNotes(source *model.Source) []notes.Code {
	if source.Error != "" {
		return []notes.Code{source.Error}
	}

	var out []notes.Code
	if source.MaxMonthlyAuthorsCount != nil && *source.MaxMonthlyAuthorsCount < fewMaxMonthlyAuthorsThreshold {
		out = append(out, notes.FewMaxMonthlyAuthors)
	}
	if source.RecentAuthorsCount != nil && *source.RecentAuthorsCount < oneAuthorThisYearThreshold {
		out = append(out, notes.OneAuthorThisYear)
	}
	return out
}
