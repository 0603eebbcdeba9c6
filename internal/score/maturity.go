package score

import (
	"time"

	"github.com/openteamsinc/opensourcescore.dev/internal/model"
	"github.com/openteamsinc/opensourcescore.dev/internal/notes"
)

// maturityNotes implements §4.F.1, grounded on score/score/maturity.py's
// build_maturity_score: a repo error short-circuits, an absent first
// commit means the repo has no history at all, and otherwise staleness
// and freshness are evaluated against fixed one- and five-year windows.
func maturityNotes(now time.Time, source *model.Source) []notes.Code {
	if source.Error != "" {
		return []notes.Code{source.Error}
	}
	if source.FirstCommit == nil {
		return []notes.Code{notes.NoCommits}
	}

	fiveYearsAgo := now.AddDate(-5, 0, 0)
	oneYearAgo := now.AddDate(-1, 0, 0)

	if source.LatestCommit != nil && source.LatestCommit.Before(fiveYearsAgo) {
		return []notes.Code{notes.LastCommitOver5Years}
	}
	if source.LatestCommit != nil && source.LatestCommit.Before(oneYearAgo) {
		return []notes.Code{notes.LastCommitOverAYear}
	}
	if source.FirstCommit.After(oneYearAgo) {
		return []notes.Code{notes.FirstCommitThisYear}
	}
	return nil
}
