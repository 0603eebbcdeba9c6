// Package gitingest implements the Git Ingestor (§4.D): given a
// normalized source_url, gate it, clone just enough of the repository to
// read commit history and a handful of well-known files, and derive a
// model.Source. Grounded on score/git_vcs/{check_url,clone_repo,scrape,
// package_destinations,license_detection}.py in original_source/, and on
// the teacher's clients/git/client.go for idiomatic go-git usage
// (PlainClone into a scoped temp dir, Worktree/tree-based file access,
// Close-on-every-path cleanup).
package gitingest

import (
	"context"
	"errors"
	"time"

	"github.com/openteamsinc/opensourcescore.dev/internal/license"
	"github.com/openteamsinc/opensourcescore.dev/internal/log"
	"github.com/openteamsinc/opensourcescore.dev/internal/model"
	"github.com/openteamsinc/opensourcescore.dev/internal/notes"
)

// Ingestor ties the URL gate, clone, commit-stats, license-scan, and
// manifest-scan steps into the ingest(url) -> Source contract of §4.D.
type Ingestor struct {
	maxCloneTime time.Duration
	matcher      *license.Matcher
	logger       *log.Logger
}

// New returns an Ingestor that bounds clones to maxCloneTime and
// classifies discovered license files with matcher.
func New(maxCloneTime time.Duration, matcher *license.Matcher, logger *log.Logger) *Ingestor {
	return &Ingestor{maxCloneTime: maxCloneTime, matcher: matcher, logger: logger}
}

// ErrRetryable reports whether err indicates a transient condition (a
// clone that hit the wall-clock timeout) the caller may legitimately
// retry, as opposed to a durable condition folded into Source.Error.
func ErrRetryable(err error) bool {
	return errors.Is(err, ErrCloneTimeout)
}

// Ingest fetches sourceURL and derives a Source. A non-nil error is
// reserved for the timeout case (§4.D.2: "raise to caller as timeout,
// retry eligible"); every other failure mode is reported via the
// returned Source's Error field, never as a Go error.
func (ig *Ingestor) Ingest(ctx context.Context, sourceURL string) (model.Source, error) {
	if code := gateCheck(sourceURL); code != "" {
		return rejected(sourceURL, code), nil
	}

	cloned, code, err := cloneRepo(ctx, sourceURL, ig.maxCloneTime, ig.logger)
	if err != nil {
		src := rejected(sourceURL, code)
		if code == notes.NoSourceCloneTimeout {
			return src, ErrCloneTimeout
		}
		return src, nil
	}
	defer func() {
		if cerr := cloned.Close(); cerr != nil && ig.logger != nil {
			ig.logger.Error(cerr, "gitingest: cleaning up clone dir", "source_url", sourceURL)
		}
	}()

	head, err := cloned.repo.Head()
	if err != nil {
		return rejected(sourceURL, noSourceOtherGitErrorFor(err)), nil
	}
	commit, err := cloned.repo.CommitObject(head.Hash())
	if err != nil {
		return rejected(sourceURL, noSourceOtherGitErrorFor(err)), nil
	}
	tree, err := commit.Tree()
	if err != nil {
		return rejected(sourceURL, noSourceOtherGitErrorFor(err)), nil
	}

	src := model.Source{SourceURL: sourceURL}

	rows, ok, err := commitMetadata(cloned.repo)
	if err != nil {
		return rejected(sourceURL, noSourceOtherGitErrorFor(err)), nil
	}
	applyCommitMetadata(&src, rows, ok)
	if src.Error != "" {
		return src, nil
	}

	licenses, err := scanLicenses(sourceURL, tree, ig.matcher)
	if err != nil && ig.logger != nil {
		ig.logger.Error(err, "gitingest: scanning license files", "source_url", sourceURL)
	}
	src.Licenses = licenses

	dests, err := findPackageDestinations(tree)
	if err != nil && ig.logger != nil {
		ig.logger.Error(err, "gitingest: scanning manifests", "source_url", sourceURL)
	}
	src.PackageDestinations = dests

	return src, nil
}

func noSourceOtherGitErrorFor(err error) notes.Code {
	code := classifyCloneError(context.Background(), err)
	if code == "" {
		return notes.NoSourceOtherGitError
	}
	return code
}
