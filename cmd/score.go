package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/openteamsinc/opensourcescore.dev/internal/gitingest"
	"github.com/openteamsinc/opensourcescore.dev/internal/model"
	"github.com/openteamsinc/opensourcescore.dev/internal/score"
	"github.com/openteamsinc/opensourcescore.dev/internal/urlnorm"
)

// scoreResult mirrors httpapi's scoreResponse shape, duplicated here
// rather than imported since the HTTP package's type is a response body,
// not a shared model.
type scoreResult struct {
	Ecosystem       string                `json:"ecosystem"`
	PackageName     string                `json:"package_name"`
	Package         model.Package         `json:"package"`
	Source          *model.Source         `json:"source"`
	Score           model.Score           `json:"score"`
	Vulnerabilities model.Vulnerabilities `json:"vulnerabilities"`
}

func scoreCmd() *cobra.Command {
	var sourceURLFlag string

	cmd := &cobra.Command{
		Use:   "score <ecosystem> <package>",
		Short: "Score a single package and print the result as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ecosystem, name := args[0], args[1]
			ctx := cmd.Context()

			p, err := newPipeline(ctx)
			if err != nil {
				return err
			}

			pkg, err := p.registry.Fetch(ctx, ecosystem, name)
			if err != nil {
				return fmt.Errorf("fetching package: %w", err)
			}

			sourceURL := urlnorm.Normalize(sourceURLFlag)
			if sourceURL == "" {
				sourceURL = pkg.SourceURL
			}

			vulns := p.vuln.Fetch(ctx, ecosystem, name)

			var source *model.Source
			if sourceURL != "" {
				src, err := p.git.Ingest(ctx, sourceURL)
				if err != nil && !gitingest.ErrRetryable(err) {
					return fmt.Errorf("ingesting source: %w", err)
				}
				source = &src
			}

			result := score.Build(time.Now(), ecosystem, &pkg, source, &vulns)

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(scoreResult{
				Ecosystem:       ecosystem,
				PackageName:     name,
				Package:         pkg,
				Source:          source,
				Score:           result,
				Vulnerabilities: vulns,
			})
		},
	}

	cmd.Flags().StringVar(&sourceURLFlag, "source-url", "", "override the registry-reported source URL")
	return cmd
}
