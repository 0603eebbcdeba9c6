package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openteamsinc/opensourcescore.dev/internal/batch"
)

// batchCmd mirrors the spec's offline corpus builder (§5): read a
// newline-delimited package-name list, keep only the names in this
// partition, run them through a bounded worker pool, and write one
// result object per package under Config.OutputRoot. Its parameters can
// come from a YAML manifest (--manifest) or individual flags; flags set
// on the command line always win over the manifest's values.
func batchCmd() *cobra.Command {
	var (
		manifestFile  string
		ecosystem     string
		inputFile     string
		numPartitions int
		partition     int
		workers       int
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Score a partition of a package-name list and write results to disk",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if manifestFile != "" {
				m, err := batch.LoadManifest(manifestFile)
				if err != nil {
					return err
				}
				if !cmd.Flags().Changed("ecosystem") {
					ecosystem = m.Ecosystem
				}
				if !cmd.Flags().Changed("input") {
					inputFile = m.InputFile
				}
				if !cmd.Flags().Changed("num-partitions") {
					numPartitions = m.NumPartitions
				}
				if !cmd.Flags().Changed("partition") {
					partition = m.Partition
				}
				if !cmd.Flags().Changed("workers") {
					workers = m.Workers
				}
			}
			if ecosystem == "" {
				return fmt.Errorf("batch: --ecosystem is required (flag or manifest)")
			}
			if inputFile == "" {
				return fmt.Errorf("batch: --input is required (flag or manifest)")
			}
			if numPartitions <= 0 {
				numPartitions = 1
			}

			names, err := readNames(inputFile)
			if err != nil {
				return err
			}

			p, err := newPipeline(ctx)
			if err != nil {
				return err
			}
			if workers <= 0 {
				workers = p.cfg.WorkerPoolSize
			}

			selected := batch.FilterPartition(names, numPartitions, partition)
			p.logger.Info("batch: starting run",
				"ecosystem", ecosystem, "total", len(names), "selected", len(selected),
				"partition", partition, "num_partitions", numPartitions, "workers", workers)

			items := make([]batch.Item, len(selected))
			for i, name := range selected {
				items[i] = batch.Item{Ecosystem: ecosystem, Name: name}
			}

			runner := &batch.Runner{
				Registry: p.registry,
				Git:      p.git,
				Vuln:     p.vuln,
				Cache:    p.cache,
				Logger:   p.logger,
			}

			outcomes := batch.RunPool(ctx, workers, items, runner, p.logger)

			failed := 0
			for _, o := range outcomes {
				if o.Err != nil {
					failed++
				}
			}
			if failed > 0 {
				p.logger.Info("batch: some packages failed", "failed", failed, "total", len(outcomes))
			}

			if err := batch.WriteResults(ctx, p.cfg.OutputRoot, outcomes); err != nil {
				return fmt.Errorf("writing results: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&manifestFile, "manifest", "", "path to a YAML batch manifest (overridden by any flag set explicitly)")
	cmd.Flags().StringVar(&ecosystem, "ecosystem", "", "ecosystem of every name in --input (pypi, npm, conda)")
	cmd.Flags().StringVar(&inputFile, "input", "", "path to a newline-delimited package-name list")
	cmd.Flags().IntVar(&numPartitions, "num-partitions", 1, "total number of partitions this run is divided into")
	cmd.Flags().IntVar(&partition, "partition", 0, "which partition (0-indexed) this run should process")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker pool size; defaults to WORKER_POOL_SIZE")
	return cmd
}

func readNames(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	return names, scanner.Err()
}
