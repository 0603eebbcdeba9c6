// Package cmd implements the opensourcescore.dev command-line, the same
// cobra-based structure the teacher's cmd package uses: a root command
// with one subcommand per mode of operation (serve, score, batch,
// version).
package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/openteamsinc/opensourcescore.dev/internal/cache"
	"github.com/openteamsinc/opensourcescore.dev/internal/config"
	"github.com/openteamsinc/opensourcescore.dev/internal/gitingest"
	"github.com/openteamsinc/opensourcescore.dev/internal/httpclient"
	"github.com/openteamsinc/opensourcescore.dev/internal/license"
	"github.com/openteamsinc/opensourcescore.dev/internal/log"
	"github.com/openteamsinc/opensourcescore.dev/internal/registry"
	"github.com/openteamsinc/opensourcescore.dev/internal/vuln"
)

// pipeline bundles every wired component a subcommand needs, built once
// from the process environment the way options.Options is built once in
// the teacher's rootCmd/serveCmd.
type pipeline struct {
	cfg      *config.Config
	logger   *log.Logger
	registry *registry.Registry
	vuln     *vuln.Fetcher
	git      *gitingest.Ingestor
	cache    *cache.Cache
}

func newPipeline(ctx context.Context) (*pipeline, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("cmd: loading config: %w", err)
	}

	logger := log.New(log.InfoLevel, cfg.RunEnv)
	client := httpclient.New(logger)

	c, err := cache.Open(ctx, cfg.CacheLocation, logger)
	if err != nil {
		return nil, fmt.Errorf("cmd: opening cache: %w", err)
	}

	matcher := license.New()
	ingestor := gitingest.New(time.Duration(cfg.MaxCloneTimeSeconds)*time.Second, matcher, logger)

	return &pipeline{
		cfg:      cfg,
		logger:   logger,
		registry: registry.New(client),
		vuln:     vuln.New(client),
		git:      ingestor,
		cache:    c,
	}, nil
}
